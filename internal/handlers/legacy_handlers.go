package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/inventory-tracker/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gosimple/slug"
)

//
// --- Legacy Form Handlers ---
//

// AddItem is the handler for POST /addItem, the HTML form route. JSON bodies
// are accepted too. The payload has no sku field, so one is generated from
// the name.
func (h *Handlers) AddItem(c *gin.Context) {
	// 1. --- Bind Form or JSON ---
	var form AddItemForm
	var err error
	if c.ContentType() == binding.MIMEJSON {
		var in AddItemJSON
		err = c.ShouldBindJSON(&in)
		form = in.toForm()
	} else {
		err = c.ShouldBindWith(&form, binding.Form)
	}
	if err != nil {
		c.String(http.StatusBadRequest, msgLegacyRequired)
		return
	}

	// 2. --- Validate & Generate SKU ---
	newItem, err := form.toNewItem(h.generateSKU(form.Name))
	if err != nil {
		respondErrorText(c, "add item", err)
		return
	}

	// 3. --- Save to Database ---
	if _, err := h.Items.CreateItem(c.Request.Context(), newItem); err != nil {
		respondErrorText(c, "add item", err)
		return
	}

	c.String(http.StatusOK, "Item added successfully")
}

// skuSuffixRoom leaves space for "-" and a 13-digit unix millis suffix.
const skuSuffixRoom = 14

// generateSKU builds NAME-SLUG-<unix millis>, e.g. BLUE-MUG-1700000000000.
// Long slugs are cut so the sku fits models.MaxSKULength.
func (h *Handlers) generateSKU(name string) string {
	base := strings.ToUpper(slug.Make(name))
	if limit := models.MaxSKULength - skuSuffixRoom; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	if base == "" {
		base = "ITEM"
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return base + "-" + strconv.FormatInt(now().UnixMilli(), 10)
}
