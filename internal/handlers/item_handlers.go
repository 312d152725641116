package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Item Handlers ---
//

// ListItems is the handler for GET /items?query=<text> (alias q)
func (h *Handlers) ListItems(c *gin.Context) {
	q, err := parseItemQuery(c.Query("query"), c.Query("q"))
	if err != nil {
		respondError(c, "list items", err)
		return
	}

	items, err := h.Items.ListItems(c.Request.Context(), q)
	if err != nil {
		respondError(c, "list items", err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetItem is the handler for GET /items/:id
func (h *Handlers) GetItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "get item", err)
		return
	}

	item, err := h.Items.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateItem is the handler for POST /items
func (h *Handlers) CreateItem(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if isMissingBody(err) {
			respondError(c, "create item", invalid(msgCreateRequired))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	newItem, err := input.toNewItem()
	if err != nil {
		respondError(c, "create item", err)
		return
	}

	// 2. --- Save to Database ---
	item, err := h.Items.CreateItem(c.Request.Context(), newItem)
	if err != nil {
		respondError(c, "create item", err)
		return
	}

	// 3. --- Send Response ---
	c.JSON(http.StatusCreated, item)
}

// AdjustItemQuantity is the handler for POST /items/:id/adjust
func (h *Handlers) AdjustItemQuantity(c *gin.Context) {
	// 1. --- Validate Path & Body ---
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "adjust item", err)
		return
	}
	var input AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "adjust item", invalid(msgDelta))
		return
	}
	delta, err := input.toDelta()
	if err != nil {
		respondError(c, "adjust item", err)
		return
	}

	// 2. --- Conditional Update ---
	item, err := h.Items.AdjustQuantity(c.Request.Context(), id, delta)
	if err != nil {
		respondError(c, "adjust item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem is the handler for POST /items/:id/edit, PUT /items/:id and
// the legacy POST /editItem/:id
func (h *Handlers) UpdateItem(c *gin.Context) {
	// 1. --- Validate Path & Body ---
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "update item", err)
		return
	}
	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	patch, err := input.toPatch()
	if err != nil {
		respondError(c, "update item", err)
		return
	}

	// 2. --- Execute Update ---
	item, err := h.Items.UpdateItem(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, "update item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem is the handler for DELETE /items/:id
func (h *Handlers) DeleteItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "delete item", err)
		return
	}

	if err := h.Items.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, "delete item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item deleted successfully",
	})
}

// RejectMissingID answers DELETE /items, which names no item.
func (h *Handlers) RejectMissingID(c *gin.Context) {
	respondError(c, "delete item", invalid(msgInvalidID))
}
