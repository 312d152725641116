package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/01moynul/inventory-tracker/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// --- Inputs ---

// CreateItemInput defines the JSON for POST /items.
// Quantity and Price stay raw so strings like "10" can be coerced explicitly.
type CreateItemInput struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Quantity    json.RawMessage `json:"quantity" binding:"required"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
}

// UpdateItemInput defines the JSON for POST /items/:id/edit. Absent or null
// fields keep their stored values.
type UpdateItemInput struct {
	Name        *string         `json:"name"`
	SKU         *string         `json:"sku"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
	Quantity    json.RawMessage `json:"quantity"`
}

// AdjustInput defines the JSON for POST /items/:id/adjust.
type AdjustInput struct {
	Delta json.RawMessage `json:"delta" binding:"required"`
}

// AddItemForm is the legacy HTML form payload for POST /addItem.
type AddItemForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Quantity    string `form:"quantity"`
}

// AddItemJSON is the JSON flavour of AddItemForm; price and quantity may be
// numbers or numeric strings.
type AddItemJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	Quantity    json.RawMessage `json:"quantity"`
}

const (
	msgCreateRequired   = "name, sku, quantity required"
	msgCreateQuantity   = "quantity must be >= 0 integer"
	msgUpdateQuantity   = "quantity must be a non-negative integer"
	msgUpdatePrice      = "price must be a number >= 0"
	msgDelta            = "delta must be non-zero integer"
	msgQueryConflict    = "query and q disagree; send only one"
	msgEmptyNameOrSKU   = "name and sku cannot be empty"
	msgLegacyRequired   = "Name and quantity required"
	msgLegacyQuantity   = "Quantity must be a non-negative number"
	msgNameTooLong      = "name must be at most 255 characters"
	msgSKUTooLong       = "sku must be at most 191 characters"
	msgDescTooLong      = "description must be at most 65535 bytes"
	priceFractionDigits = 2

	// Numeric input outside these bounds is rejected before any decimal
	// arithmetic, which would otherwise expand exponents like 1e50000000.
	maxNumberLength   = 32
	maxNumberExponent = 16
)

var maxPrice = decimal.RequireFromString("9999999999.99")

// --- Path & Query ---

// parseID accepts only positive base-10 integers.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(msgInvalidID)
	}
	return id, nil
}

// parseItemQuery normalizes the search text. "query" and "q" are aliases;
// supplying both with different values is rejected rather than silently
// preferring one.
func parseItemQuery(query, q string) (models.ItemQuery, error) {
	query = normalizeSearch(query)
	q = normalizeSearch(q)
	if query != "" && q != "" && query != q {
		return models.ItemQuery{}, invalid(msgQueryConflict)
	}
	if query == "" {
		query = q
	}
	return models.ItemQuery{Text: query}, nil
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// --- Body Parsing ---

// isMissingBody reports a bind error caused by absent fields or an empty body,
// as opposed to malformed JSON.
func isMissingBody(err error) bool {
	var vErrs validator.ValidationErrors
	return errors.As(err, &vErrs) || errors.Is(err, io.EOF)
}

// toNewItem validates a bound create request.
func (in CreateItemInput) toNewItem() (models.NewItem, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" || sku == "" {
		return models.NewItem{}, invalid(msgCreateRequired)
	}

	var desc string
	if in.Description != nil {
		desc = *in.Description
	}
	if err := checkTextLimits(name, sku, desc); err != nil {
		return models.NewItem{}, err
	}

	qty, ok := quantityFromJSON(in.Quantity)
	if !ok {
		return models.NewItem{}, invalid(msgCreateQuantity)
	}

	// Invalid or negative prices fall back to zero on create.
	price := decimal.Zero
	if len(in.Price) > 0 {
		if p, ok := priceFromJSON(in.Price); ok {
			price = p
		}
	}

	return models.NewItem{Name: name, SKU: sku, Description: desc, Quantity: qty, Price: price}, nil
}

// toPatch validates a bound update request.
func (in UpdateItemInput) toPatch() (models.ItemPatch, error) {
	var patch models.ItemPatch

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return patch, invalid(msgEmptyNameOrSKU)
		}
		patch.Name = &name
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return patch, invalid(msgEmptyNameOrSKU)
		}
		patch.SKU = &sku
	}
	patch.Description = in.Description
	if err := checkPatchLimits(patch); err != nil {
		return patch, err
	}

	if present(in.Quantity) {
		qty, ok := quantityFromJSON(in.Quantity)
		if !ok {
			return patch, invalid(msgUpdateQuantity)
		}
		patch.Quantity = &qty
	}
	if present(in.Price) {
		price, ok := priceFromJSON(in.Price)
		if !ok {
			return patch, invalid(msgUpdatePrice)
		}
		patch.Price = &price
	}
	return patch, nil
}

// toDelta accepts a JSON integer only; strings and fractions are rejected.
func (in AdjustInput) toDelta() (int, error) {
	dec := json.NewDecoder(bytes.NewReader(in.Delta))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, invalid(msgDelta)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, invalid(msgDelta)
	}
	delta, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil || delta == 0 {
		return 0, invalid(msgDelta)
	}
	return int(delta), nil
}

// toNewItem validates the legacy form. The caller supplies the generated sku.
func (f AddItemForm) toNewItem(sku string) (models.NewItem, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" || strings.TrimSpace(f.Quantity) == "" {
		return models.NewItem{}, invalid(msgLegacyRequired)
	}
	if err := checkTextLimits(name, sku, f.Description); err != nil {
		return models.NewItem{}, err
	}
	qty, ok := quantityFromString(f.Quantity)
	if !ok {
		return models.NewItem{}, invalid(msgLegacyQuantity)
	}
	price, ok := priceFromString(f.Price)
	if !ok {
		price = decimal.Zero
	}
	return models.NewItem{
		Name:        name,
		SKU:         sku,
		Description: f.Description,
		Price:       price,
		Quantity:    qty,
	}, nil
}

// toForm renders the JSON payload as form text so both flavours share one
// validation path.
func (in AddItemJSON) toForm() AddItemForm {
	return AddItemForm{
		Name:        in.Name,
		Description: in.Description,
		Price:       rawText(in.Price),
		Quantity:    rawText(in.Quantity),
	}
}

// --- Limits ---

// checkTextLimits enforces the column sizes in models. Empty values pass;
// presence is checked by the callers.
func checkTextLimits(name, sku, description string) error {
	switch {
	case utf8.RuneCountInString(name) > models.MaxNameLength:
		return invalid(msgNameTooLong)
	case utf8.RuneCountInString(sku) > models.MaxSKULength:
		return invalid(msgSKUTooLong)
	case len(description) > models.MaxDescriptionBytes:
		return invalid(msgDescTooLong)
	}
	return nil
}

func checkPatchLimits(p models.ItemPatch) error {
	var name, sku, desc string
	if p.Name != nil {
		name = *p.Name
	}
	if p.SKU != nil {
		sku = *p.SKU
	}
	if p.Description != nil {
		desc = *p.Description
	}
	return checkTextLimits(name, sku, desc)
}

// --- Coercion ---

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// rawText returns a JSON string unquoted and any other scalar as its literal
// text. Absent and null become "".
func rawText(raw json.RawMessage) string {
	if !present(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// decimalFromJSON accepts a JSON number or a numeric string.
func decimalFromJSON(raw json.RawMessage) (decimal.Decimal, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return decimal.Zero, false
	}
	switch t := v.(type) {
	case json.Number:
		return decimalFromString(t.String())
	case string:
		return decimalFromString(t)
	}
	return decimal.Zero, false
}

func decimalFromString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNumberLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent {
		return decimal.Zero, false
	}
	return d, true
}

func quantityFromJSON(raw json.RawMessage) (int, bool) {
	d, ok := decimalFromJSON(raw)
	if !ok {
		return 0, false
	}
	return quantityFromDecimal(d)
}

func quantityFromString(s string) (int, bool) {
	d, ok := decimalFromString(s)
	if !ok {
		return 0, false
	}
	return quantityFromDecimal(d)
}

// quantityFromDecimal requires a whole number in [0, MaxInt32].
func quantityFromDecimal(d decimal.Decimal) (int, bool) {
	if !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(models.MaxQuantity)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func priceFromJSON(raw json.RawMessage) (decimal.Decimal, bool) {
	d, ok := decimalFromJSON(raw)
	if !ok {
		return decimal.Zero, false
	}
	return priceFromDecimal(d)
}

func priceFromString(s string) (decimal.Decimal, bool) {
	d, ok := decimalFromString(s)
	if !ok {
		return decimal.Zero, false
	}
	return priceFromDecimal(d)
}

// priceFromDecimal requires 0 <= price <= maxPrice and rounds to cents.
func priceFromDecimal(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsNegative() {
		return decimal.Zero, false
	}
	d = d.Round(priceFractionDigits)
	if d.GreaterThan(maxPrice) {
		return decimal.Zero, false
	}
	return d, true
}
