package dialog

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/jaakkos/backoffice/internal/domain"
)

// Field length limits shared by the product and user forms.
const (
	MinNameLength            = 2
	MinSKULength             = 2
	MaxShortDescriptionRunes = 200
)

// Validation messages shown next to product fields.
const (
	MsgNameTooShort        = "Name must be at least 2 characters."
	MsgSKUTooShort         = "SKU must be at least 2 characters."
	MsgQuantityNegative    = "Quantity must be a positive number."
	MsgQuantityNotWhole    = "Quantity must be a whole number."
	MsgQuantityTooLarge    = "Quantity must be at most 2147483647."
	MsgShortDescriptionLen = "Short description must be less than 200 characters."
)

// ProductForm is the draft edited in the product dialog.
// Quantity holds the raw text typed into the number field.
type ProductForm struct {
	Name             string
	SKU              string
	Quantity         string
	ShortDescription string
	Description      string
	Tags             ListInput
	Images           ListInput
	IsActive         bool
	IsPublished      bool
}

// NewProductForm returns the create-mode defaults.
func NewProductForm() ProductForm {
	return ProductForm{Quantity: "0", IsActive: true}
}

// ProductFormFrom pre-fills the form from an existing product.
func ProductFormFrom(p domain.Product) ProductForm {
	return ProductForm{
		Name:             p.Name,
		SKU:              p.SKU,
		Quantity:         cast.ToString(p.Quantity),
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Tags:             NewListInput(p.Tags...),
		Images:           NewListInput(p.Images...),
		IsActive:         p.IsActive,
		IsPublished:      p.IsPublished,
	}
}

// Validate implements Form.
func (f ProductForm) Validate() (domain.ProductInput, FieldErrors) {
	errs := FieldErrors{}
	if utf8.RuneCountInString(f.Name) < MinNameLength {
		errs["name"] = MsgNameTooShort
	}
	if utf8.RuneCountInString(f.SKU) < MinSKULength {
		errs["sku"] = MsgSKUTooShort
	}
	qty, msg := parseQuantity(f.Quantity)
	if msg != "" {
		errs["quantity"] = msg
	}
	if utf8.RuneCountInString(f.ShortDescription) > MaxShortDescriptionRunes {
		errs["shortDescription"] = MsgShortDescriptionLen
	}
	if len(errs) > 0 {
		return domain.ProductInput{}, errs
	}
	return domain.ProductInput{
		Name:             f.Name,
		SKU:              f.SKU,
		Quantity:         qty,
		Tags:             f.Tags.Values(),
		Images:           f.Images.Values(),
		Description:      f.Description,
		ShortDescription: f.ShortDescription,
		IsActive:         f.IsActive,
		IsPublished:      f.IsPublished,
	}, nil
}

// parseQuantity coerces the number field. An empty field counts as zero.
func parseQuantity(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ""
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, MsgQuantityNotWhole
	}
	if v < 0 {
		return 0, MsgQuantityNegative
	}
	if v != math.Trunc(v) {
		return 0, MsgQuantityNotWhole
	}
	if v > math.MaxInt32 {
		return 0, MsgQuantityTooLarge
	}
	return int(v), ""
}
