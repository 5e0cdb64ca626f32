package app

import (
	"github.com/spf13/cast"

	"github.com/jaakkos/backoffice/internal/dialog"
)

// ProductChanges is a partial product form submitted by the API or a tool.
// Nil fields leave the draft as it is.
type ProductChanges struct {
	Name             *string   `json:"name,omitempty"`
	SKU              *string   `json:"sku,omitempty"`
	Quantity         any       `json:"quantity,omitempty"` // number or numeric text
	Tags             *[]string `json:"tags,omitempty"`
	Images           *[]string `json:"images,omitempty"`
	Description      *string   `json:"description,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	IsActive         *bool     `json:"isActive,omitempty"`
	IsPublished      *bool     `json:"isPublished,omitempty"`
}

// Apply copies the provided fields into f.
func (c ProductChanges) Apply(f *dialog.ProductForm) {
	setString(&f.Name, c.Name)
	setString(&f.SKU, c.SKU)
	if c.Quantity != nil {
		f.Quantity = cast.ToString(c.Quantity)
	}
	if c.Tags != nil {
		f.Tags = fillList(*c.Tags)
	}
	if c.Images != nil {
		f.Images = fillList(*c.Images)
	}
	setString(&f.Description, c.Description)
	setString(&f.ShortDescription, c.ShortDescription)
	if c.IsActive != nil {
		f.IsActive = *c.IsActive
	}
	if c.IsPublished != nil {
		f.IsPublished = *c.IsPublished
	}
}

// UserChanges is a partial user form submitted by the API or a tool.
type UserChanges struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Apply copies the provided fields into f.
func (c UserChanges) Apply(f *dialog.UserForm) {
	setString(&f.Name, c.Name)
	setString(&f.Email, c.Email)
	setString(&f.Role, c.Role)
	setString(&f.Status, c.Status)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// fillList types each value into a fresh list input, the way the dialog's add button does.
func fillList(values []string) dialog.ListInput {
	var l dialog.ListInput
	for _, v := range values {
		l.Type(v)
		l.Add()
	}
	l.Type("")
	return l
}
