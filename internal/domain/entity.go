// Package domain holds catalog entities and the rules that belong to them.
// It has no dependencies on other packages.
package domain

import (
	"slices"
	"strings"
)

// Flag names a boolean record field that can be flipped in place.
type Flag string

const (
	FlagActive    Flag = "isActive"
	FlagPublished Flag = "isPublished"
)

// ProductFlags is the fixed set of toggleable product fields.
var ProductFlags = []Flag{FlagActive, FlagPublished}

const (
	// DefaultPrice is assigned to products created from the dashboard.
	DefaultPrice = "$0.00"
	// PlaceholderImage is shown when a record has no image of its own.
	PlaceholderImage = "/placeholder.svg?height=40&width=40"
	// JustNow is the last-active text of a freshly created user.
	JustNow = "Just now"
)

// Product is a catalog product.
type Product struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	SKU              string   `json:"sku" yaml:"sku"` // advisory; uniqueness is not enforced
	Quantity         int      `json:"quantity" yaml:"quantity"`
	Tags             []string `json:"tags" yaml:"tags"`
	Images           []string `json:"images" yaml:"images"`
	Description      string   `json:"description" yaml:"description"`
	ShortDescription string   `json:"shortDescription" yaml:"short_description"`
	IsActive         bool     `json:"isActive" yaml:"is_active"`
	IsPublished      bool     `json:"isPublished" yaml:"is_published"`
	Price            string   `json:"price" yaml:"price"`
}

// ProductInput is the payload produced by a validated product form.
type ProductInput struct {
	Name             string
	SKU              string
	Quantity         int
	Tags             []string
	Images           []string
	Description      string
	ShortDescription string
	IsActive         bool
	IsPublished      bool
}

// NewProduct builds an unsaved product from a form payload.
func NewProduct(in ProductInput) Product {
	p := Product{}.Merge(in)
	p.Price = DefaultPrice
	return p
}

// Merge overwrites the form-editable fields of p with in. ID and Price are kept.
func (p Product) Merge(in ProductInput) Product {
	p.Name = in.Name
	p.SKU = in.SKU
	p.Quantity = in.Quantity
	p.Tags = Dedupe(in.Tags)
	p.Images = Dedupe(in.Images)
	p.Description = in.Description
	p.ShortDescription = in.ShortDescription
	p.IsActive = in.IsActive
	p.IsPublished = in.IsPublished
	return p
}

// RecordID returns the product identifier.
func (p Product) RecordID() string { return p.ID }

// WithID returns a copy of p carrying id.
func (p Product) WithID(id string) Product {
	p.ID = id
	return p
}

// DisplayName is the name shown in confirmations.
func (p Product) DisplayName() string { return p.Name }

// SearchFields are the values matched by the product search box: name, SKU and every tag.
func (p Product) SearchFields() []string {
	fields := make([]string, 0, 2+len(p.Tags))
	fields = append(fields, p.Name, p.SKU)
	return append(fields, p.Tags...)
}

// Toggle flips the named flag. It reports false for a field outside ProductFlags.
func (p Product) Toggle(f Flag) (Product, bool) {
	switch f {
	case FlagActive:
		p.IsActive = !p.IsActive
	case FlagPublished:
		p.IsPublished = !p.IsPublished
	default:
		return p, false
	}
	return p, true
}

// Thumbnail returns the first image or the placeholder.
func (p Product) Thumbnail() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return PlaceholderImage
}

// Role is a user's permission level.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// ParseRole matches s against the known roles, ignoring case.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Status is a user's account status.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusPending  Status = "Pending"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusActive, StatusInactive, StatusPending}

// ParseStatus matches s against the known statuses, ignoring case.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// User is a dashboard account.
type User struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Role       Role   `json:"role" yaml:"role"`
	Status     Status `json:"status" yaml:"status"`
	LastActive string `json:"lastActive" yaml:"last_active"`
	AvatarURL  string `json:"avatarUrl" yaml:"avatar_url"`
}

// UserInput is the payload produced by a validated user form.
type UserInput struct {
	Name   string
	Email  string
	Role   Role
	Status Status
}

// NewUser builds an unsaved user from a form payload.
func NewUser(in UserInput) User {
	u := User{}.Merge(in)
	u.LastActive = JustNow
	u.AvatarURL = PlaceholderImage
	return u
}

// Merge overwrites the form-editable fields of u with in.
func (u User) Merge(in UserInput) User {
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role
	u.Status = in.Status
	return u
}

// RecordID returns the user identifier.
func (u User) RecordID() string { return u.ID }

// WithID returns a copy of u carrying id.
func (u User) WithID(id string) User {
	u.ID = id
	return u
}

// DisplayName is the name shown in confirmations.
func (u User) DisplayName() string { return u.Name }

// SearchFields are the values matched by the user search box: name, email and role.
func (u User) SearchFields() []string {
	return []string{u.Name, u.Email, string(u.Role)}
}

// Toggle always reports false: users have no toggleable fields.
func (u User) Toggle(Flag) (User, bool) { return u, false }

// Catalog is a full set of records used to seed or reset the dashboard.
type Catalog struct {
	Products []Product `json:"products" yaml:"products"`
	Users    []User    `json:"users" yaml:"users"`
}

// Dedupe returns values with exact duplicates removed, keeping first occurrences in order.
// The result never aliases values.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
