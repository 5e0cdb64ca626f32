// Package seed loads the catalog the dashboard starts from.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaakkos/backoffice/internal/dialog"
	"github.com/jaakkos/backoffice/internal/domain"
)

// ErrDuplicateID is returned when two records of one kind share an id.
var ErrDuplicateID = errors.New("duplicate id")

//go:embed sample.yaml
var sample []byte

// Source reads a YAML catalog file. It never writes.
type Source struct {
	path string
}

// New returns a Source for path. An empty path means the built-in sample catalog.
func New(path string) *Source {
	return &Source{path: path}
}

// Path returns the seed file path, or "" for the built-in catalog.
func (s *Source) Path() string { return s.path }

// Load implements app.SeedSource.
func (s *Source) Load() (*domain.Catalog, error) {
	if s.path == "" {
		return Sample()
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", s.path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", s.path, err)
	}
	return cat, nil
}

// Sample returns the built-in catalog of five products and five users.
func Sample() (*domain.Catalog, error) {
	return Parse(sample)
}

// Parse decodes and normalizes a YAML catalog. Unknown keys are rejected.
func Parse(data []byte) (*domain.Catalog, error) {
	var cat domain.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := normalize(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// normalize fills defaults and rejects records the dashboard forms would
// refuse, so every seeded record can be edited without first fixing it.
func normalize(cat *domain.Catalog) error {
	productIDs := make(map[string]bool, len(cat.Products))
	for i := range cat.Products {
		p := &cat.Products[i]
		if p.Quantity < 0 {
			return fmt.Errorf("product %d (%s): negative quantity %d", i, p.Name, p.Quantity)
		}
		if err := uniqueID(productIDs, p.ID); err != nil {
			return fmt.Errorf("product %d (%s): %w", i, p.Name, err)
		}
		p.Tags = domain.Dedupe(p.Tags)
		p.Images = domain.Dedupe(p.Images)
		if p.Price == "" {
			p.Price = domain.DefaultPrice
		}
		if _, errs := dialog.ProductFormFrom(*p).Validate(); len(errs) > 0 {
			return fmt.Errorf("product %d (%s): %w", i, p.Name, errs)
		}
	}
	userIDs := make(map[string]bool, len(cat.Users))
	for i := range cat.Users {
		u := &cat.Users[i]
		role, ok := domain.ParseRole(string(u.Role))
		if !ok {
			return fmt.Errorf("user %d (%s): unknown role %q", i, u.Name, u.Role)
		}
		status, ok := domain.ParseStatus(string(u.Status))
		if !ok {
			return fmt.Errorf("user %d (%s): unknown status %q", i, u.Name, u.Status)
		}
		if err := uniqueID(userIDs, u.ID); err != nil {
			return fmt.Errorf("user %d (%s): %w", i, u.Name, err)
		}
		u.Role, u.Status = role, status
		if u.AvatarURL == "" {
			u.AvatarURL = domain.PlaceholderImage
		}
		if _, errs := dialog.UserFormFrom(*u).Validate(); len(errs) > 0 {
			return fmt.Errorf("user %d (%s): %w", i, u.Name, errs)
		}
	}
	return nil
}

// uniqueID records id in seen. Empty ids are assigned later by the store.
func uniqueID(seen map[string]bool, id string) error {
	if id == "" {
		return nil
	}
	if seen[id] {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	seen[id] = true
	return nil
}
