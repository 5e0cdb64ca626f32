package repository

import (
	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/repository/seed"
)

// NewSeedSource returns a SeedSource reading the YAML catalog at path.
// An empty path yields the built-in sample catalog.
func NewSeedSource(path string) app.SeedSource {
	return seed.New(path)
}
