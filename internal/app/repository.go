// Package app implements the dashboard use cases and defines ports (seed source, policy).
package app

import (
	"github.com/jaakkos/backoffice/internal/domain"
)

// SeedSource loads the catalog the collections start from and reset to.
// Implementation: internal/repository/seed.
type SeedSource interface {
	Load() (*domain.Catalog, error)
}
