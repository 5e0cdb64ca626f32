package app

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/collection"
	"github.com/jaakkos/backoffice/internal/domain"
)

// Pages is what Run and Query hand to their callbacks.
type Pages struct {
	Products *ProductPage
	Users    *UserPage
}

// CatalogService owns the products and users pages and the seed they reset from.
type CatalogService struct {
	seeds  SeedSource
	policy Policy
	logger *zap.Logger

	// mu serializes writers, including the simulated latency of a dialog.
	// view is held by readers and, only for the swap itself, by Reload.
	mu    sync.Mutex
	view  sync.RWMutex
	pages Pages
}

// NewCatalogService loads the seed catalog and builds both pages.
func NewCatalogService(seeds SeedSource, policy Policy, logger *zap.Logger) (*CatalogService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cat, err := seeds.Load()
	if err != nil {
		return nil, fmt.Errorf("seed load: %w", err)
	}
	productIDs, err := collection.NewIDGenerator(policy.IDStrategy())
	if err != nil {
		return nil, err
	}
	userIDs, err := collection.NewIDGenerator(policy.IDStrategy())
	if err != nil {
		return nil, err
	}
	products, err := collection.New(productIDs, cat.Products)
	if err != nil {
		return nil, fmt.Errorf("seed products: %w", err)
	}
	users, err := collection.New(userIDs, cat.Users)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	delay := policy.SimulatedLatency()
	s := &CatalogService{
		seeds:  seeds,
		policy: policy,
		logger: logger,
		pages: Pages{
			Products: NewProductPage(products, delay, logger),
			Users:    NewUserPage(users, delay, logger),
		},
	}
	logger.Info("catalog loaded",
		zap.Int("products", products.Len()),
		zap.Int("users", users.Len()),
		zap.String("id_strategy", policy.IDStrategy()))
	return s, nil
}

// Run runs fn as the only writer. Use it for mutations. Readers in Query are
// not blocked while fn waits on a dialog; they see each store change as it commits.
func (s *CatalogService) Run(fn func(*Pages) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.pages)
}

// Query runs fn with shared access to the pages. fn must not mutate.
func (s *CatalogService) Query(fn func(*Pages) error) error {
	s.view.RLock()
	defer s.view.RUnlock()
	return fn(&s.pages)
}

// Products returns the products page.
func (s *CatalogService) Products() *ProductPage { return s.pages.Products }

// Users returns the users page.
func (s *CatalogService) Users() *UserPage { return s.pages.Users }

// Reload reads the seed again and resets both collections. Both record sets
// are checked before either store changes, so a seed that fails to load or
// validate leaves the current collections in place.
func (s *CatalogService) Reload() error {
	cat, err := s.seeds.Load()
	if err != nil {
		return fmt.Errorf("seed load: %w", err)
	}
	return s.Run(func(p *Pages) error {
		products, err := p.Products.Store().Prepare(cat.Products)
		if err != nil {
			return fmt.Errorf("reset products: %w", err)
		}
		users, err := p.Users.Store().Prepare(cat.Users)
		if err != nil {
			return fmt.Errorf("reset users: %w", err)
		}

		s.view.Lock()
		p.Products.Store().Replace(products)
		p.Users.Store().Replace(users)
		s.view.Unlock()

		s.logger.Info("catalog reloaded",
			zap.Int("products", products.Len()),
			zap.Int("users", users.Len()))
		return nil
	})
}

// Stats returns the summary cards of both pages.
func (s *CatalogService) Stats() Stats {
	var st Stats
	_ = s.Query(func(p *Pages) error {
		st = Stats{Products: productStats(p.Products.List()), Users: userStats(p.Users.List())}
		return nil
	})
	return st
}

// Policy returns the policy for handlers that need configuration.
func (s *CatalogService) Policy() Policy { return s.policy }

// Catalog returns a snapshot of both collections.
func (s *CatalogService) Catalog() domain.Catalog {
	var c domain.Catalog
	_ = s.Query(func(p *Pages) error {
		c = domain.Catalog{Products: p.Products.List(), Users: p.Users.List()}
		return nil
	})
	return c
}
