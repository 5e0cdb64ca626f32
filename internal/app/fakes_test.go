package app

import (
	"sync"
	"time"

	"github.com/jaakkos/backoffice/internal/domain"
)

type fakeSeeds struct {
	mu    sync.Mutex
	cat   domain.Catalog
	err   error
	loads int
}

func (f *fakeSeeds) Load() (*domain.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	c := domain.Catalog{
		Products: append([]domain.Product(nil), f.cat.Products...),
		Users:    append([]domain.User(nil), f.cat.Users...),
	}
	return &c, nil
}

func (f *fakeSeeds) set(cat domain.Catalog, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cat, f.err = cat, err
}

type fakePolicy struct {
	seedFile string
	strategy string
	latency  time.Duration
}

func (p fakePolicy) SeedFile() string                { return p.seedFile }
func (p fakePolicy) WatchSeed() bool                 { return p.seedFile != "" }
func (p fakePolicy) IDStrategy() string              { return p.strategy }
func (p fakePolicy) SimulatedLatency() time.Duration { return p.latency }

func testCatalog() domain.Catalog {
	return domain.Catalog{
		Products: []domain.Product{
			{ID: "1", Name: "Premium Headphones", SKU: "HDN-100", Quantity: 45, Tags: []string{"Electronics", "Audio"}, IsActive: true, IsPublished: true, Price: "$299.99"},
			{ID: "2", Name: "Wireless Mouse", SKU: "WMS-200", Quantity: 120, Tags: []string{"Electronics", "Computer Accessories"}, IsActive: true, IsPublished: true, Price: "$49.99"},
			{ID: "3", Name: "Smart Watch", SKU: "SWT-300", Quantity: 0, Tags: []string{"Wearables"}, IsActive: true, Price: "$199.99"},
			{ID: "4", Name: "Bluetooth Speaker", SKU: "SPK-400", Quantity: 75, Tags: []string{"Audio"}, Price: "$79.99"},
		},
		Users: []domain.User{
			{ID: "1", Name: "John Smith", Email: "john.smith@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive},
			{ID: "2", Name: "Jane Cooper", Email: "jane.cooper@example.com", Role: domain.RoleEditor, Status: domain.StatusActive},
			{ID: "3", Name: "Michael Wilson", Email: "michael.wilson@example.com", Role: domain.RoleViewer, Status: domain.StatusPending},
		},
	}
}
