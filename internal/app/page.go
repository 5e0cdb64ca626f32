package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/collection"
	"github.com/jaakkos/backoffice/internal/dialog"
	"github.com/jaakkos/backoffice/internal/domain"
	"github.com/jaakkos/backoffice/internal/search"
)

// Entity is a record a Page can list, search and edit.
type Entity[T any] interface {
	collection.Record[T]
	DisplayName() string
	SearchFields() []string
}

// PageConfig describes how a page turns records into forms and payloads into records.
type PageConfig[T any, F any, P any] struct {
	Name  string       // entity name used in logs
	Blank func() F     // create-mode form
	Fill  func(T) F    // edit-mode form
	Build func(P) T    // record from a create payload
	Merge func(T, P) T // record updated by an edit payload
	Delay time.Duration
}

// Page is the controller behind one list page. It owns the store, the search
// box and the selected record, and turns dialog results into store mutations.
// Dialogs never mutate the store themselves.
type Page[T Entity[T], F dialog.Form[P], P any] struct {
	cfg    PageConfig[T, F, P]
	store  *collection.Store[T]
	logger *zap.Logger

	mu       sync.Mutex
	query    string
	selected string
}

// ProductPage and UserPage are the two page instantiations.
type (
	ProductPage = Page[domain.Product, dialog.ProductForm, domain.ProductInput]
	UserPage    = Page[domain.User, dialog.UserForm, domain.UserInput]
)

// NewPage returns a controller over store.
func NewPage[T Entity[T], F dialog.Form[P], P any](store *collection.Store[T], cfg PageConfig[T, F, P], logger *zap.Logger) *Page[T, F, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page[T, F, P]{cfg: cfg, store: store, logger: logger.With(zap.String("entity", cfg.Name))}
}

// NewProductPage returns the products page controller.
func NewProductPage(store *collection.Store[domain.Product], delay time.Duration, logger *zap.Logger) *ProductPage {
	return NewPage(store, PageConfig[domain.Product, dialog.ProductForm, domain.ProductInput]{
		Name:  "product",
		Blank: dialog.NewProductForm,
		Fill:  dialog.ProductFormFrom,
		Build: domain.NewProduct,
		Merge: domain.Product.Merge,
		Delay: delay,
	}, logger)
}

// NewUserPage returns the users page controller.
func NewUserPage(store *collection.Store[domain.User], delay time.Duration, logger *zap.Logger) *UserPage {
	return NewPage(store, PageConfig[domain.User, dialog.UserForm, domain.UserInput]{
		Name:  "user",
		Blank: dialog.NewUserForm,
		Fill:  dialog.UserFormFrom,
		Build: domain.NewUser,
		Merge: domain.User.Merge,
		Delay: delay,
	}, logger)
}

// Store exposes the underlying collection, mainly for subscriptions.
func (p *Page[T, F, P]) Store() *collection.Store[T] { return p.store }

// List returns every record in insertion order.
func (p *Page[T, F, P]) List() []T { return p.store.List() }

// Get returns the record with id.
func (p *Page[T, F, P]) Get(id string) (T, bool) { return p.store.Get(id) }

// Search sets the search box text.
func (p *Page[T, F, P]) Search(query string) {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()
}

// Query returns the search box text.
func (p *Page[T, F, P]) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Visible returns the records matching the current search.
func (p *Page[T, F, P]) Visible() []T {
	return p.Filter(p.Query())
}

// Filter returns the records matching query without touching the search box.
func (p *Page[T, F, P]) Filter(query string) []T {
	return search.Filter(p.store.List(), query, func(r T) []string { return r.SearchFields() })
}

// Selected is the id of the record whose edit or delete dialog is in progress, or "".
func (p *Page[T, F, P]) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

func (p *Page[T, F, P]) selectRecord(id string) {
	p.mu.Lock()
	p.selected = id
	p.mu.Unlock()
}

// unselect clears the selection if it still points at id.
func (p *Page[T, F, P]) unselect(id string) {
	p.mu.Lock()
	if p.selected == id {
		p.selected = ""
	}
	p.mu.Unlock()
}

// OpenCreate opens a create dialog with default values. Submitting it appends a record.
func (p *Page[T, F, P]) OpenCreate() *dialog.Mutation[F, P] {
	return p.openCreate(nil)
}

func (p *Page[T, F, P]) openCreate(created *T) *dialog.Mutation[F, P] {
	m := dialog.NewMutation(p.cfg.Blank, p.cfg.Delay, func(in P) {
		rec := p.store.Create(p.cfg.Build(in))
		p.logger.Debug("record created", zap.String("id", rec.RecordID()))
		if created != nil {
			*created = rec
		}
	})
	_ = m.OpenBlank()
	return m
}

// OpenEdit selects the record with id and opens an edit dialog pre-filled from it.
// Submitting merges the draft into that record and clears the selection.
func (p *Page[T, F, P]) OpenEdit(id string) (*dialog.Mutation[F, P], bool) {
	return p.openEdit(id, nil)
}

func (p *Page[T, F, P]) openEdit(id string, updated *T) (*dialog.Mutation[F, P], bool) {
	rec, ok := p.store.Get(id)
	if !ok {
		return nil, false
	}
	p.selectRecord(id)
	m := dialog.NewMutation(p.cfg.Blank, p.cfg.Delay, func(in P) {
		defer p.unselect(id)
		rec, ok := p.store.Update(id, func(cur T) T { return p.cfg.Merge(cur, in) })
		if !ok {
			p.logger.Debug("edited record no longer exists", zap.String("id", id))
			return
		}
		p.logger.Debug("record updated", zap.String("id", id))
		if updated != nil {
			*updated = rec
		}
	})
	_ = m.Open(p.cfg.Fill(rec))
	return m, true
}

// OpenDelete selects the record with id and opens a confirmation showing its name.
// Confirming removes that record and clears the selection.
func (p *Page[T, F, P]) OpenDelete(id string) (*dialog.Confirm, bool) {
	return p.openDelete(id, nil)
}

func (p *Page[T, F, P]) openDelete(id string, removed *T) (*dialog.Confirm, bool) {
	rec, ok := p.store.Get(id)
	if !ok {
		return nil, false
	}
	p.selectRecord(id)
	c := dialog.NewConfirm(p.cfg.Delay, func() {
		defer p.unselect(id)
		rec, ok := p.store.Delete(id)
		if !ok {
			return
		}
		p.logger.Debug("record deleted", zap.String("id", id))
		if removed != nil {
			*removed = rec
		}
	})
	_ = c.Open(rec.DisplayName())
	return c, true
}

// Toggle flips field on the record with id.
func (p *Page[T, F, P]) Toggle(id string, field domain.Flag) (T, bool) {
	rec, ok := p.store.Toggle(id, field)
	if ok {
		p.logger.Debug("record toggled", zap.String("id", id), zap.String("field", string(field)))
	}
	return rec, ok
}

// Create runs a create dialog to completion: fill edits the default draft,
// then the dialog is submitted and awaited. Validation failures are returned
// as dialog.FieldErrors.
func (p *Page[T, F, P]) Create(ctx context.Context, fill func(*F)) (T, error) {
	var created T
	m := p.openCreate(&created)
	if err := submit(ctx, m, fill); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Edit runs an edit dialog for id to completion. It reports false if the
// record does not exist, either up front or by the time the dialog commits.
func (p *Page[T, F, P]) Edit(ctx context.Context, id string, fill func(*F)) (T, bool, error) {
	var updated T
	m, ok := p.openEdit(id, &updated)
	if !ok {
		return updated, false, nil
	}
	if err := submit(ctx, m, fill); err != nil {
		p.unselect(id)
		return updated, true, err
	}
	if updated.RecordID() == "" {
		return updated, false, nil
	}
	return updated, true, nil
}

// Delete runs a delete confirmation for id to completion.
func (p *Page[T, F, P]) Delete(ctx context.Context, id string) (T, bool, error) {
	var removed T
	c, ok := p.openDelete(id, &removed)
	if !ok {
		return removed, false, nil
	}
	op, err := c.Confirm(ctx)
	if err != nil {
		p.unselect(id)
		return removed, true, err
	}
	<-op.Done()
	if err := op.Err(); err != nil {
		_ = c.Cancel()
		p.unselect(id)
		return removed, true, err
	}
	if removed.RecordID() == "" {
		return removed, false, nil
	}
	return removed, true, nil
}

func submit[F dialog.Form[P], P any](ctx context.Context, m *dialog.Mutation[F, P], fill func(*F)) error {
	if fill != nil {
		if err := m.Edit(fill); err != nil {
			return err
		}
	}
	op, err := m.Submit(ctx)
	if err != nil {
		_ = m.Cancel()
		return err
	}
	<-op.Done()
	if err := op.Err(); err != nil {
		_ = m.Cancel()
		return err
	}
	return nil
}
