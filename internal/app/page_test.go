package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaakkos/backoffice/internal/collection"
	"github.com/jaakkos/backoffice/internal/dialog"
	"github.com/jaakkos/backoffice/internal/domain"
)

func newTestProductPage(t *testing.T, delay time.Duration) *ProductPage {
	t.Helper()
	store, err := collection.New(collection.NewSequenceIDs(), testCatalog().Products)
	require.NoError(t, err)
	return NewProductPage(store, delay, nil)
}

func newTestUserPage(t *testing.T) *UserPage {
	t.Helper()
	store, err := collection.New(collection.NewSequenceIDs(), testCatalog().Users)
	require.NoError(t, err)
	return NewUserPage(store, 0, nil)
}

func ptr[T any](v T) *T { return &v }

func TestPageSearch(t *testing.T) {
	p := newTestProductPage(t, 0)
	assert.Len(t, p.Visible(), 4)

	p.Search("AUDIO")
	assert.Equal(t, "AUDIO", p.Query())
	visible := p.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "1", visible[0].ID)
	assert.Equal(t, "4", visible[1].ID)

	assert.Len(t, p.Filter("mouse"), 1)
	assert.Equal(t, "AUDIO", p.Query(), "Filter leaves the search box alone")
}

func TestPageCreateOnEmptyCollection(t *testing.T) {
	store, err := collection.New[domain.Product](collection.NewSequenceIDs(), nil)
	require.NoError(t, err)
	p := NewProductPage(store, 0, nil)

	rec, err := p.Create(context.Background(), func(f *dialog.ProductForm) {
		f.Name = "X1"
		f.SKU = "AB"
		f.Quantity = "5"
	})
	require.NoError(t, err)
	assert.Equal(t, "1", rec.ID)
	assert.Equal(t, domain.DefaultPrice, rec.Price)
	assert.True(t, rec.IsActive)
	assert.False(t, rec.IsPublished)
	assert.Equal(t, 1, store.Len())
}

func TestPageCreateValidationError(t *testing.T) {
	p := newTestProductPage(t, 0)
	_, err := p.Create(context.Background(), ProductChanges{Name: ptr("X"), SKU: ptr("A")}.Apply)

	var fe dialog.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, dialog.MsgNameTooShort, fe["name"])
	assert.Equal(t, dialog.MsgSKUTooShort, fe["sku"])
	assert.Len(t, p.List(), 4)
}

func TestPageEditChangesOnlyProvidedFields(t *testing.T) {
	p := newTestProductPage(t, 0)
	before, _ := p.Get("2")

	after, ok, err := p.Edit(context.Background(), "2", ProductChanges{Quantity: 7.0, IsPublished: ptr(false)}.Apply)
	require.NoError(t, err)
	require.True(t, ok)

	want := before
	want.Quantity = 7
	want.IsPublished = false
	if diff := cmp.Diff(want, after, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Edit mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, p.Selected())
}

func TestPageEditMissingID(t *testing.T) {
	p := newTestProductPage(t, 0)
	before := p.List()

	_, ok, err := p.Edit(context.Background(), "404", ProductChanges{Name: ptr("Ghost")}.Apply)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, p.List())
}

func TestPageDelete(t *testing.T) {
	p := newTestProductPage(t, 0)

	removed, ok, err := p.Delete(context.Background(), "3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Smart Watch", removed.Name)
	assert.Len(t, p.List(), 3)
	_, found := p.Get("3")
	assert.False(t, found)

	_, ok, err = p.Delete(context.Background(), "3")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, p.List(), 3)
}

func TestPageInteractiveDeleteFlow(t *testing.T) {
	p := newTestProductPage(t, 0)

	c, ok := p.OpenDelete("2")
	require.True(t, ok)
	assert.Equal(t, "Wireless Mouse", c.Target())
	assert.Equal(t, "2", p.Selected())

	require.NoError(t, c.Cancel())
	assert.Len(t, p.List(), 4)

	require.NoError(t, c.Open("Wireless Mouse"))
	op, err := c.Confirm(context.Background())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))
	assert.Len(t, p.List(), 3)
	assert.Empty(t, p.Selected())

	_, ok = p.OpenDelete("404")
	assert.False(t, ok)
}

func TestPageInteractiveEditFlow(t *testing.T) {
	p := newTestProductPage(t, 0)

	m, ok := p.OpenEdit("1")
	require.True(t, ok)
	assert.Equal(t, "Premium Headphones", m.Draft().Name)
	assert.Equal(t, []string{"Electronics", "Audio"}, m.Draft().Tags.Items)

	require.NoError(t, m.Edit(func(f *dialog.ProductForm) {
		f.Tags.Type("Audio")
		f.Tags.Add()
		f.Tags.Remove("Electronics")
		f.Images.Type("/hp.png")
		f.Images.Key(dialog.KeyEnter)
	}))
	op, err := m.Submit(context.Background())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	got, _ := p.Get("1")
	assert.Equal(t, []string{"Audio"}, got.Tags)
	assert.Equal(t, []string{"/hp.png"}, got.Images)
	assert.Equal(t, "$299.99", got.Price)
}

func TestPageOpenCreateCancel(t *testing.T) {
	p := newTestProductPage(t, 0)
	m := p.OpenCreate()
	assert.Equal(t, dialog.Open, m.State())
	assert.Equal(t, "0", m.Draft().Quantity)
	require.NoError(t, m.Cancel())
	assert.Len(t, p.List(), 4)
}

func TestPageToggle(t *testing.T) {
	p := newTestProductPage(t, 0)
	before, _ := p.Get("1")

	_, ok := p.Toggle("1", domain.FlagActive)
	require.True(t, ok)
	after, ok := p.Toggle("1", domain.FlagActive)
	require.True(t, ok)
	assert.Equal(t, before, after)

	_, ok = p.Toggle("1", "price")
	assert.False(t, ok)
	_, ok = p.Toggle("404", domain.FlagPublished)
	assert.False(t, ok)
}

func TestPageCancelledContextLeavesCollection(t *testing.T) {
	p := newTestProductPage(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Create(ctx, ProductChanges{Name: ptr("Late"), SKU: ptr("LT")}.Apply)
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = p.Delete(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Len(t, p.List(), 4)
	assert.Empty(t, p.Selected())
}

func TestUserPage(t *testing.T) {
	p := newTestUserPage(t)

	u, err := p.Create(context.Background(), UserChanges{Name: ptr("Ada"), Email: ptr("ada@example.com"), Role: ptr("admin")}.Apply)
	require.NoError(t, err)
	assert.Equal(t, "4", u.ID)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, domain.StatusActive, u.Status)
	assert.Equal(t, domain.JustNow, u.LastActive)

	_, err = p.Create(context.Background(), UserChanges{Name: ptr("Bob"), Email: ptr("not-an-email")}.Apply)
	var fe dialog.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, dialog.MsgInvalidEmail, fe["email"])

	edited, ok, err := p.Edit(context.Background(), "3", UserChanges{Status: ptr("Active")}.Apply)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusActive, edited.Status)
	assert.Equal(t, "Michael Wilson", edited.Name)

	assert.Len(t, p.Filter("editor"), 1)

	_, ok = p.Toggle("1", domain.FlagActive)
	assert.False(t, ok)
}
