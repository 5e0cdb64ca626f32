package catalog

import (
	"strings"
	"testing"

	"github.com/jaakkos/backoffice/internal/domain"
)

func TestListProductsFiltersBySubstring(t *testing.T) {
	s := testServer(newTestService(t))

	all := mustCall(t, s, "list_products", nil)
	if !strings.HasPrefix(all, "5 product(s):") {
		t.Errorf("expected 5 products, got:\n%s", all)
	}

	text := mustCall(t, s, "list_products", map[string]any{"q": "KEYBOARD"})
	if !strings.HasPrefix(text, "1 product(s):") || !strings.Contains(text, "Mechanical Keyboard") {
		t.Errorf("filter by name failed:\n%s", text)
	}

	text = mustCall(t, s, "list_products", map[string]any{"q": "zzz"})
	if text != `No products match "zzz".` {
		t.Errorf("unexpected empty result: %q", text)
	}
}

func TestGetProduct(t *testing.T) {
	s := testServer(newTestService(t))

	text := mustCall(t, s, "get_product", map[string]any{"id": "1"})
	for _, want := range []string{"Product 1", "name: Premium Headphones", "price: $299.99", "quantity: 45"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}

	if msg := mustFail(t, s, "get_product", map[string]any{"id": "404"}); !strings.Contains(msg, "not found") {
		t.Errorf("unexpected error: %s", msg)
	}
	if msg := mustFail(t, s, "get_product", map[string]any{}); !strings.Contains(msg, "id is required") {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestCreateProduct(t *testing.T) {
	svc := newTestService(t)
	s := testServer(svc)

	text := mustCall(t, s, "create_product", map[string]any{
		"name":     "Desk Lamp",
		"sku":      "LMP-700",
		"quantity": float64(12),
		"tags":     []any{"Home", "Home", "Lighting"},
	})
	if !strings.Contains(text, "Created product 6") {
		t.Fatalf("unexpected result: %s", text)
	}

	p, ok := svc.Products().Get("6")
	if !ok {
		t.Fatal("created product not stored")
	}
	if p.Price != domain.DefaultPrice || p.Quantity != 12 || !p.IsActive || p.IsPublished {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if strings.Join(p.Tags, ",") != "Home,Lighting" {
		t.Errorf("tags = %v, want deduplicated", p.Tags)
	}
	if n := svc.Products().Store().Len(); n != 6 {
		t.Errorf("len = %d, want 6", n)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(t)
	s := testServer(svc)

	msg := mustFail(t, s, "create_product", map[string]any{"name": "X", "sku": "Y", "quantity": "-1"})
	for _, want := range []string{"create_product rejected", "name:", "sku:", "quantity:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
	if n := svc.Products().Store().Len(); n != 5 {
		t.Errorf("rejected create changed the collection: len = %d", n)
	}

	msg = mustFail(t, s, "create_product", map[string]any{"name": "Lamp", "sku": "LP", "quantity": "1.5"})
	if !strings.Contains(msg, "quantity:") {
		t.Errorf("fractional quantity accepted: %q", msg)
	}

	msg = mustFail(t, s, "create_product", map[string]any{"name": "Lamp", "sku": "LP", "tags": []any{"ok", 3}})
	if !strings.Contains(msg, "tags must contain only strings") {
		t.Errorf("unexpected error: %q", msg)
	}
}

func TestUpdateProductKeepsUntouchedFields(t *testing.T) {
	svc := newTestService(t)
	s := testServer(svc)
	before, _ := svc.Products().Get("2")

	mustCall(t, s, "update_product", map[string]any{"id": "2", "quantity": float64(0)})

	after, _ := svc.Products().Get("2")
	if after.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", after.Quantity)
	}
	if after.Name != before.Name || after.Price != before.Price || after.SKU != before.SKU {
		t.Errorf("update touched other fields: before %+v after %+v", before, after)
	}
	if st := svc.Stats(); st.Products.OutOfStock != 1 {
		t.Errorf("out of stock = %d, want 1", st.Products.OutOfStock)
	}

	if msg := mustFail(t, s, "update_product", map[string]any{"id": "404", "name": "Ghost"}); !strings.Contains(msg, "not found") {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(t)
	s := testServer(svc)

	text := mustCall(t, s, "delete_product", map[string]any{"id": "3"})
	if text != "Deleted product 3 (Smart Watch)." {
		t.Errorf("unexpected result: %q", text)
	}
	if _, ok := svc.Products().Get("3"); ok {
		t.Error("product 3 still present")
	}
	mustFail(t, s, "delete_product", map[string]any{"id": "3"})

	// Ids are not reused after a delete.
	mustCall(t, s, "create_product", map[string]any{"name": "Replacement", "sku": "RP"})
	if _, ok := svc.Products().Get("6"); !ok {
		t.Error("expected the new product to get id 6")
	}
}

func TestToggleProduct(t *testing.T) {
	svc := newTestService(t)
	s := testServer(svc)
	before, _ := svc.Products().Get("3")

	mustCall(t, s, "toggle_product", map[string]any{"id": "3", "field": "isPublished"})
	mid, _ := svc.Products().Get("3")
	if mid.IsPublished == before.IsPublished || mid.IsActive != before.IsActive {
		t.Errorf("toggle flipped the wrong field: %+v", mid)
	}
	mustCall(t, s, "toggle_product", map[string]any{"id": "3", "field": "isPublished"})
	after, _ := svc.Products().Get("3")
	if after.IsPublished != before.IsPublished {
		t.Error("double toggle did not restore the value")
	}

	if msg := mustFail(t, s, "toggle_product", map[string]any{"id": "3", "field": "quantity"}); !strings.Contains(msg, "field must be") {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestDisabledToolsAreNotRegistered(t *testing.T) {
	s := testServerWithGate(newTestService(t), onlyTools{"list_products": true})

	mustCall(t, s, "list_products", nil)
	mustFail(t, s, "delete_product", map[string]any{"id": "1"})
}

func TestCatalogStatsAndReload(t *testing.T) {
	svc := newTestService(t)
	s := testServer(svc)

	text := mustCall(t, s, "catalog_stats", nil)
	if !strings.Contains(text, "Products: 5 total, 4 active, 3 published, 0 out of stock") {
		t.Errorf("unexpected stats:\n%s", text)
	}
	if !strings.Contains(text, "Users: 5 total, 3 active, 1 pending, 1 admins") {
		t.Errorf("unexpected stats:\n%s", text)
	}

	mustCall(t, s, "delete_product", map[string]any{"id": "1"})
	text = mustCall(t, s, "reload_catalog", nil)
	if text != "Reloaded: 5 products, 5 users." {
		t.Errorf("unexpected reload result: %q", text)
	}
	if _, ok := svc.Products().Get("1"); !ok {
		t.Error("reload did not restore product 1")
	}
}

func TestProductsResource(t *testing.T) {
	s := testServer(newTestService(t))

	resp := handle(t, s, "resources/read", map[string]any{"uri": "backoffice://catalog/products"})
	if resp.Error != nil {
		t.Fatalf("resources/read: %s", resp.Error.Message)
	}
	if !strings.Contains(string(resp.Result), "Premium Headphones") {
		t.Errorf("resource missing products: %s", resp.Result)
	}
}

type onlyTools map[string]bool

func (o onlyTools) IsToolEnabled(name string) bool { return o[name] }
