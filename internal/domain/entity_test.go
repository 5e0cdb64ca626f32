package domain

import (
	"testing"
)

func TestNewProduct(t *testing.T) {
	p := NewProduct(ProductInput{
		Name:     "X",
		SKU:      "AB",
		Quantity: 5,
		Tags:     []string{"Audio", "Audio", "Electronics"},
		IsActive: true,
	})
	if p.ID != "" {
		t.Errorf("ID = %q, want empty before the store assigns one", p.ID)
	}
	if p.Price != DefaultPrice {
		t.Errorf("Price = %q, want %q", p.Price, DefaultPrice)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "Audio" || p.Tags[1] != "Electronics" {
		t.Errorf("Tags = %v, want [Audio Electronics]", p.Tags)
	}
	if p.Images == nil {
		t.Error("Images should be an empty list, not nil")
	}
}

func TestProductMergeKeepsIDAndPrice(t *testing.T) {
	p := Product{ID: "7", Name: "Old", Price: "$10.00", Quantity: 3}
	got := p.Merge(ProductInput{Name: "New", SKU: "NW-1", Quantity: 9})
	if got.ID != "7" || got.Price != "$10.00" {
		t.Errorf("Merge changed ID/Price: %+v", got)
	}
	if got.Name != "New" || got.Quantity != 9 {
		t.Errorf("Merge did not apply input: %+v", got)
	}
	if p.Name != "Old" {
		t.Error("Merge mutated the receiver")
	}
}

func TestProductToggle(t *testing.T) {
	p := Product{ID: "1", Quantity: 45, IsActive: true}

	once, ok := p.Toggle(FlagActive)
	if !ok || once.IsActive {
		t.Fatalf("Toggle(isActive) = %+v, %v", once, ok)
	}
	twice, _ := once.Toggle(FlagActive)
	if twice.IsActive != p.IsActive || twice.Quantity != 45 || twice.IsPublished != p.IsPublished {
		t.Errorf("double toggle = %+v, want %+v", twice, p)
	}

	if _, ok := p.Toggle("price"); ok {
		t.Error("Toggle(price) should report false")
	}
}

func TestUserToggleIsNoop(t *testing.T) {
	u := User{ID: "1", Status: StatusActive}
	got, ok := u.Toggle(FlagActive)
	if ok {
		t.Error("users have no toggleable fields")
	}
	if got != u {
		t.Errorf("Toggle changed the user: %+v", got)
	}
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser(UserInput{Name: "Ada", Email: "ada@example.com", Role: RoleAdmin, Status: StatusPending})
	if u.LastActive != JustNow {
		t.Errorf("LastActive = %q, want %q", u.LastActive, JustNow)
	}
	if u.AvatarURL != PlaceholderImage {
		t.Errorf("AvatarURL = %q, want placeholder", u.AvatarURL)
	}
}

func TestParseRoleAndStatus(t *testing.T) {
	tests := []struct {
		in     string
		role   Role
		roleOK bool
	}{
		{"Admin", RoleAdmin, true},
		{"editor", RoleEditor, true},
		{"VIEWER", RoleViewer, true},
		{"owner", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseRole(tc.in)
			if got != tc.role || ok != tc.roleOK {
				t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.role, tc.roleOK)
			}
		})
	}

	if st, ok := ParseStatus("pending"); !ok || st != StatusPending {
		t.Errorf("ParseStatus(pending) = %q, %v", st, ok)
	}
	if _, ok := ParseStatus("banned"); ok {
		t.Error("ParseStatus(banned) should fail")
	}
}

func TestSearchFields(t *testing.T) {
	p := Product{Name: "Premium Headphones", SKU: "HDN-100", Tags: []string{"Electronics", "Audio"}}
	if got := p.SearchFields(); len(got) != 4 || got[3] != "Audio" {
		t.Errorf("product SearchFields = %v", got)
	}
	u := User{Name: "Jane", Email: "jane@example.com", Role: RoleEditor}
	if got := u.SearchFields(); len(got) != 3 || got[2] != "Editor" {
		t.Errorf("user SearchFields = %v", got)
	}
}

func TestThumbnail(t *testing.T) {
	if got := (Product{}).Thumbnail(); got != PlaceholderImage {
		t.Errorf("Thumbnail() = %q, want placeholder", got)
	}
	if got := (Product{Images: []string{"/a.png", "/b.png"}}).Thumbnail(); got != "/a.png" {
		t.Errorf("Thumbnail() = %q, want /a.png", got)
	}
}
