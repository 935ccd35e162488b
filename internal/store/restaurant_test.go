package store

import (
	"database/sql"
	"testing"

	"menuboard/internal/database"
	"menuboard/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedRestaurant creates an owner plus a restaurant and returns the restaurant.
func seedRestaurant(t *testing.T, db *sql.DB, slug string) *model.Restaurant {
	t.Helper()
	u, err := NewUserStore(db).Create(slug+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	r, err := NewRestaurantStore(db).Create(u.ID, "Test Kitchen", slug)
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	return r
}

func TestRestaurantCreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	r := seedRestaurant(t, db, "test-kitchen")

	if r.Slug != "test-kitchen" {
		t.Errorf("slug = %q", r.Slug)
	}
	if r.Mode != model.ThemeLight {
		t.Errorf("mode = %q, want light", r.Mode)
	}
	if r.LogoPath != nil {
		t.Error("expected nil logo path on a new restaurant")
	}
}

func TestRestaurantGetBySlug(t *testing.T) {
	db := setupTestDB(t)
	created := seedRestaurant(t, db, "cafe")
	s := NewRestaurantStore(db)

	r, err := s.GetBySlug("cafe")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if r == nil || r.ID != created.ID {
		t.Fatalf("got %+v, want id %d", r, created.ID)
	}

	missing, err := s.GetBySlug("nope")
	if err != nil {
		t.Fatalf("get missing slug: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestRestaurantGetByOwner(t *testing.T) {
	db := setupTestDB(t)
	created := seedRestaurant(t, db, "cafe")
	s := NewRestaurantStore(db)

	r, err := s.GetByOwner(created.OwnerID)
	if err != nil {
		t.Fatalf("get by owner: %v", err)
	}
	if r == nil || r.ID != created.ID {
		t.Fatalf("got %+v, want id %d", r, created.ID)
	}
}

func TestRestaurantUpdateTheme(t *testing.T) {
	db := setupTestDB(t)
	created := seedRestaurant(t, db, "cafe")
	s := NewRestaurantStore(db)

	r, err := s.UpdateTheme(created.ID, model.ThemeBrand, "#112233", "#ffffff")
	if err != nil {
		t.Fatalf("update theme: %v", err)
	}
	if r.Mode != model.ThemeBrand || r.BrandBackground != "#112233" || r.BrandText != "#ffffff" {
		t.Errorf("theme = %q %q %q", r.Mode, r.BrandBackground, r.BrandText)
	}
}

func TestRestaurantUpdateLogo(t *testing.T) {
	db := setupTestDB(t)
	created := seedRestaurant(t, db, "cafe")
	s := NewRestaurantStore(db)

	r, err := s.UpdateLogo(created.ID, "https://cdn.example.com/1/42.png")
	if err != nil {
		t.Fatalf("update logo: %v", err)
	}
	if r.LogoPath == nil || *r.LogoPath != "https://cdn.example.com/1/42.png" {
		t.Errorf("logo path = %v", r.LogoPath)
	}
}

func TestMenuBySlugComposite(t *testing.T) {
	db := setupTestDB(t)
	created := seedRestaurant(t, db, "cafe")
	sections := NewSectionStore(db)
	items := NewItemStore(db)

	drinks, err := sections.Create(created.ID, "Drinks", 2)
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	mains, err := sections.Create(created.ID, "Mains", 1)
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	if _, err := items.Create(drinks.ID, ItemFields{Name: "Coffee", Price: 3.5, Visible: true}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	menu, err := NewRestaurantStore(db).MenuBySlug("cafe")
	if err != nil {
		t.Fatalf("menu by slug: %v", err)
	}
	if menu == nil {
		t.Fatal("expected menu")
	}
	if len(menu.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(menu.Sections))
	}
	// Sections come back in id order; position ordering belongs to the
	// render layer.
	if menu.Sections[0].ID != drinks.ID || menu.Sections[1].ID != mains.ID {
		t.Errorf("section order = %d,%d", menu.Sections[0].ID, menu.Sections[1].ID)
	}
	if len(menu.Sections[0].Items) != 1 || menu.Sections[0].Items[0].Name != "Coffee" {
		t.Errorf("items = %+v", menu.Sections[0].Items)
	}
	if menu.Sections[1].Items == nil {
		t.Error("empty section should carry an empty item slice, not nil")
	}
}

func TestMenuBySlugUnknown(t *testing.T) {
	db := setupTestDB(t)

	menu, err := NewRestaurantStore(db).MenuBySlug("ghost")
	if err != nil {
		t.Fatalf("menu by slug: %v", err)
	}
	if menu != nil {
		t.Error("expected nil menu for unknown slug")
	}
}
