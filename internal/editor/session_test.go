package editor

import (
	"errors"
	"log/slog"
	"testing"

	"menuboard/internal/model"
	"menuboard/internal/store"
)

// fakeGateway records which operations ran and serves a mutable menu.
type fakeGateway struct {
	menu       *model.Menu
	menuLoads  int
	nextID     int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		menu: &model.Menu{
			Restaurant: model.Restaurant{ID: 1, OwnerID: 10, Name: "Cafe", Slug: "cafe", Mode: model.ThemeLight},
			Sections:   []model.Section{},
		},
		nextID: 100,
	}
}

func (g *fakeGateway) MenuByOwner(ownerID int64) (*model.Menu, error) {
	g.menuLoads++
	if ownerID != g.menu.OwnerID {
		return nil, nil
	}
	return g.menu.Clone(), nil
}

func (g *fakeGateway) CreateSection(restaurantID int64, title string, position int) (*model.Section, error) {
	g.nextID++
	sec := model.Section{ID: g.nextID, RestaurantID: restaurantID, Title: title, Position: position, Visible: true, Items: []model.Item{}}
	g.menu.Sections = append(g.menu.Sections, sec)
	return sec.Clone(), nil
}

func (g *fakeGateway) UpdateSection(id int64, title string, position int, visible bool) (*model.Section, error) {
	for i := range g.menu.Sections {
		if g.menu.Sections[i].ID == id {
			g.menu.Sections[i].Title = title
			g.menu.Sections[i].Position = position
			g.menu.Sections[i].Visible = visible
			return g.menu.Sections[i].Clone(), nil
		}
	}
	return nil, errors.New("section not found")
}

func (g *fakeGateway) DeleteSection(id int64) error {
	for i := range g.menu.Sections {
		if g.menu.Sections[i].ID == id {
			g.menu.Sections = append(g.menu.Sections[:i], g.menu.Sections[i+1:]...)
			return nil
		}
	}
	return errors.New("section not found")
}

func (g *fakeGateway) CreateItem(sectionID int64, f store.ItemFields) (*model.Item, error) {
	g.nextID++
	it := model.Item{
		ID: g.nextID, SectionID: sectionID, Name: f.Name, Price: f.Price,
		Description: f.Description, Tags: f.Tags,
		IsFeatured: f.IsFeatured, IsTrending: f.IsTrending, Visible: f.Visible,
	}
	for i := range g.menu.Sections {
		if g.menu.Sections[i].ID == sectionID {
			g.menu.Sections[i].Items = append(g.menu.Sections[i].Items, it)
			return it.Clone(), nil
		}
	}
	return nil, errors.New("section not found")
}

func (g *fakeGateway) UpdateItem(id int64, f store.ItemFields) (*model.Item, error) {
	for i := range g.menu.Sections {
		for j := range g.menu.Sections[i].Items {
			if g.menu.Sections[i].Items[j].ID == id {
				it := &g.menu.Sections[i].Items[j]
				it.Name, it.Price = f.Name, f.Price
				it.Description, it.Tags = f.Description, f.Tags
				it.IsFeatured, it.IsTrending, it.Visible = f.IsFeatured, f.IsTrending, f.Visible
				return it.Clone(), nil
			}
		}
	}
	return nil, errors.New("item not found")
}

func (g *fakeGateway) DeleteItem(id int64) error {
	for i := range g.menu.Sections {
		items := g.menu.Sections[i].Items
		for j := range items {
			if items[j].ID == id {
				g.menu.Sections[i].Items = append(items[:j], items[j+1:]...)
				return nil
			}
		}
	}
	return errors.New("item not found")
}

func (g *fakeGateway) UpdateLogo(restaurantID int64, logoURL string) (*model.Restaurant, error) {
	g.menu.LogoPath = &logoURL
	r := g.menu.Restaurant
	return &r, nil
}

func (g *fakeGateway) UpdateTheme(restaurantID int64, mode model.ThemeMode, bg, text string) (*model.Restaurant, error) {
	g.menu.Mode = mode
	g.menu.BrandBackground = bg
	g.menu.BrandText = text
	r := g.menu.Restaurant
	return &r, nil
}

func newTestSession(g *fakeGateway) *Session {
	return NewSession(10, g, slog.Default())
}

func TestSessionLoadsLazily(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)

	if g.menuLoads != 0 {
		t.Fatal("session should not load before first use")
	}

	menu, err := s.Menu()
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if menu.Name != "Cafe" {
		t.Errorf("menu = %+v", menu)
	}
	if g.menuLoads != 1 {
		t.Errorf("loads = %d, want 1", g.menuLoads)
	}

	// Second read serves the snapshot.
	s.Menu()
	if g.menuLoads != 1 {
		t.Errorf("loads = %d, want 1", g.menuLoads)
	}
}

func TestSessionNoMenuForOperator(t *testing.T) {
	g := newFakeGateway()
	s := NewSession(999, g, slog.Default())

	if _, err := s.Menu(); !errors.Is(err, ErrNoMenu) {
		t.Fatalf("err = %v, want ErrNoMenu", err)
	}
}

func TestAddSectionAppendsWithoutRefetch(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	s.Menu()
	loads := g.menuLoads

	sec, err := s.AddSection("Drinks")
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if sec.Position != 1 {
		t.Errorf("position = %d, want 1", sec.Position)
	}
	if g.menuLoads != loads {
		t.Error("AddSection must patch the snapshot, not refetch")
	}

	menu, _ := s.Menu()
	if len(menu.Sections) != 1 || menu.Sections[0].Title != "Drinks" {
		t.Errorf("sections = %+v", menu.Sections)
	}
	if menu.Sections[0].Items == nil {
		t.Error("appended section should carry an empty item slice")
	}
}

func TestAddSectionPositionCountsExisting(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)

	s.AddSection("Drinks")
	sec, err := s.AddSection("Mains")
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if sec.Position != 2 {
		t.Errorf("position = %d, want 2", sec.Position)
	}
}

func TestAddSectionEmptyTitle(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)

	if _, err := s.AddSection("   "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestUpdateSectionRefetches(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	sec, _ := s.AddSection("Drinks")
	loads := g.menuLoads

	if err := s.UpdateSection(sec.ID, "Beverages", 1, false); err != nil {
		t.Fatalf("update section: %v", err)
	}
	if g.menuLoads != loads+1 {
		t.Error("UpdateSection must refetch the whole menu")
	}

	menu, _ := s.Menu()
	if menu.Sections[0].Title != "Beverages" || menu.Sections[0].Visible {
		t.Errorf("section = %+v", menu.Sections[0])
	}
}

func TestDeleteSectionRefetches(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	sec, _ := s.AddSection("Drinks")
	loads := g.menuLoads

	if err := s.DeleteSection(sec.ID); err != nil {
		t.Fatalf("delete section: %v", err)
	}
	if g.menuLoads != loads+1 {
		t.Error("DeleteSection must refetch the whole menu")
	}

	menu, _ := s.Menu()
	if len(menu.Sections) != 0 {
		t.Errorf("sections = %+v", menu.Sections)
	}
}

func TestAddItemRefetches(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	sec, _ := s.AddSection("Drinks")
	loads := g.menuLoads

	item, err := s.AddItem(sec.ID, ItemInput{Name: "Coffee", Price: "3.50", Tags: "hot, caffeine", Visible: true})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.Price != 3.5 {
		t.Errorf("price = %v", item.Price)
	}
	if len(item.Tags) != 2 {
		t.Errorf("tags = %v", item.Tags)
	}
	if g.menuLoads != loads+1 {
		t.Error("AddItem must refetch the whole menu")
	}
}

func TestAddItemValidation(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	sec, _ := s.AddSection("Drinks")

	if _, err := s.AddItem(sec.ID, ItemInput{Name: "  "}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}

	// Unparseable and negative prices become 0, not errors.
	item, err := s.AddItem(sec.ID, ItemInput{Name: "Water", Price: "free"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.Price != 0 {
		t.Errorf("price = %v, want 0", item.Price)
	}

	item, err = s.AddItem(sec.ID, ItemInput{Name: "Refund", Price: "-4"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.Price != 0 {
		t.Errorf("price = %v, want 0", item.Price)
	}

	// ParseFloat accepts these spellings; none may reach storage.
	for _, price := range []string{"NaN", "Inf", "+Inf", "-Inf", "nan"} {
		item, err = s.AddItem(sec.ID, ItemInput{Name: "Special", Price: price})
		if err != nil {
			t.Fatalf("add item with price %q: %v", price, err)
		}
		if item.Price != 0 {
			t.Errorf("price %q stored as %v, want 0", price, item.Price)
		}
	}
}

func TestSetThemePatchesInPlace(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	s.Menu()
	loads := g.menuLoads

	if err := s.SetTheme("brand", "#112233", "#ffffff"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if g.menuLoads != loads {
		t.Error("SetTheme must patch the snapshot, not refetch")
	}

	menu, _ := s.Menu()
	if menu.Mode != model.ThemeBrand || menu.BrandBackground != "#112233" {
		t.Errorf("theme = %q %q", menu.Mode, menu.BrandBackground)
	}
}

func TestSetThemeRejectsUnknownMode(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)

	if err := s.SetTheme("neon", "", ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestSetLogoPatchesInPlace(t *testing.T) {
	g := newFakeGateway()
	s := newTestSession(g)
	s.Menu()
	loads := g.menuLoads

	if err := s.SetLogo("https://cdn.example.com/1/1.png"); err != nil {
		t.Fatalf("set logo: %v", err)
	}
	if g.menuLoads != loads {
		t.Error("SetLogo must patch the snapshot, not refetch")
	}

	menu, _ := s.Menu()
	if menu.LogoPath == nil || *menu.LogoPath != "https://cdn.example.com/1/1.png" {
		t.Errorf("logo = %v", menu.LogoPath)
	}
}

func TestManagerReturnsSameSessionPerOperator(t *testing.T) {
	g := newFakeGateway()
	m := NewManager(g, slog.Default())

	a := m.Session(10)
	b := m.Session(10)
	if a != b {
		t.Error("same operator should share one session")
	}

	m.Drop(10)
	c := m.Session(10)
	if a == c {
		t.Error("Drop should discard the session")
	}
}
