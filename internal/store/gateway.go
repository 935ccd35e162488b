package store

import (
	"database/sql"

	"menuboard/internal/model"
)

// Gateway bundles the entity stores behind one mutation-and-composite-read
// surface for consumers that span entities (editing sessions, display
// fetchers). It adds nothing on top: no cache, no retry, no idempotency.
type Gateway struct {
	Restaurants *RestaurantStore
	Sections    *SectionStore
	Items       *ItemStore
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{
		Restaurants: NewRestaurantStore(db),
		Sections:    NewSectionStore(db),
		Items:       NewItemStore(db),
	}
}

func (g *Gateway) MenuByOwner(ownerID int64) (*model.Menu, error) {
	return g.Restaurants.MenuByOwner(ownerID)
}

func (g *Gateway) MenuBySlug(slug string) (*model.Menu, error) {
	return g.Restaurants.MenuBySlug(slug)
}

func (g *Gateway) CreateSection(restaurantID int64, title string, position int) (*model.Section, error) {
	return g.Sections.Create(restaurantID, title, position)
}

func (g *Gateway) UpdateSection(id int64, title string, position int, visible bool) (*model.Section, error) {
	return g.Sections.Update(id, title, position, visible)
}

func (g *Gateway) DeleteSection(id int64) error {
	return g.Sections.Delete(id)
}

func (g *Gateway) CreateItem(sectionID int64, f ItemFields) (*model.Item, error) {
	return g.Items.Create(sectionID, f)
}

func (g *Gateway) UpdateItem(id int64, f ItemFields) (*model.Item, error) {
	return g.Items.Update(id, f)
}

func (g *Gateway) DeleteItem(id int64) error {
	return g.Items.Delete(id)
}

func (g *Gateway) UpdateLogo(restaurantID int64, logoURL string) (*model.Restaurant, error) {
	return g.Restaurants.UpdateLogo(restaurantID, logoURL)
}

func (g *Gateway) UpdateTheme(restaurantID int64, mode model.ThemeMode, brandBackground, brandText string) (*model.Restaurant, error) {
	return g.Restaurants.UpdateTheme(restaurantID, mode, brandBackground, brandText)
}
