package store

import (
	"database/sql"
	"fmt"

	"menuboard/internal/model"
)

type RestaurantStore struct {
	db *sql.DB
}

func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

const restaurantCols = `id, owner_id, name, slug, logo_path, mode, brand_background, brand_text, created_at, updated_at`

func scanRestaurant(scanner interface{ Scan(...any) error }) (*model.Restaurant, error) {
	var r model.Restaurant
	var logoPath sql.NullString
	var mode string

	err := scanner.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.Slug, &logoPath,
		&mode, &r.BrandBackground, &r.BrandText, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Mode = model.ThemeMode(mode)
	if logoPath.Valid {
		r.LogoPath = &logoPath.String
	}
	return &r, nil
}

func (s *RestaurantStore) GetByID(id int64) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

func (s *RestaurantStore) GetBySlug(slug string) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE slug = ?`, slug)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by slug: %w", err)
	}
	return r, nil
}

func (s *RestaurantStore) GetByOwner(ownerID int64) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE owner_id = ?`, ownerID)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by owner: %w", err)
	}
	return r, nil
}

// Create provisions a restaurant for an operator. Used by registration and by
// tests; the editing surfaces never create restaurants.
func (s *RestaurantStore) Create(ownerID int64, name, slug string) (*model.Restaurant, error) {
	result, err := s.db.Exec(
		`INSERT INTO restaurants (owner_id, name, slug) VALUES (?, ?, ?)`,
		ownerID, name, slug,
	)
	if err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RestaurantStore) UpdateLogo(id int64, logoURL string) (*model.Restaurant, error) {
	_, err := s.db.Exec(
		`UPDATE restaurants SET logo_path = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		logoURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update logo: %w", err)
	}
	return s.GetByID(id)
}

func (s *RestaurantStore) UpdateTheme(id int64, mode model.ThemeMode, brandBackground, brandText string) (*model.Restaurant, error) {
	_, err := s.db.Exec(
		`UPDATE restaurants SET mode = ?, brand_background = ?, brand_text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(mode), brandBackground, brandText, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}
	return s.GetByID(id)
}

// MenuBySlug is the composite read for the public display path: restaurant
// joined with all its sections and their items. Sections and items come back
// in primary-key order; visibility filtering and position sorting belong to
// the display layer.
func (s *RestaurantStore) MenuBySlug(slug string) (*model.Menu, error) {
	r, err := s.GetBySlug(slug)
	if err != nil || r == nil {
		return nil, err
	}
	return s.loadMenu(r)
}

// MenuByOwner is the composite read for the admin path.
func (s *RestaurantStore) MenuByOwner(ownerID int64) (*model.Menu, error) {
	r, err := s.GetByOwner(ownerID)
	if err != nil || r == nil {
		return nil, err
	}
	return s.loadMenu(r)
}

func (s *RestaurantStore) loadMenu(r *model.Restaurant) (*model.Menu, error) {
	menu := &model.Menu{Restaurant: *r, Sections: []model.Section{}}

	rows, err := s.db.Query(
		`SELECT `+sectionCols+` FROM menu_sections WHERE restaurant_id = ? ORDER BY id`,
		r.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		menu.Sections = append(menu.Sections, *sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	for i := range menu.Sections {
		items, err := s.loadItems(menu.Sections[i].ID)
		if err != nil {
			return nil, err
		}
		menu.Sections[i].Items = items
	}
	return menu, nil
}

func (s *RestaurantStore) loadItems(sectionID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM menu_items WHERE section_id = ? ORDER BY id`,
		sectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}
