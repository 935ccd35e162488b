package store

import (
	"database/sql"
	"fmt"

	"menuboard/internal/model"
)

type SectionStore struct {
	db *sql.DB
}

func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

const sectionCols = `id, restaurant_id, title, position, visible, created_at, updated_at`

func scanSection(scanner interface{ Scan(...any) error }) (*model.Section, error) {
	var sec model.Section
	var visible int

	err := scanner.Scan(
		&sec.ID, &sec.RestaurantID, &sec.Title, &sec.Position, &visible,
		&sec.CreatedAt, &sec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sec.Visible = visible != 0
	sec.Items = []model.Item{}
	return &sec, nil
}

// Create inserts a section, visible by default, and returns the stored row.
func (s *SectionStore) Create(restaurantID int64, title string, position int) (*model.Section, error) {
	result, err := s.db.Exec(
		`INSERT INTO menu_sections (restaurant_id, title, position, visible) VALUES (?, ?, ?, 1)`,
		restaurantID, title, position,
	)
	if err != nil {
		return nil, fmt.Errorf("insert section: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SectionStore) GetByID(id int64) (*model.Section, error) {
	row := s.db.QueryRow(`SELECT `+sectionCols+` FROM menu_sections WHERE id = ?`, id)
	sec, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	return sec, nil
}

// ListByRestaurant returns sections in insertion order without their items.
func (s *SectionStore) ListByRestaurant(restaurantID int64) ([]model.Section, error) {
	rows, err := s.db.Query(
		`SELECT `+sectionCols+` FROM menu_sections WHERE restaurant_id = ? ORDER BY id`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, *sec)
	}
	return sections, rows.Err()
}

func (s *SectionStore) Update(id int64, title string, position int, visible bool) (*model.Section, error) {
	var v int
	if visible {
		v = 1
	}

	_, err := s.db.Exec(
		`UPDATE menu_sections SET title = ?, position = ?, visible = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, position, v, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return s.GetByID(id)
}

// Delete hard-deletes a section; its items go with it via the FK cascade.
func (s *SectionStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM menu_sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
