package store

import (
	"database/sql"
	"fmt"

	"menuboard/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemCols = `id, section_id, name, price, description, tags, is_featured, is_trending, visible, created_at, updated_at`

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var it model.Item
	var description sql.NullString
	var tags string
	var featured, trending, visible int

	err := scanner.Scan(
		&it.ID, &it.SectionID, &it.Name, &it.Price, &description,
		&tags, &featured, &trending, &visible, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		it.Description = &description.String
	}
	it.Tags = model.ParseTags(tags)
	it.IsFeatured = featured != 0
	it.IsTrending = trending != 0
	it.Visible = visible != 0
	return &it, nil
}

// ItemFields carries the mutable fields of an item across the gateway.
type ItemFields struct {
	Name        string
	Price       float64
	Description *string
	Tags        []string
	IsFeatured  bool
	IsTrending  bool
	Visible     bool
}

func (s *ItemStore) Create(sectionID int64, f ItemFields) (*model.Item, error) {
	var desc sql.NullString
	if f.Description != nil {
		desc = sql.NullString{String: *f.Description, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO menu_items (section_id, name, price, description, tags, is_featured, is_trending, visible)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sectionID, f.Name, f.Price, desc, model.JoinTags(f.Tags),
		boolToInt(f.IsFeatured), boolToInt(f.IsTrending), boolToInt(f.Visible),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) GetByID(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM menu_items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ListBySection returns items in insertion order. No explicit ordering field
// exists; displays render in whatever order the gateway returns.
func (s *ItemStore) ListBySection(sectionID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM menu_items WHERE section_id = ? ORDER BY id`,
		sectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *ItemStore) Update(id int64, f ItemFields) (*model.Item, error) {
	var desc sql.NullString
	if f.Description != nil {
		desc = sql.NullString{String: *f.Description, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE menu_items SET name = ?, price = ?, description = ?, tags = ?,
		 is_featured = ?, is_trending = ?, visible = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		f.Name, f.Price, desc, model.JoinTags(f.Tags),
		boolToInt(f.IsFeatured), boolToInt(f.IsTrending), boolToInt(f.Visible), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
