package model

import "time"

type Section struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	Title        string    `json:"title"`
	Position     int       `json:"position"`
	Visible      bool      `json:"visible"`
	Items        []Item    `json:"menu_items"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the section and its items.
func (s *Section) Clone() *Section {
	out := *s
	out.Items = make([]Item, len(s.Items))
	for i, it := range s.Items {
		out.Items[i] = *it.Clone()
	}
	return &out
}
