package model

import (
	"strings"
	"time"
)

type Item struct {
	ID          int64     `json:"id"`
	SectionID   int64     `json:"section_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Tags        []string  `json:"tags"`
	IsFeatured  bool      `json:"is_featured"`
	IsTrending  bool      `json:"is_trending"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	out := *it
	if it.Description != nil {
		d := *it.Description
		out.Description = &d
	}
	out.Tags = append([]string(nil), it.Tags...)
	return &out
}

// ParseTags splits a comma-separated tag string into ordered tags, trimming
// whitespace and dropping empty entries.
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}

// JoinTags is the inverse of ParseTags, used at the edit and storage boundary.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
