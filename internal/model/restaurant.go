package model

import "time"

// ThemeMode selects how the public display is colored.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
	ThemeBrand ThemeMode = "brand"
)

// ValidThemeMode reports whether s is one of the supported theme modes.
func ValidThemeMode(s string) bool {
	switch ThemeMode(s) {
	case ThemeLight, ThemeDark, ThemeBrand:
		return true
	}
	return false
}

type Restaurant struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	LogoPath        *string   `json:"logo_path"`
	Mode            ThemeMode `json:"mode"`
	BrandBackground string    `json:"brand_background"`
	BrandText       string    `json:"brand_text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Menu is the composite snapshot a display or an editing session works from:
// one restaurant with its sections, each section carrying its items. A Menu is
// always replaced wholesale on refresh, never merged.
type Menu struct {
	Restaurant
	Sections []Section `json:"menu_sections"`
}

// SectionIDs returns the ids of all sections in snapshot order.
func (m *Menu) SectionIDs() []int64 {
	ids := make([]int64, len(m.Sections))
	for i, s := range m.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Clone returns a deep copy of the menu so callers can hand out snapshots
// without sharing slice backing arrays with the owner.
func (m *Menu) Clone() *Menu {
	if m == nil {
		return nil
	}
	out := *m
	if m.LogoPath != nil {
		p := *m.LogoPath
		out.LogoPath = &p
	}
	out.Sections = make([]Section, len(m.Sections))
	for i, s := range m.Sections {
		out.Sections[i] = *s.Clone()
	}
	return &out
}
