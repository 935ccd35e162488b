// Package display turns a menu snapshot into what a public surface renders:
// visibility filtering, section ordering, price formatting, theme resolution,
// and the kiosk fullscreen/autoscroll choreography.
package display

import (
	"fmt"
	"math"
	"sort"

	"menuboard/internal/model"
)

// View is the deterministic render model for one menu snapshot.
type View struct {
	Name     string        `json:"name"`
	Slug     string        `json:"slug"`
	LogoPath string        `json:"logo_path,omitempty"`
	Theme    ThemeStyle    `json:"theme"`
	Sections []SectionView `json:"sections"`
}

type SectionView struct {
	ID    int64      `json:"id"`
	Title string     `json:"title"`
	Items []ItemView `json:"items"`
}

type ItemView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Featured    bool     `json:"featured"`
	Trending    bool     `json:"trending"`
}

// BuildView filters out invisible sections and items, sorts sections by
// position ascending (stable, so ties keep snapshot order), keeps items in
// snapshot order, and formats prices. Pure: the snapshot is not modified.
func BuildView(menu *model.Menu) View {
	v := View{
		Name:     menu.Name,
		Slug:     menu.Slug,
		Theme:    ComputeThemeStyle(menu.Mode, menu.BrandBackground, menu.BrandText),
		Sections: []SectionView{},
	}
	if menu.LogoPath != nil {
		v.LogoPath = *menu.LogoPath
	}

	sections := make([]model.Section, 0, len(menu.Sections))
	for _, s := range menu.Sections {
		if s.Visible {
			sections = append(sections, s)
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Position < sections[j].Position
	})

	for _, s := range sections {
		sv := SectionView{ID: s.ID, Title: s.Title, Items: []ItemView{}}
		for _, it := range s.Items {
			if !it.Visible {
				continue
			}
			iv := ItemView{
				ID:       it.ID,
				Name:     it.Name,
				Price:    FormatPrice(it.Price),
				Tags:     it.Tags,
				Featured: it.IsFeatured,
				Trending: it.IsTrending,
			}
			if it.Description != nil {
				iv.Description = *it.Description
			}
			sv.Items = append(sv.Items, iv)
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}

// FormatPrice renders a non-negative price with exactly two fraction digits,
// rounding half up. The epsilon absorbs binary float noise so 9.565 rounds
// to "9.57" rather than tipping on its inexact representation.
func FormatPrice(price float64) string {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}
	cents := int64(math.Floor(price*100 + 0.5 + 1e-9))
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
