package model

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	tags := ParseTags("spicy, vegan ,gluten-free")
	want := []string{"spicy", "vegan", "gluten-free"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestParseTagsDropsEmptyEntries(t *testing.T) {
	tags := ParseTags("spicy,, ,vegan,")
	want := []string{"spicy", "vegan"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestParseTagsEmptyString(t *testing.T) {
	if tags := ParseTags(""); tags != nil {
		t.Errorf("expected nil, got %v", tags)
	}
}

func TestJoinTagsRoundTrip(t *testing.T) {
	in := []string{"spicy", "vegan"}
	if got := ParseTags(JoinTags(in)); !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestItemCloneIsDeep(t *testing.T) {
	desc := "house special"
	it := Item{ID: 1, Name: "Burger", Description: &desc, Tags: []string{"beef"}}

	c := it.Clone()
	*c.Description = "changed"
	c.Tags[0] = "pork"

	if *it.Description != "house special" {
		t.Error("clone shares description pointer")
	}
	if it.Tags[0] != "beef" {
		t.Error("clone shares tags slice")
	}
}

func TestMenuCloneIsDeep(t *testing.T) {
	m := Menu{
		Restaurant: Restaurant{ID: 1, Name: "Cafe"},
		Sections: []Section{
			{ID: 10, Title: "Drinks", Items: []Item{{ID: 100, Name: "Coffee"}}},
		},
	}

	c := m.Clone()
	c.Sections[0].Title = "Mains"
	c.Sections[0].Items[0].Name = "Steak"

	if m.Sections[0].Title != "Drinks" {
		t.Error("clone shares section slice")
	}
	if m.Sections[0].Items[0].Name != "Coffee" {
		t.Error("clone shares item slice")
	}
}

func TestValidThemeMode(t *testing.T) {
	for _, mode := range []string{"light", "dark", "brand"} {
		if !ValidThemeMode(mode) {
			t.Errorf("%q should be valid", mode)
		}
	}
	if ValidThemeMode("neon") {
		t.Error("unknown mode should be invalid")
	}
}

func TestSectionIDs(t *testing.T) {
	m := Menu{Sections: []Section{{ID: 3}, {ID: 7}}}
	ids := m.SectionIDs()
	if !reflect.DeepEqual(ids, []int64{3, 7}) {
		t.Errorf("section ids = %v", ids)
	}
}
