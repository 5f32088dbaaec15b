package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/plants.json
var plantsJSON []byte

// Plant is a catalog entry. Price is the display string shown to shoppers.
type Plant struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	Image       string  `json:"img"`
	ImageHover  string  `json:"imgHover"`
	Rating      float64 `json:"rating"`
	Family      string  `json:"family"`
	Origin      string  `json:"origin"`
	Watering    string  `json:"watering"`
	Description string  `json:"description"`
	Bestseller  bool    `json:"bestseller"`
}

// Category is a slug with its display name and plant count.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var displayNames = map[string]string{
	"indoorplants":  "Indoor Plants",
	"outdoorplants": "Outdoor Plants",
	"succulents":    "Succulents",
}

// DisplayName maps a category slug to its heading; unknown slugs are shown verbatim.
func DisplayName(slug string) string {
	if name, ok := displayNames[strings.ToLower(slug)]; ok {
		return name
	}
	return slug
}

// Catalog is a read-only in-memory index over the plant list.
type Catalog struct {
	plants []Plant
	byID   map[int]Plant
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(plantsJSON)
}

// Parse builds a catalog from raw JSON. Duplicate ids are rejected.
func Parse(raw []byte) (*Catalog, error) {
	var plants []Plant
	if err := json.Unmarshal(raw, &plants); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	byID := make(map[int]Plant, len(plants))
	for _, p := range plants {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plant id %d", p.ID)
		}
		byID[p.ID] = p
	}
	return &Catalog{plants: plants, byID: byID}, nil
}

func (c *Catalog) ByID(id int) (Plant, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// ByCategory matches the slug case-insensitively, preserving catalog order.
func (c *Catalog) ByCategory(slug string) []Plant {
	out := make([]Plant, 0)
	for _, p := range c.plants {
		if strings.EqualFold(p.Category, slug) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Bestsellers() []Plant {
	out := make([]Plant, 0)
	for _, p := range c.plants {
		if p.Bestseller {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists every slug present in the catalog, sorted by slug.
func (c *Catalog) Categories() []Category {
	counts := map[string]int{}
	for _, p := range c.plants {
		counts[strings.ToLower(p.Category)]++
	}
	out := make([]Category, 0, len(counts))
	for slug, n := range counts {
		out = append(out, Category{Slug: slug, Name: DisplayName(slug), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
