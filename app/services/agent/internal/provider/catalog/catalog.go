package catalog

import (
	"context"
	"strings"

	"TripShopper/app/common/productindex"
)

// Product is a read-only catalog record.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	InStock     bool     `json:"in_stock"`
}

func FromDocument(d productindex.Document) Product {
	return Product{
		ID:          d.ID,
		Name:        d.Name,
		Brand:       d.Brand,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Price:       d.Price,
		Description: d.Description,
		Rating:      d.Rating,
		ImageURL:    d.ImageURL,
		Colors:      d.Colors,
		Sizes:       d.Sizes,
		Gender:      d.Gender,
		Tags:        d.Tags,
		InStock:     d.InStock,
	}
}

type Scored struct {
	Product
	Score float64 `json:"score"`
}

// Before reports whether a ranks ahead of b: higher score, then higher
// rating, then lower price, then id.
func Before(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.ID < b.ID
}

// Filters are hard constraints. Zero values do not filter.
type Filters struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Gender   string
	Size     string
	Brand    string

	InStockOnly bool
}

func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Relaxed keeps only the stock constraint.
func (f Filters) Relaxed() Filters {
	return Filters{InStockOnly: f.InStockOnly}
}

// Match applies the filters the same way the search backends do: category
// matches category or subcategory ignoring case and plural forms, and
// unisex items pass any gender.
func (f Filters) Match(p Product) bool {
	if f.InStockOnly && !p.InStock {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.Category != "" && !CategoryMatches(f.Category, p) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(f.Brand, p.Brand) {
		return false
	}
	if g := strings.ToLower(f.Gender); g != "" && g != "unisex" {
		pg := strings.ToLower(p.Gender)
		if pg != "" && pg != "unisex" && pg != g {
			return false
		}
	}
	if f.Size != "" && len(p.Sizes) > 0 && !containsFold(p.Sizes, f.Size) {
		return false
	}
	return true
}

func CategoryMatches(category string, p Product) bool {
	want := singular(category)
	if want == "" {
		return true
	}
	for _, have := range []string{p.Category, p.Subcategory} {
		h := singular(have)
		if h == "" {
			continue
		}
		if h == want || strings.Contains(h, want) || strings.Contains(want, h) {
			return true
		}
	}
	return false
}

func singular(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasSuffix(s, "sses"), strings.HasSuffix(s, "shes"), strings.HasSuffix(s, "ches"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "ss"):
		return s
	case strings.HasSuffix(s, "s"):
		return strings.TrimSuffix(s, "s")
	}
	return s
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

type Query struct {
	Text    string
	Filters Filters
	TopK    int
}

type Index interface {
	Search(ctx context.Context, q Query) ([]Scored, error)
}
