package mq

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"TripShopper/app/common/productindex"
)

// ProductRow is one row of the products table as canal ships it: every
// column is a string, JSON columns included.
type ProductRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Rating      string `json:"rating"`
	ImageURL    string `json:"image_url"`
	Colors      string `json:"colors"`
	Sizes       string `json:"sizes"`
	Gender      string `json:"gender"`
	Tags        string `json:"tags"`
	InStock     string `json:"in_stock"`
	UpdatedAt   string `json:"updated_at"`
}

type CanalMessageProducts struct {
	Data      []ProductRow      `json:"data"`
	Database  string            `json:"database"`
	Es        int64             `json:"es"`
	ID        int64             `json:"id"`
	IsDdl     bool              `json:"isDdl"`
	MysqlType map[string]string `json:"mysqlType"`
	Old       []map[string]any  `json:"old"`
	PkNames   []string          `json:"pkNames"`
	Table     string            `json:"table"`
	Ts        int64             `json:"ts"`
	Type      string            `json:"type"`
}

func (r ProductRow) ToDocument() (*productindex.Document, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return nil, fmt.Errorf("product row without id")
	}

	doc := &productindex.Document{
		ID:          id,
		Name:        r.Name,
		Brand:       r.Brand,
		Category:    strings.ToLower(strings.TrimSpace(r.Category)),
		Subcategory: strings.ToLower(strings.TrimSpace(r.Subcategory)),
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Gender:      strings.ToLower(strings.TrimSpace(r.Gender)),
		InStock:     r.InStock != "0" && !strings.EqualFold(r.InStock, "false"),
		UpdatedAt:   normalizeProductTimestamp(r.UpdatedAt),
	}

	var err error
	if doc.Price, err = parseDecimal(r.Price); err != nil {
		return nil, fmt.Errorf("product %s price: %w", id, err)
	}
	if doc.Rating, err = parseDecimal(r.Rating); err != nil {
		return nil, fmt.Errorf("product %s rating: %w", id, err)
	}
	if doc.Colors, err = parseList(r.Colors); err != nil {
		return nil, fmt.Errorf("product %s colors: %w", id, err)
	}
	if doc.Sizes, err = parseList(r.Sizes); err != nil {
		return nil, fmt.Errorf("product %s sizes: %w", id, err)
	}
	if doc.Tags, err = parseList(r.Tags); err != nil {
		return nil, fmt.Errorf("product %s tags: %w", id, err)
	}
	return doc, nil
}

func parseDecimal(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
