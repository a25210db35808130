package profile

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("customer profile not found")

type Preferences struct {
	Styles     []string `json:"styles,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	BudgetMax  float64  `json:"budget_max,omitempty"`
}

type Purchase struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Profile is a read-only customer snapshot.
type Profile struct {
	CustomerID      string            `json:"customer_id"`
	Name            string            `json:"name"`
	Age             int               `json:"age,omitempty"`
	Location        string            `json:"location,omitempty"`
	Tier            string            `json:"tier,omitempty"`
	Sizes           map[string]string `json:"sizes,omitempty"`
	Preferences     Preferences       `json:"preferences"`
	FavoriteBrands  []string          `json:"favorite_brands,omitempty"`
	RecentPurchases []Purchase        `json:"recent_purchases,omitempty"`
}

// FirstName is the greeting form of the customer's name.
func (p *Profile) FirstName() string {
	if p == nil {
		return ""
	}
	for i, r := range p.Name {
		if r == ' ' {
			return p.Name[:i]
		}
	}
	return p.Name
}

type Store interface {
	Get(ctx context.Context, customerID string) (*Profile, error)
}

// MemoryStore serves fixed profiles, for local runs and tests.
type MemoryStore struct {
	profiles map[string]*Profile
}

func NewMemoryStore(profiles ...*Profile) *MemoryStore {
	m := &MemoryStore{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if p != nil {
			m.profiles[p.CustomerID] = p
		}
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, customerID string) (*Profile, error) {
	p, ok := m.profiles[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}
