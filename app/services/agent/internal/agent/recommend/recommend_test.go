package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"TripShopper/app/common/productindex"
	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/llm/llmtest"
	"TripShopper/app/services/agent/internal/provider/catalog"
	"TripShopper/app/services/agent/internal/provider/environment"
	"TripShopper/app/services/agent/internal/provider/profile"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedIndex struct {
	queries []catalog.Query
	results func(q catalog.Query) ([]catalog.Scored, error)
}

func (s *scriptedIndex) Search(_ context.Context, q catalog.Query) ([]catalog.Scored, error) {
	s.queries = append(s.queries, q)
	return s.results(q)
}

func scored(id, name string, score, rating, price float64) catalog.Scored {
	return catalog.Scored{Product: catalog.Product{ID: id, Name: name, Rating: rating, Price: price}, Score: score}
}

func TestRankTieBreaks(t *testing.T) {
	got := Rank([]catalog.Scored{
		scored("a", "Cheap Low", 0.8, 4.0, 20),
		scored("b", "Pricey High", 0.8, 4.5, 90),
		scored("c", "Cheap High", 0.8, 4.5, 40),
		scored("d", "Best", 0.95, 3.0, 300),
	}, 6)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)
}

func TestRankCapAndVariants(t *testing.T) {
	var candidates []catalog.Scored
	for i := 0; i < 20; i++ {
		candidates = append(candidates, scored(fmt.Sprintf("p-%02d", i), fmt.Sprintf("Item %d", i), float64(100-i), 4, 10))
	}
	assert.Len(t, Rank(candidates, 6), 6)
	assert.Nil(t, Rank(candidates, 0))

	got := Rank([]catalog.Scored{
		scored("1", "Trail Runner — Blue", 0.9, 4, 80),
		scored("2", "Trail Runner — Red", 0.9, 4, 80),
		scored("3", "City Loafer", 0.5, 4, 80),
	}, 6)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestRankSpreadsSubcategories(t *testing.T) {
	sub := func(id, subcategory string, score float64) catalog.Scored {
		s := scored(id, "Item "+id, score, 4, 50)
		s.Subcategory = subcategory
		return s
	}
	candidates := []catalog.Scored{
		sub("a", "sneakers", 0.9),
		sub("b", "Sneakers", 0.8),
		sub("c", "sneakers", 0.7),
		sub("d", "boots", 0.6),
		sub("e", "loafers", 0.5),
	}

	ids := func(products []catalog.Product) []string {
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "d", "e"}, ids(Rank(candidates, 3)))
	assert.Equal(t, []string{"a", "b", "d", "e"}, ids(Rank(candidates, 4)))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(Rank(candidates, 6)))
}

func TestRecommendPrefersRatingAmongEqualScores(t *testing.T) {
	docs := make([]*productindex.Document, 0, 20)
	for i := 0; i < 20; i++ {
		docs = append(docs, &productindex.Document{
			ID:       fmt.Sprintf("p-%02d", i),
			Name:     fmt.Sprintf("Shoe %02d", i),
			Category: "shoes",
			Price:    80,
			Rating:   3.0,
			InStock:  true,
		})
	}
	docs[19].Rating = 5.0
	idx, err := catalog.NewMemoryIndex(context.Background(), docs, nil)
	require.NoError(t, err)

	res := New(idx, nil).Recommend(context.Background(), intent.Intent{Category: "shoes", Occasion: "gala"}, nil)
	require.Len(t, res.Products, 6)
	assert.Equal(t, "p-19", res.Products[0].ID)
}

func TestRecommendSkipsOutOfStock(t *testing.T) {
	idx, err := catalog.NewMemoryIndex(context.Background(), []*productindex.Document{
		{ID: "p-1", Name: "Sold Out Sneaker", Category: "shoes", Price: 50, Rating: 4.9},
		{ID: "p-2", Name: "Canvas Sneaker", Category: "shoes", Price: 60, Rating: 4.1, InStock: true},
	}, nil)
	require.NoError(t, err)

	res := New(idx, nil).Recommend(context.Background(), intent.Intent{Category: "shoes", Style: "casual"}, nil)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "p-2", res.Products[0].ID)
}

func TestBuildQuery(t *testing.T) {
	in := intent.Intent{Category: "jackets", Style: "warm", Occasion: "hiking", BudgetMax: 150, Gender: "women"}
	bundle := &contextagg.Bundle{
		Environmental: contextagg.NewSegments([]contextagg.SegmentReading{
			{Reading: contextagg.Reading{Location: "Paris", Weather: &environment.Weather{TemperatureC: 8, Code: 63}}},
			{Reading: contextagg.Reading{Location: "Tokyo", Weather: &environment.Weather{TemperatureC: 27, Code: 1}}},
		}),
	}

	q := BuildQuery(in, bundle, 18)
	assert.Equal(t, "warm jackets for hiking winter waterproof rain light breathable summer", q.Text)
	assert.Equal(t, catalog.Filters{Category: "jackets", MaxPrice: 150, Gender: "women", InStockOnly: true}, q.Filters)
	assert.Equal(t, 18, q.TopK)

	q = BuildQuery(intent.Intent{Category: "shoes"}, &contextagg.Bundle{
		Profile: &profile.Profile{Preferences: profile.Preferences{Styles: []string{"classic"}}},
	}, 6)
	assert.Equal(t, "shoes classic", q.Text)
}

func TestRecommendFallsBackToUnfilteredSearch(t *testing.T) {
	idx := &scriptedIndex{results: func(q catalog.Query) ([]catalog.Scored, error) {
		if q.Filters != q.Filters.Relaxed() {
			return nil, nil
		}
		return []catalog.Scored{scored("p-1", "Canvas Sneaker", 0.7, 4.1, 120)}, nil
	}}

	res := New(idx, nil).Recommend(context.Background(), intent.Intent{Category: "shoes", BudgetMax: 50, Occasion: "wedding"}, nil)
	require.Len(t, idx.queries, 2)
	assert.Equal(t, 18, idx.queries[0].TopK)
	assert.Equal(t, idx.queries[0].Text, idx.queries[1].Text)
	assert.Equal(t, catalog.Filters{InStockOnly: true}, idx.queries[1].Filters)
	assert.True(t, res.UsedFallback)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Here are some options I picked for you: Canvas Sneaker.", res.Text)
	assert.False(t, res.Narrated)
}

func TestRecommendIndexFailureApologises(t *testing.T) {
	idx := &scriptedIndex{results: func(catalog.Query) ([]catalog.Scored, error) {
		return nil, errors.New("cluster red")
	}}
	res := New(idx, nil).Recommend(context.Background(), intent.Intent{Category: "shoes", Style: "casual"}, nil)
	assert.Empty(t, res.Products)
	assert.Equal(t, NoResultsText, res.Text)
}

func TestRecommendNarratesWithContext(t *testing.T) {
	var prompt string
	narrator := llmtest.New(func(msgs []*schema.Message) (*schema.Message, error) {
		prompt = llmtest.UserText(msgs)
		return llmtest.Text("  For Paris showers, the Storm Shell Jacket is a great pick.  "), nil
	})
	idx := &scriptedIndex{results: func(catalog.Query) ([]catalog.Scored, error) {
		return []catalog.Scored{{Product: catalog.Product{ID: "p-3", Name: "Storm Shell Jacket", Brand: "Northwind", Price: 180, Rating: 4.8}, Score: 0.9}}, nil
	}}
	bundle := &contextagg.Bundle{
		Profile: &profile.Profile{Name: "Mei Chen", FavoriteBrands: []string{"Northwind"}},
		Environmental: contextagg.NewSingle(contextagg.Reading{
			Location: "Paris",
			Weather:  &environment.Weather{Description: "Moderate rain", TemperatureC: 14, Code: 63},
			Trends:   []string{"Earth tones"},
		}),
	}

	res := New(idx, narrator).Recommend(context.Background(), intent.Intent{Category: "jackets", Location: "Paris"}, bundle)
	assert.True(t, res.Narrated)
	assert.Equal(t, "For Paris showers, the Storm Shell Jacket is a great pick.", res.Text)
	assert.Contains(t, prompt, "Favourite brands: Northwind")
	assert.Contains(t, prompt, "Destination: Paris, Moderate rain, 14°C")
	assert.Contains(t, prompt, "1. Storm Shell Jacket by Northwind, $180.00, rated 4.8")
}

func TestRecommendNarrationFailureUsesTemplate(t *testing.T) {
	narrator := llmtest.New(func([]*schema.Message) (*schema.Message, error) {
		return llmtest.Text("   "), nil
	})
	docs := []catalog.Scored{scored("a", "Derby", 0.9, 4, 100), scored("b", "Oxford", 0.8, 4, 100), scored("c", "Brogue", 0.7, 4, 100)}
	idx := &scriptedIndex{results: func(catalog.Query) ([]catalog.Scored, error) { return docs, nil }}

	res := New(idx, narrator).Recommend(context.Background(), intent.Intent{Category: "shoes", Occasion: "wedding"}, nil)
	assert.Equal(t, "Here are some options I picked for you: Derby, Oxford and Brogue.", res.Text)
	assert.False(t, strings.Contains(res.Text, "  "))
}

func TestRecommendNeverExceedsLimit(t *testing.T) {
	idx := &scriptedIndex{results: func(q catalog.Query) ([]catalog.Scored, error) {
		out := make([]catalog.Scored, 0, 40)
		for i := 0; i < 40; i++ {
			out = append(out, scored(fmt.Sprintf("p-%d", i), fmt.Sprintf("Shoe %d", i), 0.5, 4, 50))
		}
		return out, nil
	}}
	res := New(idx, nil).Recommend(context.Background(), intent.Intent{Category: "shoes", Occasion: "party"}, nil)
	assert.Len(t, res.Products, 6)

	res = New(idx, nil, WithLimit(3)).Recommend(context.Background(), intent.Intent{Category: "shoes", Occasion: "party"}, nil)
	assert.Len(t, res.Products, 3)
}
