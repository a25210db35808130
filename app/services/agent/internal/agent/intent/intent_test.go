package intent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIntent() Intent {
	return Intent{
		Category:  "shoes",
		Occasion:  "wedding",
		BudgetMax: 150,
		TripSegments: []TripSegment{
			{Destination: "Paris", StartDate: NewDate(2026, 6, 1), EndDate: NewDate(2026, 6, 5)},
		},
	}
}

func TestMergeEmptyDeltaIsIdentity(t *testing.T) {
	in := sampleIntent()
	out := Merge(in, Intent{})
	assert.Equal(t, in, out)
	assert.Equal(t, in, Merge(Merge(out, Intent{}), Intent{}))
	assert.Equal(t, Intent{}, Merge(Intent{}, Intent{}))
}

func TestMergeFieldWiseOverride(t *testing.T) {
	out := Merge(Merge(Intent{}, Intent{Category: "shoes"}), Intent{BudgetMax: 100})
	assert.Equal(t, "shoes", out.Category)
	assert.Equal(t, float64(100), out.BudgetMax)

	out = Merge(out, Intent{Category: "boots", Style: "warm"})
	assert.Equal(t, "boots", out.Category)
	assert.Equal(t, "warm", out.Style)
	assert.Equal(t, float64(100), out.BudgetMax)
}

func TestMergeTripSegmentsReplacedOnlyWhenNonEmpty(t *testing.T) {
	acc := sampleIntent()

	kept := Merge(acc, Intent{Style: "rain"})
	require.Len(t, kept.TripSegments, 1)
	assert.Equal(t, "Paris", kept.TripSegments[0].Destination)

	replaced := Merge(acc, Intent{TripSegments: []TripSegment{
		{Destination: "Rome", StartDate: NewDate(2026, 7, 1), EndDate: NewDate(2026, 7, 3)},
		{Destination: "Rome", StartDate: NewDate(2026, 7, 9), EndDate: NewDate(2026, 7, 10)},
	}})
	require.Len(t, replaced.TripSegments, 2)
	assert.Equal(t, "Rome", replaced.TripSegments[1].Destination)
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	acc := sampleIntent()
	out := Merge(acc, Intent{})
	out.TripSegments[0].Destination = "Lyon"
	assert.Equal(t, "Paris", acc.TripSegments[0].Destination)
}

func TestMergeIgnoresNonPositiveBudget(t *testing.T) {
	out := Merge(Intent{BudgetMax: 80}, Intent{BudgetMax: -5})
	assert.Equal(t, float64(80), out.BudgetMax)
}

func TestDestinationVariant(t *testing.T) {
	assert.Nil(t, Intent{Category: "shoes"}.Destination())

	single, ok := Intent{Location: "Tokyo"}.Destination().(SingleDestination)
	require.True(t, ok)
	assert.Equal(t, "Tokyo", single.Location)

	multi, ok := Intent{Location: "Tokyo", TripSegments: sampleIntent().TripSegments}.Destination().(MultiSegment)
	require.True(t, ok)
	assert.Len(t, multi.Segments, 1)
}

func TestTripSegmentValidate(t *testing.T) {
	ok := TripSegment{Destination: "Paris", StartDate: NewDate(2026, 6, 1), EndDate: NewDate(2026, 6, 1)}
	assert.NoError(t, ok.Validate())

	inverted := TripSegment{Destination: "Paris", StartDate: NewDate(2026, 6, 5), EndDate: NewDate(2026, 6, 1)}
	assert.ErrorIs(t, inverted.Validate(), ErrInvertedDates)

	assert.ErrorIs(t, TripSegment{StartDate: NewDate(2026, 6, 1), EndDate: NewDate(2026, 6, 1)}.Validate(), ErrMissingDestination)
}

func TestIntentJSONRoundTripKeepsDates(t *testing.T) {
	in := sampleIntent()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start_date":"2026-06-01"`)

	var out Intent
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestFieldsAndIsEmpty(t *testing.T) {
	assert.True(t, Intent{}.IsEmpty())
	assert.Equal(t, []string{"category", "occasion", "budget_max", "trip_segments"}, sampleIntent().Fields())
}
