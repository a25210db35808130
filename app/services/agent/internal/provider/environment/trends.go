package environment

import (
	"context"
	"strings"
)

var DefaultTrends = []string{
	"Sustainable fashion",
	"Oversized blazers",
	"Chunky sneakers",
	"Minimalist accessories",
	"Earth tones",
	"Athleisure wear",
}

// StaticTrends serves a configured trend list, optionally per location.
type StaticTrends struct {
	Default    []string
	ByLocation map[string][]string
}

func NewStaticTrends(byLocation map[string][]string) *StaticTrends {
	normalized := make(map[string][]string, len(byLocation))
	for loc, trends := range byLocation {
		normalized[strings.ToLower(strings.TrimSpace(loc))] = trends
	}
	return &StaticTrends{Default: DefaultTrends, ByLocation: normalized}
}

func (s *StaticTrends) Trends(_ context.Context, location string) ([]string, error) {
	if trends, ok := s.ByLocation[strings.ToLower(strings.TrimSpace(location))]; ok && len(trends) > 0 {
		return append([]string(nil), trends...), nil
	}
	return append([]string(nil), s.Default...), nil
}
