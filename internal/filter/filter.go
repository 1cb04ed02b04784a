// Package filter narrows a parsed list of earthquakes.
//
// Filters are applied after a bulletin has been parsed successfully, so they
// never hide a parse failure. Criteria:
//   - Minimum magnitude (inclusive)
//   - Maximum depth in km (inclusive)
//   - Provinces (Turkish-aware, case- and accent-insensitive exact match)
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.MinMagnitude = filter.Float(4.0)
//	f.Provinces = []string{"İzmir", "Manisa"}
//
//	strong := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pfrederiksen/kandilli/internal/event"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter represents event filtering criteria
type Filter struct {
	MinMagnitude *float64 `json:"min_magnitude,omitempty"`
	MaxDepthKm   *float64 `json:"max_depth_km,omitempty"`
	Provinces    []string `json:"provinces,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{Provinces: []string{}}
}

// Float returns a pointer to v, for setting optional criteria.
func Float(v float64) *float64 {
	return &v
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.MinMagnitude == nil && f.MaxDepthKm == nil && len(f.Provinces) == 0)
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
func (f *Filter) Matches(evt event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if f.MinMagnitude != nil && evt.Magnitude < *f.MinMagnitude {
		return false
	}

	if f.MaxDepthKm != nil && evt.DepthKm > *f.MaxDepthKm {
		return false
	}

	if len(f.Provinces) > 0 {
		province := Fold(evt.Province)
		matched := false
		for _, p := range f.Provinces {
			if Fold(p) == province {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the events that match, in their original order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []event.Event) []event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Magnitude >= 4.0 | Depth <= 10.0 km | Provinces: IZMIR, MANISA"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.MinMagnitude != nil {
		parts = append(parts, fmt.Sprintf("Magnitude >= %.1f", *f.MinMagnitude))
	}
	if f.MaxDepthKm != nil {
		parts = append(parts, fmt.Sprintf("Depth <= %.1f km", *f.MaxDepthKm))
	}
	if len(f.Provinces) > 0 {
		parts = append(parts, fmt.Sprintf("Provinces: %s", strings.Join(f.Provinces, ", ")))
	}
	return strings.Join(parts, " | ")
}

// Fold normalizes a place name for comparison: Turkish upper-casing followed
// by removal of combining marks, so "izmir", "İzmir" and "IZMIR" are equal.
// KOERI writes place names in ASCII capitals.
func Fold(s string) string {
	upper := cases.Upper(language.Turkish).String(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, upper)
	if err != nil {
		return upper
	}
	return folded
}
