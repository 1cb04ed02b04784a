package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse builds a Filter from textual criteria as given on the command line or
// in a query string. Empty strings leave a criterion inactive.
//
// Supported input:
//   - minMagnitude: a number, e.g. "4" or "3.5"
//   - maxDepth: a non-negative number of kilometres, e.g. "10"
//   - provinces: a comma-separated list, e.g. "izmir, Manisa"
func Parse(minMagnitude, maxDepth, provinces string) (*Filter, error) {
	f := NewFilter()

	if s := strings.TrimSpace(minMagnitude); s != "" {
		v, err := parseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("invalid minimum magnitude %q: %w", minMagnitude, err)
		}
		f.MinMagnitude = &v
	}

	if s := strings.TrimSpace(maxDepth); s != "" {
		v, err := parseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("invalid maximum depth %q: %w", maxDepth, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("invalid maximum depth %q: must not be negative", maxDepth)
		}
		f.MaxDepthKm = &v
	}

	f.Provinces = ParseProvinces(provinces)

	return f, nil
}

// ParseProvinces splits a comma-separated province list, dropping blanks.
func ParseProvinces(input string) []string {
	provinces := []string{}
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			provinces = append(provinces, p)
		}
	}
	return provinces
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
