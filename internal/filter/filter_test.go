package filter

import (
	"testing"

	"github.com/pfrederiksen/kandilli/internal/event"
	"github.com/stretchr/testify/assert"
)

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"nil filter", nil, true},
		{"empty filter", NewFilter(), true},
		{"min magnitude", &Filter{MinMagnitude: Float(3)}, false},
		{"zero max depth is active", &Filter{MaxDepthKm: Float(0)}, false},
		{"provinces", &Filter{Provinces: []string{"VAN"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.IsEmpty())
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	evt := event.Event{Magnitude: 4.2, DepthKm: 7.0, Province: "IZMIR", District: "BUCA"}

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty", NewFilter(), true},
		{"magnitude equal is inclusive", &Filter{MinMagnitude: Float(4.2)}, true},
		{"magnitude too low", &Filter{MinMagnitude: Float(4.3)}, false},
		{"depth equal is inclusive", &Filter{MaxDepthKm: Float(7)}, true},
		{"too deep", &Filter{MaxDepthKm: Float(5)}, false},
		{"province ASCII", &Filter{Provinces: []string{"izmir"}}, true},
		{"province Turkish dotted capital", &Filter{Provinces: []string{"İzmir"}}, true},
		{"province lower Turkish", &Filter{Provinces: []string{"izmİr"}}, true},
		{"province in list", &Filter{Provinces: []string{"Van", "Izmir"}}, true},
		{"province not in list", &Filter{Provinces: []string{"Van", "Manisa"}}, false},
		{"province is exact not substring", &Filter{Provinces: []string{"IZ"}}, false},
		{
			name:   "all criteria",
			filter: &Filter{MinMagnitude: Float(4), MaxDepthKm: Float(10), Provinces: []string{"izmir"}},
			want:   true,
		},
		{
			name:   "one criterion fails",
			filter: &Filter{MinMagnitude: Float(4), MaxDepthKm: Float(5), Provinces: []string{"izmir"}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(evt))
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []event.Event{
		{District: "ERCIS", Province: "VAN", Magnitude: 4.2, DepthKm: 7},
		{District: "SEHITKAMIL", Province: "GAZIANTEP", Magnitude: 3.1, DepthKm: 8.6},
		{District: "ALTINOVA", Province: "YALOVA", Magnitude: 2.4, DepthKm: 12.3},
		{District: "SOGUT", Province: "MUGLA", Magnitude: 4.9, DepthKm: 5},
	}

	f := &Filter{MinMagnitude: Float(3)}
	got := f.Apply(events)

	assert.Len(t, got, 3)
	assert.Equal(t, "ERCIS", got[0].District)
	assert.Equal(t, "SEHITKAMIL", got[1].District)
	assert.Equal(t, "SOGUT", got[2].District)

	assert.Equal(t, events, NewFilter().Apply(events))
	assert.Empty(t, (&Filter{Provinces: []string{"Muğla", "Van"}, MinMagnitude: Float(5)}).Apply(events))
	assert.Len(t, (&Filter{Provinces: []string{"Muğla"}}).Apply(events), 1)
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "No active filters", NewFilter().String())

	f := &Filter{MinMagnitude: Float(4), MaxDepthKm: Float(10), Provinces: []string{"IZMIR", "MANISA"}}
	assert.Equal(t, "Magnitude >= 4.0 | Depth <= 10.0 km | Provinces: IZMIR, MANISA", f.String())
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"izmir", "IZMIR"},
		{"İzmir", "IZMIR"},
		{"Muğla", "MUGLA"},
		{"Kahramanmaraş", "KAHRAMANMARAS"},
		{"Çanakkale", "CANAKKALE"},
		{"Düzce", "DUZCE"},
		{"Iğdır", "IGDIR"},
		{"  van ", "VAN"},
		{"SOFALACA-SEHITKAMIL", "SOFALACA-SEHITKAMIL"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}
