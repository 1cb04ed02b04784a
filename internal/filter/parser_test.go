package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		minMagnitude  string
		maxDepth      string
		provinces     string
		wantMag       *float64
		wantDepth     *float64
		wantProvinces []string
		wantErr       bool
	}{
		{
			name:          "all empty",
			wantProvinces: []string{},
		},
		{
			name:          "all set",
			minMagnitude:  "3.5",
			maxDepth:      " 10 ",
			provinces:     "izmir, Manisa,,",
			wantMag:       Float(3.5),
			wantDepth:     Float(10),
			wantProvinces: []string{"izmir", "Manisa"},
		},
		{
			name:         "bad magnitude",
			minMagnitude: "strong",
			wantErr:      true,
		},
		{
			name:     "negative depth",
			maxDepth: "-1",
			wantErr:  true,
		},
		{
			name:     "infinite depth",
			maxDepth: "Inf",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.minMagnitude, tt.maxDepth, tt.provinces)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMag, f.MinMagnitude)
			assert.Equal(t, tt.wantDepth, f.MaxDepthKm)
			assert.Equal(t, tt.wantProvinces, f.Provinces)
		})
	}
}

func TestParseProvinces(t *testing.T) {
	assert.Equal(t, []string{}, ParseProvinces(""))
	assert.Equal(t, []string{}, ParseProvinces(" , "))
	assert.Equal(t, []string{"VAN"}, ParseProvinces("VAN"))
	assert.Equal(t, []string{"Van", "Muğla"}, ParseProvinces("Van,Muğla"))
}
