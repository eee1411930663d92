package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOIFactsUnmarshalSplitsKnownAndExtra(t *testing.T) {
	input := []byte(`{"established":"1887","depth_m":12.5,"unesco_site":true,"architect":"Eiffel","visitors_per_year":7000000}`)

	var f POIFacts
	require.NoError(t, json.Unmarshal(input, &f))

	require.NotNil(t, f.Established)
	assert.Equal(t, "1887", *f.Established)
	require.NotNil(t, f.DepthM)
	assert.Equal(t, 12.5, *f.DepthM)
	require.NotNil(t, f.UNESCOSite)
	assert.True(t, *f.UNESCOSite)

	assert.Equal(t, "Eiffel", f.Extra["architect"])
	assert.Equal(t, float64(7000000), f.Extra["visitors_per_year"])
	assert.NotContains(t, f.Extra, "established")
}

func TestPOIFactsMarshalFlattensExtra(t *testing.T) {
	est := "1931"
	f := POIFacts{
		Established: &est,
		Extra:       map[string]any{"height_m": 443.2},
	}

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "1931", out["established"])
	assert.Equal(t, 443.2, out["height_m"])
	assert.NotContains(t, out, "depth_m", "unset known fields are omitted")
}

func TestPOIFactsRoundTrip(t *testing.T) {
	input := []byte(`{"unesco_site":false,"local_legend":"the bell that never rang"}`)

	var f POIFacts
	require.NoError(t, json.Unmarshal(input, &f))
	out, err := json.Marshal(f)
	require.NoError(t, err)

	var a, b map[string]any
	require.NoError(t, json.Unmarshal(input, &a))
	require.NoError(t, json.Unmarshal(out, &b))
	assert.Equal(t, a, b)
}
