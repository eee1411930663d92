package poi

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotruth/pkg/db"
	"geotruth/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "poi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

func TestNearbyReturnsSortedWithinRadius(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Around Zurich main station.
	base := model.POI{Category: "landmark", Confidence: 0.8}

	near := base
	near.ID = "near"
	near.Name = "Fountain"
	near.Lat, near.Lon = 47.3781, 8.5400
	require.NoError(t, s.Insert(ctx, near))

	far := base
	far.ID = "far"
	far.Name = "Hilltop"
	far.Lat, far.Lon = 47.3900, 8.5500 // well over a kilometer away
	require.NoError(t, s.Insert(ctx, far))

	got, err := s.Nearby(ctx, 47.3779, 8.5403, 500, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].ID)
	assert.Greater(t, got[0].DistanceM, 0.0)
	assert.Less(t, got[0].DistanceM, 500.0)
	assert.GreaterOrEqual(t, got[0].BearingDeg, 0.0)
	assert.Less(t, got[0].BearingDeg, 360.0)
}

func TestNearbyAppliesLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		p := model.POI{
			ID: id, Name: id, Category: "museum", Confidence: 0.8,
			Lat: 47.3779 + float64(i)*0.0005, Lon: 8.5403,
		}
		require.NoError(t, s.Insert(ctx, p))
	}

	got, err := s.Nearby(ctx, 47.3779, 8.5403, 1000, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID, "closest first")
}

func TestInsertPreservesFactsAndTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	est := "1888"
	p := model.POI{
		ID: "q1", Name: "Grossmünster", Category: "church", Confidence: 0.9,
		Lat: 47.3702, Lon: 8.5441,
		Facts: &model.POIFacts{Established: &est, Extra: map[string]any{"towers": float64(2)}},
		Tags:  map[string]any{"religion": "christian"},
	}
	require.NoError(t, s.Insert(ctx, p))

	got, err := s.Nearby(ctx, 47.3702, 8.5441, 200, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Facts)
	assert.Equal(t, "1888", *got[0].Facts.Established)
	assert.Equal(t, float64(2), got[0].Facts.Extra["towers"])
	assert.Equal(t, "christian", got[0].Tags["religion"])
}

func TestNearbyEmptyCatalog(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Nearby(context.Background(), 0, 0, 500, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
