// Package poi looks up landmarks near a coordinate from the local catalog.
// Rows are indexed by H3 cell so a nearby query only scans a handful of
// cells instead of the whole table.
package poi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"geotruth/pkg/db"
	"geotruth/pkg/geo"
	"geotruth/pkg/model"
)

// cellResolution 9 has an average edge of ~174 m, a good match for the
// sub-kilometer radii enrichment asks for.
const cellResolution = 9

const cellEdgeM = 174.0

// Store queries the POI catalog.
type Store struct {
	db *db.DB
}

// NewStore creates a Store on an initialized database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Insert adds or replaces a POI in the catalog.
func (s *Store) Insert(ctx context.Context, p model.POI) error {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lon), cellResolution)
	if err != nil {
		return fmt.Errorf("failed to index poi %s: %w", p.ID, err)
	}

	var facts, tags []byte
	if p.Facts != nil {
		if facts, err = json.Marshal(p.Facts); err != nil {
			return fmt.Errorf("failed to marshal facts for %s: %w", p.ID, err)
		}
	}
	if p.Tags != nil {
		if tags, err = json.Marshal(p.Tags); err != nil {
			return fmt.Errorf("failed to marshal tags for %s: %w", p.ID, err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO poi (id, name, name_local, category, subcategory, lat, lon, h3_cell, confidence, facts, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.NameLocal, p.Category, p.Subcategory, p.Lat, p.Lon, int64(cell), p.Confidence,
		nullableText(facts), nullableText(tags))
	return err
}

// Nearby returns up to limit POIs within radiusM of the given position,
// sorted by distance, with distance and bearing populated.
func (s *Store) Nearby(ctx context.Context, lat, lon, radiusM float64, limit int) ([]model.POI, error) {
	origin := h3.NewLatLng(lat, lon)
	cell, err := h3.LatLngToCell(origin, cellResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to index query point: %w", err)
	}

	// Ring size that guarantees coverage of the radius.
	k := int(math.Ceil(radiusM/cellEdgeM)) + 1
	cells, err := h3.GridDisk(cell, k)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cell disk: %w", err)
	}

	rows, err := s.queryCells(ctx, cells)
	if err != nil {
		return nil, err
	}

	from := geo.Point{Lat: lat, Lon: lon}
	var result []model.POI
	for _, p := range rows {
		to := geo.Point{Lat: p.Lat, Lon: p.Lon}
		d := geo.Distance(from, to)
		if d > radiusM {
			continue
		}
		p.DistanceM = d
		p.BearingDeg = geo.Bearing(from, to)
		p.InFOV = true
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].DistanceM < result[j].DistanceM })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) queryCells(ctx context.Context, cells []h3.Cell) ([]model.POI, error) {
	if len(cells) == 0 {
		return nil, nil
	}

	placeholders := ""
	args := make([]any, len(cells))
	for i, c := range cells {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args[i] = int64(c)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, name_local, category, subcategory, lat, lon, confidence, facts, tags
		FROM poi WHERE h3_cell IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("poi query failed: %w", err)
	}
	defer rows.Close()

	var result []model.POI
	for rows.Next() {
		var p model.POI
		var nameLocal, category, subcategory, facts, tags sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &nameLocal, &category, &subcategory, &p.Lat, &p.Lon, &p.Confidence, &facts, &tags); err != nil {
			return nil, fmt.Errorf("poi scan failed: %w", err)
		}
		p.NameLocal = nameLocal.String
		p.Category = category.String
		p.Subcategory = subcategory.String
		if facts.Valid && facts.String != "" {
			var f model.POIFacts
			if err := json.Unmarshal([]byte(facts.String), &f); err != nil {
				slog.Warn("Skipping unparseable poi facts", "id", p.ID, "error", err)
			} else {
				p.Facts = &f
			}
		}
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &p.Tags); err != nil {
				slog.Warn("Skipping unparseable poi tags", "id", p.ID, "error", err)
			}
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
