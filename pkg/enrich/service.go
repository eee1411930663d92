// Package enrich assembles the geospatial context for a GPS point: nearby
// landmarks from the local catalog plus location metadata, memoized in the
// cache so repeated footage positions stay cheap.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"geotruth/pkg/cache"
	"geotruth/pkg/geo"
	"geotruth/pkg/model"
	"geotruth/pkg/poi"
)

const (
	// Search radius for nearby landmarks.
	poiRadiusM = 500.0
	poiLimit   = 25

	defaultFOVDeg = 120.0
)

// Request is a single point to enrich.
type Request struct {
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Timestamp  *string  `json:"timestamp,omitempty"`
	HeadingDeg *float64 `json:"heading_deg,omitempty"`
	FOVDeg     float64  `json:"fov_deg,omitempty"`
}

// Response is the enrichment result for one point.
type Response struct {
	Location model.LocationResult  `json:"location"`
	Context  model.LocationContext `json:"context"`
	POIs     []model.POI           `json:"pois"`
}

// BatchResult carries batch results plus cache accounting.
type BatchResult struct {
	Results     []Response
	TotalPoints int
	CacheHits   int
}

// ContextResolver turns a coordinate into location metadata (country,
// timezone, ...). Optional; nil leaves the context empty.
type ContextResolver func(lat, lon float64) model.LocationContext

// Service enriches GPS points.
type Service struct {
	cache   cache.Cacher
	pois    *poi.Store
	resolve ContextResolver
}

// New creates a Service. resolver may be nil.
func New(c cache.Cacher, p *poi.Store, resolver ContextResolver) *Service {
	return &Service{cache: c, pois: p, resolve: resolver}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("enrich:%.4f:%.4f", lat, lon)
}

// Point enriches a single GPS point. Catalog failures degrade to an empty
// POI list rather than failing the request.
func (s *Service) Point(ctx context.Context, req Request) (Response, error) {
	key := cacheKey(req.Lat, req.Lon)
	if val, hit := s.cache.Get(ctx, key); hit {
		var cached Response
		if err := json.Unmarshal(val, &cached); err == nil {
			slog.Debug("Enrichment cache hit", "key", key)
			return cached, nil
		}
		slog.Warn("Discarding unparseable cached enrichment", "key", key)
	}

	resp := Response{
		Location: model.LocationResult{Lat: req.Lat, Lon: req.Lon},
		POIs:     []model.POI{},
	}
	if s.resolve != nil {
		resp.Context = s.resolve(req.Lat, req.Lon)
	}

	pois, err := s.pois.Nearby(ctx, req.Lat, req.Lon, poiRadiusM, poiLimit)
	if err != nil {
		slog.Warn("POI lookup failed, returning empty enrichment", "error", err)
	} else {
		resp.POIs = s.applyFOV(req, pois)
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, payload, cache.DefaultTTL); err != nil {
			slog.Warn("Failed to cache enrichment", "key", key, "error", err)
		}
	}
	return resp, nil
}

// applyFOV marks which landmarks fall inside the camera's field of view when
// a heading is known. Without a heading everything stays visible.
func (s *Service) applyFOV(req Request, pois []model.POI) []model.POI {
	if req.HeadingDeg == nil {
		return pois
	}
	fov := req.FOVDeg
	if fov <= 0 {
		fov = defaultFOVDeg
	}
	for i := range pois {
		pois[i].InFOV = geo.InFieldOfView(*req.HeadingDeg, pois[i].BearingDeg, fov)
	}
	return pois
}

// Batch enriches multiple points, counting points already present in the
// cache before the loop touches them.
func (s *Service) Batch(ctx context.Context, points []Request) (BatchResult, error) {
	res := BatchResult{TotalPoints: len(points), Results: make([]Response, 0, len(points))}

	for _, p := range points {
		if s.cache.Exists(ctx, cacheKey(p.Lat, p.Lon)) {
			res.CacheHits++
		}
		r, err := s.Point(ctx, p)
		if err != nil {
			return res, err
		}
		res.Results = append(res.Results, r)
	}
	return res, nil
}
