// Package valhalla talks to a Valhalla routing engine to snap GPS traces to
// the road network via the trace_attributes API.
package valhalla

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"geotruth/pkg/geo"
	"geotruth/pkg/model"
	"geotruth/pkg/request"
)

// attributeFilter is the fixed set of response attributes we ask for. Less
// data back means faster matching on long traces.
var attributeFilter = []string{
	"edge.way_id",
	"edge.road_class",
	"edge.names",
	"edge.length",
	"edge.speed_limit",
	"matched.point",
	"matched.edge_index",
	"matched.distance_from_trace_point",
}

// MatchResult is a parsed trace_attributes reply. Route is the encoded
// polyline of the matched path; degraded results carry none and omit it.
type MatchResult struct {
	MatchedPoints []model.MatchedPoint `json:"matched_points"`
	Edges         []model.RoadEdge     `json:"edges"`
	Route         string               `json:"route,omitempty"`
}

// Client calls a Valhalla instance.
type Client struct {
	baseURL string
	client  *request.Client
}

// New creates a Client for the given base URL (e.g. http://localhost:8002).
func New(baseURL string, client *request.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Configured reports whether a Valhalla URL was provided.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type shapePoint struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Time string  `json:"time,omitempty"`
}

type traceRequest struct {
	Shape      []shapePoint `json:"shape"`
	Costing    string       `json:"costing"`
	ShapeMatch string       `json:"shape_match"`
	Filters    struct {
		Attributes []string `json:"attributes"`
		Action     string   `json:"action"`
	} `json:"filters"`
}

type traceResponse struct {
	MatchedPoints []struct {
		Type                   string  `json:"type"`
		Lat                    float64 `json:"lat"`
		Lon                    float64 `json:"lon"`
		EdgeIndex              int     `json:"edge_index"`
		DistanceFromTracePoint float64 `json:"distance_from_trace_point"`
	} `json:"matched_points"`
	Edges []struct {
		ID           int64    `json:"id"`
		WayID        *int64   `json:"way_id"`
		Names        []string `json:"names"`
		RoadClass    string   `json:"road_class"`
		Length       float64  `json:"length"` // kilometers
		SpeedLimit   *float64 `json:"speed_limit"`
		BeginHeading float64  `json:"begin_heading"`
		EndHeading   float64  `json:"end_heading"`
	} `json:"edges"`
	Shape string `json:"shape"`
}

// TraceAttributes matches a GPS trace against the road network. A failed or
// unreachable upstream degrades to an empty result rather than an error; the
// condition is logged and surfaced through health checks instead.
func (c *Client) TraceAttributes(ctx context.Context, coords []model.TimestampedCoordinates, costing, shapeMatch string) (MatchResult, error) {
	if costing == "" {
		costing = "auto"
	}
	if shapeMatch == "" {
		shapeMatch = "walk_or_snap"
	}

	tr := traceRequest{
		Shape:      make([]shapePoint, len(coords)),
		Costing:    costing,
		ShapeMatch: shapeMatch,
	}
	tr.Filters.Attributes = attributeFilter
	tr.Filters.Action = "include"
	for i, p := range coords {
		sp := shapePoint{Lat: p.Lat, Lon: p.Lon}
		if p.Timestamp != nil {
			sp.Time = p.Timestamp.Format(time.RFC3339)
		}
		tr.Shape[i] = sp
	}

	payload, err := json.Marshal(tr)
	if err != nil {
		return MatchResult{}, fmt.Errorf("failed to marshal trace request: %w", err)
	}

	cacheKey := fmt.Sprintf("mapmatch:%x", sha256.Sum256(payload))
	headers := map[string]string{"Content-Type": "application/json"}
	body, err := c.client.PostWithCache(ctx, c.baseURL+"/trace_attributes", payload, headers, cacheKey)
	if err != nil {
		slog.Warn("Map matching unavailable, returning empty result", "error", err)
		return MatchResult{
			MatchedPoints: []model.MatchedPoint{},
			Edges:         []model.RoadEdge{},
		}, nil
	}

	var resp traceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Warn("Unparseable map matching response, returning empty result", "error", err)
		return MatchResult{
			MatchedPoints: []model.MatchedPoint{},
			Edges:         []model.RoadEdge{},
		}, nil
	}

	result := MatchResult{
		MatchedPoints: make([]model.MatchedPoint, 0, len(resp.MatchedPoints)),
		Edges:         make([]model.RoadEdge, 0, len(resp.Edges)),
		Route:         resp.Shape,
	}
	for i, mp := range resp.MatchedPoints {
		if mp.Type != "matched" {
			continue
		}
		lat, lon := mp.Lat, mp.Lon
		if lat == 0 && lon == 0 && i < len(coords) {
			lat, lon = coords[i].Lat, coords[i].Lon
		}
		result.MatchedPoints = append(result.MatchedPoints, model.MatchedPoint{
			Lat:                lat,
			Lon:                lon,
			EdgeID:             mp.EdgeIndex,
			DistanceFromInputM: mp.DistanceFromTracePoint,
		})
	}
	for _, e := range resp.Edges {
		edge := model.RoadEdge{
			ID:            e.ID,
			OSMWayID:      e.WayID,
			RoadClass:     e.RoadClass,
			LengthM:       e.Length * 1000,
			SpeedLimitKmh: e.SpeedLimit,
			BeginHeading:  e.BeginHeading,
			EndHeading:    e.EndHeading,
			Direction:     geo.TravelDirection(e.BeginHeading),
		}
		if len(e.Names) > 0 {
			edge.RoadName = e.Names[0]
		}
		result.Edges = append(result.Edges, edge)
	}

	return result, nil
}

// Ping checks that the Valhalla instance answers at all.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return fmt.Errorf("valhalla url not configured")
	}
	_, err := c.client.Get(ctx, c.baseURL+"/status", "")
	return err
}
