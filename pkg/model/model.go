// Package model holds the shared domain types of the GeoTruth API.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Chapter is a named point in a video timeline, used for YouTube-style
// navigation markers. Immutable once constructed.
type Chapter struct {
	TimeCode    string `json:"time_code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ScriptSegment is one timed block of narration text.
type ScriptSegment struct {
	TimeCode  string `json:"time_code"`
	Narration string `json:"narration"`
}

// Coordinates is a GPS position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TimestampedCoordinates is a GPS position with optional capture metadata.
type TimestampedCoordinates struct {
	Coordinates
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	AccuracyM  *float64   `json:"accuracy_m,omitempty"`
	HeadingDeg *float64   `json:"heading_deg,omitempty"`
	SpeedKmh   *float64   `json:"speed_kmh,omitempty"`
}

// POI is a named landmark near a location.
type POI struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	NameLocal   string         `json:"name_local,omitempty"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory,omitempty"`
	Lat         float64        `json:"lat"`
	Lon         float64        `json:"lon"`
	DistanceM   float64        `json:"distance_m"`
	BearingDeg  float64        `json:"bearing_deg"`
	InFOV       bool           `json:"in_fov"`
	Confidence  float64        `json:"confidence"`
	Facts       *POIFacts      `json:"facts,omitempty"`
	Tags        map[string]any `json:"tags,omitempty"`
}

// MatchedLocation is a position snapped to the road network.
type MatchedLocation struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	RoadName  string  `json:"road_name,omitempty"`
	RoadClass string  `json:"road_class,omitempty"`
	Direction string  `json:"direction,omitempty"` // "northbound", "southbound", ...
}

// LocationContext is the geographic context for a location.
type LocationContext struct {
	Country    string   `json:"country,omitempty"`
	State      string   `json:"state,omitempty"`
	County     string   `json:"county,omitempty"`
	City       string   `json:"city,omitempty"`
	Timezone   string   `json:"timezone,omitempty"`
	ElevationM *float64 `json:"elevation_m,omitempty"`
}

// LocationResult is a raw position plus its optional road-network match.
type LocationResult struct {
	Lat     float64          `json:"lat"`
	Lon     float64          `json:"lon"`
	Matched *MatchedLocation `json:"matched,omitempty"`
}

// TruthEvent is one verified, timestamped location event. Read-only input
// to narration; never mutated by this service.
type TruthEvent struct {
	ID              string           `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	DurationSeconds *float64         `json:"duration_seconds,omitempty"`
	Location        LocationResult   `json:"location"`
	POIs            []POI            `json:"pois"`
	DetectedObjects []map[string]any `json:"detected_objects,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
}

// TruthBundle is a caller-supplied, already-verified set of events that is
// the sole factual basis for generated narration.
type TruthBundle struct {
	ProjectID        *uuid.UUID   `json:"project_id,omitempty"`
	VideoID          *uuid.UUID   `json:"video_id,omitempty"`
	Events           []TruthEvent `json:"events"`
	VerificationMode string       `json:"verification_mode,omitempty"` // "online" or "offline"
	GeneratedAt      *time.Time   `json:"generated_at,omitempty"`
}

// MatchedPoint is a GPS point matched to the road network.
type MatchedPoint struct {
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	EdgeID             int     `json:"edge_id"`
	DistanceFromInputM float64 `json:"distance_from_input_m"`
}

// RoadEdge is one road segment from a map-matching reply.
type RoadEdge struct {
	ID            int64    `json:"id"`
	OSMWayID      *int64   `json:"osm_way_id,omitempty"`
	RoadName      string   `json:"road_name,omitempty"`
	RoadClass     string   `json:"road_class,omitempty"`
	LengthM       float64  `json:"length_m"`
	SpeedLimitKmh *float64 `json:"speed_limit_kmh,omitempty"`
	BeginHeading  float64  `json:"begin_heading"`
	EndHeading    float64  `json:"end_heading"`
	Direction     string   `json:"direction,omitempty"` // "northbound", "southbound", ...
}
