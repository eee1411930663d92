package probe

import (
	"context"
	"fmt"

	"geotruth/pkg/cache"
	"geotruth/pkg/db"
	"geotruth/pkg/llm"
	"geotruth/pkg/valhalla"
)

// Pinger is anything with connection-level reachability (the Redis cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServiceProbes builds the standard startup checks. Every dependency is
// non-critical: the service starts degraded and reports through /v1/health.
// Nil collaborators produce a "not configured" failure rather than a panic.
func ServiceProbes(c cache.Cacher, d *db.DB, v *valhalla.Client, provider llm.Provider) []Probe {
	return []Probe{
		{
			Name: "Redis Cache",
			Check: func(ctx context.Context) error {
				// The in-memory cache has no connection to check.
				if p, ok := c.(Pinger); ok {
					return p.Ping(ctx)
				}
				return nil
			},
		},
		{
			Name: "POI Catalog (SQLite)",
			Check: func(ctx context.Context) error {
				if d == nil {
					return fmt.Errorf("database not configured")
				}
				return d.PingContext(ctx)
			},
		},
		{
			Name: "Valhalla",
			Check: func(ctx context.Context) error {
				if v == nil {
					return fmt.Errorf("valhalla not configured")
				}
				return v.Ping(ctx)
			},
		},
		{
			Name: "LLM Provider",
			Check: func(ctx context.Context) error {
				if provider == nil {
					return fmt.Errorf("no generation credential configured")
				}
				return provider.HealthCheck(ctx)
			},
		},
	}
}
