// Package probe runs startup dependency checks so a degraded service says so
// in its logs instead of failing silently on the first request.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// checkTimeout caps each individual check so one hung dependency cannot
// stall startup.
const checkTimeout = 5 * time.Second

// Probe is one named dependency check. A failing critical probe aborts
// startup; anything else only degrades the service.
type Probe struct {
	Name     string
	Check    func(ctx context.Context) error
	Critical bool
}

// Result records the outcome of a single probe.
type Result struct {
	Name     string
	Critical bool
	Err      error
	Duration time.Duration
}

// Results is the outcome of a probe run.
type Results []Result

// Run executes the probes in order, logging each outcome as it lands.
func Run(ctx context.Context, probes []Probe) Results {
	results := make(Results, 0, len(probes))
	for _, p := range probes {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		start := time.Now()
		err := p.Check(checkCtx)
		cancel()

		r := Result{
			Name:     p.Name,
			Critical: p.Critical,
			Err:      err,
			Duration: time.Since(start),
		}
		if r.Err != nil {
			slog.Warn("Startup check failed", "check", r.Name, "duration", r.Duration.Round(time.Millisecond), "error", r.Err)
		} else {
			slog.Info("Startup check passed", "check", r.Name, "duration", r.Duration.Round(time.Millisecond))
		}
		results = append(results, r)
	}
	return results
}

// Err joins the failures of critical probes. Nil means the service may start,
// possibly degraded.
func (rs Results) Err() error {
	var critical []error
	for _, r := range rs {
		if r.Err != nil && r.Critical {
			critical = append(critical, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return errors.Join(critical...)
}
