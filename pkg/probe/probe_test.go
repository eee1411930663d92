package probe

import (
	"context"
	"errors"
	"testing"
)

func TestRunRecordsOutcomes(t *testing.T) {
	probes := []Probe{
		{
			Name:  "Healthy Dependency",
			Check: func(ctx context.Context) error { return nil },
		},
		{
			Name:  "Unreachable Dependency",
			Check: func(ctx context.Context) error { return errors.New("connection refused") },
		},
	}

	results := Run(context.Background(), probes)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("expected healthy check to pass, got: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("expected unreachable check to fail, got nil")
	}
	if results[1].Name != "Unreachable Dependency" {
		t.Errorf("result order should follow probe order, got %q", results[1].Name)
	}
}

func TestResultsErr(t *testing.T) {
	tests := []struct {
		name    string
		results Results
		wantErr bool
	}{
		{
			name:    "all pass",
			results: Results{{Name: "P1", Critical: true}},
			wantErr: false,
		},
		{
			name:    "critical failure",
			results: Results{{Name: "P1", Critical: true, Err: errors.New("fail")}},
			wantErr: true,
		},
		{
			name:    "non-critical failure",
			results: Results{{Name: "P1", Err: errors.New("fail")}},
			wantErr: false,
		},
		{
			name: "mixed failure",
			results: Results{
				{Name: "P1", Err: errors.New("fail")},
				{Name: "P2", Critical: true, Err: errors.New("fail")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.results.Err()
			if (err != nil) != tt.wantErr {
				t.Errorf("Err() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
