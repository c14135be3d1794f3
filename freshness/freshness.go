// Package freshness computes per-service data-freshness signals (age,
// staleness, applied-patch set) and owns the applied-patch ledger that
// backs them.
package freshness

import (
	"time"

	"github.com/n6ul/ulsdb/store"
)

// DataFreshness is the staleness signal for one service: how old the
// store's data is, whether that exceeds the configured threshold, and
// which daily patches have landed since the last weekly.
type DataFreshness struct {
	Service        string
	LastUpdated    time.Time
	HasLastUpdated bool
	Age            time.Duration
	ThresholdDays  int
	Stale          bool
	AppliedPatches []store.AppliedPatch
}

// Compute derives a DataFreshness for service against now, reading the
// store's `last_updated` metadata and its applied-patch ledger. A store
// that has never completed an import (no `last_updated` recorded) is
// reported stale unconditionally - there is no age to compare against a
// threshold, and "unknown" is the safer default than "fresh".
func Compute(s *store.Store, service string, cfg Config, now time.Time) (DataFreshness, error) {
	df := DataFreshness{Service: service, ThresholdDays: cfg.ThresholdDays}

	raw, ok, err := s.GetMetadata("last_updated")
	if err != nil {
		return df, err
	}
	if ok {
		if t, parsed := ParseFCCTimestamp(raw); parsed {
			df.LastUpdated = t
			df.HasLastUpdated = true
			df.Age = now.Sub(t)
			df.Stale = df.Age > time.Duration(cfg.ThresholdDays)*24*time.Hour
		}
	}
	if !df.HasLastUpdated {
		df.Stale = true
	}

	patches, err := s.AppliedPatches(service)
	if err != nil {
		return df, err
	}
	df.AppliedPatches = patches
	return df, nil
}
