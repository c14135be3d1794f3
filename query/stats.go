package query

import (
	"context"
	"fmt"

	"github.com/n6ul/ulsdb/internal/codes"
)

// Stats is the aggregate snapshot: license counts by status, an optional
// per-service histogram, and the store's last-updated timestamp and
// schema version.
type Stats struct {
	TotalLicenses     int
	ActiveLicenses    int
	ExpiredLicenses   int
	CancelledLicenses int
	ByService         map[string]int // nil unless includeHistogram was requested
	LastUpdated       string
	SchemaVersion     int
}

// Stats computes the aggregate snapshot. includeHistogram gates the
// per-radio-service breakdown, which costs one query per distinct
// service observed in the data and so is worth skipping when a caller
// only needs the headline counts.
func (e *Engine) Stats(ctx context.Context, includeHistogram bool) (Stats, error) {
	var s Stats
	db := e.store.DB()

	counts := []struct {
		dest   *int
		status codes.LicenseStatus
	}{
		{&s.ActiveLicenses, codes.StatusActive},
		{&s.ExpiredLicenses, codes.StatusExpired},
		{&s.CancelledLicenses, codes.StatusCancelled},
	}
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM licenses`).Scan(&s.TotalLicenses); err != nil {
		return Stats{}, fmt.Errorf("query: stats: total: %w", err)
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, `SELECT count(*) FROM licenses WHERE license_status = ?`, int(c.status)).Scan(c.dest); err != nil {
			return Stats{}, fmt.Errorf("query: stats: status %s: %w", c.status, err)
		}
	}

	if lastUpdated, ok, err := e.store.GetMetadata("last_updated"); err != nil {
		return Stats{}, fmt.Errorf("query: stats: last_updated: %w", err)
	} else if ok {
		s.LastUpdated = lastUpdated
	}
	s.SchemaVersion = e.store.SchemaVersion()

	if includeHistogram {
		services, err := e.distinctServices(ctx)
		if err != nil {
			return Stats{}, err
		}
		s.ByService = e.serviceHistogram(ctx, services)
	}
	return s, nil
}

func (e *Engine) distinctServices(ctx context.Context) ([]int, error) {
	rows, err := e.store.DB().QueryContext(ctx,
		`SELECT DISTINCT radio_service_code FROM licenses WHERE radio_service_code IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query: stats: distinct services: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// serviceHistogram counts licenses per radio service concurrently
// across the worker pool: each service's count is an independent query
// against its own pooled read connection.
func (e *Engine) serviceHistogram(ctx context.Context, services []int) map[string]int {
	type result struct {
		service string
		count   int
	}
	results := make(chan result, len(services))
	for _, svc := range services {
		svc := svc
		e.pool.Submit(func() {
			var n int
			_ = e.store.DB().QueryRowContext(ctx,
				`SELECT count(*) FROM licenses WHERE radio_service_code = ?`, svc).Scan(&n)
			results <- result{service: codes.RadioService(svc).String(), count: n}
		})
	}

	out := make(map[string]int, len(services))
	for range services {
		r := <-results
		out[r.service] = r.count
	}
	return out
}
