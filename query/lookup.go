package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Lookup returns the single license that wins the prefer-active rule
// for callSign: among however many rows share a call sign (the FCC
// reissues lapsed vanity calls), the one ordered first by
// (license_status ASC, grant_date DESC) is the one most callers want.
// A miss is reported as (License{}, false, nil), never an error.
func (e *Engine) Lookup(ctx context.Context, callSign string) (License, bool, error) {
	key := strings.ToUpper(strings.TrimSpace(callSign))
	if key == "" {
		return License{}, false, nil
	}
	if cached, ok := e.cache.callsigns.Get(key); ok {
		if cached == nil {
			return License{}, false, nil
		}
		return *cached, true, nil
	}

	q := fmt.Sprintf(`SELECT %s
		FROM licenses l
		LEFT JOIN entities e ON e.unique_system_identifier = l.unique_system_identifier
		LEFT JOIN amateur_operators a ON a.unique_system_identifier = l.unique_system_identifier
		WHERE l.call_sign = ?
		GROUP BY l.unique_system_identifier
		ORDER BY l.license_status ASC, l.grant_date DESC
		LIMIT 1`, licenseSelectColumns)

	lic, err := scanLicense(e.store.DB().QueryRowContext(ctx, q, key))
	if err == sql.ErrNoRows {
		e.cache.callsigns.Add(key, nil)
		return License{}, false, nil
	}
	if err != nil {
		return License{}, false, fmt.Errorf("query: lookup %s: %w", callSign, err)
	}
	e.cache.callsigns.Add(key, &lic)
	return lic, true, nil
}

// LookupByFRN returns every license whose associated entity carries frn,
// ordered by (radio_service_code, call_sign). An empty result is not an
// error.
func (e *Engine) LookupByFRN(ctx context.Context, frn string) ([]License, error) {
	frn = strings.TrimSpace(frn)
	if frn == "" {
		return nil, nil
	}
	if cached, ok := e.cache.frns.Get(frn); ok {
		return cached, nil
	}

	q := fmt.Sprintf(`SELECT %s
		FROM licenses l
		JOIN entities e ON e.unique_system_identifier = l.unique_system_identifier
		LEFT JOIN amateur_operators a ON a.unique_system_identifier = l.unique_system_identifier
		WHERE e.frn = ?
		GROUP BY l.unique_system_identifier
		ORDER BY l.radio_service_code, l.call_sign`, licenseSelectColumns)

	rows, err := e.store.DB().QueryContext(ctx, q, frn)
	if err != nil {
		return nil, fmt.Errorf("query: lookup_by_frn %s: %w", frn, err)
	}
	defer rows.Close()

	var out []License
	for rows.Next() {
		lic, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("query: lookup_by_frn %s: scan: %w", frn, err)
		}
		out = append(out, lic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	e.cache.frns.Add(frn, out)
	return out, nil
}

// frnResult pairs a batched FRN lookup with its outcome.
type frnResult struct {
	frn  string
	lics []License
	err  error
}

// LookupByFRNBatch runs LookupByFRN for every entry in frns concurrently
// across the engine's worker pool. Callers should dedupe results by USI
// themselves: the same license can appear under more than one FRN when a
// registrant re-registers, though in practice they rarely do.
func (e *Engine) LookupByFRNBatch(ctx context.Context, frns []string) (map[string][]License, error) {
	results := make(chan frnResult, len(frns))
	for _, frn := range frns {
		frn := frn
		e.pool.Submit(func() {
			lics, err := e.LookupByFRN(ctx, frn)
			results <- frnResult{frn: frn, lics: lics, err: err}
		})
	}

	out := make(map[string][]License, len(frns))
	var firstErr error
	for range frns {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		out[r.frn] = r.lics
	}
	return out, firstErr
}
