package store

import (
	"database/sql"
	"fmt"
)

// AppliedPatch is one row of the applied_patches ledger: a daily patch
// that has been applied for a service since its last weekly landing.
// The weekday label is kept alongside the date so a caller can
// reconstruct the FCC's `l_<abbrev>_<weekday>.zip` daily URL pattern.
type AppliedPatch struct {
	Service   string
	PatchDate string
	Weekday   string
	AppliedAt string
	ETag      string
	RowCount  int64
}

// ApplyPatch appends (or, if re-applied, replaces in place) one
// applied_patches row. Re-applying the same service/patch_date pair is
// idempotent: the natural key is (service, patch_date), so it updates
// the existing row rather than adding a second one.
func (s *Store) ApplyPatch(patch AppliedPatch) error {
	_, err := s.db.Exec(`INSERT INTO applied_patches
			(service, patch_date, weekday, applied_at, etag, row_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(service, patch_date) DO UPDATE SET
			weekday    = excluded.weekday,
			applied_at = excluded.applied_at,
			etag       = excluded.etag,
			row_count  = excluded.row_count`,
		patch.Service, patch.PatchDate, patch.Weekday, patch.AppliedAt, patch.ETag, patch.RowCount)
	if err != nil {
		return fmt.Errorf("store: ApplyPatch(%s,%s): %w", patch.Service, patch.PatchDate, err)
	}
	return nil
}

// ClearAppliedPatches deletes every applied_patches row for service. The
// importer calls this when a new weekly archive lands successfully: the
// dailies the weekly now supersedes no longer need tracking.
func (s *Store) ClearAppliedPatches(service string) error {
	if _, err := s.db.Exec(`DELETE FROM applied_patches WHERE service = ?`, service); err != nil {
		return fmt.Errorf("store: ClearAppliedPatches(%s): %w", service, err)
	}
	return nil
}

// AppliedPatches returns every patch applied for service since the last
// weekly, ordered by patch_date.
func (s *Store) AppliedPatches(service string) ([]AppliedPatch, error) {
	rows, err := s.db.Query(`SELECT service, patch_date, weekday, applied_at, etag, row_count
		FROM applied_patches WHERE service = ? ORDER BY patch_date`, service)
	if err != nil {
		return nil, fmt.Errorf("store: AppliedPatches(%s): %w", service, err)
	}
	defer rows.Close()

	var out []AppliedPatch
	for rows.Next() {
		var p AppliedPatch
		var weekday, etag sql.NullString
		if err := rows.Scan(&p.Service, &p.PatchDate, &weekday, &p.AppliedAt, &etag, &p.RowCount); err != nil {
			return nil, fmt.Errorf("store: AppliedPatches(%s): scan: %w", service, err)
		}
		p.Weekday = weekday.String
		p.ETag = etag.String
		out = append(out, p)
	}
	return out, rows.Err()
}
