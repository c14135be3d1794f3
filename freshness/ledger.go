package freshness

import (
	"fmt"
	"io"
	"time"

	"github.com/n6ul/ulsdb/store"
)

// Ledger applies and clears daily patches against a store's
// applied_patches table. The table is the authoritative state; Render
// derives a human-readable audit trail from it on demand.
type Ledger struct {
	store *store.Store
}

// NewLedger binds a Ledger to an open store.
func NewLedger(s *store.Store) *Ledger {
	return &Ledger{store: s}
}

// Apply records one daily patch as applied for service. Re-applying the
// same (service, patchDate) pair is idempotent at the store layer.
func (l *Ledger) Apply(service, patchDate, weekday, etag string, rowCount int64, appliedAt time.Time) error {
	return l.store.ApplyPatch(store.AppliedPatch{
		Service:   service,
		PatchDate: patchDate,
		Weekday:   weekday,
		AppliedAt: appliedAt.UTC().Format(time.RFC3339),
		ETag:      etag,
		RowCount:  rowCount,
	})
}

// Clear drops every applied-patch row for service. Importer.Run performs
// the same clear (through Store.ClearAppliedPatches) whenever a ModeFull
// import completes with zero insert errors: the weekly it just applied
// supersedes everything the ledger was tracking.
func (l *Ledger) Clear(service string) error {
	return l.store.ClearAppliedPatches(service)
}

// Applied returns every patch currently tracked for service, in
// patch-date order.
func (l *Ledger) Applied(service string) ([]store.AppliedPatch, error) {
	return l.store.AppliedPatches(service)
}

// Render writes a one-line-per-patch audit trail for service to w.
func (l *Ledger) Render(w io.Writer, service string) error {
	patches, err := l.store.AppliedPatches(service)
	if err != nil {
		return err
	}
	for _, p := range patches {
		if _, err := fmt.Fprintf(w, "%s %s (%s) etag=%s rows=%d applied=%s\n",
			p.Service, p.PatchDate, p.Weekday, p.ETag, p.RowCount, p.AppliedAt); err != nil {
			return err
		}
	}
	return nil
}
