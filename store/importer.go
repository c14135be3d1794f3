package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/n6ul/ulsdb/internal/archivezip"
	"github.com/n6ul/ulsdb/internal/codes"
	"github.com/n6ul/ulsdb/internal/record"
)

// ImportMode selects which record types an import populates: Minimal
// (HD+EN+AM only) keeps the store usable for callsign lookups at a
// fraction of the I/O; Full processes every .dat entry in the archive.
type ImportMode int

const (
	ModeFull ImportMode = iota
	ModeMinimal
)

func (m ImportMode) String() string {
	if m == ModeMinimal {
		return "Minimal"
	}
	return "Full"
}

// minimalTypes is the record-type allowlist for ModeMinimal.
var minimalTypes = map[codes.RecordType]bool{
	codes.RecordTypeHeader:  true,
	codes.RecordTypeEntity:  true,
	codes.RecordTypeAmateur: true,
}

// ImportStats summarizes one Importer.Run call.
type ImportStats struct {
	Service      string
	Files        int
	Records      int64
	Inserted     int64
	Skipped      int64
	ParseErrors  int64
	InsertErrors int64
	Elapsed      time.Duration
	ETagRecorded bool
}

// String renders a one-line human summary using the same
// count/byte/duration formatting libraries the rest of ULSDB's ambient
// logging stack uses.
func (s ImportStats) String() string {
	return fmt.Sprintf("%s import: %s records (%s inserted, %s skipped) across %d files in %s, %s parse errors, %s insert errors",
		s.Service, humanize.Comma(s.Records), humanize.Comma(s.Inserted), humanize.Comma(s.Skipped),
		s.Files, s.Elapsed.Round(time.Millisecond), humanize.Comma(s.ParseErrors), humanize.Comma(s.InsertErrors))
}

// ProgressFunc is invoked roughly every 10,000 records and at every file
// boundary.
type ProgressFunc func(ImportStats)

// Importer is the end-to-end orchestrator: open archive, sort entries
// by dependency priority, stream and insert inside one transaction,
// record the ETag on success.
type Importer struct {
	store  *Store
	logger *logrus.Logger
}

// NewImporter binds an Importer to an open store.
func NewImporter(s *Store, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Importer{store: s, logger: logger}
}

// Run imports archivePath for service under mode, reporting progress via
// progress (nil is fine). etag identifies this exact archive's contents;
// on success with zero insert errors it is recorded so a future Run with
// the same etag can be recognized as already applied by the caller.
func (imp *Importer) Run(ctx context.Context, archivePath, service string, mode ImportMode, etag string, progress ProgressFunc) (ImportStats, error) {
	start := time.Now()
	stats := ImportStats{Service: service}

	info, err := os.Stat(archivePath)
	if err == nil {
		imp.logger.Infof("importing %s (%s) for service %s, mode=%s",
			archivePath, datasize.ByteSize(info.Size()).HumanReadable(), service, mode)
	}

	archive, err := archivezip.Open(archivePath)
	if err != nil {
		return stats, fmt.Errorf("store: importer: %w", err)
	}
	defer archive.Close()

	entries := archive.ListDatFiles()
	if mode == ModeMinimal {
		filtered := entries[:0]
		for _, e := range entries {
			if minimalTypes[e.Type] {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	conn, err := imp.store.db.Conn(ctx)
	if err != nil {
		return stats, fmt.Errorf("store: importer: acquire connection: %w", err)
	}
	defer conn.Close()

	if err := execAll(ctx, conn, bulkLoadPragmas(imp.store.cfg)); err != nil {
		return stats, fmt.Errorf("store: importer: enable bulk load: %w", err)
	}
	// Durability is restored on every exit path, including error
	// returns.
	defer execAll(context.Background(), conn, connectionPragmas(imp.store.cfg))

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("store: importer: begin transaction: %w", err)
	}

	inserter, err := NewBulkInserter(tx)
	if err != nil {
		tx.Rollback()
		return stats, fmt.Errorf("store: importer: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			inserter.Close()
			tx.Rollback()
			return stats, fmt.Errorf("store: importer: cancelled: %w", err)
		}

		fileRecords := int64(0)
		parseErrs, procErr := archive.ProcessEntry(entry, func(rec record.Record) bool {
			outcome, err := inserter.Insert(rec)
			stats.Records++
			fileRecords++
			switch {
			case err != nil:
				stats.InsertErrors++
				if stats.InsertErrors <= 5 {
					imp.logger.Warnf("insert error in %s line %d: %v", entry.Name, rec.Line, err)
				}
			case outcome == Inserted:
				stats.Inserted++
			default:
				stats.Skipped++
			}
			if stats.Records%10000 == 0 && progress != nil {
				progress(stats)
			}
			return true
		})
		stats.ParseErrors += int64(len(parseErrs))
		for i, pe := range parseErrs {
			if i >= 5 {
				break
			}
			imp.logger.Warnf("parse error in %s: %v", entry.Name, pe)
		}
		if procErr != nil {
			inserter.Close()
			tx.Rollback()
			return stats, fmt.Errorf("store: importer: %s: %w", entry.Name, procErr)
		}

		stats.Files++
		if err := imp.store.RecordImportStatus(tx, ImportStatus{
			Service:    service,
			RecordType: entry.Type.String(),
			ImportedAt: Now().UTC().Format(time.RFC3339),
			RowCount:   fileRecords,
		}); err != nil {
			inserter.Close()
			tx.Rollback()
			return stats, fmt.Errorf("store: importer: record import status: %w", err)
		}
		if progress != nil {
			progress(stats)
		}
	}

	inserter.Close()
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("store: importer: commit: %w", err)
	}

	stats.Elapsed = time.Since(start)

	if stats.InsertErrors == 0 {
		if err := imp.store.SetImportedETag(service, etag); err != nil {
			return stats, fmt.Errorf("store: importer: record etag: %w", err)
		}
		if err := imp.store.SetMetadata("last_updated", Now().UTC().Format(time.RFC3339)); err != nil {
			return stats, fmt.Errorf("store: importer: record last_updated: %w", err)
		}
		if mode == ModeFull {
			if err := imp.store.SetLastWeeklyDate(service, Now().UTC().Format("2006-01-02")); err != nil {
				return stats, fmt.Errorf("store: importer: record last_weekly_date: %w", err)
			}
			// A new weekly supersedes every daily patch applied since
			// the previous one.
			if err := imp.store.ClearAppliedPatches(service); err != nil {
				return stats, fmt.Errorf("store: importer: clear applied patches: %w", err)
			}
		}
		stats.ETagRecorded = true
	}

	imp.logger.Info(stats.String())
	return stats, nil
}

// bulkLoadPragmas trade durability for throughput for the duration of one
// import: the single enclosing transaction means a crash mid-import rolls
// back to the pre-import snapshot regardless, so WAL fsync discipline is
// not needed until the transaction commits. A WAL database keeps its
// journal mode: leaving WAL needs exclusive access to the file, which the
// store's other pooled connections prevent.
func bulkLoadPragmas(cfg Config) []string {
	pragmas := []string{
		"PRAGMA synchronous=OFF",
		"PRAGMA temp_store=MEMORY",
	}
	if !cfg.EnableWAL {
		pragmas = append(pragmas, "PRAGMA journal_mode=MEMORY")
	}
	return pragmas
}

type connExecer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func execAll(ctx context.Context, conn connExecer, pragmas []string) error {
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
