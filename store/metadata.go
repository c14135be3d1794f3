package store

import (
	"database/sql"
	"fmt"
)

// execer is satisfied by both *sql.DB and *sql.Tx, letting schema setup
// and metadata access run identically whether or not they're inside the
// importer's single enclosing transaction.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func readSchemaVersion(db execer) (int, error) {
	var raw sql.NullString
	err := db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&raw)
	if err == sql.ErrNoRows || !raw.Valid {
		return 0, nil
	}
	if err != nil {
		// metadata table may not exist yet on a brand-new database.
		return 0, nil
	}
	var version int
	if _, err := fmt.Sscanf(raw.String, "%d", &version); err != nil {
		return 0, nil
	}
	return version, nil
}

func writeSchemaVersion(db execer, version int) error {
	return setMetadata(db, "schema_version", fmt.Sprintf("%d", version))
}

func setMetadata(db execer, key, value string) error {
	_, err := db.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetMetadata returns a metadata value and whether it was present.
func (s *Store) GetMetadata(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: GetMetadata(%q): %w", key, err)
	}
	return value, true, nil
}

// SetMetadata upserts a metadata value.
func (s *Store) SetMetadata(key, value string) error {
	if err := setMetadata(s.db, key, value); err != nil {
		return fmt.Errorf("store: SetMetadata(%q): %w", key, err)
	}
	return nil
}

// ImportedETag returns the last successfully imported ETag for a service.
func (s *Store) ImportedETag(service string) (string, bool, error) {
	return s.GetMetadata("imported_etag_" + service)
}

// SetImportedETag records the ETag of a successful import. Called only
// when an import completes with zero insert errors.
func (s *Store) SetImportedETag(service, etag string) error {
	return s.SetMetadata("imported_etag_"+service, etag)
}

// LastWeeklyDate returns the date of the last full weekly import applied
// for a service.
func (s *Store) LastWeeklyDate(service string) (string, bool, error) {
	return s.GetMetadata("last_weekly_date_" + service)
}

// SetLastWeeklyDate records the date of a successful weekly import.
func (s *Store) SetLastWeeklyDate(service, date string) error {
	return s.SetMetadata("last_weekly_date_"+service, date)
}

// ImportStatus is one row of the import_status table: whether a given
// record type has been populated for a service, and how many rows it
// produced on the most recent import.
type ImportStatus struct {
	Service    string
	RecordType string
	ImportedAt string
	RowCount   int64
}

// RecordImportStatus upserts one import_status row. Importer.Run calls
// this once per processed .dat file.
func (s *Store) RecordImportStatus(tx execer, status ImportStatus) error {
	_, err := tx.Exec(`INSERT INTO import_status (service, record_type, imported_at, row_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(service, record_type) DO UPDATE SET
			imported_at = excluded.imported_at,
			row_count   = excluded.row_count`,
		status.Service, status.RecordType, status.ImportedAt, status.RowCount)
	if err != nil {
		return fmt.Errorf("store: RecordImportStatus(%s,%s): %w", status.Service, status.RecordType, err)
	}
	return nil
}

// ImportStatusFor returns the recorded status for one service/record-type
// pair, and whether any row exists.
func (s *Store) ImportStatusFor(service, recordType string) (ImportStatus, bool, error) {
	var st ImportStatus
	err := s.db.QueryRow(`SELECT service, record_type, imported_at, row_count
		FROM import_status WHERE service = ? AND record_type = ?`, service, recordType).
		Scan(&st.Service, &st.RecordType, &st.ImportedAt, &st.RowCount)
	if err == sql.ErrNoRows {
		return ImportStatus{}, false, nil
	}
	if err != nil {
		return ImportStatus{}, false, fmt.Errorf("store: ImportStatusFor(%s,%s): %w", service, recordType, err)
	}
	return st, true, nil
}
