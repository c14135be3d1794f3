package store

import (
	"database/sql"
	"fmt"

	"github.com/n6ul/ulsdb/internal/codes"
	"github.com/n6ul/ulsdb/internal/record"
)

// InsertOutcome classifies what BulkInserter.Insert did with one record,
// so the importer can keep separate counters.
type InsertOutcome int

const (
	// Inserted means a row was upserted into a principal table.
	Inserted InsertOutcome = iota
	// Skipped means the record is one of the ~83 non-principal types
	// and carries no storage.
	Skipped
)

// BulkInserter prepares all six principal-table upsert statements, plus
// three UPDATE statements (LA grid-square enrichment and the licensee /
// operator-class denormalization onto licenses), once against a single
// connection/transaction and reuses them for the whole
// archive: re-planning SQL per row would dominate CPU at the >=100k
// rows/sec import target.
type BulkInserter struct {
	header        *sql.Stmt
	entity        *sql.Stmt
	amateur       *sql.Stmt
	history       *sql.Stmt
	comment       *sql.Stmt
	special       *sql.Stmt
	location      *sql.Stmt
	denormEntity  *sql.Stmt
	denormAmateur *sql.Stmt
}

// preparer is satisfied by *sql.Tx (the importer always inserts inside
// its one enclosing transaction) and *sql.DB (useful for ad-hoc tests).
type preparer interface {
	Prepare(query string) (*sql.Stmt, error)
}

// NewBulkInserter prepares the six upsert statements and the three
// enrichment/denormalization UPDATE statements against tx.
func NewBulkInserter(tx preparer) (*BulkInserter, error) {
	stmts := map[string]string{
		"header": `INSERT INTO licenses (
				unique_system_identifier, uls_file_number, call_sign, license_status,
				radio_service_code, grant_date, expired_date, cancellation_date,
				effective_date, last_action_date
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(unique_system_identifier) DO UPDATE SET
				uls_file_number    = excluded.uls_file_number,
				call_sign          = excluded.call_sign,
				license_status     = excluded.license_status,
				radio_service_code = excluded.radio_service_code,
				grant_date         = excluded.grant_date,
				expired_date       = excluded.expired_date,
				cancellation_date  = excluded.cancellation_date,
				effective_date     = excluded.effective_date,
				last_action_date   = excluded.last_action_date`,

		"entity": `INSERT INTO entities (
				unique_system_identifier, entity_type, entity_name, first_name,
				middle_initial, last_name, suffix, phone, fax, email,
				street_address, city, state, zip_code, po_box, frn,
				applicant_type, status_code
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(unique_system_identifier, entity_type) DO UPDATE SET
				entity_name     = excluded.entity_name,
				first_name      = excluded.first_name,
				middle_initial  = excluded.middle_initial,
				last_name       = excluded.last_name,
				suffix          = excluded.suffix,
				phone           = excluded.phone,
				fax             = excluded.fax,
				email           = excluded.email,
				street_address  = excluded.street_address,
				city            = excluded.city,
				state           = excluded.state,
				zip_code        = excluded.zip_code,
				po_box          = excluded.po_box,
				frn             = excluded.frn,
				applicant_type  = excluded.applicant_type,
				status_code     = excluded.status_code`,

		"amateur": `INSERT INTO amateur_operators (
				unique_system_identifier, operator_class, group_code, region_code,
				trustee_call_sign, trustee_indicator, systematic_change,
				vanity_call_sign_change, vanity_relationship, previous_call_sign,
				previous_operator_class, trustee_name
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(unique_system_identifier) DO UPDATE SET
				operator_class          = excluded.operator_class,
				group_code              = excluded.group_code,
				region_code             = excluded.region_code,
				trustee_call_sign       = excluded.trustee_call_sign,
				trustee_indicator       = excluded.trustee_indicator,
				systematic_change       = excluded.systematic_change,
				vanity_call_sign_change = excluded.vanity_call_sign_change,
				vanity_relationship     = excluded.vanity_relationship,
				previous_call_sign      = excluded.previous_call_sign,
				previous_operator_class = excluded.previous_operator_class,
				trustee_name            = excluded.trustee_name`,

		"history": `INSERT INTO history (unique_system_identifier, log_date, code)
			VALUES (?, ?, ?)
			ON CONFLICT(unique_system_identifier, log_date, code) DO NOTHING`,

		"comment": `INSERT INTO comments (unique_system_identifier, comment_date, description, status_code)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(unique_system_identifier, comment_date) DO UPDATE SET
				description = excluded.description,
				status_code = excluded.status_code`,

		"special": `INSERT INTO special_conditions (unique_system_identifier, type_code, code, status_code)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(unique_system_identifier, code) DO UPDATE SET
				type_code   = excluded.type_code,
				status_code = excluded.status_code`,

		// location enriches an existing license row with the grid
		// square derived from an LA record's coordinates.
		// LA has no table of its own; a USI with no matching
		// license row (LA processed before its HD, or HD absent
		// entirely) leaves this a no-op UPDATE affecting zero rows.
		"location": `UPDATE licenses SET grid_square = ? WHERE unique_system_identifier = ?`,

		// denormEntity carries the Licensee entity row's name/address/
		// FRN onto the license row for display convenience. Only the
		// Licensee role denormalizes - a license's Contact/Owner/etc
		// rows describe someone other than the licensee itself.
		"denormEntity": `UPDATE licenses SET
				entity_name    = ?,
				first_name     = ?,
				last_name      = ?,
				street_address = ?,
				city           = ?,
				state          = ?,
				zip_code       = ?,
				frn            = ?
			WHERE unique_system_identifier = ?`,

		// denormAmateur carries the amateur record's operator class
		// onto the license row.
		"denormAmateur": `UPDATE licenses SET operator_class = ? WHERE unique_system_identifier = ?`,
	}

	prepared := make(map[string]*sql.Stmt, len(stmts))
	for name, query := range stmts {
		stmt, err := tx.Prepare(query)
		if err != nil {
			for _, p := range prepared {
				p.Close()
			}
			return nil, fmt.Errorf("store: prepare %s statement: %w", name, err)
		}
		prepared[name] = stmt
	}
	return &BulkInserter{
		header:        prepared["header"],
		entity:        prepared["entity"],
		amateur:       prepared["amateur"],
		history:       prepared["history"],
		comment:       prepared["comment"],
		special:       prepared["special"],
		location:      prepared["location"],
		denormEntity:  prepared["denormEntity"],
		denormAmateur: prepared["denormAmateur"],
	}, nil
}

// Close releases all prepared statements. Call before the enclosing
// transaction commits.
func (b *BulkInserter) Close() {
	stmts := []*sql.Stmt{
		b.header, b.entity, b.amateur, b.history, b.comment, b.special,
		b.location, b.denormEntity, b.denormAmateur,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
}

// Insert dispatches rec to the matching prepared statement. Non-principal
// record variants (Raw) return Skipped: the parser still yielded them so
// file/line counters stay correct. Every Raw type other than LA is a
// no-op; an LA record only updates licenses.grid_square (insertLocation).
func (b *BulkInserter) Insert(rec record.Record) (InsertOutcome, error) {
	switch {
	case rec.Header != nil:
		return b.insertHeader(rec.Header)
	case rec.Entity != nil:
		return b.insertEntity(rec.Entity)
	case rec.Amateur != nil:
		return b.insertAmateur(rec.Amateur)
	case rec.History != nil:
		return b.insertHistory(rec.History)
	case rec.Comment != nil:
		return b.insertComment(rec.Comment)
	case rec.SpecialCondition != nil:
		return b.insertSpecial(rec.SpecialCondition)
	case rec.Raw != nil && rec.Raw.Type == codes.RecordType("LA"):
		return b.insertLocation(rec.Raw)
	default:
		return Skipped, nil
	}
}

// insertLocation enriches licenses.grid_square from an LA record's
// coordinates. This is the one Raw variant that produces a write: it is
// still counted as Skipped since no principal row is inserted.
func (b *BulkInserter) insertLocation(raw *record.Raw) (InsertOutcome, error) {
	loc := record.LocationFromFields(raw.Fields)
	if loc.GridSquare == "" || !loc.USI.Valid {
		return Skipped, nil
	}
	if _, err := b.location.Exec(loc.GridSquare, loc.USI.Value); err != nil {
		return Skipped, fmt.Errorf("store: update grid_square: %w", err)
	}
	return Skipped, nil
}

func (b *BulkInserter) insertHeader(h *record.Header) (InsertOutcome, error) {
	status, _ := h.Status()
	service, _ := h.Service()
	_, err := b.header.Exec(
		nullInt64(h.USI), nullText(h.ULSFileNumber), nullText(h.CallSign),
		int(status), int(service),
		nullDate(h.GrantDate), nullDate(h.ExpiredDate), nullDate(h.CancellationDate),
		nullDate(h.EffectiveDate), nullDate(h.LastActionDate),
	)
	if err != nil {
		return Inserted, fmt.Errorf("store: insert license: %w", err)
	}
	return Inserted, nil
}

func (b *BulkInserter) insertEntity(e *record.Entity) (InsertOutcome, error) {
	typ, _ := e.Type()
	_, err := b.entity.Exec(
		nullInt64(e.USI), int(typ), nullText(e.EntityName), nullText(e.FirstName),
		nullText(e.MiddleInitial), nullText(e.LastName), nullText(e.Suffix),
		nullText(e.Phone), nullText(e.Fax), nullText(e.Email),
		nullText(e.StreetAddress), nullText(e.City), nullText(e.State),
		nullText(e.ZipCode), nullText(e.POBox), nullText(e.FRN),
		nullChar(e.ApplicantType), nullChar(e.StatusCode),
	)
	if err != nil {
		return Inserted, fmt.Errorf("store: insert entity: %w", err)
	}
	if typ == codes.EntityLicensee {
		if _, err := b.denormEntity.Exec(
			nullText(e.EntityName), nullText(e.FirstName), nullText(e.LastName),
			nullText(e.StreetAddress), nullText(e.City), nullText(e.State),
			nullText(e.ZipCode), nullText(e.FRN), nullInt64(e.USI),
		); err != nil {
			return Inserted, fmt.Errorf("store: denormalize licensee entity: %w", err)
		}
	}
	return Inserted, nil
}

func (b *BulkInserter) insertAmateur(a *record.Amateur) (InsertOutcome, error) {
	class, _ := a.Class()
	prevClass, _ := codes.ParseOperatorClass(a.PreviousOperatorClass.Value)
	_, err := b.amateur.Exec(
		nullInt64(a.USI), int(class), nullChar(a.GroupCode), nullText(a.RegionCode),
		nullText(a.TrusteeCallSign), nullChar(a.TrusteeIndicator), nullChar(a.SystematicChange),
		nullChar(a.VanityCallSignChange), nullText(a.VanityRelationship),
		nullText(a.PreviousCallSign), int(prevClass), nullText(a.TrusteeName),
	)
	if err != nil {
		return Inserted, fmt.Errorf("store: insert amateur_operator: %w", err)
	}
	if _, err := b.denormAmateur.Exec(int(class), nullInt64(a.USI)); err != nil {
		return Inserted, fmt.Errorf("store: denormalize amateur operator class: %w", err)
	}
	return Inserted, nil
}

func (b *BulkInserter) insertHistory(h *record.History) (InsertOutcome, error) {
	_, err := b.history.Exec(nullInt64(h.USI), nullDate(h.LogDate), nullText(h.Code))
	if err != nil {
		return Inserted, fmt.Errorf("store: insert history: %w", err)
	}
	return Inserted, nil
}

func (b *BulkInserter) insertComment(c *record.Comment) (InsertOutcome, error) {
	_, err := b.comment.Exec(nullInt64(c.USI), nullDate(c.CommentDate), nullText(c.Description), nullChar(c.StatusCode))
	if err != nil {
		return Inserted, fmt.Errorf("store: insert comment: %w", err)
	}
	return Inserted, nil
}

func (b *BulkInserter) insertSpecial(sc *record.SpecialCondition) (InsertOutcome, error) {
	_, err := b.special.Exec(nullInt64(sc.USI), nullText(sc.TypeCode), nullText(sc.Code), nullChar(sc.StatusCode))
	if err != nil {
		return Inserted, fmt.Errorf("store: insert special_condition: %w", err)
	}
	return Inserted, nil
}

func nullText(f record.OptText) interface{} {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func nullChar(f record.OptChar) interface{} {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func nullInt64(f record.OptInt64) interface{} {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func nullDate(f record.OptDate) interface{} {
	if !f.Valid {
		return nil
	}
	return f.Value.Format("2006-01-02")
}
