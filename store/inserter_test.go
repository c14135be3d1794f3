package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n6ul/ulsdb/internal/codes"
	"github.com/n6ul/ulsdb/internal/record"
)

func TestBulkInserterUpsertsHeaderRow(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ins, err := NewBulkInserter(tx)
	require.NoError(t, err)
	defer ins.Close()

	h := record.HeaderFromFields([]string{"HD", "1001", "FILE01", "", "CALL01", "A", "HV", "01/02/2020"})
	outcome, err := ins.Insert(record.Record{Header: &h})
	require.NoError(t, err)
	require.Equal(t, Inserted, outcome)

	// Re-inserting the same USI with a changed call sign should update in place.
	h2 := record.HeaderFromFields([]string{"HD", "1001", "FILE01", "", "CALL02", "A", "HV", "01/02/2020"})
	outcome, err = ins.Insert(record.Record{Header: &h2})
	require.NoError(t, err)
	require.Equal(t, Inserted, outcome)

	var callSign string
	var count int
	row := tx.QueryRow(`SELECT call_sign FROM licenses WHERE unique_system_identifier = ?`, 1001)
	require.NoError(t, row.Scan(&callSign))
	require.Equal(t, "CALL02", callSign)

	require.NoError(t, tx.QueryRow(`SELECT count(*) FROM licenses`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestBulkInserterHistoryIsInsertOnlyOnConflict(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ins, err := NewBulkInserter(tx)
	require.NoError(t, err)
	defer ins.Close()

	hs := record.HistoryFromFields([]string{"HS", "1001", "", "01/02/2020", "GRANT"})
	_, err = ins.Insert(record.Record{History: &hs})
	require.NoError(t, err)
	_, err = ins.Insert(record.Record{History: &hs})
	require.NoError(t, err)

	var count int
	require.NoError(t, tx.QueryRow(`SELECT count(*) FROM history`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestBulkInserterDenormalizesLicenseeEntityOntoLicense(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ins, err := NewBulkInserter(tx)
	require.NoError(t, err)
	defer ins.Close()

	h := record.HeaderFromFields([]string{"HD", "1001", "FILE01", "", "CALL01", "A", "HV", "01/02/2020"})
	_, err = ins.Insert(record.Record{Header: &h})
	require.NoError(t, err)

	fields := make([]string, 26)
	fields[0] = "EN"
	fields[1] = "1001"
	fields[5] = "L"
	fields[7] = "ACME CORP"
	fields[8] = "JANE"
	fields[10] = "DOE"
	fields[15] = "123 MAIN ST"
	fields[16] = "ANYTOWN"
	fields[17] = "CA"
	fields[18] = "90210"
	fields[22] = "0001234567"
	e := record.EntityFromFields(fields)
	_, err = ins.Insert(record.Record{Entity: &e})
	require.NoError(t, err)

	var entityName, firstName, lastName, city, frn string
	row := tx.QueryRow(`SELECT entity_name, first_name, last_name, city, frn FROM licenses WHERE unique_system_identifier = ?`, 1001)
	require.NoError(t, row.Scan(&entityName, &firstName, &lastName, &city, &frn))
	require.Equal(t, "ACME CORP", entityName)
	require.Equal(t, "JANE", firstName)
	require.Equal(t, "DOE", lastName)
	require.Equal(t, "ANYTOWN", city)
	require.Equal(t, "0001234567", frn)
}

func TestBulkInserterDenormalizesAmateurOperatorClassOntoLicense(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ins, err := NewBulkInserter(tx)
	require.NoError(t, err)
	defer ins.Close()

	h := record.HeaderFromFields([]string{"HD", "1001", "FILE01", "", "CALL01", "A", "HV", "01/02/2020"})
	_, err = ins.Insert(record.Record{Header: &h})
	require.NoError(t, err)

	a := record.AmateurFromFields([]string{"AM", "1001", "FILE01", "", "", "E"})
	_, err = ins.Insert(record.Record{Amateur: &a})
	require.NoError(t, err)

	var operatorClass int
	row := tx.QueryRow(`SELECT operator_class FROM licenses WHERE unique_system_identifier = ?`, 1001)
	require.NoError(t, row.Scan(&operatorClass))
	require.Equal(t, int(codes.ClassExtra), operatorClass)
}

func TestBulkInserterEnrichesGridSquareFromLARecord(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ins, err := NewBulkInserter(tx)
	require.NoError(t, err)
	defer ins.Close()

	h := record.HeaderFromFields([]string{"HD", "1001", "FILE01", "", "CALL01", "A", "HV", "01/02/2020"})
	_, err = ins.Insert(record.Record{Header: &h})
	require.NoError(t, err)

	fields := make([]string, 21)
	fields[0] = "LA"
	fields[1] = "1001"
	fields[13], fields[14], fields[15], fields[16] = "40", "30", "0", "N"
	fields[17], fields[18], fields[19], fields[20] = "74", "0", "0", "W"
	outcome, err := ins.Insert(record.Record{Raw: &record.Raw{Type: "LA", Fields: fields}})
	require.NoError(t, err)
	require.Equal(t, Skipped, outcome)

	var gridSquare string
	row := tx.QueryRow(`SELECT grid_square FROM licenses WHERE unique_system_identifier = ?`, 1001)
	require.NoError(t, row.Scan(&gridSquare))
	require.NotEmpty(t, gridSquare)
}

func TestBulkInserterSkipsRawRecords(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	ins, err := NewBulkInserter(tx)
	require.NoError(t, err)
	defer ins.Close()

	outcome, err := ins.Insert(record.Record{Raw: &record.Raw{Type: "ZZ", Fields: []string{"ZZ", "1"}}})
	require.NoError(t, err)
	require.Equal(t, Skipped, outcome)
}
