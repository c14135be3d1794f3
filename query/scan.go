package query

import (
	"database/sql"
	"time"

	"github.com/n6ul/ulsdb/internal/codes"
	"github.com/n6ul/ulsdb/internal/record"
)

// licenseSelectColumns is the column list every lookup/search query
// selects. All three functions that build queries against it (Search,
// Lookup, LookupByFRN) share this constant so scanLicense's positional
// Scan always lines up with the SELECT.
const licenseSelectColumns = `l.unique_system_identifier, l.uls_file_number, l.call_sign,
	l.license_status, l.radio_service_code,
	l.grant_date, l.expired_date, l.cancellation_date, l.effective_date, l.last_action_date,
	l.entity_name, l.first_name, l.last_name, l.street_address, l.city, l.state, l.zip_code,
	l.frn, l.operator_class, l.grid_square`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLicense(s rowScanner) (License, error) {
	var lic License
	var (
		ulsFileNumber, callSign                                                  sql.NullString
		status, radioService, operatorClass                                      sql.NullInt64
		grantDate, expiredDate, cancellationDate, effectiveDate, lastActionDate   sql.NullString
		entityName, firstName, lastName, streetAddress, city, state, zip, frn, gs sql.NullString
	)

	err := s.Scan(
		&lic.USI, &ulsFileNumber, &callSign,
		&status, &radioService,
		&grantDate, &expiredDate, &cancellationDate, &effectiveDate, &lastActionDate,
		&entityName, &firstName, &lastName, &streetAddress, &city, &state, &zip,
		&frn, &operatorClass, &gs,
	)
	if err != nil {
		return License{}, err
	}

	lic.ULSFileNumber = ulsFileNumber.String
	lic.CallSign = callSign.String
	if status.Valid {
		lic.Status = codes.LicenseStatus(status.Int64).String()
	}
	if radioService.Valid {
		lic.RadioService = codes.RadioService(radioService.Int64).String()
	}
	if operatorClass.Valid {
		lic.OperatorClass = codes.OperatorClass(operatorClass.Int64).String()
	}
	lic.GrantDate = parseDatePtr(grantDate)
	lic.ExpiredDate = parseDatePtr(expiredDate)
	lic.CancellationDate = parseDatePtr(cancellationDate)
	lic.EffectiveDate = parseDatePtr(effectiveDate)
	lic.LastActionDate = parseDatePtr(lastActionDate)
	lic.EntityName = entityName.String
	lic.FirstName = firstName.String
	lic.LastName = lastName.String
	lic.StreetAddress = streetAddress.String
	lic.City = city.String
	lic.State = state.String
	lic.ZipCode = zip.String
	lic.FRN = frn.String
	lic.GridSquare = gs.String
	return lic, nil
}

func parseDatePtr(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, ok := record.ParseULSDate(v.String)
	if !ok {
		return nil
	}
	return &t
}
