package query

import "time"

// License is the read-side aggregate every search, lookup, and FRN query
// in this package returns: one row per USI, carrying the denormalized
// name/address/FRN/operator-class/grid-square columns the store already
// folds onto the licenses table.
type License struct {
	USI              int64
	ULSFileNumber    string
	CallSign         string
	Status           string // decoded ULS status letter, e.g. "A"
	RadioService     string // decoded ULS service code, e.g. "HA"
	GrantDate        *time.Time
	ExpiredDate      *time.Time
	CancellationDate *time.Time
	EffectiveDate    *time.Time
	LastActionDate   *time.Time
	EntityName       string
	FirstName        string
	LastName         string
	StreetAddress    string
	City             string
	State            string
	ZipCode          string
	FRN              string
	OperatorClass    string
	GridSquare       string
}
