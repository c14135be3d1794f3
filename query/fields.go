// Package query is the ULS query engine: the filter model that compiles
// named convenience filters and generic "field op value" expressions to
// parameterized SQL, the callsign/FRN lookups with the prefer-active
// ordering rule, and aggregate statistics.
package query

import "github.com/n6ul/ulsdb/internal/codes"

// fieldKind drives which SQL operators a field accepts: strings take
// =, != and LIKE, dates take all six comparisons, char enums take = and
// != only.
type fieldKind int

const (
	kindString fieldKind = iota
	kindDate
	kindEnum
)

// enumDecoder maps a user-facing single/two-character ULS code to its
// stored integer encoding.
type enumDecoder func(string) (int, bool)

type fieldDef struct {
	column string
	kind   fieldKind
	decode enumDecoder // non-nil only for kindEnum
}

// fieldRegistry is the single source of truth the generic filter
// expression parser, the sort-field resolver, and the convenience
// filter's enum fields all resolve field names through.
var fieldRegistry = map[string]fieldDef{
	"call_sign":         {column: "l.call_sign", kind: kindString},
	"entity_name":       {column: "l.entity_name", kind: kindString},
	"first_name":        {column: "l.first_name", kind: kindString},
	"last_name":         {column: "l.last_name", kind: kindString},
	"state":             {column: "l.state", kind: kindString},
	"city":              {column: "l.city", kind: kindString},
	"zip_code":          {column: "l.zip_code", kind: kindString},
	"frn":               {column: "l.frn", kind: kindString},
	"status":            {column: "l.license_status", kind: kindEnum, decode: decodeLicenseStatus},
	"operator_class":    {column: "l.operator_class", kind: kindEnum, decode: decodeOperatorClass},
	"radio_service":     {column: "l.radio_service_code", kind: kindEnum, decode: decodeRadioService},
	"grant_date":        {column: "l.grant_date", kind: kindDate},
	"expired_date":      {column: "l.expired_date", kind: kindDate},
	"cancellation_date": {column: "l.cancellation_date", kind: kindDate},
	"effective_date":    {column: "l.effective_date", kind: kindDate},
	"last_action_date":  {column: "l.last_action_date", kind: kindDate},
}

// fieldAliases maps user-facing shorthand names onto their canonical
// registry entries.
var fieldAliases = map[string]string{
	"callsign": "call_sign",
	"zip":      "zip_code",
	"expires":  "expired_date",
}

// resolveField resolves name (already lower-cased by the caller) through
// the alias table and then the registry.
func resolveField(name string) (fieldDef, bool) {
	if canon, ok := fieldAliases[name]; ok {
		name = canon
	}
	def, ok := fieldRegistry[name]
	return def, ok
}

// allowedOperators gates which SQL operators compileExpr accepts for a
// given field kind; anything else is silently dropped.
var allowedOperators = map[fieldKind]map[string]bool{
	kindString: {"=": true, "!=": true, "LIKE": true},
	kindDate:   {"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true},
	kindEnum:   {"=": true, "!=": true},
}

func decodeLicenseStatus(s string) (int, bool) {
	v, ok := codes.ParseLicenseStatus(s)
	return int(v), ok
}

func decodeOperatorClass(s string) (int, bool) {
	v, ok := codes.ParseOperatorClass(s)
	return int(v), ok
}

func decodeRadioService(s string) (int, bool) {
	v, ok := codes.ParseRadioService(s)
	return int(v), ok
}
