package query

import (
	"fmt"
	"strings"

	"github.com/n6ul/ulsdb/internal/codes"
)

// Filter is the named-field convenience surface: every field callers can
// filter a license search by, plus pagination and an escape hatch (Expr)
// for the generic "field op value" expressions the registry also
// understands.
type Filter struct {
	CallSign      string
	Name          string // matched against entity_name, first_name, last_name
	State         string
	City          string
	ZipCode       string // prefix-matched unless it already carries a wildcard
	FRN           string
	Status        string
	OperatorClass string
	RadioService  string
	GrantedAfter  string
	GrantedBefore string
	ExpiresBefore string
	ActiveOnly    bool

	// Expr holds zero or more generic filter expressions, ANDed onto
	// the convenience fields above.
	Expr []string

	// Sort is either one of the legacy sort names (CallSign, Name,
	// State, GrantDate, ExpirationDate, each optionally "-"-prefixed
	// for descending) or a field-registry name.
	Sort string

	HasLimit  bool
	Limit     int
	HasOffset bool
	Offset    int
}

// Compiled is the parameterized WHERE/ORDER BY/LIMIT clause set a
// Filter compiles to. Arguments are always bound positionally, never
// interpolated into the query text.
type Compiled struct {
	Where string
	Args  []interface{}
	Order string
	Limit string
}

// Compile turns f into a Compiled clause set against the licenses
// table aliased "l".
func (f Filter) Compile() Compiled {
	var conds []string
	var args []interface{}

	addEquals := func(col, value string) {
		if value == "" {
			return
		}
		if hasWildcard(value) {
			conds = append(conds, col+" LIKE ?")
			args = append(args, translateWildcard(value))
			return
		}
		conds = append(conds, col+" = ?")
		args = append(args, value)
	}

	addEnum := func(col string, decode enumDecoder, value string) {
		if value == "" {
			return
		}
		if code, ok := decode(value); ok {
			conds = append(conds, col+" = ?")
			args = append(args, code)
			return
		}
		// Falls through as a literal that an INTEGER column never
		// equals: an unrecognized code yields zero rows, not an error.
		conds = append(conds, col+" = ?")
		args = append(args, value)
	}

	addEquals("l.call_sign", f.CallSign)

	if f.Name != "" {
		cols := []string{"l.entity_name", "l.first_name", "l.last_name"}
		if hasWildcard(f.Name) {
			v := translateWildcard(f.Name)
			conds = append(conds, fmt.Sprintf("(%s LIKE ? OR %s LIKE ? OR %s LIKE ?)", cols[0], cols[1], cols[2]))
			args = append(args, v, v, v)
		} else {
			conds = append(conds, fmt.Sprintf("(%s = ? OR %s = ? OR %s = ?)", cols[0], cols[1], cols[2]))
			args = append(args, f.Name, f.Name, f.Name)
		}
	}

	addEquals("l.state", f.State)
	addEquals("l.city", f.City)

	if f.ZipCode != "" {
		if hasWildcard(f.ZipCode) {
			conds = append(conds, "l.zip_code LIKE ?")
			args = append(args, translateWildcard(f.ZipCode))
		} else {
			conds = append(conds, "l.zip_code LIKE ?")
			args = append(args, f.ZipCode+"%")
		}
	}

	addEquals("l.frn", f.FRN)
	addEnum("l.license_status", decodeLicenseStatus, f.Status)
	addEnum("l.operator_class", decodeOperatorClass, f.OperatorClass)
	addEnum("l.radio_service_code", decodeRadioService, f.RadioService)

	if f.GrantedAfter != "" {
		conds = append(conds, "l.grant_date > ?")
		args = append(args, f.GrantedAfter)
	}
	if f.GrantedBefore != "" {
		conds = append(conds, "l.grant_date < ?")
		args = append(args, f.GrantedBefore)
	}
	if f.ExpiresBefore != "" {
		conds = append(conds, "l.expired_date < ?")
		args = append(args, f.ExpiresBefore)
	}
	if f.ActiveOnly {
		conds = append(conds, "l.license_status = ?")
		args = append(args, int(codes.StatusActive))
	}

	for _, expr := range f.Expr {
		if cond, arg, ok := compileExpr(expr); ok {
			conds = append(conds, cond)
			args = append(args, arg)
		}
	}

	where := ""
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	return Compiled{
		Where: where,
		Args:  args,
		Order: compileOrder(f.Sort),
		Limit: compileLimit(f),
	}
}

// compileOrder resolves a sort name to an ORDER BY clause. The legacy
// names take priority over the field registry, which is consulted next
// with an optional "-" prefix for descending. An unresolvable name orders
// by call sign, the safest default for a callsign-centric search tool.
func compileOrder(sort string) string {
	switch sort {
	case "", "CallSign":
		return "l.call_sign ASC"
	case "-CallSign":
		return "l.call_sign DESC"
	case "Name":
		return "l.last_name ASC, l.entity_name ASC"
	case "-Name":
		return "l.last_name DESC, l.entity_name DESC"
	case "State":
		return "l.state ASC"
	case "-State":
		return "l.state DESC"
	case "GrantDate":
		return "l.grant_date ASC"
	case "-GrantDate":
		return "l.grant_date DESC"
	case "ExpirationDate":
		return "l.expired_date ASC"
	case "-ExpirationDate":
		return "l.expired_date DESC"
	}

	desc := strings.HasPrefix(sort, "-")
	name := strings.TrimPrefix(sort, "-")
	def, ok := resolveField(strings.ToLower(name))
	if !ok {
		return "l.call_sign ASC"
	}
	if desc {
		return def.column + " DESC"
	}
	return def.column + " ASC"
}

func compileLimit(f Filter) string {
	switch {
	case f.HasLimit && f.HasOffset:
		return fmt.Sprintf("LIMIT %d OFFSET %d", f.Limit, f.Offset)
	case f.HasLimit:
		return fmt.Sprintf("LIMIT %d", f.Limit)
	case f.HasOffset:
		return fmt.Sprintf("LIMIT -1 OFFSET %d", f.Offset)
	default:
		return ""
	}
}
