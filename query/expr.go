package query

import (
	"fmt"
	"regexp"
	"strings"
)

// exprPattern splits a generic "field op value" filter expression into
// its three parts. Operators are ordered longest first in the
// alternation so != and <= aren't cut short by = and <.
var exprPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(!=|<=|>=|=|<|>)\s*(.*?)\s*$`)

// compileExpr compiles one generic filter expression into a single
// parameterized SQL condition. An unresolvable field name, or an
// operator its field kind doesn't accept, is dropped silently rather
// than rejected: a malformed filter means "no additional condition",
// not a query error.
func compileExpr(expr string) (string, interface{}, bool) {
	m := exprPattern.FindStringSubmatch(expr)
	if m == nil {
		return "", nil, false
	}
	name, op, value := strings.ToLower(m[1]), m[2], m[3]

	def, ok := resolveField(name)
	if !ok || !allowedOperators[def.kind][op] {
		return "", nil, false
	}

	if op == "=" && hasWildcard(value) {
		return def.column + " LIKE ?", translateWildcard(value), true
	}
	if def.kind == kindEnum {
		if code, ok := def.decode(value); ok {
			return fmt.Sprintf("%s %s ?", def.column, op), code, true
		}
		// Unknown code: bind the literal string, which can never equal
		// an INTEGER column and so correctly matches nothing.
		return fmt.Sprintf("%s %s ?", def.column, op), value, true
	}
	return fmt.Sprintf("%s %s ?", def.column, op), value, true
}

func hasWildcard(v string) bool {
	return strings.ContainsAny(v, "*?")
}

// translateWildcard rewrites shell-style * and ? to the SQL LIKE
// wildcards % and _.
func translateWildcard(v string) string {
	v = strings.ReplaceAll(v, "*", "%")
	v = strings.ReplaceAll(v, "?", "_")
	return v
}
