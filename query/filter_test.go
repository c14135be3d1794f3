package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileEqualsWithoutWildcardUsesEqualsNotLike(t *testing.T) {
	c := Filter{CallSign: "W1AW"}.Compile()
	assert.Equal(t, "l.call_sign = ?", c.Where)
	assert.Equal(t, []interface{}{"W1AW"}, c.Args)
}

func TestCompileWildcardTranslatesToLike(t *testing.T) {
	c := Filter{CallSign: "W1*"}.Compile()
	assert.Equal(t, "l.call_sign LIKE ?", c.Where)
	assert.Equal(t, []interface{}{"W1%"}, c.Args)

	c = Filter{CallSign: "W1A?"}.Compile()
	assert.Equal(t, "l.call_sign LIKE ?", c.Where)
	assert.Equal(t, []interface{}{"W1A_"}, c.Args)
}

func TestCompileNameMatchesAcrossThreeColumns(t *testing.T) {
	c := Filter{Name: "SMITH"}.Compile()
	assert.Contains(t, c.Where, "l.entity_name")
	assert.Contains(t, c.Where, "l.first_name")
	assert.Contains(t, c.Where, "l.last_name")
	assert.Contains(t, c.Where, " OR ")
	assert.Len(t, c.Args, 3)
}

func TestCompileZipCodeIsPrefixMatchedWithoutWildcards(t *testing.T) {
	c := Filter{ZipCode: "06111"}.Compile()
	assert.Equal(t, "l.zip_code LIKE ?", c.Where)
	assert.Equal(t, []interface{}{"06111%"}, c.Args)
}

func TestCompileStatusTranslatesToIntegerCode(t *testing.T) {
	c := Filter{Status: "A"}.Compile()
	assert.Equal(t, "l.license_status = ?", c.Where)
	assert.Equal(t, []interface{}{0}, c.Args)
}

func TestCompileUnknownStatusBindsLiteralThatMatchesNothing(t *testing.T) {
	c := Filter{Status: "Z"}.Compile()
	assert.Equal(t, "l.license_status = ?", c.Where)
	assert.Equal(t, []interface{}{"Z"}, c.Args)
}

func TestCompileExprDateRange(t *testing.T) {
	cond, arg, ok := compileExpr("grant_date>2025-01-01")
	assert.True(t, ok)
	assert.Equal(t, "l.grant_date > ?", cond)
	assert.Equal(t, "2025-01-01", arg)
}

func TestCompileExprResolvesAliases(t *testing.T) {
	cond, _, ok := compileExpr("callsign=W1AW")
	assert.True(t, ok)
	assert.Equal(t, "l.call_sign = ?", cond)

	cond, _, ok = compileExpr("expires < 2026-01-01")
	assert.True(t, ok)
	assert.Equal(t, "l.expired_date < ?", cond)
}

func TestCompileExprUnknownFieldIsDropped(t *testing.T) {
	_, _, ok := compileExpr("unknown=value")
	assert.False(t, ok)
}

func TestCompileExprRejectsRangeOperatorOnStringField(t *testing.T) {
	_, _, ok := compileExpr("call_sign>W1")
	assert.False(t, ok)
}

func TestCompileOrderLegacyAndGenericSorts(t *testing.T) {
	assert.Equal(t, "l.call_sign ASC", compileOrder(""))
	assert.Equal(t, "l.call_sign ASC", compileOrder("CallSign"))
	assert.Equal(t, "l.grant_date DESC", compileOrder("-GrantDate"))
	assert.Equal(t, "l.state ASC", compileOrder("state"))
	assert.Equal(t, "l.grant_date DESC", compileOrder("-grant_date"))
	// Unknown sort fields fall back rather than erroring.
	assert.Equal(t, "l.call_sign ASC", compileOrder("bogus"))
}

func TestCompileLimitOffsetCombinations(t *testing.T) {
	assert.Equal(t, "", Filter{}.Compile().Limit)
	assert.Equal(t, "LIMIT 10", Filter{HasLimit: true, Limit: 10}.Compile().Limit)
	assert.Equal(t, "LIMIT 10 OFFSET 20", Filter{HasLimit: true, Limit: 10, HasOffset: true, Offset: 20}.Compile().Limit)
	assert.Equal(t, "LIMIT -1 OFFSET 20", Filter{HasOffset: true, Offset: 20}.Compile().Limit)
	assert.Equal(t, "LIMIT 0", Filter{HasLimit: true}.Compile().Limit)
}

func TestCompileConditionsJoinWithAnd(t *testing.T) {
	c := Filter{State: "CT", City: "HARTFORD", ActiveOnly: true}.Compile()
	assert.Equal(t, 2, strings.Count(c.Where, " AND "))
	assert.Len(t, c.Args, 3)
}
