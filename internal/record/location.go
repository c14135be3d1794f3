package record

import "github.com/n6ul/ulsdb/internal/codes"

// ParseDMSCoordinate converts a degrees/minutes/seconds/direction
// coordinate quadruple (the FCC LA.dat layout) into a decimal-degree
// value. South and West directions negate the result. Any component that
// fails to parse makes the whole coordinate absent rather than an error,
// matching this package's other field decoders.
func ParseDMSCoordinate(degrees, minutes, seconds, direction string) (float64, bool) {
	deg := decodeFloat(degrees)
	min := decodeFloat(minutes)
	sec := decodeFloat(seconds)
	if !deg.Valid || !min.Valid || !sec.Valid {
		return 0, false
	}
	decimal := deg.Value + min.Value/60.0 + sec.Value/3600.0
	switch decodeChar(direction).Value {
	case "S", "W":
		decimal = -decimal
	}
	return decimal, true
}

// Location is the optional enrichment derived from an LA record: LA has
// no first-class table of its own, only the grid square it resolves to,
// applied back onto the matching license's grid_square column.
type Location struct {
	USI        OptInt64
	Latitude   OptFloat
	Longitude  OptFloat
	GridSquare string
}

// LocationFromFields decodes an LA record's coordinate fields: USI at
// field 1, latitude DMS at fields 13-16, longitude DMS at fields 17-20,
// per the FCC's published LA.dat layout.
func LocationFromFields(parts []string) Location {
	loc := Location{USI: decodeInt64(field(parts, 1))}
	lat, latOK := ParseDMSCoordinate(field(parts, 13), field(parts, 14), field(parts, 15), field(parts, 16))
	lon, lonOK := ParseDMSCoordinate(field(parts, 17), field(parts, 18), field(parts, 19), field(parts, 20))
	if latOK && lonOK {
		loc.Latitude = OptFloat{Value: lat, Valid: true}
		loc.Longitude = OptFloat{Value: lon, Valid: true}
		loc.GridSquare = codes.MaidenheadGridSquare(lat, lon)
	}
	return loc
}
