package record

import (
	"math"
	"testing"
)

func TestParseDMSCoordinate(t *testing.T) {
	lat, ok := ParseDMSCoordinate("40", "30", "0", "N")
	if !ok || math.Abs(lat-40.5) > 1e-3 {
		t.Fatalf("lat = %v, %v; want 40.5", lat, ok)
	}
	lon, ok := ParseDMSCoordinate("74", "0", "0", "W")
	if !ok || math.Abs(lon-(-74.0)) > 1e-3 {
		t.Fatalf("lon = %v, %v; want -74.0", lon, ok)
	}
}

func TestParseDMSCoordinateMissingComponentIsAbsent(t *testing.T) {
	if _, ok := ParseDMSCoordinate("40", "", "0", "N"); ok {
		t.Fatalf("expected a missing minutes field to make the coordinate absent")
	}
	if _, ok := ParseDMSCoordinate("forty", "30", "0", "N"); ok {
		t.Fatalf("expected a non-numeric degrees field to make the coordinate absent")
	}
}

func TestLocationFromFieldsDerivesGridSquare(t *testing.T) {
	fields := make([]string, 21)
	fields[0] = "LA"
	fields[1] = "1001"
	fields[13], fields[14], fields[15], fields[16] = "41", "42", "53", "N"
	fields[17], fields[18], fields[19], fields[20] = "72", "43", "39", "W"

	loc := LocationFromFields(fields)
	if !loc.USI.Valid || loc.USI.Value != 1001 {
		t.Fatalf("USI = %+v", loc.USI)
	}
	if loc.GridSquare != "FN31pr" {
		t.Fatalf("GridSquare = %q, want FN31pr", loc.GridSquare)
	}
}
