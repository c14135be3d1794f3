package codes

// MaidenheadGridSquare computes the 6-character Maidenhead grid locator
// for a decimal-degree coordinate pair: field, square, subsquare.
// Returns "" for a coordinate outside the locator system's valid range.
func MaidenheadGridSquare(lat, lon float64) string {
	adjLon := lon + 180.0
	adjLat := lat + 90.0

	fieldLon := int(adjLon / 20.0)
	fieldLat := int(adjLat / 10.0)
	if fieldLon < 0 || fieldLon >= 18 || fieldLat < 0 || fieldLat >= 18 {
		return ""
	}

	squareLon := int((adjLon - float64(fieldLon)*20.0) / 2.0)
	squareLat := int(adjLat - float64(fieldLat)*10.0)
	if squareLon < 0 || squareLon >= 10 || squareLat < 0 || squareLat >= 10 {
		return ""
	}

	subLon := int((adjLon - float64(fieldLon)*20.0 - float64(squareLon)*2.0) / (2.0 / 24.0))
	subLat := int((adjLat - float64(fieldLat)*10.0 - float64(squareLat)*1.0) / (1.0 / 24.0))
	if subLon < 0 || subLon >= 24 || subLat < 0 || subLat >= 24 {
		return ""
	}

	return string([]byte{
		'A' + byte(fieldLon), 'A' + byte(fieldLat),
		'0' + byte(squareLon), '0' + byte(squareLat),
		'a' + byte(subLon), 'a' + byte(subLat),
	})
}
