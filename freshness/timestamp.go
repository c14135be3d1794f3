package freshness

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order by ParseFCCTimestamp:
// RFC 3339 (what this system itself writes), the FCC's own
// "YYYY-MM-DD HH:MM:SS UTC" style, and its informal Unix-`date`-style
// banner ("Tue Jan 13 08:00:15 EST 2026").
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 UTC",
	"Mon Jan 2 15:04:05 MST 2006",
}

// ParseFCCTimestamp parses s against every format this system is known
// to encounter, returning the first match. The informal third format
// carries a zone abbreviation (EST, PST, ...) that Go's time package
// cannot resolve to a real offset without a location database entry;
// that abbreviation is accepted with a zero UTC offset, introducing up
// to ~5 hours of skew in the resulting Age. This is accepted, not worked
// around: staleness is a day-granularity signal and the skew never
// changes which side of the threshold a timestamp lands on in practice.
func ParseFCCTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
