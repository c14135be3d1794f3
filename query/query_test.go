package query

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n6ul/ulsdb/store"
)

// datLine joins a sparse set of positional fields into one pipe-delimited
// record line, the same shape every .dat row in this package's fixtures
// takes; set carries only the indices that matter for a given test, with
// everything else defaulting to an empty field.
func datLine(width int, set map[int]string) string {
	fields := make([]string, width)
	for i, v := range set {
		fields[i] = v
	}
	return strings.Join(fields, "|")
}

func writeTestArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AM.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// openSeededStore opens a fresh store and imports a small three-license
// fixture: an active vanity amateur license (W1AW, USI 2001) and a
// reissued callsign with two rows (W9XYZ: USI 2002 cancelled, USI 2003
// active), the two W9XYZ licensees sharing one FRN.
func openSeededStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := store.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "uls.db")
	s, err := store.Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	hd := func(usi, callSign, status, service, grantDate string) string {
		return datLine(8, map[int]string{0: "HD", 1: usi, 2: "FILE" + usi, 4: callSign, 5: status, 6: service, 7: grantDate})
	}
	en := func(usi, name, city, zip, frn string) string {
		return datLine(23, map[int]string{0: "EN", 1: usi, 2: "FILE" + usi, 5: "L", 7: name,
			16: city, 17: "CT", 18: zip, 22: frn})
	}
	am := func(usi, class string) string {
		return datLine(6, map[int]string{0: "AM", 1: usi, 2: "FILE" + usi, 5: class})
	}

	archivePath := writeTestArchive(t, map[string]string{
		"HD.dat": hd("2001", "W1AW", "A", "HV", "01/02/2020") + "\n" +
			hd("2002", "W9XYZ", "C", "HA", "01/01/2018") + "\n" +
			hd("2003", "W9XYZ", "A", "HA", "06/01/2024") + "\n",
		"EN.dat": en("2001", "ARRL INC", "NEWINGTON", "06111", "0001111111") + "\n" +
			en("2002", "OLD CORP", "HARTFORD", "06103", "0002222222") + "\n" +
			en("2003", "NEW CORP", "HARTFORD", "06103", "0002222222") + "\n",
		"AM.dat": am("2001", "E") + "\n" +
			am("2002", "G") + "\n" +
			am("2003", "E") + "\n",
	})

	imp := store.NewImporter(s, nil)
	_, err = imp.Run(context.Background(), archivePath, "AM", store.ModeFull, "etag-1", nil)
	require.NoError(t, err)
	return s
}

func TestLookupPrefersActiveOverCancelledForSameCallSign(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	lic, ok, err := e.Lookup(context.Background(), "w9xyz")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", lic.Status)
	require.Equal(t, int64(2003), lic.USI)
}

func TestLookupMissReturnsFalseNotError(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	_, ok, err := e.Lookup(context.Background(), "NOCALL")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLookupByFRNGroupsAllLicensesSharingFRN(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	lics, err := e.LookupByFRN(context.Background(), "0002222222")
	require.NoError(t, err)
	require.Len(t, lics, 2)
}

func TestLookupByFRNBatchFansOutAcrossPool(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	out, err := e.LookupByFRNBatch(context.Background(), []string{"0001111111", "0002222222", "0009999999"})
	require.NoError(t, err)
	require.Len(t, out["0001111111"], 1)
	require.Len(t, out["0002222222"], 2)
	require.Len(t, out["0009999999"], 0)
}

func TestSearchFiltersByStateAndOrdersByCallSign(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	lics, err := e.Search(context.Background(), Filter{State: "CT", Sort: "CallSign"})
	require.NoError(t, err)
	require.Len(t, lics, 3)
	require.Equal(t, "W1AW", lics[0].CallSign)
}

func TestSearchWildcardCallSignCompilesToLike(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	lics, err := e.Search(context.Background(), Filter{CallSign: "W9*"})
	require.NoError(t, err)
	require.Len(t, lics, 2)
}

func TestSearchGenericExprOnGrantDate(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	lics, err := e.Search(context.Background(), Filter{Expr: []string{"grant_date > 2023-01-01"}})
	require.NoError(t, err)
	require.Len(t, lics, 1)
	require.Equal(t, "W9XYZ", lics[0].CallSign)
}

func TestSearchUnknownGenericFieldIsDropped(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	all, err := e.Search(context.Background(), Filter{})
	require.NoError(t, err)

	filtered, err := e.Search(context.Background(), Filter{Expr: []string{"not_a_field = 1"}})
	require.NoError(t, err)
	require.Equal(t, len(all), len(filtered))
}

func TestSearchRespectsLimitAndOffset(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	page, err := e.Search(context.Background(), Filter{Sort: "CallSign", HasLimit: true, Limit: 1, HasOffset: true, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
}

func TestCountMatchesSearchLengthWithoutPagination(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	f := Filter{State: "CT"}
	lics, err := e.Search(context.Background(), f)
	require.NoError(t, err)

	n, err := e.Count(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, len(lics), n)
}

func TestStatsReportsHeadlineCounts(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	stats, err := e.Stats(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalLicenses)
	require.Equal(t, 2, stats.ActiveLicenses)
	require.Equal(t, 1, stats.CancelledLicenses)
	require.Nil(t, stats.ByService)
}

func TestStatsHistogramBreaksDownByService(t *testing.T) {
	s := openSeededStore(t)
	e := NewEngine(s)
	defer e.Close()

	stats, err := e.Stats(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ByService["HV"])
	require.Equal(t, 2, stats.ByService["HA"])
}
