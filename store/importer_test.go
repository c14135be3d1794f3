package store

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

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

func TestImporterRunPopulatesPrincipalTables(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s, nil)

	archivePath := writeTestArchive(t, map[string]string{
		"HD.dat": "HD|1001|FILE01||CALL01|A|HV|01/02/2020\n" +
			"HD|1002|FILE02||CALL02|A|HV|01/03/2020\n",
		"EN.dat": "EN|1001|FILE01|||A||ACME CORP\n",
		"AM.dat": "AM|1001|FILE01|||E\n",
	})

	var progressCalls int
	stats, err := imp.Run(context.Background(), archivePath, "AM", ModeFull, "etag-1", func(ImportStats) {
		progressCalls++
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Records)
	require.Equal(t, int64(4), stats.Inserted)
	require.Equal(t, int64(0), stats.InsertErrors)
	require.Equal(t, 3, stats.Files)
	require.True(t, stats.ETagRecorded)
	require.Greater(t, progressCalls, 0)

	var licenseCount int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM licenses`).Scan(&licenseCount))
	require.Equal(t, 2, licenseCount)

	etag, ok, err := s.ImportedETag("AM")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "etag-1", etag)

	_, ok, err = s.LastWeeklyDate("AM")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestImporterRunIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s, nil)

	archivePath := writeTestArchive(t, map[string]string{
		"HD.dat": "HD|1001|FILE01||CALL01|A|HV|01/02/2020\n",
		"EN.dat": "EN|1001|FILE01|||L||ACME CORP\n",
	})

	_, err := imp.Run(context.Background(), archivePath, "AM", ModeFull, "etag-1", nil)
	require.NoError(t, err)
	_, err = imp.Run(context.Background(), archivePath, "AM", ModeFull, "etag-1", nil)
	require.NoError(t, err)

	var licenses, entities int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM licenses`).Scan(&licenses))
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM entities`).Scan(&entities))
	require.Equal(t, 1, licenses)
	require.Equal(t, 1, entities)
}

func TestImporterRunModeMinimalSkipsNonPrincipalFiles(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s, nil)

	archivePath := writeTestArchive(t, map[string]string{
		"HD.dat": "HD|1001|FILE01||CALL01|A|HV|01/02/2020\n",
		"CO.dat": "CO|1001||01/02/2020|a comment|A\n",
	})

	stats, err := imp.Run(context.Background(), archivePath, "AM", ModeMinimal, "etag-2", nil)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Files)
	require.Equal(t, int64(1), stats.Records)
}

func TestImporterRunRestoresDurabilityPragmasAfterBulkLoad(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s, nil)

	archivePath := writeTestArchive(t, map[string]string{
		"HD.dat": "HD|1001|FILE01||CALL01|A|HV|01/02/2020\n",
	})

	_, err := imp.Run(context.Background(), archivePath, "AM", ModeFull, "etag-3", nil)
	require.NoError(t, err)

	var syncMode int
	require.NoError(t, s.db.QueryRow(`PRAGMA synchronous`).Scan(&syncMode))
	require.NotEqual(t, 0, syncMode)
}
