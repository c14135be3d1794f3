// datlint scans a single .dat file or a ZIP archive of them and reports
// per-record-type counts and parse errors, without ever opening a
// database. It exists for checking an archive before
// committing an import run to it.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/n6ul/ulsdb/internal/archivezip"
	"github.com/n6ul/ulsdb/internal/buildinfo"
	"github.com/n6ul/ulsdb/internal/codes"
	"github.com/n6ul/ulsdb/internal/record"
	"github.com/n6ul/ulsdb/store"
)

func main() {
	var (
		path = kingpin.Arg(
			"path",
			"Path to a .dat file or a ZIP archive of .dat files.",
		).Required().String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Short('d').Int()
		graphOut = kingpin.Flag(
			"graph",
			"Render the licenses schema ERD to this PNG path and exit.",
		).String()
	)

	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(buildinfo.Print("datlint")).Author("n6ul")
	kingpin.CommandLine.Help = "Reports record-type counts and parse errors for a ULS .dat file or archive.\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}

	if *graphOut != "" {
		if err := store.RenderSchemaGraph(*graphOut); err != nil {
			logger.Fatalf("rendering schema graph: %v", err)
		}
		fmt.Printf("wrote schema graph to %s\n", *graphOut)
		return
	}

	report, err := lint(*path, logger)
	if err != nil {
		logger.Fatalf("datlint: %v", err)
	}
	report.Print(os.Stdout)
}

// lintReport tallies what a lint pass found: a count per record type
// actually observed, plus every parse error and the entry it came from.
type lintReport struct {
	counts      map[codes.RecordType]int
	parseErrors []enumeratedError
	entries     int
}

type enumeratedError struct {
	entry string
	err   record.ParseError
}

func newLintReport() *lintReport {
	return &lintReport{counts: make(map[codes.RecordType]int)}
}

func (r *lintReport) addRecord(rec record.Record) {
	r.counts[rec.Type]++
}

func (r *lintReport) addParseErrors(entry string, errs []record.ParseError) {
	for _, e := range errs {
		r.parseErrors = append(r.parseErrors, enumeratedError{entry: entry, err: e})
	}
}

func (r *lintReport) Print(w *os.File) {
	fmt.Fprintf(w, "entries scanned: %d\n", r.entries)
	fmt.Fprintf(w, "records by type:\n")

	types := make([]string, 0, len(r.counts))
	for rt := range r.counts {
		types = append(types, string(rt))
	}
	sort.Strings(types)
	for _, rt := range types {
		tag := codes.RecordType(rt)
		kind := "other"
		if tag.IsPrincipal() {
			kind = "principal"
		}
		fmt.Fprintf(w, "  %-3s %8d  (%s)\n", rt, r.counts[tag], kind)
	}

	if len(r.parseErrors) == 0 {
		fmt.Fprintf(w, "parse errors: none\n")
		return
	}
	fmt.Fprintf(w, "parse errors: %d\n", len(r.parseErrors))
	for _, e := range r.parseErrors {
		fmt.Fprintf(w, "  %s:%d %s\n", e.entry, e.err.Line, e.err.Reason)
	}
}

// lint scans path, branching on whether it looks like a ZIP archive or a
// bare .dat file, and returns the accumulated report.
func lint(path string, logger *logrus.Logger) (*lintReport, error) {
	report := newLintReport()

	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		a, err := archivezip.Open(path)
		if err != nil {
			return nil, err
		}
		defer a.Close()

		for _, entry := range a.ListDatFiles() {
			logger.Debugf("scanning %s", entry.Name)
			errs, err := a.ProcessEntry(entry, func(rec record.Record) bool {
				report.addRecord(rec)
				return true
			})
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", entry.Name, err)
			}
			report.addParseErrors(entry.Name, errs)
			report.entries++
		}
		return report, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := record.NewReader(f)
	if err := r.Each(func(rec record.Record) bool {
		report.addRecord(rec)
		return true
	}); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	report.addParseErrors(path, r.ParseErrors())
	report.entries++
	return report, nil
}
