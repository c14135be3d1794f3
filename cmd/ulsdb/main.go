// ulsdb program
// This processes FCC ULS weekly/daily license archives into a queryable
// SQLite database, and serves lookups, searches, statistics, and
// freshness reports against it.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/n6ul/ulsdb/config"
	"github.com/n6ul/ulsdb/freshness"
	"github.com/n6ul/ulsdb/internal/buildinfo"
	"github.com/n6ul/ulsdb/query"
	"github.com/n6ul/ulsdb/store"
)

func main() {
	var (
		configFile = kingpin.Flag(
			"config",
			"Config file for ulsdb.",
		).Default("ulsdb.yaml").Short('c').String()
		dbPath = kingpin.Flag(
			"db",
			"Database path (overrides config).",
		).String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Short('d').Int()
		profileMode = kingpin.Flag(
			"profile",
			"Enable CPU or memory profiling for this run.",
		).Default("none").Enum("none", "cpu", "mem")
	)

	cmdImport := kingpin.Command("import", "Import a ULS archive into the database.")
	importArchive := cmdImport.Arg("archive", "Path to the service ZIP archive.").Required().String()
	importService := cmdImport.Arg("service", "Service code the archive belongs to, e.g. AM.").Required().String()
	importMode := cmdImport.Flag("mode", "Import mode.").Default("full").Enum("full", "minimal")
	importEtag := cmdImport.Flag("etag", "ETag identifying this archive's contents.").String()
	importPatchDate := cmdImport.Flag("patch-date", "Record this import in the applied-patch ledger as a daily patch (YYYY-MM-DD).").String()
	importWeekday := cmdImport.Flag("weekday", "Weekday label for --patch-date.").String()

	cmdLookup := kingpin.Command("lookup", "Look up a license by call sign.")
	lookupCallSign := cmdLookup.Arg("callsign", "Call sign to look up.").Required().String()

	cmdFRN := kingpin.Command("frn", "Look up every license sharing an FRN.")
	frnArg := cmdFRN.Arg("frn", "FCC Registration Number.").Required().String()

	cmdSearch := kingpin.Command("search", "Search licenses by filter.")
	searchCallSign := cmdSearch.Flag("call-sign", "Call sign, wildcards * and ? allowed.").String()
	searchName := cmdSearch.Flag("name", "Entity/first/last name, wildcards allowed.").String()
	searchState := cmdSearch.Flag("state", "Two-letter state code.").String()
	searchCity := cmdSearch.Flag("city", "City name.").String()
	searchZip := cmdSearch.Flag("zip", "ZIP code, prefix-matched.").String()
	searchFRN := cmdSearch.Flag("frn", "FCC Registration Number.").String()
	searchStatus := cmdSearch.Flag("status", "License status code, e.g. A.").String()
	searchClass := cmdSearch.Flag("operator-class", "Operator class code, e.g. E.").String()
	searchService := cmdSearch.Flag("radio-service", "Radio service code, e.g. HA.").String()
	searchActiveOnly := cmdSearch.Flag("active-only", "Restrict to active licenses.").Bool()
	searchExpr := cmdSearch.Flag("expr", "Generic \"field op value\" filter expression, repeatable.").Strings()
	searchSort := cmdSearch.Flag("sort", "Sort field, optionally \"-\"-prefixed for descending.").Default("CallSign").String()
	searchLimit := cmdSearch.Flag("limit", "Maximum rows to return.").Int()
	searchOffset := cmdSearch.Flag("offset", "Rows to skip before returning results.").Int()

	cmdStats := kingpin.Command("stats", "Show aggregate license statistics.")
	statsHistogram := cmdStats.Flag("histogram", "Include the per-radio-service breakdown.").Bool()

	cmdFreshness := kingpin.Command("freshness", "Show data freshness for a service.")
	freshnessService := cmdFreshness.Arg("service", "Service code, e.g. AM.").Required().String()

	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(buildinfo.Print("ulsdb")).Author("n6ul")
	kingpin.CommandLine.Help = "Imports and queries FCC ULS license data.\n"
	kingpin.HelpFlag.Short('h')
	cmd := kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	}

	cfg, err := config.LoadConfigFile(*configFile)
	if err != nil {
		logger.Warnf("using built-in defaults: %v", err)
		cfg = &config.Config{Store: store.DefaultConfig(), Freshness: freshness.DefaultConfig()}
	}
	// Precedence: --db flag, then ULS_DB_PATH, then the config file.
	if env := os.Getenv("ULS_DB_PATH"); env != "" {
		cfg.Store.Path = env
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	s, err := store.Open(cfg.Store, logger)
	if err != nil {
		logger.Fatalf("error opening database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	switch cmd {
	case cmdImport.FullCommand():
		runImport(ctx, logger, s, *importArchive, *importService, *importMode, *importEtag, *importPatchDate, *importWeekday)
	case cmdLookup.FullCommand():
		runLookup(ctx, s, *lookupCallSign)
	case cmdFRN.FullCommand():
		runFRN(ctx, s, *frnArg)
	case cmdSearch.FullCommand():
		runSearch(ctx, s, query.Filter{
			CallSign:      *searchCallSign,
			Name:          *searchName,
			State:         *searchState,
			City:          *searchCity,
			ZipCode:       *searchZip,
			FRN:           *searchFRN,
			Status:        *searchStatus,
			OperatorClass: *searchClass,
			RadioService:  *searchService,
			ActiveOnly:    *searchActiveOnly,
			Expr:          *searchExpr,
			Sort:          *searchSort,
			HasLimit:      *searchLimit > 0,
			Limit:         *searchLimit,
			HasOffset:     *searchOffset > 0,
			Offset:        *searchOffset,
		})
	case cmdStats.FullCommand():
		runStats(ctx, s, *statsHistogram)
	case cmdFreshness.FullCommand():
		runFreshness(s, *freshnessService, cfg.Freshness)
	}
}

func runImport(ctx context.Context, logger *logrus.Logger, s *store.Store, archive, service, mode, etag, patchDate, weekday string) {
	importMode := store.ModeFull
	if mode == "minimal" {
		importMode = store.ModeMinimal
	}
	if etag == "" {
		etag = archive
	}

	imp := store.NewImporter(s, logger)
	stats, err := imp.Run(ctx, archive, service, importMode, etag, func(st store.ImportStats) {
		logger.Infof("progress: %s", st.String())
	})
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}
	fmt.Println(stats.String())

	if patchDate != "" {
		ledger := freshness.NewLedger(s)
		if err := ledger.Apply(service, patchDate, weekday, etag, stats.Records, time.Now()); err != nil {
			logger.Fatalf("recording applied patch: %v", err)
		}
	}
}

func runLookup(ctx context.Context, s *store.Store, callSign string) {
	e := query.NewEngine(s)
	defer e.Close()

	lic, ok, err := e.Lookup(ctx, callSign)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lookup error:", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Printf("no license found for %s\n", callSign)
		return
	}
	printLicense(lic)
}

func runFRN(ctx context.Context, s *store.Store, frn string) {
	e := query.NewEngine(s)
	defer e.Close()

	lics, err := e.LookupByFRN(ctx, frn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "frn lookup error:", err)
		os.Exit(1)
	}
	if len(lics) == 0 {
		fmt.Printf("no licenses found for FRN %s\n", frn)
		return
	}
	for _, lic := range lics {
		printLicense(lic)
	}
}

func runSearch(ctx context.Context, s *store.Store, f query.Filter) {
	e := query.NewEngine(s)
	defer e.Close()

	lics, err := e.Search(ctx, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "search error:", err)
		os.Exit(1)
	}
	fmt.Printf("%d result(s)\n", len(lics))
	for _, lic := range lics {
		printLicense(lic)
	}
}

func runStats(ctx context.Context, s *store.Store, histogram bool) {
	e := query.NewEngine(s)
	defer e.Close()

	stats, err := e.Stats(ctx, histogram)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stats error:", err)
		os.Exit(1)
	}
	fmt.Printf("total=%d active=%d expired=%d cancelled=%d schema_version=%d last_updated=%s\n",
		stats.TotalLicenses, stats.ActiveLicenses, stats.ExpiredLicenses, stats.CancelledLicenses,
		stats.SchemaVersion, stats.LastUpdated)
	if histogram {
		for svc, n := range stats.ByService {
			fmt.Printf("  %s: %d\n", svc, n)
		}
	}
}

func runFreshness(s *store.Store, service string, cfg freshness.Config) {
	df, err := freshness.Compute(s, service, cfg, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "freshness error:", err)
		os.Exit(1)
	}
	status := "fresh"
	if df.Stale {
		status = "stale"
	}
	fmt.Printf("%s: %s (age=%s, threshold=%dd)\n", service, status, df.Age.Round(time.Second), df.ThresholdDays)
	for _, p := range df.AppliedPatches {
		fmt.Printf("  patch %s (%s) rows=%s\n", p.PatchDate, p.Weekday, strconv.FormatInt(p.RowCount, 10))
	}
}

func printLicense(lic query.License) {
	name := strings.TrimSpace(lic.EntityName)
	if name == "" {
		name = strings.TrimSpace(lic.FirstName + " " + lic.LastName)
	}
	fmt.Printf("%s\tusi=%d\tstatus=%s\tservice=%s\t%s\t%s, %s %s\tfrn=%s\n",
		lic.CallSign, lic.USI, lic.Status, lic.RadioService, name, lic.City, lic.State, lic.ZipCode, lic.FRN)
}
