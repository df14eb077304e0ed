package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nyc-trip-stats/analyzer/internal/analysis"
	"github.com/nyc-trip-stats/analyzer/internal/config"
	"github.com/nyc-trip-stats/analyzer/internal/db"
	"github.com/nyc-trip-stats/analyzer/internal/stats"
)

func main() {
	cfg := config.Load()

	// Command line flags
	archiveDB := flag.String("archive-db", cfg.DatabasePath, "If set, archive the run summary to this SQLite database")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	infile := flag.Arg(0)

	report, err := analysis.Run(infile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Counters go to stderr so stdout stays pure JSON for piping.
	c := report.RecordCounts
	fmt.Fprintf(os.Stderr, "records: read=%d matched=%d skipped=%d\n", c.Read, c.Matched, c.Skipped)

	out, err := report.JSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)

	if *archiveDB != "" {
		if err := archiveRun(*archiveDB, infile, report); err != nil {
			log.Fatalf("Failed to archive run: %v", err)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] INFILE\n\nAnalyzes Midtown-to-JFK weekday trip durations in a yellow-taxi CSV.\n\n", os.Args[0])
	flag.PrintDefaults()
}

// archiveRun stores the finished report in the analysis archive so
// skip rates and per-hour stats can be compared across input files.
func archiveRun(dbPath, infile string, report *stats.Report) error {
	database, err := db.Connect(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	run := db.Run{
		ID:             uuid.NewString(),
		SourceFile:     infile,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Counts:         report.RecordCounts,
		DurationMean:   report.DurationMean,
		DurationStdDev: report.DurationStdDev,
		Entries:        report.Stats,
	}
	if err := database.SaveRun(ctx, run); err != nil {
		return err
	}

	log.Printf("Archived run %s to %s", run.ID, dbPath)
	return nil
}
