package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/nyc-trip-stats/analyzer/internal/config"
	"github.com/nyc-trip-stats/analyzer/internal/db"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DatabasePath, "Path to the analysis archive SQLite database")
	runID := flag.String("run", "", "If set, print the hourly stats of this archived run")
	prune := flag.Bool("prune", false, "Delete runs older than the retention window before listing")
	retentionDays := flag.Int("retention-days", cfg.RetentionDays, "Retention window in days for -prune")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("No archive database: set -db or TRIPSTATS_DB")
	}

	database, err := db.Connect(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if *prune {
		n, err := database.PruneRuns(ctx, *retentionDays)
		if err != nil {
			log.Fatalf("Failed to prune runs: %v", err)
		}
		if n > 0 {
			log.Printf("Pruned %d runs older than %d days", n, *retentionDays)
		}
	}

	if *runID != "" {
		printRun(ctx, database, *runID)
		return
	}

	runs, err := database.ListRuns(ctx)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return
	}

	fmt.Printf("%-36s  %-20s  %8s %8s %8s  %s\n",
		"RUN", "CREATED", "READ", "MATCHED", "SKIPPED", "SOURCE")
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %8d %8d %8d  %s\n",
			r.ID, r.CreatedAt, r.Counts.Read, r.Counts.Matched, r.Counts.Skipped, r.SourceFile)
	}
}

func printRun(ctx context.Context, database *db.DB, id string) {
	run, err := database.GetRun(ctx, id)
	if err != nil {
		log.Fatalf("Failed to load run %s: %v", id, err)
	}
	if run == nil {
		log.Fatalf("No archived run with id %s", id)
	}

	fmt.Printf("Run %s (%s)\n", run.ID, run.CreatedAt)
	fmt.Printf("Source: %s\n", run.SourceFile)
	fmt.Printf("Records: read=%d matched=%d skipped=%d\n",
		run.Counts.Read, run.Counts.Matched, run.Counts.Skipped)
	fmt.Printf("Duration: mean=%.1fs stddev=%.1fs\n\n", run.DurationMean, run.DurationStdDev)

	fmt.Printf("%4s  %8s %8s %8s\n", "HOUR", "MIN", "MEDIAN", "P95")
	for _, e := range run.Entries {
		fmt.Printf("%4d  %8.2f %8.2f %8.2f\n", e.HourOfDay, e.Minimum, e.Median, e.P95)
	}
}
