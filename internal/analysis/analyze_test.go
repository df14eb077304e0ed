package analysis

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nyc-trip-stats/analyzer/internal/stats"
	"github.com/nyc-trip-stats/analyzer/internal/trip"
)

const header = "tpep_pickup_datetime,tpep_dropoff_datetime,PULocationID,DOLocationID\n"

func writeTrips(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	content := header + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func run(t *testing.T, path string) (*stats.Report, string) {
	t.Helper()
	var warns bytes.Buffer
	report, err := Run(path, &warns)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report, warns.String()
}

func checkCounts(t *testing.T, r *stats.Report, read, matched, skipped uint32) {
	t.Helper()
	c := r.RecordCounts
	if c.Read != read || c.Matched != matched || c.Skipped != skipped {
		t.Errorf("counts = read=%d matched=%d skipped=%d, want read=%d matched=%d skipped=%d",
			c.Read, c.Matched, c.Skipped, read, matched, skipped)
	}
	if c.Skipped > c.Matched || c.Matched > c.Read {
		t.Errorf("counter invariant violated: skipped=%d matched=%d read=%d",
			c.Skipped, c.Matched, c.Read)
	}
}

func TestRun_MinimalAccept(t *testing.T) {
	// Monday morning Midtown->JFK, 30 minutes.
	path := writeTrips(t, "2020-01-06 08:00:00,2020-01-06 08:30:00,161,132")
	report, warns := run(t, path)

	checkCounts(t, report, 1, 1, 0)
	if warns != "" {
		t.Errorf("unexpected warnings: %q", warns)
	}
	e := report.Stats[8]
	if e.Minimum != 30.0 || e.Median != 30.0 || e.P95 != 30.0 {
		t.Errorf("hour 8 = %+v, want min=median=p95=30.0", e)
	}
}

func TestRun_WrongCorridor(t *testing.T) {
	path := writeTrips(t, "2020-01-06 08:00:00,2020-01-06 08:30:00,100,200")
	report, _ := run(t, path)

	checkCounts(t, report, 1, 0, 0)
	for _, e := range report.Stats {
		if e.Minimum != 0 || e.Median != 0 || e.P95 != 0 {
			t.Errorf("hour %d should be empty, got %+v", e.HourOfDay, e)
		}
	}
}

func TestRun_WeekendReject(t *testing.T) {
	// Saturday, valid corridor and duration.
	path := writeTrips(t, "2020-01-04 08:00:00,2020-01-04 08:30:00,161,132")
	report, _ := run(t, path)
	checkCounts(t, report, 1, 0, 0)
}

func TestRun_TooShort(t *testing.T) {
	path := writeTrips(t, "2020-01-06 08:00:00,2020-01-06 08:10:00,161,132")
	report, warns := run(t, path)

	checkCounts(t, report, 1, 1, 1)
	want := `WARN: 2 - duration secs 600 is too short. Skipped: Trip{pickup: "2020-01-06 08:00:00", dropoff: "2020-01-06 08:10:00", pu_location: 161, do_location: 132}` + "\n"
	if warns != want {
		t.Errorf("warning = %q\nwant      %q", warns, want)
	}
}

func TestRun_TooLong(t *testing.T) {
	path := writeTrips(t, "2020-01-06 08:00:00,2020-01-06 12:00:00,161,132")
	report, warns := run(t, path)

	checkCounts(t, report, 1, 1, 1)
	if !strings.Contains(warns, "duration secs 14400 is too long") {
		t.Errorf("warning = %q", warns)
	}
}

func TestRun_ThreeHourBoundary(t *testing.T) {
	path := writeTrips(t, "2020-01-06 08:00:00,2020-01-06 11:00:00,161,132")
	report, warns := run(t, path)

	checkCounts(t, report, 1, 1, 0)
	if warns != "" {
		t.Errorf("unexpected warnings: %q", warns)
	}
	e := report.Stats[8]
	if e.Minimum != 180.0 || e.Median != 180.0 || e.P95 != 180.0 {
		t.Errorf("hour 8 = %+v, want min=median=p95=180.0", e)
	}
}

func TestRun_MixedRows(t *testing.T) {
	rows := []string{
		"2020-01-06 08:00:00,2020-01-06 08:30:00,161,132", // matched
		"2020-01-06 08:05:00,2020-01-06 08:06:00,162,132", // matched, too short
		"2020-01-04 09:00:00,2020-01-04 09:30:00,161,132", // Saturday
		"2020-01-06 09:00:00,2020-01-06 09:45:00,50,132",  // not Midtown
		"2020-01-06 17:00:00,2020-01-06 17:40:00,234,132", // matched, hour 17
	}
	path := writeTrips(t, rows...)
	report, warns := run(t, path)

	checkCounts(t, report, 5, 3, 1)
	if strings.Count(warns, "WARN:") != 1 {
		t.Errorf("expected 1 warning, got %q", warns)
	}
	if !strings.HasPrefix(warns, "WARN: 3 - ") {
		t.Errorf("warning should reference line 3, got %q", warns)
	}
	if report.Stats[17].Median != 40.0 {
		t.Errorf("hour 17 median = %v, want 40.0", report.Stats[17].Median)
	}
}

func TestRun_Idempotent(t *testing.T) {
	rows := []string{
		"2020-01-06 08:00:00,2020-01-06 08:30:00,161,132",
		"2020-01-06 08:10:00,2020-01-06 08:55:00,230,132",
		"2020-01-06 14:00:00,2020-01-06 14:25:00,90,132",
	}
	path := writeTrips(t, rows...)

	r1, _ := run(t, path)
	r2, _ := run(t, path)
	j1, err := r1.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	j2, err := r2.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if j1 != j2 {
		t.Error("two runs over the same input should produce identical JSON")
	}
}

func TestRun_OrderIndependent(t *testing.T) {
	rows := []string{
		"2020-01-06 08:00:00,2020-01-06 08:30:00,161,132",
		"2020-01-06 08:10:00,2020-01-06 08:55:00,230,132",
		"2020-01-07 08:00:00,2020-01-07 09:10:00,90,132",
		"2020-01-06 14:00:00,2020-01-06 14:05:00,186,132",
	}
	shuffled := []string{rows[2], rows[0], rows[3], rows[1]}

	r1, _ := run(t, writeTrips(t, rows...))
	r2, _ := run(t, writeTrips(t, shuffled...))
	j1, _ := r1.JSON()
	j2, _ := r2.JSON()
	if j1 != j2 {
		t.Error("row order must not change the summary")
	}
}

func TestRun_ObservationCountInvariant(t *testing.T) {
	rows := []string{
		"2020-01-06 08:00:00,2020-01-06 08:30:00,161,132",
		"2020-01-06 08:00:00,2020-01-06 08:01:00,161,132", // skipped
		"2020-01-06 10:00:00,2020-01-06 10:40:00,163,132",
		"2020-01-06 11:00:00,2020-01-06 11:30:00,1,132", // filtered
	}
	report, _ := run(t, writeTrips(t, rows...))
	c := report.RecordCounts
	// matched - skipped trips landed in histograms; their stats are
	// non-sentinel while everything else reads zero.
	if c.Matched-c.Skipped != 2 {
		t.Fatalf("matched-skipped = %d, want 2", c.Matched-c.Skipped)
	}
	var nonEmpty int
	for _, e := range report.Stats {
		if e.Median != 0 {
			nonEmpty++
			if e.Median < 20.0 || e.Median > 180.0 {
				t.Errorf("hour %d median %v outside [20, 180] minutes", e.HourOfDay, e.Median)
			}
		}
	}
	if nonEmpty != 2 {
		t.Errorf("non-empty hours = %d, want 2", nonEmpty)
	}
}

func TestRun_FatalTimestamp(t *testing.T) {
	// A matched row with a malformed pickup timestamp aborts the run.
	path := writeTrips(t, "06/01/2020 08:00,2020-01-06 08:30:00,161,132")
	_, err := Run(path, os.Stderr)
	var perr *trip.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestRun_FatalDropoffTimestamp(t *testing.T) {
	// The dropoff is parsed only after the weekday check, but when it
	// is malformed the run still aborts.
	path := writeTrips(t, "2020-01-06 08:00:00,garbage,161,132")
	_, err := Run(path, os.Stderr)
	var perr *trip.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestRun_BadTimestampOffCorridorIgnored(t *testing.T) {
	// Timestamps are only parsed after the location checks pass, so a
	// malformed timestamp on an off-corridor row is never seen.
	path := writeTrips(t, "garbage,garbage,1,2")
	report, _ := run(t, path)
	checkCounts(t, report, 1, 0, 0)
}

func TestRun_FatalBadLocation(t *testing.T) {
	path := writeTrips(t, "2020-01-06 08:00:00,2020-01-06 08:30:00,not-a-zone,132")
	_, err := Run(path, os.Stderr)
	var derr *trip.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %T: %v", err, err)
	}
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "nope.csv"), os.Stderr)
	var derr *trip.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %T: %v", err, err)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	report, warns := run(t, writeTrips(t))
	checkCounts(t, report, 0, 0, 0)
	if warns != "" {
		t.Errorf("unexpected warnings: %q", warns)
	}
	if len(report.Stats) != 24 {
		t.Errorf("len(Stats) = %d, want 24", len(report.Stats))
	}
}
