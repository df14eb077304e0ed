// Package analysis drives the corridor trip summary: it streams the
// input CSV through the corridor filter and into the per-hour duration
// histograms, then projects the final report.
package analysis

import (
	"errors"
	"fmt"
	"io"

	"github.com/nyc-trip-stats/analyzer/internal/stats"
	"github.com/nyc-trip-stats/analyzer/internal/trip"
)

// Run analyzes the trip file at path and returns the finished report.
// Rows with an out-of-range duration are warned about on warnw (one
// line each), counted as skipped, and processing continues. Structural
// errors — unopenable file, bad header, malformed row, unparseable
// timestamp — abort the run with the error.
//
// The run is strictly sequential and holds only the current row plus
// the fixed histogram array in memory.
func Run(path string, warnw io.Writer) (*stats.Report, error) {
	r, err := trip.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var counts trip.RecordCounts
	hists := stats.NewDurationHistograms()

	for {
		t, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		counts.Read++

		// Cheap integer checks first; timestamps are only parsed for
		// rows already on the corridor.
		if !trip.IsJFK(t.DropoffLoc) || !trip.IsMidtown(t.PickupLoc) {
			continue
		}
		pickup, err := trip.ParseDateTime(t.PickupDatetime)
		if err != nil {
			return nil, err
		}
		if !trip.IsWeekday(pickup) {
			continue
		}
		counts.Matched++

		dropoff, err := trip.ParseDateTime(t.DropoffDatetime)
		if err != nil {
			return nil, err
		}
		if err := hists.Record(pickup, dropoff); err != nil {
			var derr *stats.DurationError
			if !errors.As(err, &derr) {
				return nil, err
			}
			fmt.Fprintf(warnw, "WARN: %d - %v. Skipped: %s\n", r.Line(), derr, t)
			counts.Skipped++
		}
	}

	return stats.NewReport(counts, hists), nil
}
