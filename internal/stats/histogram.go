package stats

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/nyc-trip-stats/analyzer/internal/metrics"
)

const (
	// MinDurationSeconds is the shortest plausible corridor trip (20 min).
	MinDurationSeconds = 20 * 60
	// MaxDurationSeconds is the longest plausible corridor trip (3 h),
	// which is also the histograms' highest trackable value.
	MaxDurationSeconds = 3 * 60 * 60

	lowestTrackable = 1
	significantFigs = 3
)

// DurationError is an out-of-range trip duration. It is a row-level
// anomaly, not a fatal error: the caller counts it and moves on.
type DurationError struct {
	Seconds uint64
	TooLong bool
}

func (e *DurationError) Error() string {
	if e.TooLong {
		return fmt.Sprintf("duration secs %d is too long", e.Seconds)
	}
	return fmt.Sprintf("duration secs %d is too short", e.Seconds)
}

// DurationHistograms is a fixed array of 24 HDR histograms of trip
// duration in seconds, one per pickup hour of day. Each covers
// [1, 10800] s at 3 significant figures, so memory stays bounded no
// matter how many rows are recorded. The histograms are created empty
// and are never resized or replaced.
type DurationHistograms struct {
	hours   [24]*hdrhistogram.Histogram
	welford metrics.Welford // running mean/stddev across all hours
}

// NewDurationHistograms creates the 24 empty per-hour histograms.
func NewDurationHistograms() *DurationHistograms {
	var d DurationHistograms
	for i := range d.hours {
		d.hours[i] = hdrhistogram.New(lowestTrackable, MaxDurationSeconds, significantFigs)
	}
	return &d
}

// Record validates the trip duration and records it in the histogram
// for the pickup hour. The duration is computed as an unsigned second
// count, so a dropoff before its pickup wraps and is rejected as too
// long. On error no histogram is modified.
func (d *DurationHistograms) Record(pickup, dropoff time.Time) error {
	secs := uint64(dropoff.Unix() - pickup.Unix())
	if secs < MinDurationSeconds {
		return &DurationError{Seconds: secs}
	}
	if secs > MaxDurationSeconds {
		return &DurationError{Seconds: secs, TooLong: true}
	}
	if err := d.hours[pickup.Hour()].RecordValue(int64(secs)); err != nil {
		return &DurationError{Seconds: secs, TooLong: true}
	}
	d.welford.Update(float64(secs))
	return nil
}

// Mean returns the running mean of all recorded durations in seconds.
func (d *DurationHistograms) Mean() float64 { return d.welford.Mean() }

// StdDev returns the population standard deviation of all recorded
// durations in seconds.
func (d *DurationHistograms) StdDev() float64 { return d.welford.StdDev() }

// TotalCount returns the number of observations across all 24 hours.
func (d *DurationHistograms) TotalCount() int64 {
	var n int64
	for _, h := range d.hours {
		n += h.TotalCount()
	}
	return n
}
