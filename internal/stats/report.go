package stats

import (
	"encoding/json"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/nyc-trip-stats/analyzer/internal/trip"
)

// lowestEquivalent walks a quantile readback down to the lowest value
// in its bucket. hdrhistogram-go v1.1.2 does not export
// lowestEquivalentValue, so this uses the exported ValuesAreEquivalent
// instead; bucket width over [1200, 10800] at 3 significant figures is
// at most 8, so the loop is trivially bounded.
func lowestEquivalent(h *hdrhistogram.Histogram, v int64) int64 {
	for v > MinDurationSeconds && h.ValuesAreEquivalent(v-1, v) {
		v--
	}
	return v
}

// Entry is the per-hour summary row of the output document. Values are
// minutes. For an hour with no observations the histogram reads back
// its empty sentinel (0) and that is emitted verbatim.
type Entry struct {
	HourOfDay uint8   `json:"hour_of_day"`
	Minimum   float64 `json:"minimum"`
	Median    float64 `json:"median"`
	P95       float64 `json:"95th percentile"`
}

// Report is the full analysis output: the run counters plus exactly 24
// stats entries in ascending hour order.
type Report struct {
	RecordCounts trip.RecordCounts `json:"record_counts"`
	Stats        []Entry           `json:"stats"`

	// Aggregates for the analysis archive; not part of the JSON document.
	DurationMean   float64 `json:"-"` // seconds
	DurationStdDev float64 `json:"-"` // seconds
}

// NewReport projects the histogram array into its final per-hour
// summaries. Every hour appears, observed or not.
func NewReport(counts trip.RecordCounts, hists *DurationHistograms) *Report {
	entries := make([]Entry, 0, len(hists.hours))
	for hour, h := range hists.hours {
		// ValueAtQuantile returns the highest equivalent value of the
		// quantile's bucket, which for wide buckets can exceed the
		// recorded value (and even the upper bound). Reading back the
		// bucket's lowest equivalent value keeps every statistic
		// within [MinDurationSeconds, MaxDurationSeconds].
		median := lowestEquivalent(h, h.ValueAtQuantile(50))
		p95 := lowestEquivalent(h, h.ValueAtQuantile(95))
		entries = append(entries, Entry{
			HourOfDay: uint8(hour),
			Minimum:   float64(h.Min()) / 60.0,
			Median:    float64(median) / 60.0,
			P95:       float64(p95) / 60.0,
		})
	}
	return &Report{
		RecordCounts:   counts,
		Stats:          entries,
		DurationMean:   hists.Mean(),
		DurationStdDev: hists.StdDev(),
	}
}

// JSON serializes the report as pretty-printed JSON with two-space
// indentation.
func (r *Report) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
