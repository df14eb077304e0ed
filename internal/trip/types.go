package trip

import "fmt"

// LocID is a TLC taxi zone identifier (1..265 in current data, but the
// feed format allows any uint16).
type LocID = uint16

// Trip holds the four columns of one yellow-taxi CSV row that the
// analyzer cares about. Timestamps stay textual here; they are only
// parsed after the cheap location checks pass.
type Trip struct {
	PickupDatetime  string
	DropoffDatetime string
	PickupLoc       LocID
	DropoffLoc      LocID
}

// String renders the trip for WARN lines so skipped rows can be traced
// back to the source data.
func (t Trip) String() string {
	return fmt.Sprintf("Trip{pickup: %q, dropoff: %q, pu_location: %d, do_location: %d}",
		t.PickupDatetime, t.DropoffDatetime, t.PickupLoc, t.DropoffLoc)
}

// RecordCounts tracks row dispositions across one analysis run.
// Invariant: Skipped <= Matched <= Read.
type RecordCounts struct {
	Read    uint32 `json:"read"`    // rows decoded successfully
	Matched uint32 `json:"matched"` // rows passing the corridor+weekday filter
	Skipped uint32 `json:"skipped"` // matched rows with an out-of-range duration
}
