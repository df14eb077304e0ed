package trip

import "time"

// datetimeLayout is the fixed timestamp format of the trip record
// feed: zero-padded, 24-hour clock, no timezone.
const datetimeLayout = "2006-01-02 15:04:05"

// ParseDateTime parses a trip timestamp as a naive local date-time.
// Any deviation from the layout is a ParseError.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(datetimeLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	return t, nil
}
