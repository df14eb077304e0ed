package trip

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Required column names in the yellow-taxi trip record layout. Any
// other columns in the file are ignored.
const (
	colPickupDatetime  = "tpep_pickup_datetime"
	colDropoffDatetime = "tpep_dropoff_datetime"
	colPickupLoc       = "PULocationID"
	colDropoffLoc      = "DOLocationID"
)

// columns maps the four required columns to their positions in the
// header of the file being read.
type columns struct {
	pickupDT   int
	dropoffDT  int
	pickupLoc  int
	dropoffLoc int
}

// Reader streams trips from a CSV file one row at a time. It never
// holds more than the current record in memory.
type Reader struct {
	f    *os.File
	csv  *csv.Reader
	cols columns
	line int // 1-based line of the record last read; header is line 1
}

// Open opens the trip file and consumes its header row. It fails with
// a DecodeError if the file cannot be read or the header lacks any of
// the four required columns.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Msg: fmt.Sprintf("open %s", path), Err: err}
	}

	cr := csv.NewReader(f)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		f.Close()
		return nil, &DecodeError{Line: 1, Msg: "read header", Err: err}
	}

	idx := makeIndex(header)
	cols := columns{pickupDT: -1, dropoffDT: -1, pickupLoc: -1, dropoffLoc: -1}
	for name, dst := range map[string]*int{
		colPickupDatetime:  &cols.pickupDT,
		colDropoffDatetime: &cols.dropoffDT,
		colPickupLoc:       &cols.pickupLoc,
		colDropoffLoc:      &cols.dropoffLoc,
	} {
		i, ok := idx[name]
		if !ok {
			f.Close()
			return nil, &DecodeError{Line: 1, Msg: fmt.Sprintf("header is missing column %q", name)}
		}
		*dst = i
	}

	return &Reader{f: f, csv: cr, cols: cols, line: 1}, nil
}

// Read returns the next trip in the file, io.EOF at end of input, or a
// DecodeError for a malformed row.
func (r *Reader) Read() (Trip, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return Trip{}, io.EOF
	}
	r.line++
	if err != nil {
		return Trip{}, &DecodeError{Line: r.line, Msg: "malformed row", Err: err}
	}

	puLoc, err := parseLocID(record, r.cols.pickupLoc)
	if err != nil {
		return Trip{}, &DecodeError{Line: r.line, Msg: "bad " + colPickupLoc, Err: err}
	}
	doLoc, err := parseLocID(record, r.cols.dropoffLoc)
	if err != nil {
		return Trip{}, &DecodeError{Line: r.line, Msg: "bad " + colDropoffLoc, Err: err}
	}

	// Only the []string slice is reused by csv.Reader; the field
	// strings themselves are fresh and safe to keep.
	return Trip{
		PickupDatetime:  strings.TrimSpace(record[r.cols.pickupDT]),
		DropoffDatetime: strings.TrimSpace(record[r.cols.dropoffDT]),
		PickupLoc:       puLoc,
		DropoffLoc:      doLoc,
	}, nil
}

// Line reports the 1-based file line of the record last returned by
// Read. The header row counts as line 1, so the first data row is 2.
func (r *Reader) Line() int { return r.line }

// Close releases the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

func parseLocID(record []string, i int) (LocID, error) {
	s := strings.TrimSpace(record[i])
	if s == "" {
		return 0, fmt.Errorf("empty location field")
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return LocID(v), nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}
