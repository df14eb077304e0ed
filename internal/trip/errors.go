package trip

import "fmt"

// DecodeError is a structural CSV problem: unopenable file, a header
// missing a required column, or a row whose location field is missing
// or not a valid uint16. These are fatal for the whole run.
type DecodeError struct {
	Line int    // 1-based, header row is line 1; 0 when no row applies
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("decode line %d: %s", e.Line, e.Msg)
	}
	return "decode: " + e.Msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError is a timestamp that does not match the required
// "YYYY-MM-DD HH:MM:SS" layout. Also fatal: it means the file is not
// the format it claims to be.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse datetime %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
