package chain

import "fmt"

// DecodeError reports a chain record that could not be decoded.
type DecodeError struct {
	Record string // "region key", "region value", ...
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Record, e.Err)
	}
	return fmt.Sprintf("decode %s field %s: %v", e.Record, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FetchError reports that the collaborator could not be reached or answered
// with an error.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
