package core

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel causes carried by the typed errors below. Match them with errors.Is.
var (
	ErrMissingCountryColumn = errors.New("missing country column")
	ErrNoRows               = errors.New("no data rows")
	ErrNoYears              = errors.New("no year columns")
	ErrUnknownCountry       = errors.New("unknown country")
	ErrInvalidRange         = errors.New("invalid year range")
	ErrRangeOutOfBounds     = errors.New("year range outside dataset")
)

// LoadError reports that the dataset could not be read or is malformed.
type LoadError struct {
	Source string // file path or "postgres:<table>"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError reports a cell that cannot be coerced to a number.
type ParseError struct {
	Value   string
	Country string // set when raised by the transformer
	Year    int
	Err     error
}

func (e *ParseError) Error() string {
	if e.Country != "" {
		return fmt.Sprintf("invalid number %q for %s in %d", e.Value, e.Country, e.Year)
	}
	return fmt.Sprintf("invalid number %q", e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SelectionError reports a selection that does not fit the dataset.
type SelectionError struct {
	Country  string
	From, To int
	Err      error
}

func (e *SelectionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnknownCountry):
		return fmt.Sprintf("selection: %v %q", e.Err, e.Country)
	case errors.Is(e.Err, ErrInvalidRange), errors.Is(e.Err, ErrRangeOutOfBounds):
		return fmt.Sprintf("selection: %v [%d, %d]", e.Err, e.From, e.To)
	default:
		return fmt.Sprintf("selection: %v", e.Err)
	}
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// isFileError reports whether err comes from opening or reading a file.
func isFileError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
