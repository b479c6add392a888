package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing file maps to unavailable",
			err:         &LoadError{Source: "gdp.csv", Err: &os.PathError{Op: "open", Path: "gdp.csv", Err: os.ErrNotExist}},
			wantCode:    "LOAD001",
			wantMessage: "The GDP dataset could not be read",
		},
		{
			name:        "missing country column",
			err:         &LoadError{Source: "gdp.csv", Err: fmt.Errorf("%w %q", ErrMissingCountryColumn, "country")},
			wantCode:    "LOAD002",
			wantMessage: "The dataset has no country column",
		},
		{
			name:        "malformed table",
			err:         &LoadError{Source: "gdp.csv", Err: errors.New(`column "notes" is not a year`)},
			wantCode:    "LOAD003",
			wantMessage: "The dataset is not a country-by-year table",
		},
		{
			name:        "parse error",
			err:         &ParseError{Value: "N/A", Country: "USA", Year: 2001},
			wantCode:    "PARSE001",
			wantMessage: "A GDP value in the selection is not a number",
		},
		{
			name:        "wrapped selection error",
			err:         fmt.Errorf("update figure: %w", &SelectionError{Country: "ATL", Err: ErrUnknownCountry}),
			wantCode:    "SEL001",
			wantMessage: "The selected country is not in the dataset",
		},
		{
			name:        "reversed range",
			err:         &SelectionError{From: 2010, To: 2000, Err: ErrInvalidRange},
			wantCode:    "SEL002",
			wantMessage: "The start year is after the end year",
		},
		{
			name:        "out of bounds",
			err:         &SelectionError{From: 1800, To: 2000, Err: ErrRangeOutOfBounds},
			wantCode:    "SEL003",
			wantMessage: "The selected years are outside the dataset",
		},
		{
			name:        "nothing to plot",
			err:         fmt.Errorf("render chart: %w", errors.New("no data to plot")),
			wantCode:    "SEL004",
			wantMessage: "There is nothing to plot for this selection",
		},
		{
			name:        "invalid parameter",
			err:         errors.New(`invalid parameter "from": "abc"`),
			wantCode:    "REQ001",
			wantMessage: "The request has an invalid parameter",
		},
		{
			name:        "context canceled",
			err:         context.Canceled,
			wantCode:    "REQ002",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("render chart: %w", context.DeadlineExceeded),
			wantCode:    "REQ003",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("RATE LIMIT exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := &SelectionError{From: 2010, To: 2000, Err: ErrInvalidRange}
	result := FormatUserError(err)

	expected := "The start year is after the end year (Code: SEL002). Move the left handle before the right one"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "typed error is user facing",
			err:  &ParseError{Value: "x"},
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorStrings(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ParseError{Value: "N/A"}, `invalid number "N/A"`},
		{&ParseError{Value: "N/A", Country: "USA", Year: 2001}, `invalid number "N/A" for USA in 2001`},
		{&SelectionError{From: 2010, To: 2000, Err: ErrInvalidRange}, "selection: invalid year range [2010, 2000]"},
		{&LoadError{Source: "gdp.csv", Err: ErrNoRows}, "load dataset gdp.csv: no data rows"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
