package core

// # Error Codes Reference
//
// Errors shown to viewers carry a code so a report can be matched to the
// server log line that has the technical detail.
//
// # Dataset Errors (LOAD001-LOAD099)
//
//	LOAD001 - Dataset unavailable: the data file could not be read
//	LOAD002 - Missing country column: the table has no country column
//	LOAD003 - Malformed dataset: header or rows do not form a year table
//
// # Value Errors (PARSE001-PARSE099)
//
//	PARSE001 - Invalid number: a selected cell is not a number
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Unknown country
//	SEL002 - Start year after end year
//	SEL003 - Years outside the dataset
//	SEL004 - Nothing to plot           Patterns: "no data to plot"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid parameter       Patterns: "invalid parameter", "invalid request"
//	REQ002 - Request cancelled       Patterns: "context canceled"
//	REQ003 - Request timed out       Patterns: "context deadline exceeded", "timeout"
//	RATE001 - Rate limited           Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Typed errors (LoadError, ParseError, SelectionError) are matched with
// errors.As/errors.Is first. Anything else falls through to case-insensitive
// substring patterns; the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgDatasetUnavailable = UserMessage{
		Message: "The GDP dataset could not be read",
		Action:  "Check that the data file exists and is readable, then restart",
		Code:    "LOAD001",
	}
	msgMissingCountryColumn = UserMessage{
		Message: "The dataset has no country column",
		Action:  "Make sure the first header is \"country\" or set DATASET_COUNTRY_COLUMN",
		Code:    "LOAD002",
	}
	msgMalformedDataset = UserMessage{
		Message: "The dataset is not a country-by-year table",
		Action:  "Use one row per country and one column per year",
		Code:    "LOAD003",
	}
	msgInvalidNumber = UserMessage{
		Message: "A GDP value in the selection is not a number",
		Action:  "Choose a different country or year range, or fix the dataset",
		Code:    "PARSE001",
	}
	msgUnknownCountry = UserMessage{
		Message: "The selected country is not in the dataset",
		Action:  "Pick a country from the list",
		Code:    "SEL001",
	}
	msgInvalidRange = UserMessage{
		Message: "The start year is after the end year",
		Action:  "Move the left handle before the right one",
		Code:    "SEL002",
	}
	msgRangeOutOfBounds = UserMessage{
		Message: "The selected years are outside the dataset",
		Action:  "Choose years between the first and last year shown on the slider",
		Code:    "SEL003",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps untyped error text (case-insensitive) to user messages.
// Order matters: more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "no data to plot",
		msg: UserMessage{
			Message: "There is nothing to plot for this selection",
			Action:  "Select at least one country with values in the chosen years",
			Code:    "SEL004",
		},
	},
	{
		pattern: "invalid parameter",
		msg: UserMessage{
			Message: "The request has an invalid parameter",
			Action:  "Check the country and year values",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller selection or try again later",
			Code:    "REQ003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller selection or try again later",
			Code:    "REQ003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no specific mapping matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		loadErr *LoadError
		parse   *ParseError
		sel     *SelectionError
	)
	switch {
	case errors.As(err, &sel):
		switch {
		case errors.Is(sel.Err, ErrUnknownCountry):
			return msgUnknownCountry
		case errors.Is(sel.Err, ErrInvalidRange):
			return msgInvalidRange
		default:
			return msgRangeOutOfBounds
		}
	case errors.As(err, &parse):
		return msgInvalidNumber
	case errors.As(err, &loadErr):
		switch {
		case errors.Is(loadErr.Err, ErrMissingCountryColumn):
			return msgMissingCountryColumn
		case isFileError(loadErr.Err):
			return msgDatasetUnavailable
		default:
			return msgMalformedDataset
		}
	}

	errLower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errLower, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
