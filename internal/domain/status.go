package domain

import (
	"errors"
	"fmt"
)

// Status is the outcome code shared by the index, the fetcher and the store.
// Ordinals are stable: the web layer passes them around as ?error=<n>.
type Status int

const (
	OK Status = iota
	Error
	MissingConfig
	MissingValues
	ConnectionFailed
	CreateFailed
	InvalidLogin
	InvalidUser
	DuplicateUser
	SqlException
	InvalidHotel
	DuplicateHotel
	DuplicateSaveHotel
	InvalidLink
	DuplicateLink
	InvalidReview
	InvalidSaveHotel
	DuplicateReview
	InvalidPassword
	InvalidPasswordLength
	MalformedCatalog
	InvalidRating
	InvalidDate
	MissingAPIKey
	FetchFailed
)

var statusMessages = [...]string{
	OK:                    "No errors occurred.",
	Error:                 "Unknown error occurred.",
	MissingConfig:         "Unable to find configuration file.",
	MissingValues:         "Missing values in configuration file.",
	ConnectionFailed:      "Failed to establish a database connection.",
	CreateFailed:          "Failed to create necessary tables.",
	InvalidLogin:          "Invalid username and/or password.",
	InvalidUser:           "User does not exist.",
	DuplicateUser:         "User with that username already exists.",
	SqlException:          "Unable to execute SQL statement.",
	InvalidHotel:          "Invalid hotel id and/or name.",
	DuplicateHotel:        "Hotel with that id already exists.",
	DuplicateSaveHotel:    "Hotel is already saved.",
	InvalidLink:           "Invalid user name/hotel id.",
	DuplicateLink:         "Link was visited before.",
	InvalidReview:         "Invalid review/hotel id.",
	InvalidSaveHotel:      "Invalid hotel or user.",
	DuplicateReview:       "Review with that id already exists.",
	InvalidPassword:       "Password must contain at least one number, letter and special character {@#$%}",
	InvalidPasswordLength: "Password must be at least 5 and not more than 10 characters long",
	MalformedCatalog:      "Hotel catalog is missing required fields.",
	InvalidRating:         "Rating must be between 0 and 5.",
	InvalidDate:           "Review submission time could not be parsed.",
	MissingAPIKey:         "API key missing in configuration file.",
	FetchFailed:           "Unable to fetch data from the remote service.",
}

var statusNames = [...]string{
	"OK", "Error", "MissingConfig", "MissingValues", "ConnectionFailed", "CreateFailed",
	"InvalidLogin", "InvalidUser", "DuplicateUser", "SqlException", "InvalidHotel",
	"DuplicateHotel", "DuplicateSaveHotel", "InvalidLink", "DuplicateLink", "InvalidReview",
	"InvalidSaveHotel", "DuplicateReview", "InvalidPassword", "InvalidPasswordLength",
	"MalformedCatalog", "InvalidRating", "InvalidDate", "MissingAPIKey", "FetchFailed",
}

// Name is the identifier of s, used for metric labels and log fields.
func (s Status) Name() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[Error]
	}
	return statusNames[s]
}

// Message returns the human readable text for s.
func (s Status) Message() string {
	if s < 0 || int(s) >= len(statusMessages) {
		return statusMessages[Error]
	}
	return statusMessages[s]
}

func (s Status) String() string { return s.Message() }

// Error lets a bare Status travel as an error value.
func (s Status) Error() string { return s.Message() }

// StatusFromCode maps a web ?error= ordinal back to a Status; unknown codes are Error.
func StatusFromCode(code int) Status {
	if code < 0 || code >= len(statusMessages) {
		return Error
	}
	return Status(code)
}

// StatusError pairs a Status with the error that caused it.
type StatusError struct {
	Status Status
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return e.Status.Message()
	}
	return fmt.Sprintf("%s: %v", e.Status.Message(), e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Is matches a bare Status target, so errors.Is(err, DuplicateUser) works.
func (e *StatusError) Is(target error) bool {
	s, ok := target.(Status)
	return ok && s == e.Status
}

// Fail wraps cause with status s. A nil cause yields a plain StatusError.
func Fail(s Status, cause error) error {
	return &StatusError{Status: s, Err: cause}
}

// Failf is Fail with a formatted cause.
func Failf(s Status, format string, args ...any) error {
	return &StatusError{Status: s, Err: fmt.Errorf(format, args...)}
}

// StatusOf reports the Status carried by err: nil is OK, unknown errors are Error.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return Error
}
