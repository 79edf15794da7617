package library

import "errors"

var (
	// ErrRunInFlight is returned when a job for the library is already running.
	ErrRunInFlight = errors.New("a run is already in flight for this library")
	// ErrTitleNotFound is returned when a title is missing.
	ErrTitleNotFound = errors.New("title not found")
	// ErrRecordNotFound is returned when a title lacks its price or rating record.
	ErrRecordNotFound = errors.New("title record not found")
	// ErrUnknownJobKind is returned for job kinds the runner does not know.
	ErrUnknownJobKind = errors.New("unknown job kind")
)
