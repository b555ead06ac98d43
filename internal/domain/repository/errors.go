package repository

import "fmt"

// PersistenceError is returned by a ReportSink when the record was not
// stored. Message is surfaced verbatim to the caller.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err, using its text as the message.
func NewPersistenceError(err error) *PersistenceError {
	return &PersistenceError{Message: err.Error(), Err: err}
}

// PersistenceErrorf builds a PersistenceError without an underlying cause.
func PersistenceErrorf(format string, args ...interface{}) *PersistenceError {
	return &PersistenceError{Message: fmt.Sprintf(format, args...)}
}
