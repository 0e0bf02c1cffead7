package ankiconnect

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedFieldCount = errors.New("response has an unexpected number of fields")
	ErrMissingErrorField    = errors.New("response is missing required error field")
	ErrMissingResultField   = errors.New("response is missing required result field")
)

// ExternalServiceError reports a failed AnkiConnect call.
//
// Message is set when AnkiConnect answered with a non-null error field.
// Err is set for transport failures and malformed responses.
type ExternalServiceError struct {
	Action  string
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ankiconnect: %s: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("ankiconnect: %s: %s", e.Action, e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
