package embedding

import (
	"errors"
	"fmt"
)

// InputError reports malformed pipeline input: an empty buffer, a buffer
// shorter than one analysis frame, or a non-positive sample rate. Input
// errors are fatal and produce no partial output.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Message
}

func newInputError(format string, args ...any) *InputError {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is (or wraps) an InputError
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
