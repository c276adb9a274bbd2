package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/wmfkit/internal/wmfio"
	"github.com/samcharles93/wmfkit/pkg/wmf"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// statusFor maps codec and request errors to an HTTP status and error type.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, wmf.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, wmfio.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large_error"
	case errors.Is(err, wmf.ErrCorruptFile),
		errors.Is(err, wmf.ErrCorruptRecord),
		errors.Is(err, wmf.ErrShortRecord):
		return http.StatusUnprocessableEntity, "corrupt_metafile_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
