package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// External service error sentinel values. The enrichment service reports
// failures in three shapes that the caller treats very differently: transient
// failures are retried with backoff, partial failures degrade to manual
// input, and validation failures are surfaced immediately.
var (
	ErrServiceTransient  = errors.New("transient service failure")
	ErrServicePartial    = errors.New("partial service failure")
	ErrServiceValidation = errors.New("service rejected input")
	ErrServiceTimeout    = errors.New("service call timed out")
	ErrUploadFailed      = errors.New("object upload failed")
)

// NewTransientServiceError marks a network or HTTP-level failure from an
// external service as retryable.
func NewTransientServiceError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceTransient,
		Details:    fmt.Sprintf("%s is unavailable", service),
		Cause:      cause,
	}
}

// NewPartialServiceError covers the case where a service succeeded for part
// of its work (e.g. text generation) but failed for the rest (e.g. image
// derivation). Never retried.
func NewPartialServiceError(service, failedStep string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServicePartial,
		Details:    fmt.Sprintf("%s failed during %s", service, failedStep),
	}
}

func NewServiceValidationError(service, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnprocessableEntity,
		err:        ErrServiceValidation,
		Details:    fmt.Sprintf("%s: %s", service, message),
	}
}

func NewServiceTimeoutError(service string, timeout time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusGatewayTimeout,
		err:        ErrServiceTimeout,
		Details:    fmt.Sprintf("%s did not respond within %s", service, timeout),
	}
}

func NewUploadError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("failed to upload %s", path),
		Cause:      cause,
	}
}

func IsTransientServiceError(err error) bool {
	return errors.Is(err, ErrServiceTransient) || errors.Is(err, ErrServiceTimeout)
}

func IsPartialServiceError(err error) bool {
	return errors.Is(err, ErrServicePartial)
}

func IsServiceValidationError(err error) bool {
	return errors.Is(err, ErrServiceValidation)
}

func IsUploadError(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}
