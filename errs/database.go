package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Database error sentinel values
var (
	ErrDatabase       = errors.New("database error")
	ErrOwnershipCheck = errors.New("resource not found or not owned by caller")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrNotFound,
		Details:    fmt.Sprintf("%s not found", entity),
	}
}

// NewDatabaseError wraps a low-level database failure with the operation and
// entity it occurred on. The cause is preserved for GetFullError chains.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabase,
		Details:    fmt.Sprintf("failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

// NewOwnershipError covers both "row does not exist" and "row exists but is
// owned by someone else". The two cases are indistinguishable on purpose: the
// ownership predicate is part of the query, so a miss never reveals whether
// the id exists.
func NewOwnershipError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrOwnershipCheck,
		Details:    fmt.Sprintf("%s not found or access denied", entity),
	}
}

func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabase)
}

func IsOwnershipError(err error) bool {
	return errors.Is(err, ErrOwnershipCheck)
}
