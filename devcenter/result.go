package devcenter

import (
	"fmt"
	"net/http"
)

// Result is a raw HTTP response with its decoded body.
// Body is nil when the response carried no body (or a
// JSON null).
type Result[T any] struct {
	StatusCode int
	Body       *T
}

// APIError reports a Dev Center response that failed
// validation: a status code outside [200, 400) or a
// missing body.
type APIError struct {
	// Operation is the label of the failed call
	// (e.g. "register branch").
	Operation string
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// MissingBody is set when the status was in
	// range but no body was returned.
	MissingBody bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.MissingBody {
		return fmt.Sprintf(
			"Expected result body but got while attempting to %s",
			e.Operation,
		)
	}

	return fmt.Sprintf(
		"Failed to %s: Error %d",
		e.Operation, e.StatusCode,
	)
}

// ParseResult returns the body of res when the
// response is successful, or an *APIError naming
// operation otherwise.
func ParseResult[T any](
	operation string,
	res Result[T],
) (T, error) {
	var zero T

	if res.StatusCode < http.StatusOK ||
		res.StatusCode >= http.StatusBadRequest {
		return zero, &APIError{
			Operation:  operation,
			StatusCode: res.StatusCode,
		}
	}

	if res.Body == nil {
		return zero, &APIError{
			Operation:   operation,
			StatusCode:  res.StatusCode,
			MissingBody: true,
		}
	}

	return *res.Body, nil
}
