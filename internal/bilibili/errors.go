package bilibili

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn matches feed errors caused by a missing or expired session.
var ErrNotLoggedIn = errors.New("not logged in")

// codeNotLoggedIn is returned by authenticated endpoints for bad cookies.
const codeNotLoggedIn = -101

// TransportError is a network failure, non-200 status or malformed body.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FeedError is a well-formed response carrying a non-zero status code.
type FeedError struct {
	Op      string
	Code    int
	Message string
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("%s: feed error %d: %s", e.Op, e.Code, e.Message)
}

// Is lets errors.Is(err, ErrNotLoggedIn) match session failures.
func (e *FeedError) Is(target error) bool {
	return target == ErrNotLoggedIn && e.Code == codeNotLoggedIn
}
