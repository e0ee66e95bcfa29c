package engine

import "fmt"

// QueryError wraps a backend failure for a specific query. Execute
// returns it verbatim so the caller sees the backend's own message.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
