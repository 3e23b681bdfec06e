package overpass

import "fmt"

// RetryableError marks a transient failure: timeout, connection error,
// server-side error, or an unparseable body. The client retries these up to
// its attempt budget.
type RetryableError struct {
	Backend string
	Status  int
	Err     error
}

func (e *RetryableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("overpass: backend %s returned %d", e.Backend, e.Status)
	}
	return fmt.Sprintf("overpass: backend %s: %v", e.Backend, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// FatalError marks a request the server will never accept, typically a
// malformed query. The client does not retry these.
type FatalError struct {
	Backend string
	Status  int
	Body    string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("overpass: backend %s rejected request with %d", e.Backend, e.Status)
}
