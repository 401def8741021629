package proxyadmin

import "fmt"

// AlreadyStoppedError represents a proxy that had already exited; not an
// error for the caller.
type AlreadyStoppedError struct{}

func (e *AlreadyStoppedError) Error() string {
	return "proxy already stopped"
}

func (e *AlreadyStoppedError) IsAlreadyStopped() {}

// UnreachableError represents a network failure after retries were
// exhausted. Transient: the sweep is retried later.
type UnreachableError struct {
	Reason error
}

func (e *UnreachableError) Error() string {
	return "proxy unreachable: " + e.Reason.Error()
}

func (e *UnreachableError) Unwrap() error {
	return e.Reason
}

func (e *UnreachableError) IsUnreachable() {}

// RejectedError represents an admin endpoint that answered but refused the
// shutdown. Permanent for that pod.
type RejectedError struct {
	Status int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("proxy rejected shutdown: status %d", e.Status)
}

func (e *RejectedError) IsRejected() {}
