package service

import "time"

// Observer receives service events for metrics.
type Observer interface {
	// UserOp records the outcome of a directory operation.
	UserOp(op, result string)

	// Persisted records one backing-store write.
	Persisted(elapsed time.Duration, err error)

	// SessionMinted records a successful mint.
	SessionMinted()

	// SessionResolved records a resolve attempt.
	SessionResolved(result string)
}

type noopObserver struct{}

func (noopObserver) UserOp(string, string)          {}
func (noopObserver) Persisted(time.Duration, error) {}
func (noopObserver) SessionMinted()                 {}
func (noopObserver) SessionResolved(string)         {}

// Operation and result labels reported to the Observer.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"

	ResultOK           = "ok"
	ResultNotFound     = "not_found"
	ResultForbidden    = "forbidden"
	ResultInvalid      = "invalid"
	ResultStorageError = "storage_error"
	ResultUnauth       = "unauthenticated"
)
