// internal/types/interfaces.go
package types

import "context"

// TaskConn is one scoped connection to the record store.
type TaskConn interface {
	// FindByEmail returns up to limit tasks whose originating request
	// carries the given notification email, newest first.
	FindByEmail(ctx context.Context, email string, limit int) ([]TaskRecord, error)
	Close(ctx context.Context) error
}

// TaskStore hands out a fresh connection per request.
type TaskStore interface {
	Open(ctx context.Context) (TaskConn, error)
}

// ReplySender posts a reply into a conversation and returns the created
// message id.
type ReplySender interface {
	Send(ctx context.Context, reply OutgoingReply) (ID, error)
}
