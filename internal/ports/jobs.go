package ports

import "context"

// RelayJob carries one submission's raw field mapping to the form relay. Ctx
// is the submitting caller's context and bounds the relay request.
type RelayJob struct {
	Ctx    context.Context
	Fields map[string]string
	Done   chan error
}

// Relay forwards a submission to the external form-relay endpoint.
type Relay interface {
	Send(ctx context.Context, fields map[string]string) error
}

// Dispatcher hands relay work to a worker and waits for its outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, fields map[string]string) error
}
