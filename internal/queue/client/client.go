package client

import (
	"context"
	"sync"

	"github.com/hibiken/asynq"
)

type ctxKey int

const (
	_ ctxKey = iota
	asynqCtxKey
)

var (
	globalClient *asynq.Client
	globalMu     sync.RWMutex
)

// GetClient returns the global Client, which can be reconfigured with
// SetClient. A client placed into the context with WithClient takes
// precedence, which is how tests substitute their own. It's safe for
// concurrent use.
func GetClient(ctx context.Context) *asynq.Client {
	c := ctx.Value(asynqCtxKey)
	if c != nil {
		client, ok := c.(*asynq.Client)
		if !ok {
			return nil
		}

		return client
	}

	globalMu.RLock()
	client := globalClient
	globalMu.RUnlock()

	return client
}

// WithClient returns a context carrying the given client.
func WithClient(ctx context.Context, client *asynq.Client) context.Context {
	return context.WithValue(ctx, asynqCtxKey, client)
}

// SetClient replaces the global Client, and returns a
// function to restore the original value. It's safe for concurrent use.
func SetClient(client *asynq.Client) func() {
	globalMu.Lock()
	prev := globalClient
	globalClient = client
	globalMu.Unlock()
	return func() { SetClient(prev) }
}
