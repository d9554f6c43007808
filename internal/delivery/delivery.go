// Package delivery defines the contract every transport front end
// (HTTP server, workers) implements so the application can start them
// uniformly.
package delivery

import "context"

// Delivery is a long-running transport endpoint of the application.
type Delivery interface {
	// Serve blocks, accepting work until the context is cancelled or the
	// endpoint is shut down.
	Serve(ctx context.Context) error
}
