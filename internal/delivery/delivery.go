// Package delivery defines the entry points through which the outside world
// drives the application.
package delivery

import "context"

// Delivery is a long-running server surface. Serve blocks until the server
// stops; shutdown is handled through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
