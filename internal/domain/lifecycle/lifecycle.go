// Package lifecycle holds shared lifecycle constants for fx-managed
// components.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks (DB ping, server shutdown,
// publisher close).
const DefaultTimeout = 10 * time.Second
