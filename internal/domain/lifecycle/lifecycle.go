// Package lifecycle holds shared lifecycle tuning values.
package lifecycle

import "time"

// DefaultTimeout bounds graceful-shutdown waits across delivery servers.
const DefaultTimeout = 10 * time.Second
