package util

import (
	"io"
	"log/slog"
)

// CloseFunc closes c and logs a failure instead of returning it; for
// deferred closes of read-only resources.
func CloseFunc(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "what", what, "err", err)
	}
}
