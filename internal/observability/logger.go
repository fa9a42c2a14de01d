package observability

import "github.com/tphakala/simple-notes/internal/logger"

// getLogger returns the module logger. It is resolved on each call so the
// configured central logger is picked up once startup installs it.
func getLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
