package rocket

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while parts are being drawn.
var loggerPtr atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	loggerPtr.Store(&l)
}

// SetLogger configures the logger used by rocket and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - debug: intermediate geometry (fillet centers, mesh sizes)
//   - error: draws rejected at the draw boundary
func SetLogger(l *zerolog.Logger) {
	if l == nil {
		nop := zerolog.Nop()
		l = &nop
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this to share the
// same configuration.
func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}
