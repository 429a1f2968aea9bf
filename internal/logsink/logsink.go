// Package logsink adapts the process-wide log destination to the narrow
// Info/Error interface the rest of the module depends on. Kept on the
// standard library's log package, matching the teacher's own logging style
// (see stadia.go) rather than adopting a structured logging library: the
// module's log output is a handful of human-read lines, not machine-parsed
// telemetry, so a third-party structured logger would add a dependency
// without a consumer.
package logsink

import (
	"io"
	"log"
)

// Sink is a thin, goroutine-safe wrapper over *log.Logger.
type Sink struct {
	info *log.Logger
	err  *log.Logger
}

// New builds a Sink writing both levels to out with a leading level tag.
func New(out io.Writer) *Sink {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Sink{
		info: log.New(out, "INFO  ", flags),
		err:  log.New(out, "ERROR ", flags),
	}
}

// Info logs an informational message. Safe to call from any goroutine.
func (s *Sink) Info(format string, args ...any) {
	s.info.Printf(format, args...)
}

// Error logs an error message. Safe to call from any goroutine.
func (s *Sink) Error(format string, args ...any) {
	s.err.Printf(format, args...)
}
