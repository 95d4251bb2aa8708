// Package obslog provides the structured logger threaded through every
// service, in the key/value style the teacher uses on its blockchain
// (bc.logger.Log("msg", ..., "k", v)).
package obslog

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New builds the base logger: logfmt to stderr, timestamped, with the
// caller's component name attached.
func New(component string) log.Logger {
	base := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	base = log.With(base, "ts", log.DefaultTimestampUTC, "component", component)
	return base
}

// Info logs an informational key/value message.
func Info(logger log.Logger, msg string, kv ...interface{}) {
	args := append([]interface{}{"msg", msg}, kv...)
	level.Info(logger).Log(args...)
}

// Warn logs a warning key/value message. Used for the VP fallback sentinel
// and for swallowed Station call failures on the rejection path.
func Warn(logger log.Logger, msg string, kv ...interface{}) {
	args := append([]interface{}{"msg", msg}, kv...)
	level.Warn(logger).Log(args...)
}

// Error logs an error key/value message.
func Error(logger log.Logger, msg string, err error, kv ...interface{}) {
	args := append([]interface{}{"msg", msg, "err", err}, kv...)
	level.Error(logger).Log(args...)
}
