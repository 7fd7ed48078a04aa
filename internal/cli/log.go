package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// traceHook adapts the container's debug hook to the logger.  The hook
// is only installed at debug level so that resolution is not slowed
// down by formatting otherwise.
func (c *CLI) traceHook() func(format string, args ...any) {
	if c.Logger.GetLevel() > log.DebugLevel {
		return nil
	}
	return func(format string, args ...any) {
		c.Logger.Debugf(format, args...)
	}
}
