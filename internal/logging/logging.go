// Package logging builds the logrus logger shared by the catalog, the query
// engine and the CLI.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultLevel keeps routine query logs out of the way of command output.
const DefaultLevel = "warn"

// New returns a text logger writing to w at the named level.
func New(level string, w io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
