// Package applog wires the -v/-q verbosity model to a leveled logger.
package applog

import (
	"os"

	"github.com/rs/zerolog"
)

// LevelFor maps a net verbosity count (positive from -v, negative from -q)
// to a zerolog level: >=2 trace, 1 debug, 0 info, -1 warn, <=-2 error.
func LevelFor(n int) zerolog.Level {
	switch {
	case n >= 2:
		return zerolog.TraceLevel
	case n == 1:
		return zerolog.DebugLevel
	case n == 0:
		return zerolog.InfoLevel
	case n == -1:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// New builds a console logger at the level implied by verbosity.
func New(verbosity int) zerolog.Logger {
	level := LevelFor(verbosity)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
		Level(level).
		With().Timestamp().Logger()
}
