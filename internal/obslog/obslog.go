// Package obslog wires the structured logging facade used throughout the
// core: a github.com/joeycumines/logiface logger backed by zerolog, in the
// same shape the teacher's logiface-zerolog adapter configures one.
package obslog

import (
	"io"
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is an alias of logiface.Logger[*izerolog.Event]; it keeps internal
// packages from having to spell out the generic instantiation everywhere.
type Logger = logiface.Logger[*izerolog.Event]

// New builds a logger writing newline-delimited JSON to w at the given
// minimum level. A nil w defaults to os.Stderr, matching zerolog's own
// default writer.
func New(w io.Writer, level logiface.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	return logiface.New[*izerolog.Event](
		izerolog.WithZerolog(zl),
		izerolog.L.WithLevel(level),
	)
}

// Discard returns a logger that drops everything, used as the default for
// a Pool constructed without an explicit logger.
func Discard() *Logger {
	return New(io.Discard, logiface.LevelEmergency)
}
