// Package logging builds the console logger used by the command line tool.
package logging

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Levels accepted by New.
const (
	LevelNone  = "none"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
)

// ErrInvalidLevel indicates an unknown log level name.
var ErrInvalidLevel = errors.New("invalid log level")

// EnableColorOutput reports whether stream is an interactive terminal that
// should receive colored level names. NO_COLOR disables color everywhere.
func EnableColorOutput(stream *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(stream.Fd()))
}

// ParseLevel maps a level name to a zap level. ok is false for "none".
func ParseLevel(name string) (lvl zapcore.Level, ok bool, err error) {
	switch name {
	case LevelNone:
		return zapcore.InfoLevel, false, nil
	case LevelDebug:
		return zapcore.DebugLevel, true, nil
	case "", LevelInfo:
		return zapcore.InfoLevel, true, nil
	case LevelWarn:
		return zapcore.WarnLevel, true, nil
	default:
		return zapcore.InfoLevel, false, fmt.Errorf("%w: %q (must be none, debug, info or warn)", ErrInvalidLevel, name)
	}
}

// New returns a console logger writing to stream at the named level.
func New(level string, stream *os.File) (*zap.Logger, error) {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return zap.NewNop(), nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(stream), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}
