package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Zerolog forwards Logger calls to a zerolog.Logger.
type Zerolog struct {
	base zerolog.Logger
}

var _ Logger = (*Zerolog)(nil)

// NewZerolog builds a JSON logger writing to w at the given level.
// A nil writer logs to stderr.
func NewZerolog(w io.Writer, level string) *Zerolog {
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Zerolog{base: zl}
}

// NewConsole builds a human readable logger for CLI use.
func NewConsole(level string) *Zerolog {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat}
	return NewZerolog(cw, level)
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) *Zerolog {
	return &Zerolog{base: zl}
}

func (z *Zerolog) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}
	ctx := z.base.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &Zerolog{base: ctx.Logger()}
}

func (z *Zerolog) Debug(msg string, fields ...Field) { z.emit(z.base.Debug(), msg, fields) }
func (z *Zerolog) Info(msg string, fields ...Field)  { z.emit(z.base.Info(), msg, fields) }
func (z *Zerolog) Warn(msg string, fields ...Field)  { z.emit(z.base.Warn(), msg, fields) }
func (z *Zerolog) Error(msg string, fields ...Field) { z.emit(z.base.Error(), msg, fields) }

func (z *Zerolog) emit(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			e = e.AnErr(f.Key, err)
			continue
		}
		e = e.Interface(f.Key, f.Value)
	}
	e.Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
