// Package logging builds the process logger: one zap core per sink (log file
// and console) sharing a pipe-separated line format
//
//	LEVEL | TIMESTAMP | LOGGER_NAME | MESSAGE
//
// and an atomic level that can be changed after start up.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// CriticalLevel is the zap level rendered as CRITICAL. Loggers built here
// never run in development mode, so logging at this level does not panic.
const CriticalLevel = zapcore.DPanicLevel

// RootName is printed when a logger has no name.
const RootName = "root"

// ErrUnknownLevel is returned by ParseLevel for unrecognised level names.
var ErrUnknownLevel = errors.New("unknown logging level")

var bufferPool = buffer.NewPool()

// Logger bundles the zap logger with its level and the resources backing its
// sinks.
type Logger struct {
	*zap.Logger
	Level   zap.AtomicLevel
	closers []io.Closer
}

// New creates a logger writing to logFile (appending) and to stderr. An empty
// logFile disables the file sink.
func New(logFile string) (*Logger, error) {
	var writers []io.Writer
	var closers []io.Closer

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closers = append(closers, f)
	}
	writers = append(writers, os.Stderr)

	l := NewWithWriters(writers...)
	l.closers = closers
	return l, nil
}

// NewWithWriters creates an INFO-level logger teeing to every writer.
func NewWithWriters(writers ...io.Writer) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	cores := make([]zapcore.Core, 0, len(writers))
	for _, w := range writers {
		cores = append(cores, zapcore.NewCore(newPipeEncoder(), zapcore.Lock(zapcore.AddSync(w)), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...)),
		Level:  level,
	}
}

// Close flushes buffered entries and releases the file sink.
func (l *Logger) Close() error {
	_ = l.Sync()

	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Critical logs at CriticalLevel.
func Critical(l *zap.Logger, msg string, fields ...zap.Field) {
	if ce := l.Check(CriticalLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

// ParseLevel maps a severity name (DEBUG, INFO, WARNING, ERROR, CRITICAL,
// case-insensitive) to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO":
		return zapcore.InfoLevel, nil
	case "WARNING", "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return CriticalLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// SetLevel applies a level name. An unknown name is reported at CRITICAL and
// the current level is kept.
func (l *Logger) SetLevel(name string) {
	lvl, err := ParseLevel(name)
	if err != nil {
		Critical(l.Logger, "ValueError in setting log level from config file : "+err.Error())
		return
	}
	l.Level.SetLevel(lvl)
}

// LevelName renders a zap level the way the log lines show it.
func LevelName(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	}
	return l.CapitalString()
}

// Track logs "<name> | start |" and returns a function that logs
// "<name> | complete | <seconds>". Use it with defer so the completion line
// is written on every return path.
func Track(l *zap.Logger, name string) func() {
	start := time.Now()
	l.Info(fmt.Sprintf("%s | start |", name))

	return func() {
		l.Info(fmt.Sprintf("%s | complete | %.2f", name, time.Since(start).Seconds()))
	}
}

// pipeEncoder prefixes the console encoding of message and fields with the
// level, timestamp and logger name.
type pipeEncoder struct {
	zapcore.Encoder
}

func newPipeEncoder() zapcore.Encoder {
	return pipeEncoder{
		Encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			LineEnding:       zapcore.DefaultLineEnding,
			ConsoleSeparator: " | ",
		}),
	}
}

func (e pipeEncoder) Clone() zapcore.Encoder {
	return pipeEncoder{Encoder: e.Encoder.Clone()}
}

func (e pipeEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	body, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}
	defer body.Free()

	name := ent.LoggerName
	if name == "" {
		name = RootName
	}

	line := bufferPool.Get()
	line.AppendString(LevelName(ent.Level))
	line.AppendString(" | ")
	line.AppendString(ent.Time.Format("2006-01-02 15:04:05.000"))
	line.AppendString(" | ")
	line.AppendString(name)
	line.AppendString(" | ")
	_, _ = line.Write(body.Bytes())

	return line, nil
}
