/**
 * @description
 * This package is the user-visible feedback channel. Every remote operation
 * reports its outcome here as a toast; this is a required, observable side
 * effect of the adapter, not optional logging. Sinks can be composed: the
 * slog sink is always present, and an AMQP sink can fan toasts out to
 * whatever frontend is listening.
 */
package notify

import "log/slog"

// Level classifies a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier is the toast port.
type Notifier interface {
	Notify(level Level, text string)
}

// Log writes every toast as a structured log line.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(level Level, text string) {
	switch level {
	case LevelError:
		l.Logger.Error("toast", "text", text)
	default:
		l.Logger.Info("toast", "level", string(level), "text", text)
	}
}

// Multi fans a toast out to several sinks in order.
type Multi []Notifier

func (m Multi) Notify(level Level, text string) {
	for _, n := range m {
		n.Notify(level, text)
	}
}

// Success, Error and Info are small helpers so call sites read like the
// toasts they produce.

func Success(n Notifier, text string) { n.Notify(LevelSuccess, text) }
func Error(n Notifier, text string)   { n.Notify(LevelError, text) }
func Info(n Notifier, text string)    { n.Notify(LevelInfo, text) }
