// Package notify surfaces short feedback messages for user actions.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

type Severity int

const (
	Success Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Tag renders the severity as "[SUCCESS]" and friends.
func (s Severity) Tag() string {
	return "[" + strings.ToUpper(s.String()) + "]"
}

type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a plain function to Notifier.
type Func func(message string, severity Severity)

func (f Func) Notify(message string, severity Severity) { f(message, severity) }

// Logger writes notifications to a slog.Logger.
type Logger struct {
	log *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) Notify(message string, severity Severity) {
	level := slog.LevelInfo
	if severity == Warning {
		level = slog.LevelWarn
	}
	l.log.Log(context.Background(), level, message, "severity", severity.String())
}

type Notification struct {
	Message  string
	Severity Severity
}

func (n Notification) String() string {
	return n.Severity.Tag() + " " + n.Message
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, Notification{Message: message, Severity: severity})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}

// Multi delivers each notification to every non-nil target in order.
func Multi(targets ...Notifier) Notifier {
	return Func(func(message string, severity Severity) {
		for _, t := range targets {
			if t != nil {
				t.Notify(message, severity)
			}
		}
	})
}
