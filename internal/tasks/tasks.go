// package tasks implements the upload, dashboard and library workflows.
//
// Coordinators depend only on the capability interfaces in package services and report progress over channels.
package tasks

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// Result carries the outcome of an asynchronous operation.
type Result[T any] struct {
	Value T
	Err   error
}

// Level is the severity of a [Notification].
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// Notification is a transient, user-facing message.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives user-facing notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications through a [log.Logger].
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a [LogNotifier].
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(note Notification) {
	switch note.Level {
	case LevelWarn:
		n.logger.Warn(note.Message)
	case LevelError:
		n.logger.Error(note.Message)
	default:
		n.logger.Info(note.Message)
	}
}

// MultiNotifier fans a notification out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

func info(msg string) Notification { return Notification{Level: LevelInfo, Message: msg} }
func warn(msg string) Notification { return Notification{Level: LevelWarn, Message: msg} }
func failed(msg string) Notification { return Notification{Level: LevelError, Message: msg} }

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// async runs fn in a goroutine and delivers its outcome on a buffered channel that is closed afterwards.
func async[T any](fn func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := fn()
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}

// errorList collects errors from concurrent goroutines.
type errorList struct {
	mu   sync.Mutex
	errs []error
}

func (l *errorList) add(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *errorList) list() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.errs...)
}

// joinErrors returns nil for an empty list, the error itself for one, and [errors.Join] otherwise.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// nopNotifier is used when a coordinator is built without a notifier.
type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func orDefaultLogger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
