// Package notify carries short user-visible messages (toasts) to whoever is
// showing the operator's screen.
package notify

import (
	"context"
	"sync"
)

// Level is the severity shown next to a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one toast.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notifications. Implementations must not block for long.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, Notification) {})

// Success sends a success notification through n when n is not nil.
func Success(ctx context.Context, n Notifier, message string) {
	if n != nil {
		n.Notify(ctx, Notification{Level: LevelSuccess, Message: message})
	}
}

// Error sends an error notification through n when n is not nil.
func Error(ctx context.Context, n Notifier, message string) {
	if n != nil {
		n.Notify(ctx, Notification{Level: LevelError, Message: message})
	}
}

// Recorder keeps every notification it receives; used by the terminal client to
// print them after a command and by tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Drain returns the recorded notifications and forgets them.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
