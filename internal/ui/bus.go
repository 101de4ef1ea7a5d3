package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/sangeet/internal/state"
	"github.com/desertthunder/sangeet/internal/tasks"
)

var _ tasks.Notifier = (*Bus)(nil)

// Bus carries notifications and slot changes from coordinator goroutines into the bubbletea program.
//
// Slot changes are coalesced: while one change is pending, further changes are dropped because the model re-reads
// the whole snapshot anyway. Notifications beyond the buffer are dropped.
type Bus struct {
	toasts  chan tasks.Notification
	changed chan struct{}
}

// NewBus creates a [Bus] buffering up to size notifications.
func NewBus(size int) *Bus {
	if size < 1 {
		size = 1
	}
	return &Bus{
		toasts:  make(chan tasks.Notification, size),
		changed: make(chan struct{}, 1),
	}
}

// Notify implements [tasks.Notifier] without blocking.
func (b *Bus) Notify(n tasks.Notification) {
	select {
	case b.toasts <- n:
	default:
	}
}

func (b *Bus) touch() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// wait blocks until the next notification or slot change, or returns nil when ctx is done.
func (b *Bus) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-b.toasts:
			return notificationMsg(n)
		case <-b.changed:
			return stateChangedMsg()
		case <-ctx.Done():
			return nil
		}
	}
}

// watch subscribes to slot and marks the bus as changed on every set.
func watch[T any](b *Bus, slot *state.Slot[T]) func() {
	return slot.Subscribe(func(T) { b.touch() })
}
