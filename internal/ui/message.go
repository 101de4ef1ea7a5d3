package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/sangeet/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateChanged MsgKind = iota
	MsgNotification
	MsgRefreshDone
	MsgToggleDone
	MsgAttachDone
)

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg() Msg {
	return Msg{kind: MsgStateChanged}
}

// notificationMsg is the constructor for [MsgNotification]
func notificationMsg(n tasks.Notification) Msg {
	return Msg{kind: MsgNotification, data: n}
}

// refreshDoneMsg is the constructor for [MsgRefreshDone]
func refreshDoneMsg(err error) Msg {
	return Msg{kind: MsgRefreshDone, data: err}
}

// toggleDoneMsg is the constructor for [MsgToggleDone]
func toggleDoneMsg(result *tasks.ToggleResult, err error) Msg {
	return Msg{kind: MsgToggleDone, data: tasks.Result[*tasks.ToggleResult]{Value: result, Err: err}}
}

// attachDoneMsg is the constructor for [MsgAttachDone]
func attachDoneMsg(err error) Msg {
	return Msg{kind: MsgAttachDone, data: err}
}

func (m Msg) err() error {
	switch d := m.data.(type) {
	case error:
		return d
	case tasks.Result[*tasks.ToggleResult]:
		return d.Err
	default:
		return nil
	}
}
