// Package state provides observable value holders.
//
// A [Slot] holds a single value. Writers call [Slot.Set]; readers either poll with [Slot.Get] or register a callback
// with [Slot.Subscribe]. Callbacks run synchronously on the writer's goroutine after the slot's lock is released, so
// a callback may read the slot (or other slots) without deadlocking.
package state
