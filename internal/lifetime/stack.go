// Package lifetime tracks owned GPU resources and releases them in reverse
// creation order.
//
// Every resource the renderer creates is registered on a Stack together with
// the function that destroys it. Release runs those functions last-in,
// first-out, each exactly once, so a partially completed initialization and a
// full shutdown share the same teardown path.
package lifetime

import (
	"log/slog"
)

// entry is one owned resource.
type entry struct {
	name    string
	release func()
}

// Stack is a LIFO list of release functions.
//
// A Stack is not safe for concurrent use; it belongs to the goroutine that
// owns the resources.
type Stack struct {
	entries []entry
	log     *slog.Logger
}

// New returns an empty Stack that reports releases to log.
// A nil logger disables reporting.
func New(log *slog.Logger) *Stack {
	return &Stack{log: log}
}

// Defer registers release under name. Release functions run in the reverse
// order of their registration.
func (s *Stack) Defer(name string, release func()) {
	s.entries = append(s.entries, entry{name: name, release: release})
	if s.log != nil {
		s.log.Debug("lifetime: acquired", "resource", name)
	}
}

// Raise moves the most recent entry called name to the top of the stack, so
// it is released before everything registered so far. It reports whether
// such an entry existed.
//
// Raise is for handles that are created early but only become dependent on
// later resources once configured, such as a surface that holds a swapchain
// built on the device.
func (s *Stack) Raise(name string) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].name != name {
			continue
		}
		e := s.entries[i]
		copy(s.entries[i:], s.entries[i+1:])
		s.entries[len(s.entries)-1] = e
		return true
	}
	return false
}

// Len returns the number of resources not yet released.
func (s *Stack) Len() int { return len(s.entries) }

// Names returns the registered resource names in creation order.
func (s *Stack) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Release runs every registered release function in reverse order and
// empties the stack. It returns the names in the order they were released.
// Calling Release on an empty stack does nothing.
func (s *Stack) Release() []string {
	if len(s.entries) == 0 {
		return nil
	}
	released := make([]string, 0, len(s.entries))
	for len(s.entries) > 0 {
		last := len(s.entries) - 1
		e := s.entries[last]
		// Pop before running so a panicking release is never retried.
		s.entries = s.entries[:last]
		e.release()
		released = append(released, e.name)
		if s.log != nil {
			s.log.Debug("lifetime: released", "resource", e.name)
		}
	}
	return released
}
