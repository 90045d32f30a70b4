// Package notify implements the transient notification stack.
//
// Notifications are independent: each is dismissible on its own, a timed one
// self-expires after the service's TTL unless dismissed earlier, and removing
// one never affects its siblings. Repeated identical messages are not
// deduplicated. An optional change hook lets the TUI re-render when a timer
// fires off the event loop.
package notify

import (
	"sync"
	"time"

	"github.com/redcliffe/strum/internal/shared"
)

// Severity classifies a notification for display.
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return ""
	}
}

// Dismissal determines how a notification leaves the stack.
type Dismissal int

const (
	Manual Dismissal = iota // Stays until dismissed
	Timed                   // Self-removes after the service TTL
)

// DefaultTTL is how long a timed notification stays on screen.
const DefaultTTL = 5 * time.Second

// Notification is one entry in the on-screen stack.
type Notification struct {
	ID        string
	Severity  Severity
	Message   string
	Dismissal Dismissal
	CreatedAt time.Time
}

// Service owns the notification stack.
type Service struct {
	mu       sync.Mutex
	stack    []Notification
	timers   map[string]*time.Timer
	ttl      time.Duration
	onChange func()
}

// NewService creates a notification service. A non-positive ttl falls back to
// [DefaultTTL].
func NewService(ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		timers: make(map[string]*time.Timer),
		ttl:    ttl,
	}
}

// SetOnChange registers a hook invoked after every stack mutation, including
// asynchronous timer expiry. The hook runs outside the service lock.
func (s *Service) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Push appends a notification to the stack and returns its handle.
func (s *Service) Push(severity Severity, message string, dismissal Dismissal) string {
	n := Notification{
		ID:        shared.GenerateID(),
		Severity:  severity,
		Message:   message,
		Dismissal: dismissal,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.stack = append(s.stack, n)
	if dismissal == Timed {
		id := n.ID
		s.timers[id] = time.AfterFunc(s.ttl, func() {
			s.Dismiss(id)
		})
	}
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return n.ID
}

// Info pushes a timed info notification.
func (s *Service) Info(message string) string {
	return s.Push(Info, message, Timed)
}

// Success pushes a timed success notification.
func (s *Service) Success(message string) string {
	return s.Push(Success, message, Timed)
}

// Error pushes a timed error notification.
func (s *Service) Error(message string) string {
	return s.Push(Error, message, Timed)
}

// Dismiss removes the notification with the given handle. Dismissing an
// already-removed notification is a no-op.
func (s *Service) Dismiss(id string) {
	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}

	removed := false
	for i, n := range s.stack {
		if n.ID == id {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			removed = true
			break
		}
	}
	hook := s.onChange
	s.mu.Unlock()

	if removed && hook != nil {
		hook()
	}
}

// Stack returns a snapshot of the current notifications, oldest first.
func (s *Service) Stack() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.stack))
	copy(out, s.stack)
	return out
}
