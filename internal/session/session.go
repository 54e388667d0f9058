// Package session tracks the step-order mode shared by classification and
// compilation.
//
// A step order walks the in-game command menu over several utterances:
//
//	off --Start--> tool_select --Advance--> grenade_select --End--> off
//
// Any active state returns to off on cancel or after the session has been
// idle for the configured timeout. The timeout is checked lazily by the
// caller (see CheckTimeout); nothing runs in the background.
//
// A Session is not safe for concurrent use. voxcmd processes one utterance at
// a time on a single goroutine.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the idle time after which an active step order is cancelled.
const DefaultTimeout = 10 * time.Second

// State is the step-order state.
type State uint8

const (
	// StateOff means no step order is in progress.
	StateOff State = iota
	// StateToolSelect waits for the breaching tool.
	StateToolSelect
	// StateGrenadeSelect waits for the grenade.
	StateGrenadeSelect
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateToolSelect:
		return "tool_select"
	case StateGrenadeSelect:
		return "grenade_select"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// EndReason explains why a step order ended.
type EndReason uint8

const (
	// EndOther is any reason not listed below.
	EndOther EndReason = iota
	// EndManualCancel means the user cancelled.
	EndManualCancel
	// EndTimeoutCancel means the session sat idle too long.
	EndTimeoutCancel
	// EndExecuted means the final step was issued.
	EndExecuted
)

// String returns a human-readable reason.
func (r EndReason) String() string {
	switch r {
	case EndManualCancel:
		return "manual cancel"
	case EndTimeoutCancel:
		return "timeout cancel"
	case EndExecuted:
		return "command executed"
	default:
		return "other"
	}
}

// ChangeCallback is called after every state change.
type ChangeCallback func(from, to State)

// EndCallback is called when an active step order ends.
type EndCallback func(id string, reason EndReason, duration time.Duration)

// Session holds the step-order state.
type Session struct {
	state        State
	id           string
	started      time.Time
	lastActivity time.Time
	timeout      time.Duration

	now      func() time.Time
	newID    func() string
	onChange []ChangeCallback
	onEnd    []EndCallback
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the idle timeout. Zero disables expiry.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates a session in StateOff.
func New(opts ...Option) *Session {
	s := &Session{
		timeout: DefaultTimeout,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastActivity = s.now()
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Active returns true while a step order is in progress.
func (s *Session) Active() bool {
	return s.state != StateOff
}

// ID returns the current step order's ID, or "" when off.
func (s *Session) ID() string {
	return s.id
}

// Timeout returns the idle timeout.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// LastActivity returns when the session was last touched.
func (s *Session) LastActivity() time.Time {
	return s.lastActivity
}

// OnChange registers a callback for state changes.
func (s *Session) OnChange(cb ChangeCallback) {
	s.onChange = append(s.onChange, cb)
}

// OnEnd registers a callback for the end of a step order.
func (s *Session) OnEnd(cb EndCallback) {
	s.onEnd = append(s.onEnd, cb)
}

// Touch records activity now.
func (s *Session) Touch() {
	s.lastActivity = s.now()
}

// Start begins a step order. It is a no-op if one is already active.
func (s *Session) Start() {
	if s.Active() {
		return
	}
	s.id = s.newID()
	s.started = s.now()
	s.Touch()
	s.setState(StateToolSelect)
}

// Advance moves from tool_select to grenade_select.
func (s *Session) Advance() {
	if s.state != StateToolSelect {
		return
	}
	s.Touch()
	s.setState(StateGrenadeSelect)
}

// Back moves from grenade_select to tool_select.
func (s *Session) Back() {
	if s.state != StateGrenadeSelect {
		return
	}
	s.Touch()
	s.setState(StateToolSelect)
}

// End returns to StateOff. End callbacks run only if a step order was active.
func (s *Session) End(reason EndReason) {
	if !s.Active() {
		return
	}
	id, started := s.id, s.started
	s.id = ""
	s.setState(StateOff)

	elapsed := s.now().Sub(started)
	for _, cb := range s.onEnd {
		cb(id, reason, elapsed)
	}
}

// Expired reports whether an active step order has been idle for at least
// the timeout.
func (s *Session) Expired() bool {
	if !s.Active() || s.timeout <= 0 {
		return false
	}
	return s.now().Sub(s.lastActivity) >= s.timeout
}

// CheckTimeout ends an expired step order and reports whether it did.
func (s *Session) CheckTimeout() bool {
	if !s.Expired() {
		return false
	}
	s.End(EndTimeoutCancel)
	return true
}

func (s *Session) setState(to State) {
	from := s.state
	s.state = to
	if from == to {
		return
	}
	for _, cb := range s.onChange {
		cb(from, to)
	}
}
