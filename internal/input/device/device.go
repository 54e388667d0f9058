// Package device emits key and mouse-button events.
//
// A Device presses and releases one key.Identifier at a time. The Recorder
// device only records and logs what it would press and backs test mode;
// the uinput device (Linux) injects real events through /dev/uinput.
package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/voxcmd/internal/input/key"
	"github.com/dshills/voxcmd/internal/logging"
)

// Errors returned by devices.
var (
	ErrUnsupported = errors.New("input injection is not supported on this platform")
	ErrNoKeyCode   = errors.New("key has no device code")
	ErrClosed      = errors.New("device closed")
)

// Device presses and releases keys.
type Device interface {
	// Press pushes id down.
	Press(id key.Identifier) error

	// Release lets id up.
	Release(id key.Identifier) error

	// Close releases the device.
	Close() error
}

// Event is one recorded press or release.
type Event struct {
	Key  key.Identifier
	Down bool
}

// String renders "+f5" for a press and "-f5" for a release.
func (e Event) String() string {
	if e.Down {
		return "+" + e.Key.String()
	}
	return "-" + e.Key.String()
}

// Recorder is a Device that produces no physical input. It keeps every
// event and logs it at debug level.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	log    *logging.Logger
	closed bool
}

// NewRecorder creates a recorder. A nil logger discards output.
func NewRecorder(log *logging.Logger) *Recorder {
	if log == nil {
		log = logging.Null
	}
	return &Recorder{log: log.WithComponent("device")}
}

// Press records a key press.
func (r *Recorder) Press(id key.Identifier) error {
	return r.record(Event{Key: id, Down: true})
}

// Release records a key release.
func (r *Recorder) Release(id key.Identifier) error {
	return r.record(Event{Key: id})
}

func (r *Recorder) record(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.events = append(r.events, e)
	r.log.Debug("test mode %s", e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Close stops recording.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Open returns the recorder in test mode and the platform device otherwise.
func Open(test bool, log *logging.Logger) (Device, error) {
	if test {
		return NewRecorder(log), nil
	}
	dev, err := OpenUinput(DefaultUinputPath)
	if err != nil {
		return nil, fmt.Errorf("open input device: %w", err)
	}
	return dev, nil
}
