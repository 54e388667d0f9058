//go:build linux && (amd64 || arm64)

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/voxcmd/internal/input/key"
)

// DefaultUinputPath is the uinput control node.
const DefaultUinputPath = "/dev/uinput"

// uinput ioctls and event types (linux/uinput.h, linux/input-event-codes.h).
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	busUSB = 0x03
)

// uinputUserDev is struct uinput_user_dev.
type uinputUserDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// inputEvent is struct input_event on 64-bit platforms.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Uinput injects events through a virtual keyboard-and-mouse device.
type Uinput struct {
	mu     sync.Mutex
	fd     int
	closed bool
}

// OpenUinput creates the virtual device. The caller needs write access to
// path, usually through the input group or a udev rule.
func OpenUinput(path string) (*Uinput, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := setup(fd); err != nil {
		unix.Close(fd)
		return nil, err
	}

	// Give the compositor time to pick up the new device before the first
	// event, or that event is lost.
	time.Sleep(200 * time.Millisecond)
	return &Uinput{fd: fd}, nil
}

func setup(fd int) error {
	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		return fmt.Errorf("UI_SET_EVBIT: %w", err)
	}
	for _, code := range allKeyCodes() {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %d: %w", code, err)
		}
	}

	dev := uinputUserDev{Bustype: busUSB, Vendor: 0x1209, Product: 0x7663, Version: 1}
	copy(dev.Name[:], "voxcmd virtual input")

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return err
	}
	if _, err := unix.Write(fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write uinput_user_dev: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

// Press sends a key-down event.
func (u *Uinput) Press(id key.Identifier) error {
	return u.send(id, 1)
}

// Release sends a key-up event.
func (u *Uinput) Release(id key.Identifier) error {
	return u.send(id, 0)
}

func (u *Uinput) send(id key.Identifier, value int32) error {
	code, err := KeyCode(id)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}

	now := time.Now()
	events := []inputEvent{
		{Type: evKey, Code: code, Value: value},
		{Type: evSyn, Code: synReport},
	}
	var buf bytes.Buffer
	for _, e := range events {
		e.Sec = now.Unix()
		e.Usec = int64(now.Nanosecond() / 1000)
		if err := binary.Write(&buf, binary.NativeEndian, &e); err != nil {
			return err
		}
	}
	if _, err := unix.Write(u.fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return nil
}

// Close destroys the virtual device.
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true
	_ = unix.IoctlSetInt(u.fd, uiDevDestroy, 0)
	return unix.Close(u.fd)
}
