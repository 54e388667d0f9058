package device

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/voxcmd/internal/input/key"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(nil)

	f5 := key.Keyboard("f5")
	mid := key.Mouse("middle")
	for _, step := range []func() error{
		func() error { return r.Press(f5) },
		func() error { return r.Release(f5) },
		func() error { return r.Press(mid) },
		func() error { return r.Release(mid) },
	} {
		if err := step(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []string
	for _, e := range r.Events() {
		got = append(got, e.String())
	}
	want := []string{"+f5", "-f5", "+mouse_middle", "-mouse_middle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}

	r.Reset()
	if n := len(r.Events()); n != 0 {
		t.Errorf("after Reset, %d events remain", n)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Press(f5); !errors.Is(err, ErrClosed) {
		t.Errorf("Press after Close = %v, want ErrClosed", err)
	}
}

func TestOpenTestMode(t *testing.T) {
	dev, err := Open(true, nil)
	if err != nil {
		t.Fatalf("Open(true) error = %v", err)
	}
	defer dev.Close()
	if _, ok := dev.(*Recorder); !ok {
		t.Errorf("Open(true) = %T, want *Recorder", dev)
	}
}

func TestKeyCodeCoversKnownKeys(t *testing.T) {
	for _, name := range key.KnownNames() {
		id, err := key.Parse(name)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", name, err)
			continue
		}
		if _, err := KeyCode(id); err != nil {
			t.Errorf("KeyCode(%s) error = %v", id, err)
		}
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		id   key.Identifier
		want uint16
	}{
		{key.Keyboard("f5"), 63},
		{key.Keyboard("f13"), 183},
		{key.Keyboard("shift"), 42},
		{key.Keyboard("1"), 2},
		{key.Mouse("middle"), 0x112},
		{key.Mouse("left"), 0x110},
		{key.Keyboard("left"), 105},
	}
	for _, tt := range tests {
		got, err := KeyCode(tt.id)
		if err != nil || got != tt.want {
			t.Errorf("KeyCode(%s) = %d, %v; want %d", tt.id, got, err, tt.want)
		}
	}

	if _, err := KeyCode(key.Mouse("f5")); !errors.Is(err, ErrNoKeyCode) {
		t.Errorf("KeyCode(mouse f5) error = %v, want ErrNoKeyCode", err)
	}
}

func TestAllKeyCodesUnique(t *testing.T) {
	seen := map[uint16]bool{}
	for _, c := range allKeyCodes() {
		if seen[c] {
			t.Errorf("duplicate code %d", c)
		}
		seen[c] = true
	}
	if len(seen) == 0 {
		t.Error("no key codes")
	}
}
