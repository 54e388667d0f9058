//go:build !(linux && (amd64 || arm64))

package device

import (
	"github.com/dshills/voxcmd/internal/input/key"
)

// DefaultUinputPath is unused on this platform.
const DefaultUinputPath = ""

// Uinput is unavailable on this platform.
type Uinput struct{}

// OpenUinput always fails with ErrUnsupported.
func OpenUinput(string) (*Uinput, error) {
	return nil, ErrUnsupported
}

// Press fails with ErrUnsupported.
func (*Uinput) Press(key.Identifier) error { return ErrUnsupported }

// Release fails with ErrUnsupported.
func (*Uinput) Release(key.Identifier) error { return ErrUnsupported }

// Close does nothing.
func (*Uinput) Close() error { return nil }
