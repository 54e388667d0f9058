package key

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Parse errors
var (
	ErrEmptySpec  = errors.New("empty key specification")
	ErrUnknownKey = errors.New("unknown key name")
)

// Parse parses a key name into an Identifier.
//
// Supported formats:
//   - Single character: "a", "1", "/"
//   - Named keys: "tab", "Space", "left shift", "F13"
//   - Aliases: "Escape" -> esc, "Return" -> enter, "LShift" -> left shift
//   - Mouse buttons: "mouse_left", "mouse_middle", "mouse_x2"
func Parse(spec string) (Identifier, error) {
	name := canonicalName(spec)
	if name == "" {
		return Identifier{}, ErrEmptySpec
	}

	if strings.HasPrefix(name, MousePrefix) {
		button := strings.TrimPrefix(name, MousePrefix)
		if !mouseButtons[button] {
			return Identifier{}, unknownKey(spec, name)
		}
		return Mouse(button), nil
	}

	if !canonical[name] {
		return Identifier{}, unknownKey(spec, name)
	}
	return Keyboard(name), nil
}

// MustParse parses a key name and panics on error.
// Use only for known-valid names in initialization code.
func MustParse(spec string) Identifier {
	id, err := Parse(spec)
	if err != nil {
		panic("invalid key name: " + spec + ": " + err.Error())
	}
	return id
}

// Normalize parses and re-formats a key name to its canonical spelling.
func Normalize(spec string) (string, error) {
	id, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func unknownKey(spec, name string) error {
	if s := Suggest(name); s != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownKey, spec, s)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, spec)
}

// Suggest returns the closest known key name to name, or "" if nothing is
// close enough to be a plausible typo.
func Suggest(name string) string {
	name = canonicalName(name)
	if name == "" {
		return ""
	}

	best := ""
	bestDist := suggestLimit(len(name)) + 1
	for _, candidate := range KnownNames() {
		// Single characters are too close to everything to be useful.
		if len(candidate) == 1 {
			continue
		}
		dist := levenshtein.ComputeDistance(name, candidate)
		if dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
