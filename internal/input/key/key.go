package key

import (
	"fmt"
	"sort"
	"strings"
)

// Device identifies the kind of input device a key belongs to.
type Device uint8

const (
	// DeviceKeyboard is a keyboard key.
	DeviceKeyboard Device = iota
	// DeviceMouse is a mouse button.
	DeviceMouse
)

// String returns a human-readable name for the device.
func (d Device) String() string {
	switch d {
	case DeviceKeyboard:
		return "keyboard"
	case DeviceMouse:
		return "mouse"
	default:
		return fmt.Sprintf("Device(%d)", d)
	}
}

// MousePrefix marks a key name as a mouse button.
const MousePrefix = "mouse_"

// Identifier names one pressable key or button.
type Identifier struct {
	Device Device
	Name   string
}

// Keyboard returns a keyboard identifier for a canonical key name.
func Keyboard(name string) Identifier {
	return Identifier{Device: DeviceKeyboard, Name: name}
}

// Mouse returns a mouse identifier for a button name without the mouse_ prefix.
func Mouse(button string) Identifier {
	return Identifier{Device: DeviceMouse, Name: button}
}

// IsZero returns true if the identifier names nothing.
func (id Identifier) IsZero() bool {
	return id.Name == ""
}

// IsMouse returns true for mouse buttons.
func (id Identifier) IsMouse() bool {
	return id.Device == DeviceMouse
}

// String returns the configuration spelling of the identifier.
// Mouse buttons carry the mouse_ prefix.
func (id Identifier) String() string {
	if id.Device == DeviceMouse {
		return MousePrefix + id.Name
	}
	return id.Name
}

// mouseButtons lists the mouse buttons by name (without prefix).
var mouseButtons = map[string]bool{
	"left":   true,
	"right":  true,
	"middle": true,
	"x":      true,
	"x2":     true,
}

// namedKeys are the canonical multi-character keyboard key names.
var namedKeys = []string{
	"esc", "enter", "tab", "backspace", "delete", "insert",
	"home", "end", "page up", "page down",
	"up", "down", "left", "right",
	"space", "caps lock", "num lock", "scroll lock", "print screen", "pause", "menu",
	"left shift", "right shift", "left ctrl", "right ctrl",
	"left alt", "right alt", "left windows", "right windows",
	"shift", "ctrl", "alt",
	"num /", "num *", "num -", "num +", "num .", "num enter",
}

// symbolKeys are the single-character keys that are not letters or digits.
var symbolKeys = "-=[];'`\\,./"

// keyNameMap maps accepted spellings (lowercase) to canonical names.
var keyNameMap = map[string]string{
	"escape":        "esc",
	"return":        "enter",
	"cr":            "enter",
	"bs":            "backspace",
	"del":           "delete",
	"ins":           "insert",
	"pgup":          "page up",
	"pageup":        "page up",
	"pgdn":          "page down",
	"pagedown":      "page down",
	"spacebar":      "space",
	"capslock":      "caps lock",
	"numlock":       "num lock",
	"scrolllock":    "scroll lock",
	"printscreen":   "print screen",
	"lshift":        "left shift",
	"rshift":        "right shift",
	"leftshift":     "left shift",
	"rightshift":    "right shift",
	"lctrl":         "left ctrl",
	"rctrl":         "right ctrl",
	"leftcontrol":   "left ctrl",
	"rightcontrol":  "right ctrl",
	"left control":  "left ctrl",
	"right control": "right ctrl",
	"control":       "ctrl",
	"lalt":          "left alt",
	"ralt":          "right alt",
	"leftalt":       "left alt",
	"rightalt":      "right alt",
	"windows":       "left windows",
	"slash":         "/",
	"backslash":     "\\",
}

// canonical is the set of canonical keyboard names.
var canonical = make(map[string]bool)

func init() {
	for _, name := range namedKeys {
		canonical[name] = true
	}
	for _, r := range symbolKeys {
		canonical[string(r)] = true
	}
	for r := 'a'; r <= 'z'; r++ {
		canonical[string(r)] = true
	}
	for r := '0'; r <= '9'; r++ {
		canonical[string(r)] = true
		canonical["num "+string(r)] = true
	}
	for i := 1; i <= 24; i++ {
		canonical[fmt.Sprintf("f%d", i)] = true
	}
}

// KnownNames returns every canonical key name, mouse buttons included,
// in sorted order.
func KnownNames() []string {
	names := make([]string, 0, len(canonical)+len(mouseButtons))
	for name := range canonical {
		names = append(names, name)
	}
	for button := range mouseButtons {
		names = append(names, MousePrefix+button)
	}
	sort.Strings(names)
	return names
}

// IsKnown returns true if name is a canonical keyboard key name.
func IsKnown(name string) bool {
	return canonical[name]
}

// canonicalName folds case, whitespace and aliases.
func canonicalName(name string) string {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	if alias, ok := keyNameMap[name]; ok {
		return alias
	}
	return name
}
