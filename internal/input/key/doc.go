// Package key provides physical key identifiers for the input system.
//
// This package defines the fundamental types for naming something that can be
// pressed:
//
//   - Device: whether an identifier refers to a keyboard key or a mouse button
//   - Identifier: a device-tagged canonical key name such as "f5" or "mouse_middle"
//
// # Key Names
//
// Key names are written the way people type them in configuration files:
//
//   - Characters: "a", "z", "1", "/", "\\"
//   - Named keys: "tab", "space", "enter", "esc", "page up"
//   - Modifiers: "left shift", "right ctrl", "left alt"
//   - Function keys: "f1" through "f24"
//   - Keypad: "num 0" through "num 9"
//   - Mouse buttons: "mouse_left", "mouse_right", "mouse_middle", "mouse_x", "mouse_x2"
//
// Names are case-insensitive and common aliases ("escape", "return",
// "lshift", "pgup") are folded to their canonical spelling.
package key
