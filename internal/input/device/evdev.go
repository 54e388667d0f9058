package device

import (
	"fmt"

	"github.com/dshills/voxcmd/internal/input/key"
)

// Linux input event codes (linux/input-event-codes.h).
var evdevKeys = map[string]uint16{
	"esc": 1, "1": 2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9, "9": 10, "0": 11,
	"-": 12, "=": 13, "backspace": 14, "tab": 15,
	"q": 16, "w": 17, "e": 18, "r": 19, "t": 20, "y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"[": 26, "]": 27, "enter": 28, "left ctrl": 29,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34, "h": 35, "j": 36, "k": 37, "l": 38,
	";": 39, "'": 40, "`": 41, "left shift": 42, "\\": 43,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48, "n": 49, "m": 50,
	",": 51, ".": 52, "/": 53, "right shift": 54, "num *": 55, "left alt": 56, "space": 57,
	"caps lock": 58,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64, "f7": 65, "f8": 66, "f9": 67, "f10": 68,
	"num lock": 69, "scroll lock": 70,
	"num 7": 71, "num 8": 72, "num 9": 73, "num -": 74,
	"num 4": 75, "num 5": 76, "num 6": 77, "num +": 78,
	"num 1": 79, "num 2": 80, "num 3": 81, "num 0": 82, "num .": 83,
	"f11": 87, "f12": 88,
	"num enter": 96, "right ctrl": 97, "num /": 98, "print screen": 99, "right alt": 100,
	"home": 102, "up": 103, "page up": 104, "left": 105, "right": 106,
	"end": 107, "down": 108, "page down": 109, "insert": 110, "delete": 111,
	"pause": 119, "left windows": 125, "right windows": 126, "menu": 127,
	"f13": 183, "f14": 184, "f15": 185, "f16": 186, "f17": 187, "f18": 188,
	"f19": 189, "f20": 190, "f21": 191, "f22": 192, "f23": 193, "f24": 194,

	// Unsided modifiers press the left key.
	"shift": 42, "ctrl": 29, "alt": 56,
}

var evdevButtons = map[string]uint16{
	"left":   0x110,
	"right":  0x111,
	"middle": 0x112,
	"x":      0x113,
	"x2":     0x114,
}

// KeyCode returns the Linux input event code for id.
func KeyCode(id key.Identifier) (uint16, error) {
	table := evdevKeys
	if id.IsMouse() {
		table = evdevButtons
	}
	code, ok := table[id.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoKeyCode, id)
	}
	return code, nil
}

// allKeyCodes returns every code a device may emit.
func allKeyCodes() []uint16 {
	seen := make(map[uint16]bool, len(evdevKeys)+len(evdevButtons))
	var codes []uint16
	for _, table := range []map[string]uint16{evdevKeys, evdevButtons} {
		for _, c := range table {
			if !seen[c] {
				seen[c] = true
				codes = append(codes, c)
			}
		}
	}
	return codes
}
