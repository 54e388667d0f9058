package readyornot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
)

// SettingsFileEnv is the environment variable holding the game's config root.
const SettingsFileEnv = "LOCALAPPDATA"

// DefaultSettingsPath returns where the game keeps Input.ini, or "" when
// LOCALAPPDATA is not set.
func DefaultSettingsPath() string {
	root := os.Getenv(SettingsFileEnv)
	if root == "" {
		return ""
	}
	return filepath.Join(root, "ReadyOrNot", "Saved", "Config", "Windows", "Input.ini")
}

// actionMapping matches the value of one ActionMappings entry.
var actionMapping = regexp.MustCompile(`^\(ActionName="(\w+)".+Key=(\w+)`)

// gameKeyNames translates the game's key names that do not lowercase into
// ours. An empty value means the key cannot be pressed.
var gameKeyNames = map[string]string{
	"None":              "",
	"LeftMouseButton":   "mouse_left",
	"MiddleMouseButton": "mouse_middle",
	"RightMouseButton":  "mouse_right",
	"ThumbMouseButton":  "mouse_x",
	"ThumbMouseButton2": "mouse_x2",
	"MouseScrollUp":     "",
	"MouseScrollDown":   "",
	"Zero":              "0",
	"One":               "1",
	"Two":               "2",
	"Three":             "3",
	"Four":              "4",
	"Five":              "5",
	"Six":               "6",
	"Seven":             "7",
	"Eight":             "8",
	"Nine":              "9",
	"NumPadZero":        "num 0",
	"NumPadOne":         "num 1",
	"NumPadTwo":         "num 2",
	"NumPadThree":       "num 3",
	"NumPadFour":        "num 4",
	"NumPadFive":        "num 5",
	"NumPadSix":         "num 6",
	"NumPadSeven":       "num 7",
	"NumPadEight":       "num 8",
	"NumPadNine":        "num 9",
	"Divide":            "/",
	"Slash":             "/",
	"BackSlash":         "\\",
	"SpaceBar":          "space",
	"LeftShift":         "left shift",
	"LeftControl":       "left ctrl",
	"LeftAlt":           "left alt",
	"RightShift":        "right shift",
	"RightControl":      "right ctrl",
	"RightAlt":          "right alt",
}

// Game action names bound to our commands. "Use" drives both interact and
// yell; the dedicated UseOnly and Yell actions win when they are bound.
const actionUse = "Use"

var gameActions = map[string]string{
	"gold":     "SelectElementGold",
	"blue":     "SelectElementBlue",
	"red":      "SelectElementRed",
	"cmd_0":    "SwatInputKeyZero",
	"cmd_1":    "SwatInputKeyOne",
	"cmd_2":    "SwatInputKeyTwo",
	"cmd_3":    "SwatInputKeyThree",
	"cmd_4":    "SwatInputKeyFour",
	"cmd_5":    "SwatInputKeyFive",
	"cmd_6":    "SwatInputKeySix",
	"cmd_7":    "SwatInputKeySeven",
	"cmd_8":    "SwatInputKeyEight",
	"cmd_9":    "SwatInputKeyNine",
	CmdBack:    "SwatInputKeyBack",
	CmdHold:    "HoldGoCode",
	CmdDefault: "IssueDefaultCommand",
	CmdMenu:    "OpenSwatCommand",
	CmdUse:     "UseOnly",
	CmdYell:    "Yell",
}

// translateKey converts a game key name to ours.
func translateKey(name string) string {
	if v, ok := gameKeyNames[name]; ok {
		return v
	}
	return strings.ToLower(name)
}

// ParseSettings reads the game's Input.ini and returns command-to-key names
// for every command it binds. Gamepad keys are skipped; when an action is
// mapped more than once the last keyboard or mouse mapping wins. Unbound
// actions are left out so lower binding layers stay in effect.
func ParseSettings(data []byte) (map[string]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:            true,
		AllowBooleanKeys:        true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("parse input settings: %w", err)
	}

	byAction := make(map[string]string)
	for _, sec := range f.Sections() {
		if !sec.HasKey("ActionMappings") {
			continue
		}
		for _, v := range sec.Key("ActionMappings").ValueWithShadows() {
			m := actionMapping.FindStringSubmatch(v)
			if m == nil || strings.HasPrefix(m[2], "Gamepad_") {
				continue
			}
			byAction[m[1]] = translateKey(m[2])
		}
	}

	bindings := make(map[string]string)
	if k := byAction[actionUse]; k != "" {
		bindings[CmdUse] = k
		bindings[CmdYell] = k
	}
	for command, action := range gameActions {
		if k := byAction[action]; k != "" {
			bindings[command] = k
		}
	}
	return bindings, nil
}
