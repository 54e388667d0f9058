package readyornot

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dshills/voxcmd/internal/config/layer"
	"github.com/dshills/voxcmd/internal/config/loader"
	"github.com/dshills/voxcmd/internal/input/keymap"
	"github.com/dshills/voxcmd/internal/logging"
)

// DefaultBindings are the game's stock key bindings.
var DefaultBindings = map[string]string{
	"gold":     "f5",
	"blue":     "f6",
	"red":      "f7",
	"alpha":    "f13",
	"bravo":    "f14",
	"charlie":  "f15",
	"delta":    "f16",
	"cmd_0":    "0",
	"cmd_1":    "1",
	"cmd_2":    "2",
	"cmd_3":    "3",
	"cmd_4":    "4",
	"cmd_5":    "5",
	"cmd_6":    "6",
	"cmd_7":    "7",
	"cmd_8":    "8",
	"cmd_9":    "9",
	CmdBack:    "tab",
	CmdHold:    "left shift",
	CmdDefault: "z",
	CmdMenu:    "mouse_middle",
	CmdUse:     "f",
	CmdYell:    "f",
}

// ManualBindings are applied over the game settings. Team members have no
// in-game binding, so they always come from here.
var ManualBindings = map[string]string{
	"alpha":   "f13",
	"bravo":   "f14",
	"charlie": "f15",
	"delta":   "f16",
}

// buildBindings layers defaults, the game settings file, manual overrides
// and command-line bindings. Problems are logged and never fatal: the table
// falls back to lower layers.
func buildBindings(fsys loader.FileSystem, settingsPath string, overrides, flags map[string]string, log *logging.Logger) *keymap.Table {
	b := keymap.NewBuilder().Add("defaults", layer.SourceBuiltin, DefaultBindings)

	if settingsPath == "" {
		log.Info("no game settings file; using default key bindings")
	} else if settings, err := readSettings(fsys, settingsPath); err != nil {
		log.WithField("path", settingsPath).Warn("game settings ignored: %v; using default key bindings", err)
	} else {
		b.Add(settingsPath, layer.SourceGameSettings, settings)
	}

	manual := make(map[string]string, len(ManualBindings)+len(overrides))
	for k, v := range ManualBindings {
		manual[k] = v
	}
	for k, v := range overrides {
		manual[k] = v
	}
	b.Add("overrides", layer.SourceUser, manual)
	b.Add("--bind", layer.SourceArgs, flags)

	table, err := b.Build()
	if err != nil {
		for _, e := range unwrapJoined(err) {
			log.Warn("key binding skipped: %v", e)
		}
	}
	return table
}

func readSettings(fsys loader.FileSystem, path string) (map[string]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found", path)
		}
		return nil, err
	}
	return ParseSettings(data)
}

// unwrapJoined flattens errors.Join trees into their leaves.
func unwrapJoined(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, unwrapJoined(e)...)
		}
		return out
	}
	return []error{err}
}
