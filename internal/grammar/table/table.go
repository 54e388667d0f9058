// Package table is a data-driven grammar for games whose voice commands map
// one-to-one onto key sequences.
//
// The command table is a TOML or YAML file holding an ordered list of
// commands. The first command with a matching word wins:
//
//	[[command]]
//	name  = "unit_all"
//	words = ['全([員隊体]|チーム|ユニット)', "総員"]
//	keys  = ["com_shift", "space"]
//
// Keys are key names pressed in order. A key prefixed with "com_" is held
// down until the rest of the command has been pressed, which expresses
// chords such as shift+space. Key names bind to themselves unless a manual
// override remaps them.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/voxcmd/internal/config/layer"
	"github.com/dshills/voxcmd/internal/config/loader"
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/input/keymap"
	"github.com/dshills/voxcmd/internal/keyword"
	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/session"
)

// Name is the registered grammar name.
const Name = "table"

// HoldPrefix marks a key that stays down for the rest of a command.
const HoldPrefix = "com_"

const commandGroup = "command"

// Errors returned while loading a command table.
var (
	ErrNoTable      = errors.New("table grammar needs a command table file")
	ErrBadCommand   = errors.New("invalid command")
	ErrDuplicateCmd = errors.New("duplicate command")
)

func init() {
	grammar.Register(Name, func(opts grammar.Options) (grammar.Grammar, error) {
		return New(opts)
	})
}

// Command is one entry of the table.
type Command struct {
	Name  string
	Words []string
	Keys  []string
}

// Steps returns the command's key-steps.
func (c Command) Steps() grammar.Sequence {
	seq := make(grammar.Sequence, 0, len(c.Keys))
	for _, k := range c.Keys {
		if name, ok := strings.CutPrefix(k, HoldPrefix); ok {
			seq = append(seq, grammar.HoldStep(name))
		} else {
			seq = append(seq, grammar.TapStep(k))
		}
	}
	return seq
}

// keyNames returns the key names without the hold prefix.
func (c Command) keyNames() []string {
	out := make([]string, len(c.Keys))
	for i, k := range c.Keys {
		out[i] = strings.TrimPrefix(k, HoldPrefix)
	}
	return out
}

// Parse converts decoded table data into commands. Malformed and duplicate
// commands are reported and skipped; the rest are returned in file order.
func Parse(data map[string]any) ([]Command, error) {
	raw, ok := data["command"]
	if !ok {
		return nil, fmt.Errorf("%w: no [[command]] entries", ErrBadCommand)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: command must be a list of tables, got %T", ErrBadCommand, raw)
	}

	var (
		commands []Command
		errs     []error
		seen     = make(map[string]bool, len(list))
	)
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: command[%d] is a %T", ErrBadCommand, i, item))
			continue
		}
		cmd, err := parseCommand(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("command[%d]: %w", i, err))
			continue
		}
		if seen[cmd.Name] {
			errs = append(errs, fmt.Errorf("command[%d]: %w: %q", i, ErrDuplicateCmd, cmd.Name))
			continue
		}
		seen[cmd.Name] = true
		commands = append(commands, cmd)
	}
	return commands, errors.Join(errs...)
}

func parseCommand(entry map[string]any) (Command, error) {
	name, _ := entry["name"].(string)
	if strings.TrimSpace(name) == "" {
		return Command{}, fmt.Errorf("%w: missing name", ErrBadCommand)
	}

	words, err := stringList(entry["words"])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %s: words: %v", ErrBadCommand, name, err)
	}
	keys, err := stringList(entry["keys"])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %s: keys: %v", ErrBadCommand, name, err)
	}
	if len(keys) == 0 {
		return Command{}, fmt.Errorf("%w: %s: no keys", ErrBadCommand, name)
	}
	return Command{Name: name, Words: words, Keys: keys}, nil
}

func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want a list, got %T", v)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("[%d] is a %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// Grammar matches utterances against a command table.
// It is not safe for concurrent use.
type Grammar struct {
	opts     grammar.Options
	log      *logging.Logger
	commands []Command
	index    map[string]Command
	keywords *keyword.Set
	bindings *keymap.Table
}

// New loads the command table named by opts.TableFile.
func New(opts grammar.Options) (*Grammar, error) {
	opts = opts.WithDefaults()
	if opts.TableFile == "" {
		return nil, ErrNoTable
	}
	g := &Grammar{opts: opts, log: opts.Logger.WithComponent(Name)}
	if err := g.Reload(); err != nil {
		return nil, err
	}
	return g, nil
}

// Name returns "table".
func (g *Grammar) Name() string { return Name }

// Commands returns the loaded commands in match order.
func (g *Grammar) Commands() []Command {
	return append([]Command(nil), g.commands...)
}

// Bindings returns the key table.
func (g *Grammar) Bindings() *keymap.Table { return g.bindings }

// Classify returns the first command whose words match. The session is not
// used: table commands are single-shot.
func (g *Grammar) Classify(text string, _ *session.Session) grammar.Order {
	order := grammar.NewOrder()
	for _, c := range g.commands {
		if g.keywords.Contains(keyword.CategoryName(commandGroup, c.Name), text) {
			order.Action = c.Name
			break
		}
	}
	return order
}

// Compile returns the matched command's key-steps.
func (g *Grammar) Compile(o grammar.Order, _ *session.Session) grammar.Sequence {
	c, ok := g.index[o.Action]
	if !ok {
		return grammar.Sequence{}
	}
	return c.Steps()
}

// Reload re-reads the command table. On error the previous table stays.
func (g *Grammar) Reload() error {
	data, err := loader.LoadFile(g.opts.FS, g.opts.TableFile)
	if err != nil {
		return err
	}
	commands, err := Parse(data)
	if commands == nil && err != nil {
		return err
	}
	g.warn(err)

	words := make(map[string][]string, len(commands))
	index := make(map[string]Command, len(commands))
	identity := make(map[string]string)
	for _, c := range commands {
		words[c.Name] = c.Words
		index[c.Name] = c
		for _, k := range c.keyNames() {
			identity[k] = k
		}
	}

	set, err := keyword.Compile(keyword.Groups{commandGroup: words})
	g.warn(err)

	table, err := keymap.NewBuilder().
		Add(g.opts.TableFile, layer.SourceBuiltin, identity).
		Add("overrides", layer.SourceUser, g.opts.Overrides).
		Add("--bind", layer.SourceArgs, g.opts.FlagBindings).
		Build()
	g.warn(err)

	g.commands, g.index, g.keywords, g.bindings = commands, index, set, table
	return nil
}

// WatchPaths returns the command table file.
func (g *Grammar) WatchPaths() []string {
	return []string{g.opts.TableFile}
}

func (g *Grammar) warn(err error) {
	if err == nil {
		return
	}
	log := g.log.WithField("file", g.opts.TableFile)
	for _, line := range strings.Split(err.Error(), "\n") {
		log.Warn("%s", line)
	}
}

var (
	_ grammar.Grammar  = (*Grammar)(nil)
	_ grammar.Reloader = (*Grammar)(nil)
)
