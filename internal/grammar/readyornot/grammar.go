// Package readyornot is the grammar for the tactical shooter Ready or Not.
//
// Japanese utterances are classified into team orders (stack up, breach,
// door and ground orders, deployables, NPC commands) and compiled into the
// game's command-menu key presses. The extended variant adds the numbered
// menu, two-door selection, long interaction and the step order that walks
// the breach menu over several utterances.
//
// Keywords ship embedded and may be overridden per word by a TOML or YAML
// file. Key bindings are read from the game's Input.ini when present.
package readyornot

import (
	"errors"

	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/input/keymap"
	"github.com/dshills/voxcmd/internal/keyword"
	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/session"
)

// Registered grammar names.
const (
	Name      = "readyornot"
	BasicName = "readyornot-basic"
)

func init() {
	grammar.Register(Name, func(opts grammar.Options) (grammar.Grammar, error) {
		return New(opts, true)
	})
	grammar.Register(BasicName, func(opts grammar.Options) (grammar.Grammar, error) {
		return New(opts, false)
	})
}

// Grammar classifies and compiles Ready or Not orders.
// It is not safe for concurrent use.
type Grammar struct {
	extended bool
	opts     grammar.Options
	log      *logging.Logger
	keywords *keyword.Set
	bindings *keymap.Table
}

// New builds the grammar. Keyword and binding problems are logged and
// degrade to defaults; the error is non-nil only when the keyword file
// cannot be read at all.
func New(opts grammar.Options, extended bool) (*Grammar, error) {
	opts = opts.WithDefaults()
	g := &Grammar{
		extended: extended,
		opts:     opts,
		log:      opts.Logger.WithComponent("readyornot"),
	}

	if err := g.Reload(); err != nil {
		return nil, err
	}

	settings := opts.SettingsFile
	if settings == "" {
		settings = DefaultSettingsPath()
	}
	g.bindings = buildBindings(opts.FS, settings, opts.Overrides, opts.FlagBindings, g.log)
	return g, nil
}

// Name returns the registered name of this variant.
func (g *Grammar) Name() string {
	if g.extended {
		return Name
	}
	return BasicName
}

// Extended reports whether the extended rules are enabled.
func (g *Grammar) Extended() bool {
	return g.extended
}

// Keywords returns the active keyword set.
func (g *Grammar) Keywords() *keyword.Set {
	return g.keywords
}

// Bindings returns the resolved key table.
func (g *Grammar) Bindings() *keymap.Table {
	return g.bindings
}

// Classify ends an expired step order, then runs the rule table.
func (g *Grammar) Classify(text string, s *session.Session) grammar.Order {
	if s != nil && s.CheckTimeout() {
		g.log.Info("step order timed out")
	}

	order := grammar.NewOrder()
	c := &grammar.Context{Text: text, Session: s, Keywords: g.keywords, Order: &order}
	rules.Evaluate(c, g.extended)
	return order
}

// Compile turns an order into key-steps.
func (g *Grammar) Compile(o grammar.Order, s *session.Session) grammar.Sequence {
	return compile(o, s)
}

// Reload re-reads the keyword file. Without one, the built-in keywords are
// used. Variant and category problems are logged; only an unreadable file
// fails, in which case the previous keywords stay in effect.
func (g *Grammar) Reload() error {
	defaults := DefaultKeywords()

	if g.opts.KeywordsFile == "" {
		g.keywords = keyword.MustCompile(defaults)
		return nil
	}

	set, err := keyword.LoadFile(g.opts.FS, g.opts.KeywordsFile, defaults)
	if set == nil {
		return err
	}
	for _, e := range unwrapJoined(errors.Join(err, keyword.CheckKnown(set, KnownCategories()))) {
		g.log.WithField("file", g.opts.KeywordsFile).Warn("%v", e)
	}
	g.keywords = set
	return nil
}

// WatchPaths returns the keyword file, if any.
func (g *Grammar) WatchPaths() []string {
	if g.opts.KeywordsFile == "" {
		return nil
	}
	return []string{g.opts.KeywordsFile}
}

var (
	_ grammar.Grammar  = (*Grammar)(nil)
	_ grammar.Reloader = (*Grammar)(nil)
)
