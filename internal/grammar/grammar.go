// Package grammar defines the per-game strategy that turns an utterance into
// key-steps.
//
// A Grammar classifies text into an Order (consulting the step-order
// session), compiles the Order into a Sequence of abstract key-steps, and
// owns the binding table that maps those abstract names to physical keys.
// Grammars register a Factory by name; callers construct them with New.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/voxcmd/internal/config/loader"
	"github.com/dshills/voxcmd/internal/input/keymap"
	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/session"
)

// ErrUnknownGrammar is returned by New for unregistered names.
var ErrUnknownGrammar = errors.New("unknown grammar")

// Grammar is a per-game interpretation strategy.
type Grammar interface {
	// Name returns the registered grammar name.
	Name() string

	// Classify turns one normalized utterance into an Order. It may end an
	// expired step order before classifying.
	Classify(text string, s *session.Session) Order

	// Compile turns an Order into key-steps and advances the session.
	Compile(o Order, s *session.Session) Sequence

	// Bindings returns the grammar's resolved key table.
	Bindings() *keymap.Table
}

// Reloader is implemented by grammars whose data files can be re-read
// without rebuilding the grammar.
type Reloader interface {
	// Reload re-reads the grammar's data files. On error the previous
	// data stays in effect.
	Reload() error

	// WatchPaths returns the files Reload reads.
	WatchPaths() []string
}

// Options carry everything a Factory may need.
type Options struct {
	// KeywordsFile overrides built-in keyword categories (TOML or YAML).
	KeywordsFile string

	// TableFile is the command table for table-driven grammars.
	TableFile string

	// SettingsFile is the game's own input settings. Empty selects the
	// grammar's default location.
	SettingsFile string

	// Overrides are the user's command-to-key bindings from the config file.
	Overrides map[string]string

	// FlagBindings come from the command line and win over Overrides.
	FlagBindings map[string]string

	// FS reads data files. Defaults to the OS.
	FS loader.FileSystem

	// Logger receives configuration diagnostics.
	Logger *logging.Logger
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.FS == nil {
		o.FS = loader.DefaultFS()
	}
	if o.Logger == nil {
		o.Logger = logging.Null
	}
	return o
}

// Factory builds a grammar.
type Factory func(opts Options) (Grammar, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a grammar available by name. It panics on duplicates.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic("grammar: Register called twice for " + name)
	}
	registry[name] = f
}

// New builds the grammar registered as name.
func New(name string, opts Options) (Grammar, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownGrammar, name, Names())
	}
	return f(opts.WithDefaults())
}

// Names returns registered grammar names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
