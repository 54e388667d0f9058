package app

import (
	"context"
	"time"

	"github.com/dshills/voxcmd/internal/config"
	"github.com/dshills/voxcmd/internal/config/loader"
	"github.com/dshills/voxcmd/internal/config/watcher"
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/input/device"
	"github.com/dshills/voxcmd/internal/input/executor"
	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/session"
	"github.com/dshills/voxcmd/internal/transport"
)

// Options configure New. Device and Source replace the ones built from
// Config when set.
type Options struct {
	Config config.Config
	Logger *logging.Logger
	Device device.Device
	Source transport.Source
	FS     loader.FileSystem

	// Sleep replaces time.Sleep in the executor.
	Sleep func(time.Duration)

	// NoListen skips building a Source; Run is then unavailable.
	NoListen bool
}

// App owns every component of a running voxcmd.
type App struct {
	Engine  *Engine
	Service *Service

	log     *logging.Logger
	device  device.Device
	closers []func() error
}

// bootstrapper initializes components in dependency order and cleans up
// already-initialized ones on failure.
type bootstrapper struct {
	ctx  context.Context
	app  *App
	opts Options

	grammar grammar.Grammar
}

// New builds an App from opts.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Null
	}
	b := &bootstrapper{
		ctx:  ctx,
		app:  &App{log: opts.Logger},
		opts: opts,
	}
	if err := b.bootstrap(); err != nil {
		b.app.Close()
		return nil, err
	}
	return b.app, nil
}

func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initGrammar,
		b.initEngine,
		b.initSource,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initGrammar() error {
	cfg := b.opts.Config
	g, err := grammar.New(cfg.Grammar, grammar.Options{
		KeywordsFile: cfg.Keywords,
		TableFile:    cfg.Table,
		SettingsFile: cfg.SettingsFile,
		Overrides:    cfg.Bindings.Overrides,
		FlagBindings: cfg.Bindings.Flags,
		FS:           b.opts.FS,
		Logger:       b.opts.Logger,
	})
	if err != nil {
		return NewComponentError("grammar", cfg.Grammar, err)
	}
	b.grammar = g
	return nil
}

func (b *bootstrapper) initEngine() error {
	cfg := b.opts.Config

	dev := b.opts.Device
	if dev == nil {
		var err error
		if dev, err = device.Open(cfg.Test, b.opts.Logger); err != nil {
			return NewComponentError("device", "open", err)
		}
		b.app.closers = append(b.app.closers, dev.Close)
	}
	b.app.device = dev

	execOpts := []executor.Option{
		executor.WithConfig(executor.Config{KeyInterval: cfg.KeyInterval, LongPress: cfg.LongPress}),
		executor.WithLogger(b.opts.Logger),
	}
	if b.opts.Sleep != nil {
		execOpts = append(execOpts, executor.WithSleep(b.opts.Sleep))
	}

	timeout := cfg.StepOrderTimeout
	if timeout <= 0 {
		timeout = session.DefaultTimeout
	}
	b.app.Engine = NewEngine(b.grammar, executor.New(dev, execOpts...),
		WithSession(session.New(session.WithTimeout(timeout))),
		WithLogger(b.opts.Logger),
	)
	return nil
}

func (b *bootstrapper) initSource() error {
	if b.opts.NoListen {
		return nil
	}

	src := b.opts.Source
	if src == nil {
		cfg := b.opts.Config
		var err error
		src, err = transport.Listen(b.ctx, cfg.Mode, cfg.Addr(),
			transport.WithNormalizer(transport.Normalizer{FoldWidth: cfg.FoldWidth}),
			transport.WithLogger(b.opts.Logger),
		)
		if err != nil {
			return NewComponentError("listener", cfg.Addr(), err)
		}
	}
	b.app.closers = append(b.app.closers, src.Close)
	b.app.Service = NewService(b.app.Engine, src, b.opts.Logger)
	return nil
}

func (b *bootstrapper) initWatcher() error {
	paths := b.app.Engine.WatchPaths()
	if !b.opts.Config.Watch || len(paths) == 0 || b.app.Service == nil {
		return nil
	}

	log := b.opts.Logger.WithComponent("watcher")
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Warn("%v", err)
	}))
	if err != nil {
		return NewComponentError("watcher", "start", err)
	}
	b.app.closers = append(b.app.closers, w.Close)

	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			return NewComponentError("watcher", p, err)
		}
	}

	svc := b.app.Service
	w.OnChange(func(ev watcher.Event) {
		log.Info("%s %s", ev.Path, ev.Op)
		svc.RequestReload()
	})
	return nil
}

// Device returns the input device in use.
func (a *App) Device() device.Device {
	return a.device
}

// Run runs the service loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.Service == nil {
		return NewComponentError("listener", "", ErrInitialization)
	}
	return a.Service.Run(ctx)
}

// Close releases every component in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
