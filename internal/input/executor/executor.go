// Package executor turns a compiled key-step sequence into key events.
//
// Every step is resolved against a key-binding table before the first event
// is emitted, so a sequence with an unbound command presses nothing. Held
// keys stay down until the last step has run and are then released in
// reverse order.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/input/device"
	"github.com/dshills/voxcmd/internal/input/key"
	"github.com/dshills/voxcmd/internal/input/keymap"
	"github.com/dshills/voxcmd/internal/logging"
)

// Errors returned by Execute.
var (
	ErrUnboundCommand = errors.New("unbound command")
	ErrBusy           = errors.New("a sequence is already executing")
)

// Config holds execution timings.
type Config struct {
	// KeyInterval separates consecutive steps.
	KeyInterval time.Duration

	// LongPress is how long a Long step stays down.
	LongPress time.Duration
}

// DefaultConfig returns the default timings.
func DefaultConfig() Config {
	return Config{
		KeyInterval: 60 * time.Millisecond,
		LongPress:   time.Second,
	}
}

// Option configures an Executor.
type Option func(*Executor)

// WithConfig sets the timings. Negative durations are treated as zero.
func WithConfig(cfg Config) Option {
	return func(e *Executor) {
		e.cfg = cfg
	}
}

// WithSleep replaces time.Sleep.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Executor) {
		if log != nil {
			e.log = log.WithComponent("executor")
		}
	}
}

// Executor presses key-step sequences on a device.
type Executor struct {
	dev     device.Device
	cfg     Config
	sleep   func(time.Duration)
	log     *logging.Logger
	running atomic.Bool
}

// New creates an executor for dev.
func New(dev device.Device, opts ...Option) *Executor {
	e := &Executor{
		dev:   dev,
		cfg:   DefaultConfig(),
		sleep: time.Sleep,
		log:   logging.Null,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the timings in use.
func (e *Executor) Config() Config {
	return e.cfg
}

// IsRunning reports whether a sequence is being executed.
func (e *Executor) IsRunning() bool {
	return e.running.Load()
}

type resolved struct {
	step grammar.Step
	id   key.Identifier
}

// resolve maps every step of seq to a key. The first unbound command fails
// the whole sequence with ErrUnboundCommand.
func resolve(seq grammar.Sequence, table *keymap.Table) ([]resolved, error) {
	out := make([]resolved, 0, len(seq))
	for _, step := range seq {
		id, ok := table.Lookup(step.Command)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnboundCommand, step.Command)
		}
		out = append(out, resolved{step: step, id: id})
	}
	return out, nil
}

// Execute resolves seq against table and presses it. An empty sequence does
// nothing. Once the first key is pressed the sequence runs to completion;
// ctx is only consulted before that.
func (e *Executor) Execute(ctx context.Context, seq grammar.Sequence, table *keymap.Table) error {
	if len(seq) == 0 {
		return nil
	}

	steps, err := resolve(seq, table)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !e.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer e.running.Store(false)

	return e.run(steps)
}

func (e *Executor) run(steps []resolved) (err error) {
	var held []key.Identifier
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			if rerr := e.dev.Release(held[i]); rerr != nil {
				err = errors.Join(err, fmt.Errorf("release %s: %w", held[i], rerr))
			}
		}
	}()

	for i, s := range steps {
		if i > 0 {
			e.wait(e.cfg.KeyInterval)
		}
		e.log.Debug("%s -> %s", s.step, s.id)

		if err := e.dev.Press(s.id); err != nil {
			return fmt.Errorf("press %s: %w", s.id, err)
		}

		switch s.step.Kind {
		case grammar.Hold:
			held = append(held, s.id)
			continue
		case grammar.Long:
			e.wait(e.cfg.LongPress)
		}

		if err := e.dev.Release(s.id); err != nil {
			return fmt.Errorf("release %s: %w", s.id, err)
		}
	}
	return nil
}

func (e *Executor) wait(d time.Duration) {
	if d > 0 {
		e.sleep(d)
	}
}
