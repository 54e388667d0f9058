// Package app wires a grammar, a step-order session and a key executor
// into the voxcmd engine, and runs the service loop that feeds it.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/input/executor"
	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/session"
)

// Result describes what the engine did with one utterance.
type Result struct {
	ID       string
	Text     string
	Order    grammar.Order
	Sequence grammar.Sequence
}

// NoAction reports whether nothing was pressed.
func (r Result) NoAction() bool {
	return len(r.Sequence) == 0
}

// Engine classifies utterances and executes the resulting key-steps. It is
// not safe for concurrent use; the service loop serializes calls.
type Engine struct {
	grammar grammar.Grammar
	session *session.Session
	exec    *executor.Executor
	log     *logging.Logger
	metrics *Metrics
	newID   func() string
	now     func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSession sets the step-order session.
func WithSession(s *session.Session) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.session = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithUtteranceIDs replaces the uuid generator for utterance IDs.
func WithUtteranceIDs(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine creates an engine for g that presses keys through exec.
func NewEngine(g grammar.Grammar, exec *executor.Executor, opts ...EngineOption) *Engine {
	e := &Engine{
		grammar: g,
		exec:    exec,
		log:     logging.Null,
		metrics: NewMetrics(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == nil {
		e.session = session.New()
	}
	e.log = e.log.WithComponent("engine")
	e.watchSession()
	return e
}

func (e *Engine) watchSession() {
	e.session.OnChange(func(from, to session.State) {
		if from == session.StateOff {
			e.log.WithField("session", e.session.ID()).Info("step order started")
		}
	})
	e.session.OnEnd(func(id string, reason session.EndReason, d time.Duration) {
		e.log.WithField("session", id).Info("step order ended: %s after %s", reason, d.Round(time.Millisecond))
	})
}

// Grammar returns the engine's grammar.
func (e *Engine) Grammar() grammar.Grammar {
	return e.grammar
}

// Session returns the step-order session.
func (e *Engine) Session() *session.Session {
	return e.session
}

// Metrics returns the metrics tracker.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// ClassifyAndExecute handles one utterance end to end.
func (e *Engine) ClassifyAndExecute(ctx context.Context, text string) error {
	_, err := e.Process(ctx, text)
	return err
}

// Process classifies text, compiles the order and executes it. The Result
// is filled in even when execution fails.
func (e *Engine) Process(ctx context.Context, text string) (Result, error) {
	res := Result{ID: e.newID(), Text: text}
	log := e.log.WithField("utterance", res.ID)
	e.metrics.RecordUtterance()

	log.Info("word: %s", text)
	res.Order = e.grammar.Classify(text, e.session)
	log.Info("order: %s", res.Order)
	res.Sequence = e.grammar.Compile(res.Order, e.session)

	if res.NoAction() {
		log.Info("keys: no action")
		e.metrics.RecordNoAction()
		return res, nil
	}
	log.Info("keys: %s", res.Sequence)

	start := e.now()
	if err := e.exec.Execute(ctx, res.Sequence, e.grammar.Bindings()); err != nil {
		e.metrics.RecordFailure()
		if errors.Is(err, executor.ErrUnboundCommand) {
			log.Error("nothing pressed, %v", err)
		}
		return res, NewOperationError("execute", res.ID, err).WithContext(res.Sequence.String())
	}
	e.metrics.RecordExecution(e.now().Sub(start))
	return res, nil
}

// Reload re-reads the grammar's data files, if it has any.
func (e *Engine) Reload() error {
	r, ok := e.grammar.(grammar.Reloader)
	if !ok {
		return nil
	}
	if err := r.Reload(); err != nil {
		return NewOperationError("reload", strings.Join(r.WatchPaths(), ","), err)
	}
	e.metrics.RecordReload()
	e.log.Info("reloaded %s", strings.Join(r.WatchPaths(), ", "))
	return nil
}

// WatchPaths returns the grammar files worth watching for hot reload.
func (e *Engine) WatchPaths() []string {
	if r, ok := e.grammar.(grammar.Reloader); ok {
		return r.WatchPaths()
	}
	return nil
}
