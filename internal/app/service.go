package app

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"

	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/transport"
)

// Service feeds utterances from a transport source into the engine. One
// goroutine owns the engine: utterances and reload requests are handled
// strictly one at a time in arrival order.
type Service struct {
	engine  *Engine
	source  transport.Source
	log     *logging.Logger
	reload  chan struct{}
	running atomic.Bool
}

// NewService creates a service reading from source.
func NewService(engine *Engine, source transport.Source, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Null
	}
	return &Service{
		engine: engine,
		source: source,
		log:    log.WithComponent("service"),
		reload: make(chan struct{}, 1),
	}
}

// Engine returns the engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// RequestReload asks the loop to reload keyword data. Requests made while
// one is pending are merged. Safe to call from any goroutine.
func (s *Service) RequestReload() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// Run processes utterances until ctx is cancelled or the source fails.
// Errors from single utterances are logged and never end the loop.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	utterances := make(chan transport.Utterance)
	srcErr := make(chan error, 1)
	go func() {
		srcErr <- s.source.Serve(ctx, utterances)
	}()

	s.log.Info("start to listen on %s", s.source.Addr())
	defer func() {
		s.log.Info("stop running: %s", s.engine.Metrics().Snapshot())
	}()

	for {
		select {
		case <-ctx.Done():
			<-srcErr
			return nil

		case err := <-srcErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return NewComponentError("listener", "serve", err)
			}
			return nil

		case u := <-utterances:
			if err := s.handle(ctx, u); err != nil {
				s.log.Warn("%v", err)
			}

		case <-s.reload:
			if err := s.engine.Reload(); err != nil {
				s.log.Error("%v", err)
			}
		}
	}
}

func (s *Service) handle(ctx context.Context, u transport.Utterance) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewOperationError("handle", u.Text, NewRecoveredPanicError(r, string(debug.Stack())))
		}
	}()
	return s.engine.ClassifyAndExecute(ctx, u.Text)
}
