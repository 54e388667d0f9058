// Package transport receives recognized utterances from a speech
// recognizer front end.
//
// Two listeners are supported: plain UDP datagrams carrying UTF-8 text, and
// the TCP protocol of the Bouyomi-chan text-to-speech server, which
// Yukarinette Connector NEO can forward recognition results to.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dshills/voxcmd/internal/logging"
)

// Modes accepted by Listen.
const (
	ModeUDP        = "udp"
	ModeYNCBouyomi = "ync_bouyomi"
)

// maxMessage bounds one datagram or Bouyomi message body.
const maxMessage = 4096

// ErrUnknownMode is returned by Listen for an unsupported mode.
var ErrUnknownMode = errors.New("unknown listen mode")

// Utterance is one normalized recognition result.
type Utterance struct {
	Text     string
	Received time.Time
	Remote   string
}

// Source delivers utterances until its context is cancelled.
type Source interface {
	// Serve blocks, sending every non-empty utterance on out. It returns
	// nil once ctx is cancelled.
	Serve(ctx context.Context, out chan<- Utterance) error

	// Addr returns the bound address.
	Addr() net.Addr

	// Close stops the listener.
	Close() error
}

// Option configures a listener.
type Option func(*options)

type options struct {
	normalizer  Normalizer
	log         *logging.Logger
	readTimeout time.Duration
	now         func() time.Time
}

// WithNormalizer sets text normalization.
func WithNormalizer(n Normalizer) Option {
	return func(o *options) { o.normalizer = n }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithReadTimeout bounds how long a Bouyomi connection may take to send
// its message.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.readTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		log:         logging.Null,
		readTimeout: 5 * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.WithComponent("transport")
	return o
}

// Listen binds addr for mode.
func Listen(ctx context.Context, mode, addr string, opts ...Option) (Source, error) {
	switch mode {
	case ModeUDP:
		return ListenUDP(ctx, addr, opts...)
	case ModeYNCBouyomi:
		return ListenBouyomi(ctx, addr, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// deliver normalizes text and sends it unless it is empty. It returns
// false when ctx is done.
func deliver(ctx context.Context, o options, out chan<- Utterance, raw []byte, remote net.Addr) bool {
	text := o.normalizer.Normalize(string(raw))
	if text == "" {
		return true
	}

	u := Utterance{Text: text, Received: o.now()}
	if remote != nil {
		u.Remote = remote.String()
	}
	select {
	case out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

// closeOnDone closes c when ctx ends, unblocking a pending read or accept.
func closeOnDone(ctx context.Context, c interface{ Close() error }) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}
