package transport

import (
	"context"
	"errors"
	"net"
	"sync"
)

// UDPListener receives one utterance per datagram.
type UDPListener struct {
	conn net.PacketConn
	opts options
	once sync.Once
	cerr error
}

// ListenUDP binds a UDP socket on addr.
func ListenUDP(ctx context.Context, addr string, opts ...Option) (*UDPListener, error) {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	return &UDPListener{conn: conn, opts: buildOptions(opts)}, nil
}

// Addr returns the bound address.
func (l *UDPListener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Close closes the socket.
func (l *UDPListener) Close() error {
	l.once.Do(func() { l.cerr = l.conn.Close() })
	return l.cerr
}

// Serve reads datagrams until ctx is cancelled.
func (l *UDPListener) Serve(ctx context.Context, out chan<- Utterance) error {
	stop := closeOnDone(ctx, l)
	defer stop()

	l.opts.log.Info("listening on udp %s", l.Addr())
	buf := make([]byte, maxMessage)
	for {
		n, remote, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if n == 0 {
			continue
		}
		if !deliver(ctx, l.opts, out, buf[:n], remote) {
			return nil
		}
	}
}
