package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Bouyomi-chan talk command layout: command, speed, tone, volume and voice
// as int16, a one-byte text encoding, the body length as int32, then the
// body. All little endian.
const (
	bouyomiHeaderLen = 15
	bouyomiTalk      = 0x0001
)

// Bouyomi text encodings.
const (
	bouyomiUTF8     = 0
	bouyomiUTF16    = 1
	bouyomiShiftJIS = 2
)

// ErrBadMessage is returned for a Bouyomi message that cannot be decoded.
var ErrBadMessage = errors.New("bad bouyomi message")

// BouyomiListener accepts one talk command per TCP connection and closes
// the connection after reading it.
type BouyomiListener struct {
	ln   net.Listener
	opts options
	once sync.Once
	cerr error
}

// ListenBouyomi binds a TCP listener on addr.
func ListenBouyomi(ctx context.Context, addr string, opts ...Option) (*BouyomiListener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &BouyomiListener{ln: ln, opts: buildOptions(opts)}, nil
}

// Addr returns the bound address.
func (l *BouyomiListener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close closes the listener.
func (l *BouyomiListener) Close() error {
	l.once.Do(func() { l.cerr = l.ln.Close() })
	return l.cerr
}

// Serve accepts connections until ctx is cancelled. Connections are handled
// one at a time.
func (l *BouyomiListener) Serve(ctx context.Context, out chan<- Utterance) error {
	stop := closeOnDone(ctx, l)
	defer stop()

	l.opts.log.Info("listening on tcp %s (bouyomi)", l.Addr())
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		text, err := l.read(conn)
		remote := conn.RemoteAddr()
		conn.Close()
		if err != nil {
			l.opts.log.Warn("%s: %v", remote, err)
			continue
		}
		if !deliver(ctx, l.opts, out, text, remote) {
			return nil
		}
	}
}

func (l *BouyomiListener) read(conn net.Conn) ([]byte, error) {
	if err := conn.SetReadDeadline(l.opts.now().Add(l.opts.readTimeout)); err != nil {
		return nil, err
	}
	return ReadBouyomi(conn)
}

// ReadBouyomi reads one talk command from r and returns its text as UTF-8.
// Bodies longer than 4096 bytes are truncated.
func ReadBouyomi(r io.Reader) ([]byte, error) {
	var hdr [bouyomiHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadMessage, err)
	}

	if cmd := binary.LittleEndian.Uint16(hdr[0:2]); cmd != bouyomiTalk {
		return nil, fmt.Errorf("%w: unsupported command %#04x", ErrBadMessage, cmd)
	}
	code := hdr[10]
	length := int64(binary.LittleEndian.Uint32(hdr[11:15]))
	if length > maxMessage {
		length = maxMessage
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrBadMessage, err)
	}
	return decodeBouyomi(code, body)
}

func decodeBouyomi(code byte, body []byte) ([]byte, error) {
	var enc encoding.Encoding
	switch code {
	case bouyomiUTF8:
		return body, nil
	case bouyomiUTF16:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case bouyomiShiftJIS:
		enc = japanese.ShiftJIS
	default:
		return nil, fmt.Errorf("%w: unknown text encoding %d", ErrBadMessage, code)
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	return out, nil
}
