package transport

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		fold bool
		in   string
		want string
	}{
		{"punctuation", false, "左に、スタック。", "左にスタック"},
		{"spaces", false, "ドア 開けろ　", "ドア開けろ"},
		{"only punctuation", false, "、。 ", ""},
		{"ascii punctuation", false, "go, go.", "gogo"},
		{"no fold", false, "１番", "１番"},
		{"fold full-width digits", true, "１番", "1番"},
		{"fold half-width katakana", true, "ｽﾀｯｸ", "スタック"},
		{"invalid utf-8", false, "a\xffb", "a�b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalizer{FoldWidth: tt.fold}.Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func bouyomiMessage(cmd uint16, code byte, body []byte) []byte {
	var buf bytes.Buffer
	for _, v := range []uint16{cmd, 0xFFFF, 0xFFFF, 0xFFFF, 0} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteByte(code)
	binary.Write(&buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)
	return buf.Bytes()
}

func TestReadBouyomi(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte("ドア開けろ"))
	if err != nil {
		t.Fatal(err)
	}
	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("ドア開けろ"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		msg  []byte
		want string
	}{
		{"utf-8", bouyomiMessage(bouyomiTalk, bouyomiUTF8, []byte("ドア開けろ")), "ドア開けろ"},
		{"utf-16", bouyomiMessage(bouyomiTalk, bouyomiUTF16, utf16), "ドア開けろ"},
		{"shift_jis", bouyomiMessage(bouyomiTalk, bouyomiShiftJIS, sjis), "ドア開けろ"},
		{"empty body", bouyomiMessage(bouyomiTalk, bouyomiUTF8, nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadBouyomi(bytes.NewReader(tt.msg))
			if err != nil {
				t.Fatalf("ReadBouyomi() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadBouyomi() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadBouyomiErrors(t *testing.T) {
	tests := map[string][]byte{
		"short header":     {0x01, 0x00, 0x00},
		"other command":    bouyomiMessage(0x0010, bouyomiUTF8, []byte("x")),
		"unknown encoding": bouyomiMessage(bouyomiTalk, 9, []byte("x")),
		"truncated body":   bouyomiMessage(bouyomiTalk, bouyomiUTF8, []byte("abc"))[:bouyomiHeaderLen+1],
	}
	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadBouyomi(bytes.NewReader(msg)); !errors.Is(err, ErrBadMessage) {
				t.Errorf("ReadBouyomi() error = %v, want ErrBadMessage", err)
			}
		})
	}
}

func TestListenUnknownMode(t *testing.T) {
	if _, err := Listen(context.Background(), "carrier_pigeon", "127.0.0.1:0"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Listen() error = %v, want ErrUnknownMode", err)
	}
}

// serve runs src in the background and returns a function that stops it
// and returns Serve's result.
func serve(t *testing.T, src Source, out chan Utterance) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- src.Serve(ctx, out) }()
	return func() error {
		cancel()
		select {
		case err := <-errc:
			return err
		case <-time.After(3 * time.Second):
			t.Fatal("Serve did not return after cancel")
			return nil
		}
	}
}

func receive(t *testing.T, out chan Utterance) Utterance {
	t.Helper()
	select {
	case u := <-out:
		return u
	case <-time.After(3 * time.Second):
		t.Fatal("no utterance received")
		return Utterance{}
	}
}

func TestUDPListener(t *testing.T) {
	src, err := Listen(context.Background(), ModeUDP, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	out := make(chan Utterance)
	stop := serve(t, src, out)

	conn, err := net.Dial("udp", src.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for _, msg := range []string{"。、", "左に、スタック。"} {
		if _, err := conn.Write([]byte(msg)); err != nil {
			t.Fatal(err)
		}
	}

	if u := receive(t, out); u.Text != "左にスタック" {
		t.Errorf("Text = %q, want 左にスタック", u.Text)
	} else if u.Remote == "" || u.Received.IsZero() {
		t.Errorf("missing metadata: %+v", u)
	}

	if err := stop(); err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}

func TestBouyomiListener(t *testing.T) {
	src, err := Listen(context.Background(), ModeYNCBouyomi, "127.0.0.1:0", WithReadTimeout(time.Second))
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	out := make(chan Utterance)
	stop := serve(t, src, out)

	send := func(msg []byte) {
		conn, err := net.Dial("tcp", src.Addr().String())
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close()
		if _, err := conn.Write(msg); err != nil {
			t.Fatal(err)
		}
	}

	// A malformed message is logged and skipped.
	send(bouyomiMessage(0x0040, bouyomiUTF8, nil))
	send(bouyomiMessage(bouyomiTalk, bouyomiUTF8, []byte("ドア 開けろ。")))

	if u := receive(t, out); u.Text != "ドア開けろ" {
		t.Errorf("Text = %q, want ドア開けろ", u.Text)
	}

	if err := stop(); err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}
