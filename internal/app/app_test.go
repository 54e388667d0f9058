package app

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/voxcmd/internal/config"
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/grammar/readyornot"
	"github.com/dshills/voxcmd/internal/input/device"
	"github.com/dshills/voxcmd/internal/input/executor"
	"github.com/dshills/voxcmd/internal/input/key"
	"github.com/dshills/voxcmd/internal/input/keymap"
	"github.com/dshills/voxcmd/internal/logging"
	"github.com/dshills/voxcmd/internal/session"
	"github.com/dshills/voxcmd/internal/transport"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	if s, ok := m[path]; ok {
		return []byte(s), nil
	}
	return nil, fs.ErrNotExist
}

func noSleep(time.Duration) {}

func eventStrings(r *device.Recorder) []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.String())
	}
	return out
}

func newReadyOrNotEngine(t *testing.T) (*Engine, *device.Recorder) {
	t.Helper()
	g, err := readyornot.New(grammar.Options{SettingsFile: "Input.ini", FS: memFS{}}, true)
	if err != nil {
		t.Fatalf("readyornot.New() error = %v", err)
	}
	rec := device.NewRecorder(nil)
	ids := 0
	e := NewEngine(g, executor.New(rec, executor.WithSleep(noSleep)),
		WithUtteranceIDs(func() string {
			ids++
			return "u" + string(rune('0'+ids))
		}),
	)
	return e, rec
}

func TestEngineProcess(t *testing.T) {
	tests := []struct {
		text   string
		keys   string
		events []string
	}{
		{
			text:   "左にスタック",
			keys:   "[cmd_menu, cmd_1, cmd_2]",
			events: []string{"+mouse_middle", "-mouse_middle", "+1", "-1", "+2", "-2"},
		},
		{
			text:   "ドア開けろ",
			keys:   "[cmd_menu, cmd_8]",
			events: []string{"+mouse_middle", "-mouse_middle", "+8", "-8"},
		},
		{
			text: "こんにちは",
			keys: "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			e, rec := newReadyOrNotEngine(t)
			res, err := e.Process(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if res.ID != "u1" || res.Text != tt.text {
				t.Errorf("Result = %+v", res)
			}
			if got := res.Sequence.String(); got != tt.keys {
				t.Errorf("Sequence = %s, want %s", got, tt.keys)
			}
			if got := eventStrings(rec); !reflect.DeepEqual(got, tt.events) {
				t.Errorf("events = %v, want %v", got, tt.events)
			}
		})
	}
}

func TestEngineMetrics(t *testing.T) {
	e, _ := newReadyOrNotEngine(t)
	for _, text := range []string{"左にスタック", "こんにちは", "ドア開けろ"} {
		if err := e.ClassifyAndExecute(context.Background(), text); err != nil {
			t.Fatalf("ClassifyAndExecute(%q) error = %v", text, err)
		}
	}

	s := e.Metrics().Snapshot()
	if s.Utterances != 3 || s.Executed != 2 || s.NoActions != 1 || s.Failures != 0 {
		t.Errorf("Snapshot() = %+v", s)
	}
	if !strings.Contains(s.String(), "utterances=3") {
		t.Errorf("String() = %q", s.String())
	}
}

func TestEngineStepOrderLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})

	g, err := readyornot.New(grammar.Options{SettingsFile: "Input.ini", FS: memFS{}}, true)
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(session.WithIDGenerator(func() string { return "so-1" }))
	e := NewEngine(g, executor.New(device.NewRecorder(nil), executor.WithSleep(noSleep)),
		WithSession(sess), WithLogger(log))

	for _, text := range []string{"ステップ", "キャンセル"} {
		if err := e.ClassifyAndExecute(context.Background(), text); err != nil {
			t.Fatalf("ClassifyAndExecute(%q) error = %v", text, err)
		}
	}

	out := buf.String()
	for _, want := range []string{"word: ステップ", "keys: [cmd_menu, cmd_3]", "step order started", "step order ended: manual cancel", "session=so-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

// stubGrammar maps utterances to fixed sequences.
type stubGrammar struct {
	seqs     map[string]grammar.Sequence
	table    *keymap.Table
	reloads  int
	reloadFn func() error
}

func (g *stubGrammar) Name() string { return "stub" }

func (g *stubGrammar) Classify(text string, _ *session.Session) grammar.Order {
	if text == "panic" {
		panic("classifier exploded")
	}
	o := grammar.NewOrder()
	if _, ok := g.seqs[text]; ok {
		o.Action = text
	}
	return o
}

func (g *stubGrammar) Compile(o grammar.Order, _ *session.Session) grammar.Sequence {
	return g.seqs[o.Action]
}

func (g *stubGrammar) Bindings() *keymap.Table { return g.table }

func (g *stubGrammar) Reload() error {
	g.reloads++
	if g.reloadFn != nil {
		return g.reloadFn()
	}
	return nil
}

func (g *stubGrammar) WatchPaths() []string { return []string{"words.toml"} }

func newStub() *stubGrammar {
	return &stubGrammar{
		seqs: map[string]grammar.Sequence{
			"one":     grammar.Taps("cmd_1"),
			"unbound": grammar.Taps("cmd_1", "cmd_missing"),
		},
		table: keymap.NewTable(keymap.NewBinding("cmd_1", key.Keyboard("1"))),
	}
}

func TestEngineUnboundCommand(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	rec := device.NewRecorder(nil)
	e := NewEngine(newStub(), executor.New(rec, executor.WithSleep(noSleep)), WithLogger(log))

	err := e.ClassifyAndExecute(context.Background(), "unbound")
	if !errors.Is(err, executor.ErrUnboundCommand) {
		t.Fatalf("error = %v, want ErrUnboundCommand", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "execute" {
		t.Errorf("error = %#v, want *OperationError for execute", err)
	}
	if got := rec.Events(); len(got) != 0 {
		t.Errorf("events = %v, want none", got)
	}
	if !strings.Contains(buf.String(), "[ERROR]") || !strings.Contains(buf.String(), "cmd_missing") {
		t.Errorf("unbound command not logged at error level:\n%s", buf.String())
	}
	if s := e.Metrics().Snapshot(); s.Failures != 1 {
		t.Errorf("Failures = %d, want 1", s.Failures)
	}
}

func TestEngineReload(t *testing.T) {
	g := newStub()
	e := NewEngine(g, executor.New(device.NewRecorder(nil)))

	if err := e.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if g.reloads != 1 || e.Metrics().Snapshot().Reloads != 1 {
		t.Errorf("reloads = %d, metric = %d", g.reloads, e.Metrics().Snapshot().Reloads)
	}

	boom := errors.New("bad toml")
	g.reloadFn = func() error { return boom }
	err := e.Reload()
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "words.toml") {
		t.Errorf("Reload() error = %v", err)
	}
	if !reflect.DeepEqual(e.WatchPaths(), []string{"words.toml"}) {
		t.Errorf("WatchPaths() = %v", e.WatchPaths())
	}
}

// fakeSource sends texts in order and then stops.
type fakeSource struct {
	texts []string
}

func (s *fakeSource) Serve(ctx context.Context, out chan<- transport.Utterance) error {
	for _, text := range s.texts {
		select {
		case out <- transport.Utterance{Text: text, Received: time.Now()}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (s *fakeSource) Addr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 25555}
}

func (s *fakeSource) Close() error { return nil }

func TestServiceSurvivesErrorsAndPanics(t *testing.T) {
	rec := device.NewRecorder(nil)
	e := NewEngine(newStub(), executor.New(rec, executor.WithSleep(noSleep)))
	svc := NewService(e, &fakeSource{texts: []string{"panic", "unbound", "nothing", "one"}}, nil)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"+1", "-1"}
	if got := eventStrings(rec); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	s := e.Metrics().Snapshot()
	if s.Executed != 1 || s.Failures != 1 || s.NoActions != 1 {
		t.Errorf("Snapshot() = %+v", s)
	}
}

// blockingSource never sends and stops on cancel.
type blockingSource struct{ fakeSource }

func (s *blockingSource) Serve(ctx context.Context, _ chan<- transport.Utterance) error {
	<-ctx.Done()
	return nil
}

func TestServiceStopsOnCancel(t *testing.T) {
	e := NewEngine(newStub(), executor.New(device.NewRecorder(nil)))
	svc := NewService(e, &blockingSource{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- svc.Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRequestReloadMerges(t *testing.T) {
	svc := NewService(NewEngine(newStub(), executor.New(device.NewRecorder(nil))), &fakeSource{}, nil)
	svc.RequestReload()
	svc.RequestReload()
	if n := len(svc.reload); n != 1 {
		t.Errorf("pending reloads = %d, want 1", n)
	}
}

func TestNewApp(t *testing.T) {
	cfg := config.Default()
	cfg.SettingsFile = "Input.ini"
	cfg.Bindings.Overrides = map[string]string{"gold": "f9"}

	rec := device.NewRecorder(nil)
	a, err := New(context.Background(), Options{
		Config: cfg,
		Device: rec,
		Source: &fakeSource{texts: []string{"ゴールドチーム左にスタック"}},
		FS:     memFS{},
		Sleep:  noSleep,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.Engine.Grammar().Name() != readyornot.Name {
		t.Errorf("grammar = %s", a.Engine.Grammar().Name())
	}
	if a.Engine.Session().Timeout() != cfg.StepOrderTimeout {
		t.Errorf("session timeout = %v", a.Engine.Session().Timeout())
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	events := eventStrings(rec)
	if len(events) == 0 || events[0] != "+f9" {
		t.Errorf("events = %v, want override key f9 first", events)
	}
}

func TestNewAppErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Grammar = "nope"
	_, err := New(context.Background(), Options{Config: cfg, Device: device.NewRecorder(nil), NoListen: true})
	if !errors.Is(err, grammar.ErrUnknownGrammar) || !errors.Is(err, ErrInitialization) {
		t.Errorf("New() error = %v, want unknown grammar initialization error", err)
	}

	cfg = config.Default()
	cfg.SettingsFile = "Input.ini"
	cfg.Mode = "smoke_signals"
	_, err = New(context.Background(), Options{Config: cfg, Device: device.NewRecorder(nil), FS: memFS{}})
	if !errors.Is(err, transport.ErrUnknownMode) {
		t.Errorf("New() error = %v, want ErrUnknownMode", err)
	}

	cfg.Mode = config.ModeUDP
	a, err := New(context.Background(), Options{Config: cfg, Device: device.NewRecorder(nil), FS: memFS{}, NoListen: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrInitialization) {
		t.Errorf("Run() without listener error = %v", err)
	}
}
