package table

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"

	"github.com/dshills/voxcmd/internal/grammar"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	if s, ok := m[path]; ok {
		return []byte(s), nil
	}
	return nil, fs.ErrNotExist
}

func TestArma3Table(t *testing.T) {
	g, err := New(grammar.Options{TableFile: "testdata/arma3.toml"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		text   string
		action string
		want   string
	}{
		{"1番", "menu_1", "[1]"},
		{"十番", "menu_10", "[0]"},
		{"レッドチームに割り当て", "assign_red", "[ctrl(hold), f1]"},
		{"赤チーム", "select_red", "[shift(hold), f1]"},
		{"全員", "unit_all", "[shift(hold), space]"},
		{"10", "unit_10", "[f10]"},
		{"ワン", "unit_1", "[f1]"},
		{"集合", "formup", "[1, 1]"},
		{"こんにちは", grammar.None, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			o := g.Classify(tt.text, nil)
			if o.Action != tt.action {
				t.Errorf("Classify(%q).Action = %q, want %q", tt.text, o.Action, tt.action)
			}
			if got := g.Compile(o, nil).String(); got != tt.want {
				t.Errorf("Compile(%v) = %s, want %s", o, got, tt.want)
			}
		})
	}
}

func TestIdentityBindings(t *testing.T) {
	files := memFS{"t.toml": `
[[command]]
name = "chord"
words = ["全員"]
keys = ["com_shift", "space"]
`}
	g, err := New(grammar.Options{
		TableFile: "t.toml",
		FS:        files,
		Overrides: map[string]string{"shift": "left shift"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := map[string]string{
		"shift": "left shift",
		"space": "space",
	}
	for command, want := range tests {
		id, ok := g.Bindings().Lookup(command)
		if !ok || id.String() != want {
			t.Errorf("Lookup(%q) = %q, %v; want %q", command, id, ok, want)
		}
	}
}

func TestParse(t *testing.T) {
	data := map[string]any{
		"command": []any{
			map[string]any{"name": "a", "words": []any{"x"}, "keys": []any{"1"}},
			map[string]any{"name": "a", "words": []any{"y"}, "keys": []any{"2"}},
			map[string]any{"name": "", "keys": []any{"3"}},
			map[string]any{"name": "nokeys", "words": []any{"z"}},
			map[string]any{"name": "badwords", "words": "z", "keys": []any{"4"}},
			"oops",
			map[string]any{"name": "b", "keys": []any{"com_alt", "5"}},
		},
	}

	cmds, err := Parse(data)
	if !errors.Is(err, ErrDuplicateCmd) || !errors.Is(err, ErrBadCommand) {
		t.Errorf("Parse() error = %v, want duplicate and bad command errors", err)
	}

	want := []Command{
		{Name: "a", Words: []string{"x"}, Keys: []string{"1"}},
		{Name: "b", Keys: []string{"com_alt", "5"}},
	}
	if !reflect.DeepEqual(cmds, want) {
		t.Errorf("Parse() = %+v, want %+v", cmds, want)
	}
	if got := cmds[1].Steps().String(); got != "[alt(hold), 5]" {
		t.Errorf("Steps() = %s", got)
	}
}

func TestParse_NoCommands(t *testing.T) {
	if _, err := Parse(map[string]any{}); !errors.Is(err, ErrBadCommand) {
		t.Errorf("Parse() error = %v, want ErrBadCommand", err)
	}
}

func TestNew_RequiresTable(t *testing.T) {
	if _, err := New(grammar.Options{}); !errors.Is(err, ErrNoTable) {
		t.Errorf("New() error = %v, want ErrNoTable", err)
	}
}

func TestUnsupportedPatternIsDropped(t *testing.T) {
	files := memFS{"t.toml": `
[[command]]
name = "one"
words = ['[１1](?![０0])', "ワン"]
keys = ["f1"]
`}
	g, err := New(grammar.Options{TableFile: "t.toml", FS: files})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o := g.Classify("ワン", nil); o.Action != "one" {
		t.Errorf("remaining variant should still match, got %v", o)
	}
	if o := g.Classify("1", nil); !o.IsNone() {
		t.Errorf("dropped variant matched: %v", o)
	}
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	files := memFS{"t.toml": "[[command]]\nname = \"a\"\nwords = [\"あ\"]\nkeys = [\"1\"]\n"}
	g, err := New(grammar.Options{TableFile: "t.toml", FS: files})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	files["t.toml"] = "not = [valid"
	if err := g.Reload(); err == nil {
		t.Fatal("Reload() should fail on invalid TOML")
	}
	if o := g.Classify("あ", nil); o.Action != "a" {
		t.Errorf("previous table lost: %v", o)
	}
	if got := g.WatchPaths(); !reflect.DeepEqual(got, []string{"t.toml"}) {
		t.Errorf("WatchPaths() = %v", got)
	}
	if len(g.Commands()) != 1 {
		t.Errorf("Commands() = %v", g.Commands())
	}
}
