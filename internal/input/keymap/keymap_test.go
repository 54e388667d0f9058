package keymap

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/voxcmd/internal/config/layer"
	"github.com/dshills/voxcmd/internal/input/key"
)

func TestTable_Lookup(t *testing.T) {
	table := NewTable(
		NewBinding("gold", key.Keyboard("f5")),
		NewBinding("cmd_menu", key.Mouse("middle")),
		NewBinding("gold", key.Keyboard("f9")),
		NewBinding("", key.Keyboard("a")),
		NewBinding("empty", key.Identifier{}),
	)

	if got, ok := table.Lookup("gold"); !ok || got != key.Keyboard("f9") {
		t.Errorf("Lookup(gold) = %v, %v; want f9, true", got, ok)
	}
	if got, ok := table.Lookup("cmd_menu"); !ok || !got.IsMouse() {
		t.Errorf("Lookup(cmd_menu) = %v, %v; want mouse_middle", got, ok)
	}
	if _, ok := table.Lookup("empty"); ok {
		t.Error("Lookup(empty) should not be bound")
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestTable_Resolve(t *testing.T) {
	table := NewTable(
		NewBinding("cmd_menu", key.Mouse("middle")),
		NewBinding("cmd_1", key.Keyboard("1")),
	)

	got, err := table.Resolve([]string{"cmd_menu", "cmd_1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []key.Identifier{key.Mouse("middle"), key.Keyboard("1")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}

	got, err = table.Resolve([]string{"cmd_menu", "cmd_0"})
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("Resolve(cmd_0) error = %v, want ErrUnbound", err)
	}
	if got != nil {
		t.Errorf("Resolve() on failure returned keys %v", got)
	}
	if !strings.Contains(err.Error(), "cmd_0") {
		t.Errorf("error %q does not name the command", err)
	}
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table
	if _, ok := table.Lookup("x"); ok {
		t.Error("nil table Lookup should fail")
	}
	if table.Len() != 0 || table.Bindings() != nil {
		t.Error("nil table should be empty")
	}
}

func TestBuilder_Precedence(t *testing.T) {
	table, err := NewBuilder().
		Add("defaults", layer.SourceBuiltin, map[string]string{
			"gold":     "f5",
			"cmd_menu": "mouse_middle",
			"yell":     "f",
			"alpha":    "f1",
		}).
		Add("Input.ini", layer.SourceGameSettings, map[string]string{
			"gold": "g",
			"yell": "",
		}).
		Add("user", layer.SourceUser, map[string]string{
			"alpha": "f13",
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		command string
		want    key.Identifier
		source  string
	}{
		{"gold", key.Keyboard("g"), "Input.ini"},
		{"cmd_menu", key.Mouse("middle"), "defaults"},
		{"yell", key.Keyboard("f"), "defaults"},
		{"alpha", key.Keyboard("f13"), "user"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			b, ok := table.Binding(tt.command)
			if !ok {
				t.Fatalf("Binding(%q) not found", tt.command)
			}
			if b.Key != tt.want || b.Source != tt.source {
				t.Errorf("Binding(%q) = %v from %q, want %v from %q", tt.command, b.Key, b.Source, tt.want, tt.source)
			}
		})
	}
}

func TestBuilder_InvalidValueFallsBack(t *testing.T) {
	table, err := NewBuilder().
		Add("defaults", layer.SourceBuiltin, map[string]string{"gold": "f5"}).
		Add("user", layer.SourceUser, map[string]string{"gold": "f99", "red": "bogus"}).
		Build()

	if err == nil {
		t.Fatal("Build() expected diagnostics for invalid key names")
	}
	if !errors.Is(err, key.ErrUnknownKey) {
		t.Errorf("Build() error = %v, want ErrUnknownKey", err)
	}
	if got, _ := table.Lookup("gold"); got != key.Keyboard("f5") {
		t.Errorf("Lookup(gold) = %v, want fallback f5", got)
	}
	if _, ok := table.Lookup("red"); ok {
		t.Error("Lookup(red) should be unbound")
	}
}

func TestTable_BindingsSorted(t *testing.T) {
	table := NewTable(
		NewBinding("yell", key.Keyboard("f")),
		NewBinding("cmd_1", key.Keyboard("1")),
		NewBinding("gold", key.Keyboard("f5")),
	)

	var names []string
	for _, b := range table.Bindings() {
		names = append(names, b.Command)
	}
	want := []string{"cmd_1", "gold", "yell"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Bindings() order = %v, want %v", names, want)
	}
}
