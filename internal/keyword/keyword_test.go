package keyword

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func TestSet_Contains(t *testing.T) {
	s := MustCompile(Groups{
		"stack": {
			"base":  {"スタック", "右", "左"},
			"left":  {"左", "レフト"},
			"empty": {},
		},
		"number": {
			"base": {"[0-9０-９]番"},
		},
	})

	tests := []struct {
		category string
		text     string
		want     bool
	}{
		{"stack.base", "左にスタック", true},
		{"stack.left", "左にスタック", true},
		{"stack.left", "右にスタック", false},
		{"stack.empty", "anything", false},
		{"stack.missing", "左", false},
		{"number.base", "３番", true},
		{"number.base", "番", false},
		{"", "左", false},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.text, func(t *testing.T) {
			if got := s.Contains(tt.category, tt.text); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.category, tt.text, got, tt.want)
			}
		})
	}
}

func TestSet_ContainsIsCaseSensitive(t *testing.T) {
	s := MustCompile(Groups{"yell": {"base": {"LSPD"}}})
	if !s.Contains("yell.base", "LSPDだ") {
		t.Error("Contains() should match authored case")
	}
	if s.Contains("yell.base", "lspdだ") {
		t.Error("Contains() should not fold case")
	}
}

func TestCompile_DropsBadVariants(t *testing.T) {
	s, err := Compile(Groups{
		"door": {
			"open": {"開け", "", "(?!x)", "ひら"},
		},
	})
	if err == nil {
		t.Fatal("Compile() expected error")
	}
	if !errors.Is(err, ErrBlankVariant) {
		t.Errorf("Compile() error = %v, want ErrBlankVariant", err)
	}
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Compile() error = %v, want ErrInvalidPattern", err)
	}

	var verr *VariantError
	if !errors.As(err, &verr) || verr.Category != "door.open" {
		t.Errorf("Compile() error = %v, want VariantError for door.open", err)
	}

	if s.Contains("door.open", "閉めろ") {
		t.Error("dropped variants must not make the category match everything")
	}
	if !s.Contains("door.open", "ドアをひらけ") {
		t.Error("remaining variants should still match")
	}
}

func TestCompile_AllVariantsBadNeverMatches(t *testing.T) {
	s, err := Compile(Groups{"door": {"open": {"  "}}})
	if err == nil {
		t.Fatal("Compile() expected error")
	}
	if got := s.Categories(); !reflect.DeepEqual(got, []string{"door.open"}) {
		t.Errorf("Categories() = %v, want the category kept", got)
	}
	if s.Contains("door.open", "  ") {
		t.Error("category without usable variants must never match")
	}
}

func TestCompile_RejectsEmptyMatches(t *testing.T) {
	tests := []string{"a*", "(?:)", "x?", "^", "(左|)"}

	for _, variant := range tests {
		t.Run(variant, func(t *testing.T) {
			s, err := Compile(Groups{"stack": {"left": {variant, "左"}}})
			if !errors.Is(err, ErrBlankVariant) {
				t.Errorf("Compile(%q) error = %v, want ErrBlankVariant", variant, err)
			}
			if s.Contains("stack.left", "こんにちは") {
				t.Errorf("Compile(%q) let the category match any text", variant)
			}
			if !s.Contains("stack.left", "左にスタック") {
				t.Error("remaining variants should still match")
			}
		})
	}
}

func TestCompile_AlternationIsolatesVariants(t *testing.T) {
	// Without grouping "a|b" followed by "c" would change meaning.
	s := MustCompile(Groups{"g": {"w": {"a|b", "c"}}})
	for _, text := range []string{"xa", "xb", "xc"} {
		if !s.Contains("g.w", text) {
			t.Errorf("Contains(g.w, %q) = false, want true", text)
		}
	}
}

func TestMerge(t *testing.T) {
	base := Groups{"stack": {"base": {"スタック"}, "left": {"左"}}}
	override := Groups{"stack": {"left": {"レフト"}}, "yell": {"base": {"動くな"}}}

	got := Merge(base, override)
	if !reflect.DeepEqual(got["stack"]["left"], []string{"レフト"}) {
		t.Errorf("stack.left = %v, want override", got["stack"]["left"])
	}
	if !reflect.DeepEqual(got["stack"]["base"], []string{"スタック"}) {
		t.Errorf("stack.base = %v, want base", got["stack"]["base"])
	}
	if !reflect.DeepEqual(base["stack"]["left"], []string{"左"}) {
		t.Error("Merge() modified base")
	}
}

func TestFromMap(t *testing.T) {
	groups, err := FromMap(map[string]any{
		"stack": map[string]any{
			"left":  []any{"左", 3},
			"right": "右",
		},
		"bad": "x",
	})
	if err == nil {
		t.Fatal("FromMap() expected errors for malformed entries")
	}
	if !reflect.DeepEqual(groups["stack"]["left"], []string{"左"}) {
		t.Errorf("stack.left = %v, want [左]", groups["stack"]["left"])
	}
	if _, ok := groups["stack"]["right"]; ok {
		t.Error("stack.right should be skipped")
	}
	if _, ok := groups["bad"]; ok {
		t.Error("group bad should be skipped")
	}
}

func TestLoadFile(t *testing.T) {
	fsys := memFS{
		"/kw.toml": "[stack]\nleft = [\"レフト\"]\n",
		"/kw.yaml": "stack:\n  left:\n    - ひだり\n",
	}
	base := Groups{"stack": {"base": {"スタック"}, "left": {"左"}}}

	s, err := LoadFile(fsys, "/kw.toml", base)
	if err != nil {
		t.Fatalf("LoadFile(toml) error = %v", err)
	}
	if !s.Contains("stack.left", "レフトにスタック") || s.Contains("stack.left", "左") {
		t.Error("toml override did not replace stack.left")
	}
	if !s.Contains("stack.base", "スタック") {
		t.Error("base category lost")
	}

	s, err = LoadFile(fsys, "/kw.yaml", base)
	if err != nil {
		t.Fatalf("LoadFile(yaml) error = %v", err)
	}
	if !s.Contains("stack.left", "ひだり") {
		t.Error("yaml override did not apply")
	}

	if _, err := LoadFile(fsys, "/missing.toml", base); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestCheckKnown(t *testing.T) {
	s := MustCompile(Groups{
		"stack": {"left": {"左"}, "lefft": {"x"}},
		"zzz":   {"qqq": {"y"}},
	})

	err := CheckKnown(s, []string{"stack.left", "stack.right"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("CheckKnown() error = %v, want ErrUnknownCategory", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, `"stack.lefft" (did you mean "stack.left"?)`) {
		t.Errorf("CheckKnown() = %q, want suggestion for stack.lefft", msg)
	}
	if !strings.Contains(msg, `"zzz.qqq"`) {
		t.Errorf("CheckKnown() = %q, want zzz.qqq reported", msg)
	}

	if err := CheckKnown(MustCompile(Groups{"stack": {"left": {"左"}}}), []string{"stack.left"}); err != nil {
		t.Errorf("CheckKnown() = %v, want nil", err)
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	if s.Contains("a.b", "x") || s.Categories() != nil {
		t.Error("nil set should behave as empty")
	}
}
