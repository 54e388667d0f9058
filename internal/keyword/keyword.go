// Package keyword matches utterances against named keyword categories.
//
// A category is addressed as "group.word" (for example "stack.left") and
// holds an ordered list of variants. A variant is a literal substring or a
// regular expression fragment. All variants of a category are compiled once
// into a single alternation and matched anywhere in the text.
//
// Bad variants never abort loading: a blank variant or one that does not
// compile is reported and dropped, and a category left with no usable
// variants simply never matches.
package keyword

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Errors reported while compiling a keyword set.
var (
	ErrBlankVariant    = errors.New("blank keyword variant")
	ErrInvalidPattern  = errors.New("invalid keyword pattern")
	ErrUnknownCategory = errors.New("unknown keyword category")
)

// Groups is the raw form of a keyword set: group -> word -> variants.
type Groups map[string]map[string][]string

// VariantError describes one variant that was dropped.
type VariantError struct {
	Category string
	Index    int
	Variant  string
	Err      error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("%s[%d] %q: %v", e.Category, e.Index, e.Variant, e.Err)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}

type category struct {
	variants []string
	re       *regexp.Regexp
}

// Set is a compiled, read-only collection of keyword categories.
type Set struct {
	categories map[string]*category
}

// CategoryName joins a group and word into a category name.
func CategoryName(group, word string) string {
	return group + "." + word
}

// Compile builds a Set from groups. The returned set is always usable;
// the error joins one *VariantError per dropped variant.
func Compile(groups Groups) (*Set, error) {
	s := &Set{categories: make(map[string]*category)}
	var errs []error

	for group, words := range groups {
		for word, variants := range words {
			name := CategoryName(group, word)
			cat, cerrs := compileCategory(name, variants)
			s.categories[name] = cat
			errs = append(errs, cerrs...)
		}
	}

	sortErrors(errs)
	return s, errors.Join(errs...)
}

// MustCompile compiles groups and panics if any variant is dropped.
// Use only for built-in keyword tables.
func MustCompile(groups Groups) *Set {
	s, err := Compile(groups)
	if err != nil {
		panic("keyword: " + err.Error())
	}
	return s
}

func compileCategory(name string, variants []string) (*category, []error) {
	cat := &category{}
	var errs []error

	for i, v := range variants {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, &VariantError{Category: name, Index: i, Variant: v, Err: ErrBlankVariant})
			continue
		}
		re, err := regexp.Compile(v)
		if err != nil {
			errs = append(errs, &VariantError{
				Category: name,
				Index:    i,
				Variant:  v,
				Err:      fmt.Errorf("%w: %v", ErrInvalidPattern, err),
			})
			continue
		}
		// A pattern like "a*" matches the empty string and so every text.
		if re.MatchString("") {
			errs = append(errs, &VariantError{Category: name, Index: i, Variant: v, Err: ErrBlankVariant})
			continue
		}
		cat.variants = append(cat.variants, v)
	}

	if len(cat.variants) == 0 {
		return cat, errs
	}

	parts := make([]string, len(cat.variants))
	for i, v := range cat.variants {
		parts[i] = "(?:" + v + ")"
	}
	// Each part compiled on its own above, so the alternation does too.
	cat.re = regexp.MustCompile(strings.Join(parts, "|"))
	return cat, errs
}

// Contains reports whether any variant of category occurs in text.
// Undefined and empty categories never match.
func (s *Set) Contains(category, text string) bool {
	if s == nil {
		return false
	}
	cat, ok := s.categories[category]
	if !ok || cat.re == nil {
		return false
	}
	return cat.re.MatchString(text)
}

// Categories returns all defined category names in sorted order.
func (s *Set) Categories() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortErrors(errs []error) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Error() < errs[j].Error()
	})
}
