package keyword

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/dshills/voxcmd/internal/config/loader"
)

// FromMap converts decoded TOML or YAML data into Groups.
// Entries of the wrong shape are reported and skipped.
func FromMap(data map[string]any) (Groups, error) {
	groups := make(Groups, len(data))
	var errs []error

	for group, raw := range data {
		words, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: group must be a table, got %T", group, raw))
			continue
		}
		groups[group] = make(map[string][]string, len(words))
		for word, rawList := range words {
			list, ok := rawList.([]any)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: variants must be a list, got %T", CategoryName(group, word), rawList))
				continue
			}
			variants := make([]string, 0, len(list))
			for i, item := range list {
				s, ok := item.(string)
				if !ok {
					errs = append(errs, fmt.Errorf("%s[%d]: variant must be a string, got %T", CategoryName(group, word), i, item))
					continue
				}
				variants = append(variants, s)
			}
			groups[group][word] = variants
		}
	}

	sortErrors(errs)
	return groups, errors.Join(errs...)
}

// Merge returns base with every category in override replacing base's.
func Merge(base, override Groups) Groups {
	out := make(Groups, len(base))
	for group, words := range base {
		out[group] = make(map[string][]string, len(words))
		for word, variants := range words {
			out[group][word] = variants
		}
	}
	for group, words := range override {
		if out[group] == nil {
			out[group] = make(map[string][]string, len(words))
		}
		for word, variants := range words {
			out[group][word] = variants
		}
	}
	return out
}

// LoadFile reads a keyword file (TOML or YAML by extension) and compiles it
// on top of base. The returned set is nil only when the file itself cannot
// be read or parsed; otherwise problems are reported through the error.
func LoadFile(fsys loader.FileSystem, path string, base Groups) (*Set, error) {
	data, err := loader.LoadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	groups, convErr := FromMap(data)
	set, compErr := Compile(Merge(base, groups))
	return set, errors.Join(convErr, compErr)
}

// CheckKnown reports categories in s that are not in known, suggesting the
// closest known name for each. Grammars call it to catch typos in user files.
func CheckKnown(s *Set, known []string) error {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	var errs []error
	for _, name := range s.Categories() {
		if knownSet[name] {
			continue
		}
		if suggestion := closest(name, known); suggestion != "" {
			errs = append(errs, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownCategory, name, suggestion))
		} else {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCategory, name))
		}
	}
	return errors.Join(errs...)
}

func closest(name string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best := ""
	bestDist := distanceLimit(len(name)) + 1
	for _, c := range sorted {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
