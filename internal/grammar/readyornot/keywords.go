package readyornot

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/dshills/voxcmd/internal/config/loader"
	"github.com/dshills/voxcmd/internal/keyword"
)

//go:embed keywords.toml
var defaultKeywordsTOML []byte

// DefaultKeywords returns the built-in keyword groups.
func DefaultKeywords() keyword.Groups {
	data, err := loader.NewTOMLLoader().Parse("keywords.toml", defaultKeywordsTOML)
	if err != nil {
		panic(fmt.Sprintf("readyornot: built-in keywords: %v", err))
	}
	groups, err := keyword.FromMap(data)
	if err != nil {
		panic(fmt.Sprintf("readyornot: built-in keywords: %v", err))
	}
	return groups
}

// KnownCategories returns every category the classifier consults.
func KnownCategories() []string {
	var names []string
	for group, words := range DefaultKeywords() {
		for word := range words {
			names = append(names, keyword.CategoryName(group, word))
		}
	}
	sort.Strings(names)
	return names
}
