package grammar

import (
	"github.com/dshills/voxcmd/internal/keyword"
	"github.com/dshills/voxcmd/internal/session"
)

// Context is the input and working state of one classification.
type Context struct {
	Text     string
	Session  *session.Session
	Keywords *keyword.Set
	Order    *Order
}

// Has reports whether category matches the utterance.
func (c *Context) Has(category string) bool {
	return c.Keywords.Contains(category, c.Text)
}

// HasWord reports whether group.word matches the utterance.
func (c *Context) HasWord(group, word string) bool {
	return c.Has(keyword.CategoryName(group, word))
}

// First returns the first of words whose group.word category matches,
// or "" if none does. The order of words is the priority order.
func (c *Context) First(group string, words ...string) string {
	for _, w := range words {
		if c.HasWord(group, w) {
			return w
		}
	}
	return ""
}

// FirstOr is First with a fallback.
func (c *Context) FirstOr(fallback, group string, words ...string) string {
	if w := c.First(group, words...); w != "" {
		return w
	}
	return fallback
}

// State returns the current step-order state, treating a nil session as off.
func (c *Context) State() session.State {
	if c.Session == nil {
		return session.StateOff
	}
	return c.Session.State()
}

// Rule is one entry of a prioritized classifier.
type Rule struct {
	// Name identifies the rule in diagnostics.
	Name string

	// Extended rules only run in a grammar's extended variant.
	Extended bool

	// Apply inspects the context and may fill in the order. It returns true
	// when the rule is decisive and evaluation must stop. Modifier rules
	// return false so later rules still run.
	Apply func(c *Context) bool
}

// Rules is an ordered, first-decisive-wins rule table.
type Rules []Rule

// Evaluate runs rules top to bottom and returns the name of the decisive
// rule, or "" if every rule fell through.
func (r Rules) Evaluate(c *Context, extended bool) string {
	for _, rule := range r {
		if rule.Extended && !extended {
			continue
		}
		if rule.Apply(c) {
			return rule.Name
		}
	}
	return ""
}

// Names returns rule names in evaluation order for the given variant.
func (r Rules) Names(extended bool) []string {
	names := make([]string, 0, len(r))
	for _, rule := range r {
		if rule.Extended && !extended {
			continue
		}
		names = append(names, rule.Name)
	}
	return names
}
