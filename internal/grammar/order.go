package grammar

import (
	"fmt"
	"strings"
)

// Values shared by every grammar.
const (
	// None is the default for every string field of an Order.
	None = "none"
	// NoMatch marks a step-order field whose base matched but no option did.
	NoMatch = "no_match"
)

// Order is the structured result of classifying one utterance.
// A fresh Order is created per utterance and never persisted.
type Order struct {
	Action   string
	Option   string
	Color    string
	Hold     bool
	Trapped  bool
	TwoDoors string
	Breacher string
	Grenade  string
}

// NewOrder returns an Order with every field at its default.
func NewOrder() Order {
	return Order{
		Action:   None,
		Option:   None,
		Color:    None,
		TwoDoors: None,
		Breacher: None,
		Grenade:  None,
	}
}

// IsNone returns true when no action was recognized.
func (o Order) IsNone() bool {
	return o.Action == "" || o.Action == None
}

// String renders the order for diagnostics. Default fields are omitted.
func (o Order) String() string {
	var parts []string
	add := func(name, val string) {
		if val != "" && val != None {
			parts = append(parts, name+"="+val)
		}
	}

	action := o.Action
	if action == "" {
		action = None
	}
	parts = append(parts, "action="+action)
	add("option", o.Option)
	add("color", o.Color)
	if o.Hold {
		parts = append(parts, "hold")
	}
	if o.Trapped {
		parts = append(parts, "trapped")
	}
	add("twodoors", o.TwoDoors)
	add("breacher", o.Breacher)
	add("grenade", o.Grenade)

	return fmt.Sprintf("{%s}", strings.Join(parts, " "))
}
