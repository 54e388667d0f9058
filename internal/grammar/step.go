package grammar

import (
	"fmt"
	"strings"
)

// StepKind says how a key-step is pressed.
type StepKind uint8

const (
	// Tap presses and releases the key.
	Tap StepKind = iota
	// Hold presses the key and keeps it down until the sequence ends.
	Hold
	// Long presses the key, waits the long-press duration, then releases.
	Long
)

// String returns the kind name.
func (k StepKind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Hold:
		return "hold"
	case Long:
		return "long"
	default:
		return fmt.Sprintf("StepKind(%d)", k)
	}
}

// Step is one abstract key-step produced by a compiler.
type Step struct {
	Command string
	Kind    StepKind
}

// TapStep returns a tap of command.
func TapStep(command string) Step {
	return Step{Command: command, Kind: Tap}
}

// HoldStep returns a hold of command.
func HoldStep(command string) Step {
	return Step{Command: command, Kind: Hold}
}

// LongStep returns a long press of command.
func LongStep(command string) Step {
	return Step{Command: command, Kind: Long}
}

// String renders a step; taps are shown by name only.
func (s Step) String() string {
	if s.Kind == Tap {
		return s.Command
	}
	return s.Command + "(" + s.Kind.String() + ")"
}

// Sequence is an ordered list of key-steps.
type Sequence []Step

// Taps builds a sequence of taps.
func Taps(commands ...string) Sequence {
	seq := make(Sequence, len(commands))
	for i, c := range commands {
		seq[i] = TapStep(c)
	}
	return seq
}

// Commands returns the command names in order.
func (s Sequence) Commands() []string {
	out := make([]string, len(s))
	for i, step := range s {
		out[i] = step.Command
	}
	return out
}

// String renders the sequence as "[a, b(hold), c]".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, step := range s {
		parts[i] = step.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
