package readyornot

import (
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/session"
)

// Abstract commands resolved through the binding table.
const (
	CmdMenu    = "cmd_menu"
	CmdBack    = "cmd_back"
	CmdHold    = "cmd_hold"
	CmdDefault = "cmd_default"
	CmdYell    = "yell"
	CmdUse     = "interact"
)

// cmd returns the menu-slot command for digit n ("cmd_3").
func cmd(n string) string {
	return "cmd_" + n
}

// optionTable maps an option to the menu slots that follow cmd_menu.
type optionTable struct {
	slots    map[string][]string
	fallback []string
}

func (t optionTable) lookup(option string) []string {
	if s, ok := t.slots[option]; ok {
		return s
	}
	return t.fallback
}

func slots(digits ...string) []string {
	out := make([]string, len(digits))
	for i, d := range digits {
		out[i] = cmd(d)
	}
	return out
}

var (
	stackSlots = optionTable{
		slots: map[string][]string{
			"split": slots("1", "1"),
			"left":  slots("1", "2"),
			"right": slots("1", "3"),
			"auto":  slots("1", "4"),
		},
		fallback: slots("1", "4"),
	}

	npcSlots = optionTable{
		slots: map[string][]string{
			"here": slots("2", "1"),
			"me":   slots("2", "2"),
			"stop": slots("2", "3"),
			"turn": slots("4"),
			"exit": slots("5"),
		},
		fallback: slots("2", "2"),
	}

	formationSlots = optionTable{
		slots: map[string][]string{
			"single":  slots("2", "1"),
			"double":  slots("2", "2"),
			"diamond": slots("2", "3"),
			"wedge":   slots("2", "4"),
		},
		fallback: slots("2", "1"),
	}

	// Trapped doors shift wedge, cover, open and close down one slot.
	doorSlots = optionTable{
		slots: map[string][]string{
			"mirror": slots("5"),
			"disarm": slots("6"),
			"wedge":  slots("6"),
			"cover":  slots("7"),
			"open":   slots("8"),
			"close":  slots("8"),
		},
		fallback: slots("5"),
	}
	trappedDoorSlots = optionTable{
		slots: map[string][]string{
			"mirror": slots("5"),
			"disarm": slots("6"),
			"wedge":  slots("7"),
			"cover":  slots("8"),
			"open":   slots("9"),
			"close":  slots("9"),
		},
		fallback: slots("5"),
	}

	scanSlots = optionTable{
		slots: map[string][]string{
			"slide": slots("4", "1"),
			"pie":   slots("4", "2"),
			"peak":  slots("4", "3"),
		},
		fallback: slots("4", "2"),
	}

	groundSlots = optionTable{
		slots: map[string][]string{
			"move":   slots("1"),
			"cover":  slots("3"),
			"halt":   slots("4"),
			"resume": slots("4"),
			"search": slots("6"),
		},
		fallback: slots("1"),
	}

	deploySlots = optionTable{
		slots: map[string][]string{
			"flash":     slots("5", "1"),
			"stinger":   slots("5", "2"),
			"gas":       slots("5", "3"),
			"chemlight": slots("5", "4"),
			"shield":    slots("5", "5"),
		},
		fallback: slots("5", "4"),
	}

	gadgetSlots = optionTable{
		slots: map[string][]string{
			"taser":   slots("3", "1"),
			"spray":   slots("3", "2"),
			"ball":    slots("3", "3"),
			"beanbag": slots("3", "4"),
			"melee":   slots("3", "5"),
		},
		fallback: slots("3", "1"),
	}

	teamSlots = optionTable{
		slots: map[string][]string{
			"move_there":    slots("1", "1"),
			"move_back":     slots("1", "2"),
			"focus_here":    slots("2", "1"),
			"focus_me":      slots("2", "2"),
			"focus_door":    slots("2", "3"),
			"focus_target":  slots("2", "4"),
			"focus_unfocus": slots("2", "5"),
			"unfocus":       slots("2", "5"),
			"swap":          slots("3"),
			"search":        slots("4"),
		},
		fallback: slots("1", "1"),
	}

	// Breaching tool and grenade slots, shared by the breach order and the
	// step-order menus.
	breacherSlot = map[string]string{
		"kick":    cmd("1"),
		"shotgun": cmd("2"),
		"c2":      cmd("3"),
		"ram":     cmd("4"),
		"leader":  cmd("5"),
	}
	grenadeSlot = map[string]string{
		grammar.None: cmd("1"),
		"flash":      cmd("2"),
		"stinger":    cmd("3"),
		"gas":        cmd("4"),
		"launcher":   cmd("5"),
		"leader":     cmd("6"),
	}
)

func breacherCommand(breacher string) string {
	if c, ok := breacherSlot[breacher]; ok {
		return c
	}
	return cmd("1")
}

func grenadeCommand(grenade string) string {
	if c, ok := grenadeSlot[grenade]; ok {
		return c
	}
	return cmd("1")
}

// compile turns an order into key-steps and moves the step order along.
// A nil session behaves as a session that stays off.
func compile(o grammar.Order, s *session.Session) grammar.Sequence {
	state := session.StateOff
	if s != nil {
		s.Touch()
		state = s.State()
	}

	switch o.Action {
	case ActionYell:
		return grammar.Taps(CmdYell)
	case ActionInteract:
		return grammar.Taps(CmdUse)
	case ActionInteractLong:
		return grammar.Sequence{grammar.LongStep(CmdUse)}
	case ActionOpenCommand:
		return grammar.Taps(CmdMenu)
	case ActionDefault:
		return grammar.Taps(CmdDefault)
	case ActionNumber:
		return compileNumber(o.Option, state, s)
	case ActionStepStart:
		if s != nil {
			s.Start()
		}
		return grammar.Taps(CmdMenu, cmd("3"))
	case ActionStepCancel:
		if s != nil {
			s.End(session.EndManualCancel)
		}
		return grammar.Taps(CmdMenu)
	case ActionStepBreacher:
		// The tool menu is left whether or not a tool was named.
		if s != nil {
			s.Advance()
		}
		if o.Breacher == grammar.NoMatch {
			return grammar.Sequence{}
		}
		return grammar.Taps(breacherCommand(o.Breacher))
	case ActionStepGrenade:
		if o.Grenade == grammar.NoMatch {
			if s != nil {
				s.End(session.EndOther)
			}
			return grammar.Sequence{}
		}
		if s != nil {
			s.End(session.EndExecuted)
		}
		return grammar.Taps(grenadeCommand(o.Grenade))
	}

	if o.IsNone() {
		if o.Color != "" && o.Color != grammar.None {
			return grammar.Taps(o.Color)
		}
		return grammar.Sequence{}
	}

	seq := prefix(o)
	return append(seq, grammar.Taps(actionSlots(o)...)...)
}

// prefix builds the hold, color, menu and two-doors steps shared by every
// menu order.
func prefix(o grammar.Order) grammar.Sequence {
	var seq grammar.Sequence
	if o.Hold {
		seq = append(seq, grammar.HoldStep(CmdHold))
	}
	if o.Color != "" && o.Color != grammar.None {
		seq = append(seq, grammar.TapStep(o.Color))
	}
	seq = append(seq, grammar.TapStep(CmdMenu))
	switch o.TwoDoors {
	case "front":
		seq = append(seq, grammar.TapStep(cmd("1")))
	case "back":
		seq = append(seq, grammar.TapStep(cmd("2")))
	}
	return seq
}

func actionSlots(o grammar.Order) []string {
	switch o.Action {
	case ActionExecute:
		return slots("1")
	case ActionCancel:
		return slots("2")
	case ActionStack:
		return stackSlots.lookup(o.Option)
	case ActionBreach:
		var out []string
		if o.Breacher == "open" || o.Breacher == grammar.None || o.Breacher == "" {
			out = slots("2")
		} else {
			out = []string{cmd("3"), breacherCommand(o.Breacher)}
		}
		return append(out, grenadeCommand(o.Grenade))
	case ActionNPC:
		return npcSlots.lookup(o.Option)
	case ActionFallIn:
		return formationSlots.lookup(o.Option)
	case ActionDoor:
		if o.Trapped {
			return trappedDoorSlots.lookup(o.Option)
		}
		return doorSlots.lookup(o.Option)
	case ActionPick:
		return slots("2")
	case ActionScan:
		return scanSlots.lookup(o.Option)
	case ActionGround:
		return groundSlots.lookup(o.Option)
	case ActionDeploy:
		return deploySlots.lookup(o.Option)
	case ActionRestrain:
		return slots("1")
	case ActionGadget:
		return gadgetSlots.lookup(o.Option)
	case ActionTeam:
		return teamSlots.lookup(o.Option)
	}
	return nil
}

// compileNumber presses a menu digit. Inside a step order the digit also
// picks the current menu entry, and "back" walks back out of it.
func compileNumber(option string, state session.State, s *session.Session) grammar.Sequence {
	if option == "back" {
		switch state {
		case session.StateToolSelect:
			s.End(session.EndManualCancel)
			return grammar.Taps(CmdMenu)
		case session.StateGrenadeSelect:
			s.Back()
			return grammar.Taps(CmdBack)
		default:
			return grammar.Taps(CmdBack)
		}
	}

	switch state {
	case session.StateToolSelect:
		s.Advance()
	case session.StateGrenadeSelect:
		s.End(session.EndExecuted)
	}
	return grammar.Taps(cmd(option))
}
