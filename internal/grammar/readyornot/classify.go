package readyornot

import (
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/session"
)

// Actions produced by the classifier.
const (
	ActionYell         = "yell"
	ActionOpenCommand  = "open_cmd"
	ActionNumber       = "number_order"
	ActionStepStart    = "so_start"
	ActionStepCancel   = "so_cancel"
	ActionStepBreacher = "so_breacher"
	ActionStepGrenade  = "so_grenade"
	ActionInteract     = "interact"
	ActionInteractLong = "interact_long"
	ActionExecute      = "execute"
	ActionCancel       = "cancel"
	ActionStack        = "stack"
	ActionBreach       = "breach"
	ActionNPC          = "npc"
	ActionFallIn       = "fallin"
	ActionDoor         = "door"
	ActionPick         = "pick"
	ActionScan         = "scan"
	ActionGround       = "ground"
	ActionDeploy       = "deploy"
	ActionRestrain     = "restrain"
	ActionGadget       = "gadget"
	ActionTeam         = "team_action"
	ActionDefault      = "default"
)

// rules is the classifier in priority order. The first decisive rule wins;
// color, hold, two-doors and trapped only set modifiers.
var rules = grammar.Rules{
	{Name: "yell", Apply: ruleYell},
	{Name: "color", Apply: ruleColor},
	{Name: "hold", Apply: ruleHold},
	{Name: "open_cmd", Extended: true, Apply: ruleOpenCommand},
	{Name: "number", Extended: true, Apply: ruleNumber},
	{Name: "twodoors", Extended: true, Apply: ruleTwoDoors},
	{Name: "step_order", Extended: true, Apply: ruleStepOrder},
	{Name: "trapped", Apply: whenOff(ruleTrapped)},
	{Name: "interact", Apply: whenOff(ruleInteract)},
	{Name: "interact_long", Extended: true, Apply: whenOff(ruleInteractLong)},
	{Name: "execute", Apply: whenOff(ruleExecute)},
	{Name: "stack", Apply: whenOff(ruleStack)},
	{Name: "breach", Apply: ruleBreach},
	{Name: "npc", Apply: ruleNPC},
	{Name: "formation", Apply: ruleFormation},
	{Name: "door", Apply: ruleDoor},
	{Name: "door2", Apply: ruleDoor2},
	{Name: "pick", Apply: ruleBase("pick", ActionPick)},
	{Name: "scan", Apply: ruleOption("scan", ActionScan, "pie", "slide", "peak")},
	{Name: "ground", Apply: ruleOption("ground", ActionGround, "move", "cover", "halt", "resume", "search")},
	{Name: "deploy", Apply: ruleOption("deploy", ActionDeploy, "flash", "stinger", "gas", "chemlight", "shield")},
	{Name: "restrain", Apply: ruleBase("restrain", ActionRestrain)},
	{Name: "gadget", Apply: ruleOption("gadget", ActionGadget, "taser", "spray", "ball", "beanbag", "melee")},
	{Name: "team_action", Apply: ruleTeamAction},
	{Name: "default", Apply: ruleBase("default", ActionDefault)},
}

// RuleNames lists the classifier rules in evaluation order.
func RuleNames(extended bool) []string {
	return rules.Names(extended)
}

func whenOff(apply func(*grammar.Context) bool) func(*grammar.Context) bool {
	return func(c *grammar.Context) bool {
		if c.State() != session.StateOff {
			return false
		}
		return apply(c)
	}
}

// ruleBase matches a group with only a base word and no option.
func ruleBase(group, action string) func(*grammar.Context) bool {
	return func(c *grammar.Context) bool {
		if !c.HasWord(group, "base") {
			return false
		}
		c.Order.Action = action
		return true
	}
}

// ruleOption matches a group without a base word: the first matching option
// decides both the action and the option.
func ruleOption(group, action string, options ...string) func(*grammar.Context) bool {
	return func(c *grammar.Context) bool {
		opt := c.First(group, options...)
		if opt == "" {
			return false
		}
		c.Order.Action = action
		c.Order.Option = opt
		return true
	}
}

func ruleYell(c *grammar.Context) bool {
	if !c.HasWord("yell", "base") {
		return false
	}
	c.Order.Action = ActionYell
	return true
}

func ruleColor(c *grammar.Context) bool {
	c.Order.Color = c.FirstOr(grammar.None, "color", "gold", "red", "blue")
	return false
}

func ruleHold(c *grammar.Context) bool {
	c.Order.Hold = c.HasWord("hold", "base")
	return false
}

func ruleOpenCommand(c *grammar.Context) bool {
	if !c.HasWord("open_cmd", "base") {
		return false
	}
	c.Order.Action = ActionOpenCommand
	return true
}

func ruleNumber(c *grammar.Context) bool {
	if !c.HasWord("number", "base") {
		return false
	}
	c.Order.Action = ActionNumber
	c.Order.Option = c.FirstOr("0", "number", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "back")
	return true
}

func ruleTwoDoors(c *grammar.Context) bool {
	c.Order.TwoDoors = c.FirstOr(grammar.None, "twodoors", "front", "back")
	return false
}

func ruleStepOrder(c *grammar.Context) bool {
	active := c.State() != session.StateOff
	switch {
	case !active && c.HasWord("step_order", "start"):
		c.Order.Action = ActionStepStart
		return true
	case active && c.HasWord("step_order", "cancel"):
		c.Order.Action = ActionStepCancel
		return true
	}
	return false
}

func ruleTrapped(c *grammar.Context) bool {
	c.Order.Trapped = c.HasWord("trapped", "base")
	return false
}

func ruleInteract(c *grammar.Context) bool {
	if !c.HasWord("interact", "base") {
		return false
	}
	c.Order.Action = ActionInteract
	return true
}

func ruleInteractLong(c *grammar.Context) bool {
	if !c.HasWord("interact_long", "base") {
		return false
	}
	c.Order.Action = ActionInteractLong
	return true
}

func ruleExecute(c *grammar.Context) bool {
	switch {
	case c.HasWord("execute", "execute"):
		c.Order.Action = ActionExecute
	case c.HasWord("execute", "cancel"):
		c.Order.Action = ActionCancel
	default:
		return false
	}
	return true
}

func ruleStack(c *grammar.Context) bool {
	if !c.HasWord("stack", "base") {
		return false
	}
	c.Order.Action = ActionStack
	c.Order.Option = c.FirstOr("auto", "stack", "auto", "split", "right", "left")
	return true
}

// ruleBreach handles breaching and both step-order menus. While a step
// order is active it runs regardless of the base word, so every utterance
// is read as a menu choice.
func ruleBreach(c *grammar.Context) bool {
	state := c.State()
	if state == session.StateOff && !c.HasWord("breach", "base") {
		return false
	}

	o := c.Order
	o.Action = ActionBreach
	o.Breacher = c.FirstOr(grammar.None, "breach", "leader", "kick", "shotgun", "c2", "ram", "open")
	o.Grenade = grammar.None

	if state == session.StateToolSelect {
		if o.Breacher == grammar.None {
			o.Breacher = grammar.NoMatch
		}
		o.Action = ActionStepBreacher
		return true
	}

	o.Grenade = c.First("grenade", "leader", "flash", "stinger", "gas", "launcher")
	if state == session.StateGrenadeSelect {
		if o.Grenade == "" {
			o.Grenade = c.FirstOr(grammar.NoMatch, "grenade", "none")
		}
		o.Action = ActionStepGrenade
		return true
	}
	if o.Grenade == "" {
		o.Grenade = grammar.None
	}
	return true
}

func ruleNPC(c *grammar.Context) bool {
	if !c.HasWord("npc", "base") {
		return false
	}
	c.Order.Action = ActionNPC
	c.Order.Option = c.FirstOr("me", "npc", "me", "stop", "turn", "exit", "here")
	return true
}

func ruleFormation(c *grammar.Context) bool {
	if !c.HasWord("formation", "base") {
		return false
	}
	c.Order.Action = ActionFallIn
	c.Order.Option = c.FirstOr("single", "formation", "single", "double", "diamond", "wedge")
	return true
}

func ruleDoor(c *grammar.Context) bool {
	return ruleOption("door", ActionDoor, "wedge", "mirror", "disarm")(c)
}

func ruleDoor2(c *grammar.Context) bool {
	if !c.HasWord("door2", "base") {
		return false
	}
	c.Order.Action = ActionDoor
	c.Order.Option = c.FirstOr("cover", "door2", "cover", "open", "close")
	return true
}

func ruleTeamAction(c *grammar.Context) bool {
	o := c.Order
	switch {
	case c.HasWord("team_action", "move"):
		o.Option = "move_" + c.FirstOr("there", "team_move", "there", "back")
	case c.HasWord("team_action", "focus"):
		o.Option = "focus_" + c.FirstOr("me", "team_focus", "here", "me", "door", "target", "unfocus")
	default:
		o.Option = c.First("team_action", "unfocus", "swap", "search")
		if o.Option == "" {
			o.Option = grammar.None
			return false
		}
	}
	o.Action = ActionTeam
	return true
}
