package dom

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/escape"
)

// EventAction is one branch of a handler shared by several signals.
type EventAction struct {
	// Condition guards the branch; empty means always.
	Condition string
	Code      string
	Command   string
	// Exposed asks the client to notify the server with Command.
	Exposed bool
}

const eventPrologue = "var e=event||window.event,o=this;"

// SetEvent sets the handler for an event. The handler runs code; when
// exposed it first notifies the server with command.
func (n *Node) SetEvent(name, code, command string, exposed bool) {
	n.mutate()
	if code == "" && !exposed {
		n.setHandler(name, handler{command: command})
		return
	}
	body := code
	if exposed {
		body = updateCall(n.pass.config.Namespace, command) + code
	}
	n.setHandler(name, handler{code: n.wrapHandler(name, body), command: command})
}

// SetEventActions sets one handler for an event that carries several
// signals. Each action becomes a branch guarded by its condition.
func (n *Node) SetEventActions(name string, actions []EventAction) {
	n.mutate()
	ns := n.pass.config.Namespace

	var b strings.Builder
	command := ""
	for _, a := range actions {
		if a.Condition != "" {
			b.WriteString("if(" + a.Condition + "){")
		}
		if a.Exposed {
			b.WriteString(updateCall(ns, a.Command))
			if command == "" {
				command = a.Command
			}
		}
		b.WriteString(a.Code)
		if a.Condition != "" {
			b.WriteString("}")
		}
	}
	n.setHandler(name, handler{code: n.wrapHandler(name, b.String()), command: command})
}

// wrapHandler puts the prologue in front of body. A click handler on an
// anchor leaves modified clicks (new tab, new window) to the browser.
func (n *Node) wrapHandler(name, body string) string {
	if name != "click" || n.tag != "a" {
		return eventPrologue + body
	}
	return eventPrologue + "if(e.ctrlKey||e.metaKey||e.shiftKey||(" + n.pass.config.Namespace +
		".button(e)>1))return true;else{" + body + "}"
}

func updateCall(ns, command string) string {
	return ns + ".update(o,'" + escape.String(command, escape.JSStringSingle) + "',e,true);"
}

func (n *Node) setHandler(name string, h handler) {
	if n.events == nil {
		n.events = make(map[string]handler)
	}
	n.events[name] = h
}

// EventCode returns the handler code for an event.
func (n *Node) EventCode(name string) (string, bool) {
	h, ok := n.events[name]
	return h.code, ok
}

func (n *Node) eventNames() []string {
	names := make([]string, 0, len(n.events))
	for name := range n.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isKeyboardEvent(name string) bool {
	return name == "keydown" || name == "keypress" || name == "keyup"
}

// handlerSlot returns the handler registered for name. A missing slot means
// a rule below touched an event nobody registered, which is a bug in the
// rules rather than bad input.
func (n *Node) handlerSlot(name string) handler {
	h, ok := n.events[name]
	if !ok {
		panic(errors.AssertionFailedf("dom: no %q handler on %s", errors.Safe(name), n))
	}
	return h
}

// eventRule rewrites the handler of target when trigger has code.
type eventRule struct {
	trigger string
	target  string
	// quirk restricts the rule to engines with the quirk; zero means all.
	quirk capability.Quirk
	// ifPresent skips the rule when target has no handler; create adds an
	// empty one. With neither, target must already exist.
	ifPresent bool
	create    bool
	rewrite   func(ns, targetCode, triggerCode string) (newTarget, newTrigger string)
}

// eventRules are evaluated in order, once per node per pass, before
// handlers are emitted.
var eventRules = []eventRule{
	{
		trigger: "mousedown",
		target:  "mousedown",
		rewrite: func(ns, target, trigger string) (string, string) {
			s := ns + ".capture(this);" + target
			return s, s
		},
	},
	{
		trigger:   "mousedown",
		target:    "mouseup",
		ifPresent: true,
		rewrite: func(ns, target, trigger string) (string, string) {
			return ns + ".capture(null);" + target, trigger
		},
	},
	{
		trigger: "keypress",
		target:  "keydown",
		quirk:   capability.QuirkKeyPressAsKeyDown,
		create:  true,
		rewrite: func(ns, target, trigger string) (string, string) {
			return target + "if(" + ns + ".isKeyPress(event)){" + trigger + "}", ""
		},
	},
}

// applyRules runs the compatibility adjustments for events and
// properties. It is idempotent within a pass.
func (n *Node) applyRules() {
	if n.rulesApplied {
		return
	}
	n.rulesApplied = true
	env := n.pass.config.Env
	ns := n.pass.config.Namespace

	for _, r := range eventRules {
		if r.quirk != 0 && !env.HasQuirk(r.quirk) {
			continue
		}
		trigger, ok := n.events[r.trigger]
		if !ok || trigger.code == "" {
			continue
		}
		if _, ok := n.events[r.target]; !ok {
			if r.ifPresent {
				continue
			}
			if r.create {
				n.setHandler(r.target, handler{command: trigger.command})
			}
		}
		target := n.handlerSlot(r.target)
		newTarget, newTrigger := r.rewrite(ns, target.code, trigger.code)
		target.code = newTarget
		n.events[r.target] = target
		if r.target != r.trigger {
			trigger = n.events[r.trigger]
			trigger.code = newTrigger
			n.events[r.trigger] = trigger
		}
	}

	n.adjustProperties(env)
}
