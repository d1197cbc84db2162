package dom

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/pkg/capability"
)

func expectAssertion(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(error)
		if !ok || !errors.HasAssertionFailure(err) {
			t.Fatalf("expected an assertion failure, got %v", r)
		}
	}()
	fn()
}

func TestNodeIdentity(t *testing.T) {
	p := newTestPass(capability.Standard())

	n := p.Create("div")
	n.SetAttribute("id", "x")
	if n.ID() != "x" {
		t.Errorf("got id %q, want %q", n.ID(), "x")
	}
	if _, ok := n.Attribute("id"); ok {
		t.Error("id must not be stored as an attribute")
	}

	u := p.ForUpdate("y", "div")
	expectAssertion(t, func() { u.SetID("z") })
	expectAssertion(t, func() { p.ForUpdate("", "div") })
}

func TestNodeMutationCount(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("x", "div")
	n.MarkEmpty()
	if n.MutationCount() != 0 {
		t.Errorf("MarkEmpty counted as a mutation")
	}
	n.SetAttribute("a", "1")
	n.RemoveAttribute("b")
	n.SetProperty(StyleColor, "red")
	if n.MutationCount() != 3 {
		t.Errorf("got %d mutations, want 3", n.MutationCount())
	}
	if !n.WasEmpty() {
		t.Error("expected node to be marked empty")
	}
}

func TestNodeRemoveProperty(t *testing.T) {
	p := newTestPass(capability.Standard())

	c := p.Create("div")
	c.SetProperty(StyleColor, "red")
	c.RemoveProperty(StyleColor)
	if _, ok := c.Property(StyleColor); ok {
		t.Error("create node kept a removed property")
	}

	u := p.ForUpdate("x", "div")
	u.RemoveProperty(StyleColor)
	if v, ok := u.Property(StyleColor); !ok || v != "" {
		t.Errorf("got %q, %v; want cleared property", v, ok)
	}
}

func TestNodeOwnership(t *testing.T) {
	p := newTestPass(capability.Standard())
	parent := p.ForUpdate("x", "div")
	child := p.Create("span")
	parent.AddChild(child)

	expectAssertion(t, func() { p.ForUpdate("y", "div").AddChild(child) })
	expectAssertion(t, func() { parent.AddChild(nil) })
	expectAssertion(t, func() { parent.ReplaceWith(parent, false) })
	expectAssertion(t, func() { parent.InsertChildAt(p.Create("b"), -1) })

	other := NewPass(Config{Env: capability.Standard()})
	expectAssertion(t, func() { parent.AddChild(other.Create("i")) })
}

func TestPassRelease(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.Create("div")
	p.Create("span")
	if p.Len() != 2 {
		t.Errorf("got %d nodes, want 2", p.Len())
	}
	p.Release()
	if p.Len() != 0 {
		t.Errorf("got %d nodes after release", p.Len())
	}
	expectAssertion(t, func() { n.SetAttribute("a", "b") })
	expectAssertion(t, func() { p.Create("div") })
}

func TestPassCustomIDs(t *testing.T) {
	next := 0
	p := NewPass(Config{
		Env: capability.Standard(),
		NewID: func() string {
			next++
			return "k" + string(rune('0'+next))
		},
	})
	n := p.Create("div")
	n.CallMethod("focus()")
	res := p.Markup(n)
	if res.Markup != `<div id="k1"></div>` {
		t.Errorf("got %q", res.Markup)
	}
}

func TestPassIDsAcrossPasses(t *testing.T) {
	timed := func(cfg Config) string {
		p := NewPass(cfg)
		defer p.Release()
		n := p.Create("span")
		n.SetTimeout(time.Second, true)
		return p.Markup(n).Timers[0].ID
	}

	// The default restarts with every pass.
	if a, b := timed(Config{Env: capability.Standard()}), timed(Config{Env: capability.Standard()}); a != b {
		t.Errorf("default ids: %q then %q, want the same", a, b)
	}

	var seq Sequence
	shared := Config{Env: capability.Standard(), NewID: func() string { return "s" + strconv.Itoa(seq.Next()) }}
	if a, b := timed(shared), timed(shared); a != "s1" || b != "s2" {
		t.Errorf("shared generator: %q then %q, want s1 then s2", a, b)
	}
}

func TestPassNamespace(t *testing.T) {
	p := NewPass(Config{Env: capability.Standard(), Namespace: "App"})
	n := p.ForUpdate("x", "div")
	n.SetProperty(StyleDisplay, "none")
	if got := p.Script(n).Script; got != "App.hide('x');\n" {
		t.Errorf("got %q", got)
	}
}

func TestEventActions(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("x", "input")
	n.SetEventActions("keydown", []EventAction{
		{Condition: "e.keyCode==13", Command: "enter", Exposed: true},
		{Condition: "e.keyCode==27", Code: "esc();"},
	})

	got, ok := n.EventCode("keydown")
	want := "var e=event||window.event,o=this;" +
		"if(e.keyCode==13){V.update(o,'enter',e,true);}" +
		"if(e.keyCode==27){esc();}"
	if !ok || got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEventAnchorClickGuard(t *testing.T) {
	p := newTestPass(capability.Standard())
	single := p.ForUpdate("a1", "a")
	single.SetEvent("click", "go();", "nav", true)
	list := p.ForUpdate("a2", "a")
	list.SetEventActions("click", []EventAction{{Code: "go();", Command: "nav", Exposed: true}})

	want := "var e=event||window.event,o=this;" +
		"if(e.ctrlKey||e.metaKey||e.shiftKey||(V.button(e)>1))return true;" +
		"else{V.update(o,'nav',e,true);go();}"
	for _, n := range []*Node{single, list} {
		if got, _ := n.EventCode("click"); got != want {
			t.Errorf("%s: got %q, want %q", n, got, want)
		}
	}

	// Only anchor clicks are guarded.
	button := p.ForUpdate("b", "button")
	button.SetEventActions("click", []EventAction{{Code: "go();"}})
	if got, _ := button.EventCode("click"); got != "var e=event||window.event,o=this;go();" {
		t.Errorf("button: got %q", got)
	}
}

func TestCallJavaScriptSeparatesStatements(t *testing.T) {
	p := newTestPass(capability.Standard())
	parent := p.ForUpdate("p", "div")
	parent.CallJavaScript("a()", false)
	parent.CallJavaScript("b()", false)
	child := p.Create("span")
	child.CallJavaScript("t()", false)
	parent.InsertChildAt(child, 0)

	got := p.Script(parent).Script
	if !strings.HasSuffix(got, "a()\nb()\nt()\n") {
		t.Errorf("statements run together:\n%s", got)
	}
}

func TestEventUpdateBinding(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("b", "button")
	n.SetEvent("click", "go();", "save", true)

	got := p.Script(n).Script
	want := "var j1=V.$('b');\n" +
		"function f2(event){var e=event||window.event,o=this;V.update(o,'save',e,true);go();}\n" +
		"j1.onclick=f2;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEventClearedOnUpdate(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("b", "button")
	n.SetEvent("click", "", "", false)

	got := p.Script(n).Script
	want := "var j1=V.$('b');\nfunction f2(event){}\nj1.onclick=f2;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEventRootKeyboardBinding(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("app", "div")
	n.SetEvent("keydown", "k();", "", false)

	got := p.Script(n).Script
	want := "function f1(event){var e=event||window.event,o=this;k();}\ndocument.onkeydown=f1;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEventRules(t *testing.T) {
	legacy := capability.Env{
		Scripting: true,
		Runtime:   capability.RuntimeLegacyIE,
		Quirks:    capability.QuirkKeyPressAsKeyDown,
	}

	tests := []struct {
		name  string
		env   capability.Env
		build func(n *Node)
		want  map[string]string
	}{
		{
			name: "mouse capture",
			env:  capability.Standard(),
			build: func(n *Node) {
				n.SetEvent("mousedown", "d();", "", false)
				n.SetEvent("mouseup", "u();", "", false)
			},
			want: map[string]string{
				"mousedown": "V.capture(this);var e=event||window.event,o=this;d();",
				"mouseup":   "V.capture(null);var e=event||window.event,o=this;u();",
			},
		},
		{
			name: "mouseup alone is untouched",
			env:  capability.Standard(),
			build: func(n *Node) {
				n.SetEvent("mouseup", "u();", "", false)
			},
			want: map[string]string{
				"mouseup": "var e=event||window.event,o=this;u();",
			},
		},
		{
			name: "keypress folded into keydown",
			env:  legacy,
			build: func(n *Node) {
				n.SetEvent("keypress", "k();", "", false)
			},
			want: map[string]string{
				"keydown":  "if(V.isKeyPress(event)){var e=event||window.event,o=this;k();}",
				"keypress": "",
			},
		},
		{
			name: "keypress kept on standard engines",
			env:  capability.Standard(),
			build: func(n *Node) {
				n.SetEvent("keypress", "k();", "", false)
			},
			want: map[string]string{
				"keypress": "var e=event||window.event,o=this;k();",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPass(tt.env)
			n := p.ForUpdate("x", "div")
			tt.build(n)
			n.applyRules()
			n.applyRules()

			if len(n.events) != len(tt.want) {
				t.Errorf("got %d handlers, want %d", len(n.events), len(tt.want))
			}
			for name, want := range tt.want {
				got, ok := n.EventCode(name)
				if !ok || got != want {
					t.Errorf("%s: got %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestEventRuleMissingTarget(t *testing.T) {
	saved := eventRules
	defer func() { eventRules = saved }()
	eventRules = []eventRule{{
		trigger: "click",
		target:  "dblclick",
		rewrite: func(ns, target, trigger string) (string, string) { return target, trigger },
	}}

	p := newTestPass(capability.Standard())
	n := p.ForUpdate("x", "div")
	n.SetEvent("click", "c();", "", false)
	expectAssertion(t, func() { n.applyRules() })
}

func TestStyleProperties(t *testing.T) {
	s, ok := StyleByName("font-size")
	if !ok || s != StyleFontSize || s.ScriptName() != "fontSize" {
		t.Errorf("got %v, %v", s, ok)
	}
	if _, ok := StyleByName("nope"); ok {
		t.Error("unknown style resolved")
	}
	if !StyleMaxHeight.IsBoxConstraint() || StyleHeight.IsBoxConstraint() {
		t.Error("box constraint classification is wrong")
	}
	p, ok := PlainByName("className")
	if !ok || p != PropClass || p.AttributeName() != "class" {
		t.Errorf("got %v, %v", p, ok)
	}
	if !PropChecked.IsBoolean() || PropValue.IsBoolean() {
		t.Error("boolean classification is wrong")
	}
}
