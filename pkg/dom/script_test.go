package dom

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/escape"
)

func TestScriptFastPath(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("x", "div")
	n.SetProperty(StyleDisplay, "none")

	res := p.Script(n)
	if res.Script != "V.hide('x');\n" {
		t.Errorf("got %q, want %q", res.Script, "V.hide('x');\n")
	}
	if s := p.Stats(); s.FastPath != 1 || s.Declared != 0 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestScriptFastPathValues(t *testing.T) {
	tests := []struct {
		name  string
		build func(n *Node)
		want  string
	}{
		{"none", func(n *Node) { n.SetProperty(StyleDisplay, "none") }, "V.hide('x');\n"},
		{"empty", func(n *Node) { n.SetProperty(StyleDisplay, "") }, "V.show('x');\n"},
		{"inline", func(n *Node) { n.SetProperty(StyleDisplay, "inline") }, "V.inline('x');\n"},
		{"block", func(n *Node) { n.SetProperty(StyleDisplay, "block") }, "V.block('x');\n"},
		{"removed", func(n *Node) { n.RemoveProperty(StyleDisplay) }, "V.show('x');\n"},
		{
			"other value",
			func(n *Node) { n.SetProperty(StyleDisplay, "inline-block") },
			"var j1=V.$('x');\nj1.style.display='inline-block';\n",
		},
		{
			"second mutation",
			func(n *Node) {
				n.SetProperty(StyleDisplay, "none")
				n.SetAttribute("title", "t")
			},
			"var j1=V.$('x');\nj1.setAttribute('title','t');\nj1.style.display='none';\n",
		},
		{
			"other property",
			func(n *Node) { n.SetProperty(StyleVisibility, "hidden") },
			"var j1=V.$('x');\nj1.style.visibility='hidden';\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPass(capability.Standard())
			n := p.ForUpdate("x", "div")
			tt.build(n)
			got := p.Script(n).Script
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			fast := strings.Contains(got, "V.hide(") || strings.Contains(got, "V.show(") ||
				strings.Contains(got, "V.inline(") || strings.Contains(got, "V.block(")
			if fast && strings.Contains(got, "var ") {
				t.Errorf("fast path combined with other statements: %q", got)
			}
		})
	}
}

func TestScriptBulkReplace(t *testing.T) {
	p := newTestPass(capability.Standard())
	list := p.ForUpdate("list", "div")
	list.MarkEmpty()

	a := p.Create("span")
	a.SetID("a")
	a.SetProperty(PropText, "one")
	a.SetTimeout(500*time.Millisecond, false)
	b := p.Create("span")
	b.SetID("b")
	b.SetProperty(PropText, "two")
	b.SetTimeout(time.Second, true)
	list.AddChild(a)
	list.AddChild(b)

	got := p.Script(list).Script
	want := "var j1=V.$('list');\n" +
		`V.setHtml(j1,'\x3Cspan id="a">one\x3C/span>\x3Cspan id="b">two\x3C/span>',false);` + "\n" +
		"V.addTimer('a',500,false);\n" +
		"V.addTimer('b',1000,true);\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if s := p.Stats(); s.BulkReplace != 1 {
		t.Errorf("got %d bulk replacements, want 1", s.BulkReplace)
	}
}

func TestScriptReplaceWith(t *testing.T) {
	p := newTestPass(capability.Standard())
	old := p.ForUpdate("x", "div")
	repl := p.Create("div")
	repl.SetID("y")
	repl.SetProperty(PropText, "new")
	old.ReplaceWith(repl, true)

	got := p.Script(old).Script
	want := "var j1=V.$('x');\n" +
		"var j2=document.createElement('div');\n" +
		"j2.setAttribute('id','y');\n" +
		"V.setHtml(j2,'new',false);\n" +
		"V.unstub(j1,j2,1);\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, "removeChild") {
		t.Errorf("replacement must not remove the old element: %q", got)
	}
}

func TestScriptDeclareOnce(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("x", "div")
	out := escape.NewStream()
	first := n.declare(out)
	second := n.declare(out)
	if first != second {
		t.Errorf("got %q then %q", first, second)
	}
	if got := out.String(); got != "var j1=V.$('x');\n" {
		t.Errorf("got %q", got)
	}
	if p.Stats().Declared != 1 {
		t.Errorf("got %d declarations, want 1", p.Stats().Declared)
	}
}

func TestScriptPhaseOrder(t *testing.T) {
	p := newTestPass(capability.Standard())

	// Update first in argument order, deletions last.
	edit := p.ForUpdate("e", "div")
	edit.SetAttribute("title", "t")
	list := p.ForUpdate("l", "ul")
	for i := 0; i < 2; i++ {
		li := p.Create("li")
		li.SetProperty(PropText, "item")
		list.AddChild(li)
	}
	gone := p.ForUpdate("g", "div")
	gone.CallJavaScript("cleanup()", true)
	gone.RemoveFromParent()
	cleared := p.ForUpdate("c", "div")
	cleared.RemoveAllChildren()
	created := p.Create("p")
	created.SetID("n")

	script := p.Script(edit, list, created, cleared, gone).Script
	checkScript(t, script)

	lastDelete := strings.LastIndex(script, "removeChild")
	if i := strings.LastIndex(script, "V.setHtml(j"); i < 0 {
		t.Fatalf("missing clear in %q", script)
	}
	firstCreate := strings.Index(script, "document.createElement")
	firstUpdate := strings.Index(script, "setAttribute('title'")
	if !(lastDelete < firstCreate && firstCreate < firstUpdate) {
		t.Errorf("phases out of order:\n%s", script)
	}
	if strings.Index(script, "cleanup()") > lastDelete {
		t.Errorf("survivor script must run before removal:\n%s", script)
	}
}

func TestScriptDeletedCreateNode(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.Create("div")
	n.SetProperty(PropText, "x")
	n.RemoveFromParent()
	if got := p.Script(n).Script; got != "" {
		t.Errorf("got %q, want nothing", got)
	}
}

func TestScriptUseAfterEmit(t *testing.T) {
	p := newTestPass(capability.Standard())
	n := p.ForUpdate("x", "div")
	n.SetAttribute("a", "b")
	p.Script(n)
	expectAssertion(t, func() { n.SetAttribute("a", "c") })
	expectAssertion(t, func() { p.Script(n) })
}

// Statements the builder emits, one per line.
var (
	reDeclare = regexp.MustCompile(`^var (j\d+)=`)
	reVar     = regexp.MustCompile(`\bj\d+\b`)
	reRemove  = regexp.MustCompile(`^(j\d+)\.parentNode\.removeChild\((j\d+)\);$`)
)

// checkScript verifies that every variable is declared before use and is
// not referenced after its element was removed.
func checkScript(t *testing.T, script string) {
	t.Helper()
	declared := map[string]bool{}
	removed := map[string]bool{}
	for i, line := range strings.Split(strings.TrimSuffix(script, "\n"), "\n") {
		if m := reDeclare.FindStringSubmatch(line); m != nil {
			if declared[m[1]] {
				t.Errorf("line %d: %s declared twice", i+1, m[1])
			}
			declared[m[1]] = true
		}
		for _, v := range reVar.FindAllString(line, -1) {
			if !declared[v] {
				t.Errorf("line %d: %s used before declaration: %q", i+1, v, line)
			}
			if removed[v] {
				t.Errorf("line %d: %s used after removal: %q", i+1, v, line)
			}
		}
		if m := reRemove.FindStringSubmatch(line); m != nil {
			removed[m[1]] = true
		}
	}
}
