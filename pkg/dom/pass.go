package dom

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/escape"
)

// DefaultNamespace is the name of the client runtime object.
const DefaultNamespace = "V"

// Phase selects which part of a node's script AsScript emits.
type Phase uint8

const (
	PhaseDelete Phase = iota
	PhaseCreate
	PhaseUpdate
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDelete:
		return "delete"
	case PhaseCreate:
		return "create"
	case PhaseUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Phases lists every phase in emission order.
var Phases = [...]Phase{PhaseDelete, PhaseCreate, PhaseUpdate}

// Sequence hands out pass-unique numbers for generated script names.
type Sequence struct {
	last int
}

// Next returns the next number, starting at 1.
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Timer asks the client to fire a node's timer event.
type Timer struct {
	ID       string
	Interval time.Duration
	Repeat   bool
}

// Millis returns the interval in whole milliseconds.
func (t Timer) Millis() int {
	return int(t.Interval / time.Millisecond)
}

// Config configures a Pass.
type Config struct {
	// Env describes the client. The zero value is a client without
	// scripting; use capability.Standard() for a normal browser.
	Env capability.Env

	// Namespace is the client runtime object. Defaults to DefaultNamespace.
	Namespace string

	// RootID is the id of the root container. Keyboard handlers set on it
	// are bound to the document so they fire without focus.
	RootID string

	// BulkReplace overrides capability.BulkReplace.
	BulkReplace *capability.Table

	// NewID supplies identities for Create nodes that need one but were
	// never given one. The default, "o" followed by a pass-unique number,
	// starts over in every pass: callers that emit several passes against
	// the same document must supply a generator that outlives them.
	NewID func() string
}

// Result is the output of a pass.
type Result struct {
	// Markup is set by Pass.Markup.
	Markup string
	// Script is the statements to run on the client.
	Script string
	// Timers are timers the caller must register with the client. Timers
	// registered by Script are not listed.
	Timers []Timer
	// Nodes is the number of nodes the pass allocated.
	Nodes int
}

// Pass is one synchronization pass. It owns every node allocated from it
// and the sequence used for generated names; Release drops them all.
//
// A Pass is not safe for concurrent use.
type Pass struct {
	config   Config
	seq      Sequence
	nodes    []*Node
	released bool
	stats    Stats
}

// Stats counts strategy choices made while emitting.
type Stats struct {
	FastPath    int
	BulkReplace int
	Declared    int
}

// NewPass creates a pass.
func NewPass(config Config) *Pass {
	if config.Namespace == "" {
		config.Namespace = DefaultNamespace
	}
	if config.BulkReplace == nil {
		config.BulkReplace = capability.BulkReplace
	}
	p := &Pass{config: config}
	if p.config.NewID == nil {
		p.config.NewID = func() string { return "o" + strconv.Itoa(p.seq.Next()) }
	}
	return p
}

// Env returns the client description.
func (p *Pass) Env() capability.Env { return p.config.Env }

// Namespace returns the client runtime object name.
func (p *Pass) Namespace() string { return p.config.Namespace }

// Stats returns the strategy counters so far.
func (p *Pass) Stats() Stats { return p.stats }

// Len returns the number of nodes allocated from the pass.
func (p *Pass) Len() int { return len(p.nodes) }

// Create allocates a node describing a new element.
func (p *Pass) Create(tag string) *Node {
	return p.alloc(ModeCreate, "", tag)
}

// ForUpdate allocates a node describing changes to the existing element
// with the given id. It panics if id is empty.
func (p *Pass) ForUpdate(id, tag string) *Node {
	if id == "" {
		panic(errors.AssertionFailedf("dom: update node for <%s> without an id", errors.Safe(tag)))
	}
	return p.alloc(ModeUpdate, id, tag)
}

func (p *Pass) alloc(mode Mode, id, tag string) *Node {
	if p.released {
		panic(errors.AssertionFailedf("dom: allocation from a released pass"))
	}
	n := &Node{
		pass:     p,
		mode:     mode,
		id:       id,
		tag:      tag,
		wasEmpty: mode == ModeCreate,
	}
	p.nodes = append(p.nodes, n)
	return n
}

func (p *Pass) canBulkReplace(tag string) bool {
	return p.config.BulkReplace.Allowed(tag, p.config.Env.Runtime)
}

// Script emits the script for a set of pending nodes. Every node's Delete
// output precedes every node's Create output, which precedes every node's
// Update output. The nodes are spent afterwards.
func (p *Pass) Script(nodes ...*Node) Result {
	out := escape.NewStream()
	for _, phase := range Phases {
		for _, n := range nodes {
			n.AsScript(out, phase)
		}
	}
	for _, n := range nodes {
		n.spend()
	}
	return Result{Script: out.String(), Nodes: len(p.nodes)}
}

// Markup renders a Create node as markup. Script that could not be
// expressed as markup is returned in Result.Script and must run after the
// markup is in place.
func (p *Pass) Markup(n *Node) Result {
	out := escape.NewStream()
	js := escape.NewStream()
	var timers []Timer
	n.AsHTML(out, js, &timers)
	return Result{Markup: out.String(), Script: js.String(), Timers: timers, Nodes: len(p.nodes)}
}

// Release drops every node allocated from the pass. Using any of them
// afterwards panics.
func (p *Pass) Release() {
	for _, n := range p.nodes {
		n.release()
	}
	p.nodes = nil
	p.released = true
}
