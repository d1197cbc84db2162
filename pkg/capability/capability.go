// Package capability describes what the client on the other end of a pass
// can do. The patch builder consults these predicates to pick between
// emission strategies; it never inspects requests itself.
package capability

// Runtime identifies the family of client engine.
type Runtime uint8

const (
	RuntimeStandard Runtime = iota // Any current engine
	RuntimeLegacyIE                // Internet Explorer before 9
	RuntimeKHTML                   // Konqueror
)

// String returns the name of the runtime.
func (r Runtime) String() string {
	switch r {
	case RuntimeStandard:
		return "standard"
	case RuntimeLegacyIE:
		return "legacy-ie"
	case RuntimeKHTML:
		return "khtml"
	default:
		return "unknown"
	}
}

// ParseRuntime returns the runtime with the given String name.
func ParseRuntime(name string) (Runtime, bool) {
	for _, r := range []Runtime{RuntimeStandard, RuntimeLegacyIE, RuntimeKHTML} {
		if r.String() == name {
			return r, true
		}
	}
	return 0, false
}

// Quirk is a bit set of engine deficiencies that need a workaround.
type Quirk uint16

const (
	// QuirkNoMinMaxSize means min/max width and height are ignored.
	QuirkNoMinMaxSize Quirk = 1 << iota
	// QuirkKeyPressAsKeyDown means keypress does not fire for all keys and
	// must be emulated from keydown.
	QuirkKeyPressAsKeyDown
)

// Has returns true if q contains every bit of other.
func (q Quirk) Has(other Quirk) bool {
	return q&other == other
}

// Direction is the text direction of the presentation.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

// Env is the set of client characteristics for one pass.
type Env struct {
	// Scripting is false when the client cannot run the emitted script and
	// interaction has to fall back to plain form submission.
	Scripting bool

	Runtime Runtime
	Quirks  Quirk

	// Crawler marks indexing agents; they get plain markup and are never
	// offered form-submission fallbacks.
	Crawler bool

	Direction Direction
}

// Standard returns the environment of a current, scripting-enabled engine.
func Standard() Env {
	return Env{Scripting: true, Runtime: RuntimeStandard}
}

// ScriptingAvailable reports whether the client executes scripts.
func (e Env) ScriptingAvailable() bool { return e.Scripting }

// IsCrawler reports whether the agent is an indexing crawler.
func (e Env) IsCrawler() bool { return e.Crawler }

// IsRightToLeft reports whether the presentation is mirrored.
func (e Env) IsRightToLeft() bool { return e.Direction == RightToLeft }

// HasQuirk reports whether the engine needs the given workaround.
func (e Env) HasQuirk(q Quirk) bool { return e.Quirks.Has(q) }

// IsLegacyIE reports whether the engine is Internet Explorer before 9.
func (e Env) IsLegacyIE() bool { return e.Runtime == RuntimeLegacyIE }

// CanBulkReplace reports whether the content of a tag element can be
// replaced wholesale from markup on this engine.
func (e Env) CanBulkReplace(tag string) bool {
	return BulkReplace.Allowed(tag, e.Runtime)
}
