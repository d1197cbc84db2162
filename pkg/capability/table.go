package capability

import "strings"

// Table is a deny list keyed by (element tag, runtime). A pair that is not
// listed is allowed.
type Table struct {
	deny map[Runtime]map[string]bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{deny: make(map[Runtime]map[string]bool)}
}

// Deny marks the given tags as not allowed on rt.
func (t *Table) Deny(rt Runtime, tags ...string) *Table {
	m := t.deny[rt]
	if m == nil {
		m = make(map[string]bool, len(tags))
		t.deny[rt] = m
	}
	for _, tag := range tags {
		m[strings.ToLower(tag)] = true
	}
	return t
}

// Clone returns a copy of t that can be extended without affecting t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for rt, tags := range t.deny {
		for tag := range tags {
			c.Deny(rt, tag)
		}
	}
	return c
}

// Allowed reports whether tag is allowed on rt.
func (t *Table) Allowed(tag string, rt Runtime) bool {
	return !t.deny[rt][strings.ToLower(tag)]
}

// tableSectionTags have a read-only innerHTML on older engines.
var tableSectionTags = []string{"table", "thead", "tbody", "tfoot", "tr", "td", "select", "optgroup"}

// BulkReplace governs whether a node's children may be written as one
// markup string instead of one statement per child.
var BulkReplace = NewTable().
	Deny(RuntimeLegacyIE, tableSectionTags...).
	Deny(RuntimeKHTML, tableSectionTags...)
