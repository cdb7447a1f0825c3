// Package audit collects row-level change descriptors during a transaction
// and turns them into normalized audit log payloads.
package audit

import "sync"

// Change describes one insert, update or delete against a table. Old and New
// are the full entity structs before and after the write; either may be nil
// depending on the action.
type Change struct {
	Table  string
	PK     string
	Action string
	Old    interface{}
	New    interface{}
}

// ChangeSet accumulates changes recorded by repositories inside one unit of
// work. It is flushed to audit_logs just before commit.
type ChangeSet struct {
	mu      sync.Mutex
	changes []Change
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Record appends a change. Safe for concurrent use, though a unit of work is
// normally single-goroutine.
func (cs *ChangeSet) Record(c Change) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.changes = append(cs.changes, c)
}

// Drain returns the recorded changes and empties the set.
func (cs *ChangeSet) Drain() []Change {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := cs.changes
	cs.changes = nil
	return out
}

// Len reports how many changes are pending.
func (cs *ChangeSet) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.changes)
}
