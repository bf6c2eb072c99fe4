package vm

// Table is an open-addressing hash table: linear probing, power-of-two
// capacity, tombstone deletes, keyed by interned string identity. Method
// tables, instance fields, globals, and the string intern table all sit
// on top of it.
type Table struct {
	count   int
	entries []entry
}

type entry struct {
	key   *ObjString // nil => empty or tombstone
	value Value
}

const tableMaxLoad = 0.75

// NewTable returns an empty table; its backing array is allocated lazily
// on first Set.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) capacity() int { return len(t.entries) }

// findEntry probes linearly from hash&mask. On an empty slot it returns
// the first tombstone seen (if any) so repeated deletes/inserts reuse
// dead slots, else the empty slot itself; on a pointer-equal key match it
// returns that entry.
func findEntry(entries []entry, key *ObjString) int {
	mask := len(entries) - 1
	idx := int(key.Hash) & mask
	tombstone := -1
	for {
		e := &entries[idx]
		if e.key == nil {
			if e.value.IsNil() {
				if tombstone != -1 {
					return tombstone
				}
				return idx
			}
			if tombstone == -1 {
				tombstone = idx
			}
		} else if e.key == key {
			return idx
		}
		idx = (idx + 1) & mask
	}
}

func (t *Table) adjustCapacity(newCap int) {
	entries := make([]entry, newCap)
	for i := range entries {
		entries[i] = entry{key: nil, value: NilVal()}
	}

	t.count = 0
	for _, e := range t.entries {
		if e.key == nil {
			continue
		}
		idx := findEntry(entries, e.key)
		entries[idx] = e
		t.count++
	}
	t.entries = entries
}

// Get returns the value stored for key, and whether it was present.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if t.count == 0 {
		return NilVal(), false
	}
	idx := findEntry(t.entries, key)
	e := &t.entries[idx]
	if e.key == nil {
		return NilVal(), false
	}
	return e.value, true
}

// Set stores value under key, growing the table first if doing so would
// exceed the 0.75 load factor. Returns true if this created a brand new
// entry (as opposed to overwriting one).
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(t.capacity())*tableMaxLoad {
		newCap := growCapacity(t.capacity())
		t.adjustCapacity(newCap)
	}

	idx := findEntry(t.entries, key)
	e := &t.entries[idx]
	isNewKey := e.key == nil
	if isNewKey && e.value.IsNil() {
		t.count++
	}
	e.key = key
	e.value = value
	return isNewKey
}

// Delete writes a tombstone (key=nil, value=true) rather than clearing
// the slot outright, preserving the probe chain for every other entry
// that hashed past this one. count is not decremented.
func (t *Table) Delete(key *ObjString) bool {
	if t.count == 0 {
		return false
	}
	idx := findEntry(t.entries, key)
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = BoolVal(true)
	return true
}

// AddAll copies every live entry of from into t.
func (t *Table) AddAll(from *Table) {
	for _, e := range from.entries {
		if e.key != nil {
			t.Set(e.key, e.value)
		}
	}
}

// FindString is used only by the string intern table: probes by hash and
// compares by (length, hash, byte-equality) rather than pointer identity,
// since the whole point is to find the canonical pointer for content
// that has not been interned yet.
func (t *Table) FindString(chars string, hash uint64) *ObjString {
	if t.count == 0 {
		return nil
	}
	mask := len(t.entries) - 1
	idx := int(hash) & mask
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if e.value.IsNil() {
				return nil
			}
		} else if e.key.Hash == hash && len(e.key.Chars) == len(chars) && e.key.Chars == chars {
			return e.key
		}
		idx = (idx + 1) & mask
	}
}

// Each calls fn for every live entry, for GC marking and for globals
// iteration. fn must not mutate the table.
func (t *Table) Each(fn func(key *ObjString, value Value)) {
	for _, e := range t.entries {
		if e.key != nil {
			fn(e.key, e.value)
		}
	}
}

// Count reports the number of occupied slots, tombstones included —
// count tracks load for resizing, not the number of live keys.
func (t *Table) Count() int { return t.count }

func growCapacity(cap int) int {
	if cap < 8 {
		return 8
	}
	return cap * 2
}
