package engine

import (
	"fmt"

	"github.com/tuannm99/ditabase/internal/record"
)

// Item is one row: column name to typed value. Every column of the
// owning table has exactly one entry (no nulls).
type Item map[string]record.Value

// Cond is one equality condition for filtered reads and updates.
type Cond struct {
	Column string
	Value  record.Value
}

// Table owns its schema, items, and the derived constraint counters.
// The schema is fixed at creation.
type Table struct {
	Name   string
	Schema record.Schema

	items []Item

	// counters tracks, per constrained column, how many live items hold
	// each value. Derived state: rebuilt from items on load, never
	// persisted.
	counters map[string]map[record.Value]int
}

// NewTable builds an empty table, validating the column list.
func NewTable(name string, cols []record.Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySchema, name)
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: %q in table %q", ErrDuplicateCol, c.Name, name)
		}
		seen[c.Name] = true
	}
	t := &Table{Name: name, Schema: record.Schema{Cols: cols}}
	t.initCounters()
	return t, nil
}

func (t *Table) initCounters() {
	t.counters = make(map[string]map[record.Value]int)
	for _, c := range t.Schema.Cols {
		if c.Constraint != record.ConstraintNone {
			t.counters[c.Name] = make(map[record.Value]int)
		}
	}
}

// RebuildCounters recomputes every constraint counter from the live item
// set. Called after decoding a table from disk.
func (t *Table) RebuildCounters() {
	t.initCounters()
	for _, item := range t.items {
		t.bumpCounters(item, 1)
	}
}

func (t *Table) bumpCounters(item Item, delta int) {
	for col, m := range t.counters {
		v := item[col]
		m[v] += delta
		if m[v] <= 0 {
			delete(m, v)
		}
	}
}

// Count returns how many live items hold value in the given constrained
// column. Unconstrained columns always report 0.
func (t *Table) Count(column string, value record.Value) int {
	if m, ok := t.counters[column]; ok {
		return m[value]
	}
	return 0
}

func (t *Table) Len() int { return len(t.items) }

// Insert appends one item. Missing Uuid columns get fresh UUIDs; any
// other missing column is an error, as is a field not in the schema.
// Capacity is checked for every constrained column before anything is
// mutated, so a rejected insert leaves no partial state.
func (t *Table) Insert(fields map[string]record.Value) (Item, error) {
	for name := range fields {
		if _, ok := t.Schema.Column(name); !ok {
			return nil, fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, name, t.Name)
		}
	}

	item := make(Item, t.Schema.NumCols())
	for _, col := range t.Schema.Cols {
		v, ok := fields[col.Name]
		if !ok || (col.Type == record.TypeUuid && v.Str == "") {
			if col.Type == record.TypeUuid {
				item[col.Name] = record.NewUuid()
				continue
			}
			return nil, &MissingFieldError{Table: t.Name, Column: col.Name}
		}
		item[col.Name] = v
	}

	if err := t.checkCapacity(item); err != nil {
		return nil, err
	}

	t.items = append(t.items, item)
	t.bumpCounters(item, 1)
	return item, nil
}

// checkCapacity verifies count-before-insert < max for every constrained
// column of item.
func (t *Table) checkCapacity(item Item) error {
	for _, col := range t.Schema.Cols {
		max := col.Constraint.Max()
		if max == 0 {
			continue
		}
		v := item[col.Name]
		count := t.Count(col.Name, v)
		if count >= max {
			return &ConstraintViolation{
				Table: t.Name, Column: col.Name, Value: v, Count: count, Max: max,
			}
		}
	}
	return nil
}

// Select returns items matching every condition, in insertion order.
// With no conditions it returns all items.
func (t *Table) Select(conds ...Cond) []Item {
	var out []Item
	for _, item := range t.items {
		if matches(item, conds) {
			out = append(out, item)
		}
	}
	return out
}

// SelectField returns the first matching item's value in column, or
// false when nothing matches.
func (t *Table) SelectField(column, whereColumn string, whereValue record.Value) (record.Value, bool) {
	for _, item := range t.items {
		if item[whereColumn] == whereValue {
			return item[column], true
		}
	}
	return record.Value{}, false
}

// Delete removes every item matching all conditions and returns the
// removed count. Counters are decremented per removed item.
func (t *Table) Delete(conds []Cond) int {
	kept := t.items[:0]
	removed := 0
	for _, item := range t.items {
		if matches(item, conds) {
			t.bumpCounters(item, -1)
			removed++
			continue
		}
		kept = append(kept, item)
	}
	t.items = kept
	return removed
}

// Update sets column to newValue on every item whose column equals
// oldValue (and matches where, when given). The capacity check treats
// the update as releasing the old value and claiming the new one; if
// the new value would overflow its cap, nothing changes.
func (t *Table) Update(column string, oldValue, newValue record.Value, where *Cond) (int, error) {
	col, ok := t.Schema.Column(column)
	if !ok {
		return 0, fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, column, t.Name)
	}

	var targets []Item
	for _, item := range t.items {
		if item[column] != oldValue {
			continue
		}
		if where != nil && item[where.Column] != where.Value {
			continue
		}
		targets = append(targets, item)
	}
	if len(targets) == 0 {
		return 0, nil
	}

	if max := col.Constraint.Max(); max > 0 && oldValue != newValue {
		// Targets all vacate oldValue, then all claim newValue.
		count := t.Count(column, newValue)
		if count+len(targets) > max {
			return 0, &ConstraintViolation{
				Table: t.Name, Column: column, Value: newValue, Count: count, Max: max,
			}
		}
	}

	for _, item := range targets {
		t.bumpCounters(item, -1)
		item[column] = newValue
		t.bumpCounters(item, 1)
	}
	return len(targets), nil
}

func matches(item Item, conds []Cond) bool {
	for _, c := range conds {
		if item[c.Column] != c.Value {
			return false
		}
	}
	return true
}

// AppendDecoded is the codec's path for loading rows without capacity
// checks; callers must RebuildCounters afterwards.
func (t *Table) AppendDecoded(item Item) {
	t.items = append(t.items, item)
}
