package heap

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/tuannm99/primdb/internal/record"
)

var (
	ErrArityMismatch  = errors.New("wrong number of values")
	ErrTypeMismatch   = errors.New("value does not match column type")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrReadOnlyColumn = errors.New("column is system-assigned")
	ErrCorruptRecords = errors.New("stored records do not match schema")
)

// Table is the record store of one table: schema plus records in insertion order.
type Table struct {
	Name   string
	Schema record.Schema

	records []record.Record
	// lastID is the highest ID ever assigned, including deleted records.
	lastID int64
}

// NewTable binds loaded records to a schema. lastID is the persisted high-water mark.
func NewTable(name string, schema record.Schema, records []record.Record, lastID int64) *Table {
	t := &Table{
		Name:    name,
		Schema:  schema,
		records: records,
		lastID:  lastID,
	}
	for _, r := range records {
		if id := r.ID(); id > t.lastID {
			t.lastID = id
		}
	}
	return t
}

func (t *Table) Len() int { return len(t.records) }

// LastID is the highest ID handed out so far.
func (t *Table) LastID() int64 { return t.lastID }

// Records exposes the current sequence; callers must not modify it.
func (t *Table) Records() []record.Record { return t.records }

// CheckRecords verifies every record carries exactly the schema columns with matching kinds
// and that IDs are unique.
func (t *Table) CheckRecords() error {
	ids := make(map[int64]bool, len(t.records))
	for i, r := range t.records {
		if len(r) != len(t.Schema.Cols) {
			return fmt.Errorf("%w: %s record #%d has %d columns, want %d",
				ErrCorruptRecords, t.Name, i, len(r), len(t.Schema.Cols))
		}
		for _, col := range t.Schema.Cols {
			v, ok := r[col.Name]
			if !ok {
				return fmt.Errorf("%w: %s record #%d missing column %s", ErrCorruptRecords, t.Name, i, col.Name)
			}
			if !col.Type.Accepts(v.Kind) {
				return fmt.Errorf("%w: %s record #%d column %s holds %s, want %s",
					ErrCorruptRecords, t.Name, i, col.Name, v.Kind, col.Type)
			}
		}
		if ids[r.ID()] {
			return fmt.Errorf("%w: %s has duplicate ID %d", ErrCorruptRecords, t.Name, r.ID())
		}
		ids[r.ID()] = true
	}
	return nil
}

// Insert validates raw values against the user columns (ID excluded), assigns the next ID
// and appends the record.
func (t *Table) Insert(values []record.Value) (record.Record, error) {
	cols := t.Schema.UserCols()
	if len(values) != len(cols) {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrArityMismatch, len(values), len(cols))
	}

	rec := make(record.Record, len(cols)+1)
	for i, col := range cols {
		v := values[i]
		if !col.Type.Accepts(v.Kind) {
			return nil, fmt.Errorf("%w: %#v for column %s (%s)", ErrTypeMismatch, v, col.Name, col.Type)
		}
		rec[col.Name] = v
	}

	t.lastID++
	rec[record.IDColumn] = record.Int(t.lastID)
	t.records = append(t.records, rec)
	return rec, nil
}

// Select lazily yields records matching pred in insertion order.
// A predicate on a column the table does not have matches nothing.
func (t *Table) Select(pred map[string]record.Value) iter.Seq[record.Record] {
	records := t.records
	return func(yield func(record.Record) bool) {
		for _, r := range records {
			if !r.Matches(pred) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Collect runs Select and reports the matches; an empty slice means no records.
func (t *Table) Collect(pred map[string]record.Value) []record.Record {
	return slices.Collect(t.Select(pred))
}

// Count returns how many records match pred.
func (t *Table) Count(pred map[string]record.Value) int {
	n := 0
	for range t.Select(pred) {
		n++
	}
	return n
}

// Update overwrites set columns on every record matching where and returns the count.
// The set clause is checked against the schema first, so a rejected update changes nothing.
func (t *Table) Update(set, where map[string]record.Value) (int, error) {
	if err := t.checkAssignments(set); err != nil {
		return 0, err
	}

	var out []record.Record
	updated := 0
	for i, r := range t.records {
		if !r.Matches(where) {
			continue
		}
		if out == nil {
			out = slices.Clone(t.records)
		}
		// copy-on-write: snapshots taken before the update keep the old rows
		nr := r.Clone()
		for k, v := range set {
			nr[k] = v
		}
		out[i] = nr
		updated++
	}
	if out != nil {
		t.records = out
	}
	return updated, nil
}

func (t *Table) checkAssignments(set map[string]record.Value) error {
	for k, v := range set {
		if k == record.IDColumn {
			return fmt.Errorf("%w: %s", ErrReadOnlyColumn, k)
		}
		col, ok := t.Schema.Col(k)
		if !ok {
			return fmt.Errorf("%w: %s in table %s", ErrUnknownColumn, k, t.Name)
		}
		if !col.Type.Accepts(v.Kind) {
			return fmt.Errorf("%w: %#v for column %s (%s)", ErrTypeMismatch, v, col.Name, col.Type)
		}
	}
	return nil
}

// Delete drops every record matching where and returns how many were removed.
func (t *Table) Delete(where map[string]record.Value) int {
	kept := make([]record.Record, 0, len(t.records))
	for _, r := range t.records {
		if !r.Matches(where) {
			kept = append(kept, r)
		}
	}
	deleted := len(t.records) - len(kept)
	if deleted > 0 {
		t.records = kept
	}
	return deleted
}

// Snapshot captures the table state so a mutation can be undone with Restore.
type Snapshot struct {
	records []record.Record
	lastID  int64
}

func (t *Table) Snapshot() Snapshot {
	return Snapshot{records: slices.Clip(t.records), lastID: t.lastID}
}

func (t *Table) Restore(s Snapshot) {
	t.records = s.records
	t.lastID = s.lastID
}
