package heap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/primdb/internal/record"
)

// newTestTable creates an empty users table: (ID int, name str, age int, active bool).
func newTestTable(t *testing.T) *Table {
	t.Helper()

	schema := record.Schema{
		Cols: []record.Column{
			{Name: "ID", Type: record.ColInt},
			{Name: "name", Type: record.ColStr},
			{Name: "age", Type: record.ColInt},
			{Name: "active", Type: record.ColBool},
		},
	}
	return NewTable("users", schema, nil, 0)
}

func insertUsers(t *testing.T, tbl *Table, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := tbl.Insert([]record.Value{
			record.Str(fmt.Sprintf("user-%d", i)),
			record.Int(int64(20 + i)),
			record.Bool(i%2 == 0),
		})
		require.NoError(t, err)
	}
}

func TestTable_Insert_AssignsSequentialIDs(t *testing.T) {
	tbl := newTestTable(t)

	rec, err := tbl.Insert([]record.Value{record.Str("Mike"), record.Int(19), record.Bool(true)})
	require.NoError(t, err)
	require.Equal(t, int64(1), rec.ID())
	require.Equal(t, record.Record{
		"ID":     record.Int(1),
		"name":   record.Str("Mike"),
		"age":    record.Int(19),
		"active": record.Bool(true),
	}, rec)

	insertUsers(t, tbl, 3)
	ids := []int64{}
	for r := range tbl.Select(nil) {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
}

func TestTable_Insert_IDsNotReusedAfterDelete(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 3)

	// drop the highest id; next insert must still move forward
	n := tbl.Delete(map[string]record.Value{"ID": record.Int(3)})
	require.Equal(t, 1, n)

	rec, err := tbl.Insert([]record.Value{record.Str("x"), record.Int(1), record.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.ID())
	assert.Equal(t, int64(4), tbl.LastID())
}

func TestTable_NewTable_LastIDFromRecords(t *testing.T) {
	schema := newTestTable(t).Schema
	loaded := []record.Record{
		{"ID": record.Int(5), "name": record.Str("a"), "age": record.Int(1), "active": record.Bool(true)},
		{"ID": record.Int(9), "name": record.Str("b"), "age": record.Int(2), "active": record.Bool(true)},
	}

	tbl := NewTable("users", schema, loaded, 0)
	rec, err := tbl.Insert([]record.Value{record.Str("c"), record.Int(3), record.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.ID())

	// persisted high-water mark wins when it is larger
	tbl = NewTable("users", schema, loaded, 42)
	rec, err = tbl.Insert([]record.Value{record.Str("c"), record.Int(3), record.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(43), rec.ID())
}

func TestTable_Insert_ArityMismatch(t *testing.T) {
	tbl := newTestTable(t)

	_, err := tbl.Insert([]record.Value{record.Str("Mike"), record.Int(19)})
	require.ErrorIs(t, err, ErrArityMismatch)

	_, err = tbl.Insert([]record.Value{record.Str("a"), record.Int(1), record.Bool(true), record.Int(2)})
	require.ErrorIs(t, err, ErrArityMismatch)

	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, int64(0), tbl.LastID())
}

func TestTable_Insert_TypeMismatch(t *testing.T) {
	tbl := newTestTable(t)

	_, err := tbl.Insert([]record.Value{record.Str("Mike"), record.Str("x"), record.Bool(true)})
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Contains(t, err.Error(), `"x"`)
	require.Contains(t, err.Error(), "age")

	_, err = tbl.Insert([]record.Value{record.Int(1), record.Int(2), record.Bool(true)})
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = tbl.Insert([]record.Value{record.Str("a"), record.Int(2), record.Int(1)})
	require.ErrorIs(t, err, ErrTypeMismatch)

	assert.Equal(t, 0, tbl.Len())
}

func TestTable_Select(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 4)

	all := tbl.Collect(nil)
	require.Len(t, all, 4)
	for i, r := range all {
		assert.Equal(t, int64(i+1), r.ID(), "insertion order")
	}

	even := tbl.Collect(map[string]record.Value{"active": record.Bool(true)})
	require.Len(t, even, 2)
	assert.Equal(t, int64(2), even[0].ID())
	assert.Equal(t, int64(4), even[1].ID())

	assert.Empty(t, tbl.Collect(map[string]record.Value{"nope": record.Int(1)}))
	assert.Empty(t, tbl.Collect(map[string]record.Value{"age": record.Str("21")}))
	assert.Equal(t, 1, tbl.Count(map[string]record.Value{"age": record.Int(21)}))
}

func TestTable_Select_StopsEarly(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 5)

	seen := 0
	for range tbl.Select(nil) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestTable_Update(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 3)

	n, err := tbl.Update(
		map[string]record.Value{"age": record.Int(99)},
		map[string]record.Value{"active": record.Bool(false)},
	)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	assert.Equal(t, 2, tbl.Count(map[string]record.Value{"age": record.Int(99)}))
	assert.Equal(t, record.Int(22), tbl.Records()[1]["age"])
}

func TestTable_Update_NoMatchIsNoop(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 2)
	before := tbl.Collect(nil)

	n, err := tbl.Update(
		map[string]record.Value{"age": record.Int(1)},
		map[string]record.Value{"name": record.Str("ghost")},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, before, tbl.Collect(nil))
}

func TestTable_Update_Rejects(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 2)
	before := tbl.Collect(nil)
	all := map[string]record.Value{}

	_, err := tbl.Update(map[string]record.Value{"age": record.Str("old")}, all)
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = tbl.Update(map[string]record.Value{"email": record.Str("x")}, all)
	require.ErrorIs(t, err, ErrUnknownColumn)

	_, err = tbl.Update(map[string]record.Value{"ID": record.Int(7)}, all)
	require.ErrorIs(t, err, ErrReadOnlyColumn)

	assert.Equal(t, before, tbl.Collect(nil))
}

func TestTable_Delete(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 4)

	n := tbl.Delete(map[string]record.Value{"active": record.Bool(true)})
	require.Equal(t, 2, n)
	require.Equal(t, 2, tbl.Len())

	n = tbl.Delete(map[string]record.Value{"name": record.Str("ghost")})
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_SnapshotRestore(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 2)
	snap := tbl.Snapshot()
	before := tbl.Collect(nil)

	_, err := tbl.Insert([]record.Value{record.Str("z"), record.Int(1), record.Bool(true)})
	require.NoError(t, err)
	_, err = tbl.Update(map[string]record.Value{"name": record.Str("changed")}, nil)
	require.NoError(t, err)
	tbl.Delete(map[string]record.Value{"ID": record.Int(1)})

	tbl.Restore(snap)
	assert.Equal(t, before, tbl.Collect(nil))
	assert.Equal(t, int64(2), tbl.LastID())
}

func TestTable_CheckRecords(t *testing.T) {
	tbl := newTestTable(t)
	insertUsers(t, tbl, 2)
	require.NoError(t, tbl.CheckRecords())

	schema := tbl.Schema
	bad := NewTable("users", schema, []record.Record{
		{"ID": record.Int(1), "name": record.Int(3), "age": record.Int(1), "active": record.Bool(true)},
	}, 0)
	require.ErrorIs(t, bad.CheckRecords(), ErrCorruptRecords)

	missing := NewTable("users", schema, []record.Record{{"ID": record.Int(1)}}, 0)
	require.ErrorIs(t, missing.CheckRecords(), ErrCorruptRecords)

	row := record.Record{"ID": record.Int(1), "name": record.Str("a"), "age": record.Int(1), "active": record.Bool(true)}
	dup := NewTable("users", schema, []record.Record{row, row.Clone()}, 0)
	require.ErrorIs(t, dup.CheckRecords(), ErrCorruptRecords)
}
