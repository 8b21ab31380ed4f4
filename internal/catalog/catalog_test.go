package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/primdb/internal/record"
)

func TestCatalog_CreateTable_PrependsID(t *testing.T) {
	c := New()

	schema, err := c.CreateTable("t", []string{"c1:int", "c2:str"})
	require.NoError(t, err)

	require.Equal(t, []record.Column{
		{Name: "ID", Type: record.ColInt},
		{Name: "c1", Type: record.ColInt},
		{Name: "c2", Type: record.ColStr},
	}, schema.Cols)
	assert.Equal(t, "ID:int, c1:int, c2:str", schema.String())
}

func TestCatalog_CreateTable_AlreadyExists(t *testing.T) {
	c := New()
	_, err := c.CreateTable("users", []string{"name:str"})
	require.NoError(t, err)

	_, err = c.CreateTable("users", []string{"age:int"})
	require.ErrorIs(t, err, ErrTableExists)

	// original schema untouched
	s, err := c.Describe("users")
	require.NoError(t, err)
	assert.Equal(t, "ID:int, name:str", s.String())
}

func TestCatalog_CreateTable_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		table string
		specs []string
		want  error
	}{
		{"missing separator", "t", []string{"name"}, ErrMalformedColumnSpec},
		{"empty name", "t", []string{":int"}, ErrMalformedColumnSpec},
		{"empty type", "t", []string{"a:"}, ErrMalformedColumnSpec},
		{"unknown type", "t", []string{"a:float"}, record.ErrUnknownType},
		{"double colon", "t", []string{"a:int:x"}, record.ErrUnknownType},
		{"duplicate", "t", []string{"a:int", "a:str"}, ErrDuplicateColumn},
		{"explicit ID", "t", []string{"ID:int"}, ErrDuplicateColumn},
		{"bad table name", "1t", []string{"a:int"}, ErrInvalidIdentifier},
		{"path table name", "../t", []string{"a:int"}, ErrInvalidIdentifier},
		{"bad column name", "t", []string{"a-b:int"}, ErrInvalidIdentifier},
		{"no columns", "t", nil, ErrMalformedColumnSpec},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			_, err := c.CreateTable(tc.table, tc.specs)
			require.ErrorIs(t, err, tc.want)
			assert.Empty(t, c.ListTables(), "failed create must not register the table")
		})
	}
}

func TestCatalog_ListTables_RegistrationOrder(t *testing.T) {
	c := New()
	assert.Empty(t, c.ListTables())

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := c.CreateTable(name, []string{"a:int"})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, c.ListTables())

	require.NoError(t, c.DropTable("alpha"))
	assert.Equal(t, []string{"zeta", "mid"}, c.ListTables())
}

func TestCatalog_DropAndDescribe_NotFound(t *testing.T) {
	c := New()
	require.ErrorIs(t, c.DropTable("nope"), ErrTableNotFound)

	_, err := c.Describe("nope")
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestCatalog_LoadRoundTrip(t *testing.T) {
	c := New()
	_, err := c.CreateTable("b", []string{"x:bool"})
	require.NoError(t, err)
	_, err = c.CreateTable("a", []string{"y:str"})
	require.NoError(t, err)
	c.SetLastID("b", 7)

	metas := c.Tables()

	c2 := New()
	require.NoError(t, c2.Load(metas))
	assert.Equal(t, []string{"b", "a"}, c2.ListTables())
	assert.Equal(t, int64(7), c2.LastID("b"))
	assert.Equal(t, int64(0), c2.LastID("a"))
	assert.True(t, c2.Has("a"))
}

func TestCatalog_LoadRejectsBadMeta(t *testing.T) {
	c := New()
	err := c.Load([]TableMeta{{Name: "t", Columns: []record.Column{{Name: "x", Type: record.ColInt}}}})
	require.Error(t, err)

	id := record.Column{Name: "ID", Type: record.ColInt}
	err = c.Load([]TableMeta{
		{Name: "t", Columns: []record.Column{id}},
		{Name: "t", Columns: []record.Column{id}},
	})
	require.ErrorIs(t, err, ErrTableExists)
}
