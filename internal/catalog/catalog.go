package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/tuannm99/primdb/internal/record"
)

var (
	ErrTableExists         = errors.New("table already exists")
	ErrTableNotFound       = errors.New("table does not exist")
	ErrMalformedColumnSpec = errors.New("malformed column spec, use name:type")
	ErrDuplicateColumn     = errors.New("duplicate column")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
)

// Catalog is the schema store: table name -> ordered columns, in registration order.
type Catalog struct {
	order  []string
	tables map[string]*TableMeta
}

func New() *Catalog {
	return &Catalog{tables: make(map[string]*TableMeta)}
}

// Load replaces the catalog content with persisted metas, keeping their order.
func (c *Catalog) Load(metas []TableMeta) error {
	order := make([]string, 0, len(metas))
	tables := make(map[string]*TableMeta, len(metas))
	for i := range metas {
		m := metas[i]
		if _, dup := tables[m.Name]; dup {
			return fmt.Errorf("catalog: %w: %q listed twice", ErrTableExists, m.Name)
		}
		if len(m.Columns) == 0 || m.Columns[0].Name != record.IDColumn {
			return fmt.Errorf("catalog: table %q has no leading %s column", m.Name, record.IDColumn)
		}
		m.Columns = slices.Clone(m.Columns)
		tables[m.Name] = &m
		order = append(order, m.Name)
	}
	c.order = order
	c.tables = tables
	return nil
}

// Tables returns a copy of every table meta in registration order.
func (c *Catalog) Tables() []TableMeta {
	out := make([]TableMeta, 0, len(c.order))
	for _, name := range c.order {
		m := *c.tables[name]
		m.Columns = slices.Clone(m.Columns)
		out = append(out, m)
	}
	return out
}

// CreateTable validates specs ("name:type"), prepends ID:int and registers the table.
func (c *Catalog) CreateTable(name string, specs []string) (record.Schema, error) {
	if err := checkIdent(name); err != nil {
		return record.Schema{}, err
	}
	if _, ok := c.tables[name]; ok {
		return record.Schema{}, fmt.Errorf("%w: %q", ErrTableExists, name)
	}
	if len(specs) == 0 {
		return record.Schema{}, fmt.Errorf("%w: table %q needs at least one column", ErrMalformedColumnSpec, name)
	}

	cols, err := ParseColumnSpecs(specs)
	if err != nil {
		return record.Schema{}, err
	}

	c.tables[name] = &TableMeta{Name: name, Columns: cols}
	c.order = append(c.order, name)
	return record.Schema{Cols: slices.Clone(cols)}, nil
}

// ParseColumnSpecs turns "name:type" specs into columns, with the implicit ID first.
func ParseColumnSpecs(specs []string) ([]record.Column, error) {
	cols := make([]record.Column, 0, len(specs)+1)
	cols = append(cols, record.Column{Name: record.IDColumn, Type: record.ColInt})
	seen := map[string]bool{record.IDColumn: true}

	for _, spec := range specs {
		colName, tag, ok := strings.Cut(spec, ":")
		if !ok || colName == "" || tag == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedColumnSpec, spec)
		}
		if err := checkIdent(colName); err != nil {
			return nil, err
		}
		typ, err := record.ParseColumnType(tag)
		if err != nil {
			return nil, err
		}
		if seen[colName] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, colName)
		}
		seen[colName] = true
		cols = append(cols, record.Column{Name: colName, Type: typ})
	}
	return cols, nil
}

// DropTable removes the schema entry. Persisted records are the caller's concern.
func (c *Catalog) DropTable(name string) error {
	if _, ok := c.tables[name]; !ok {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	delete(c.tables, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
	return nil
}

// ListTables returns table names in registration order. Empty is not an error.
func (c *Catalog) ListTables() []string {
	return slices.Clone(c.order)
}

func (c *Catalog) Describe(name string) (record.Schema, error) {
	m, ok := c.tables[name]
	if !ok {
		return record.Schema{}, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return record.Schema{Cols: slices.Clone(m.Columns)}, nil
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.tables[name]
	return ok
}

func (c *Catalog) LastID(name string) int64 {
	if m, ok := c.tables[name]; ok {
		return m.LastID
	}
	return 0
}

func (c *Catalog) SetLastID(name string, id int64) {
	if m, ok := c.tables[name]; ok {
		m.LastID = id
	}
}

// checkIdent: first char letter or '_', rest letter/digit/'_'.
func checkIdent(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
		}
	}
	return nil
}
