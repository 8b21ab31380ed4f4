package record

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownType = errors.New("unknown column type")

// IDColumn is the system-assigned first column of every table.
const IDColumn = "ID"

type ColumnType uint8

const (
	ColInt ColumnType = iota
	ColStr
	ColBool
)

// String returns the type tag used in column specs and in the meta file.
func (t ColumnType) String() string {
	switch t {
	case ColInt:
		return "int"
	case ColStr:
		return "str"
	case ColBool:
		return "bool"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

// ParseColumnType maps a type tag (int, str, bool) to a ColumnType.
func ParseColumnType(tag string) (ColumnType, error) {
	switch tag {
	case "int":
		return ColInt, nil
	case "str":
		return ColStr, nil
	case "bool":
		return ColBool, nil
	default:
		return 0, fmt.Errorf("%w: %q (allowed: int, str, bool)", ErrUnknownType, tag)
	}
}

// Accepts reports whether a literal of kind k may be stored in a column of type t.
func (t ColumnType) Accepts(k Kind) bool {
	switch t {
	case ColInt:
		return k == KindInt
	case ColStr:
		return k == KindStr
	case ColBool:
		return k == KindBool
	default:
		return false
	}
}

// MarshalText and UnmarshalText keep the tag form in JSON meta files.
func (t ColumnType) MarshalText() ([]byte, error) {
	switch t {
	case ColInt, ColStr, ColBool:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
}

func (t *ColumnType) UnmarshalText(b []byte) error {
	ct, err := ParseColumnType(string(b))
	if err != nil {
		return err
	}
	*t = ct
	return nil
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

func (c Column) String() string { return c.Name + ":" + c.Type.String() }

type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// Col returns the column with the given name.
func (s Schema) Col(name string) (Column, bool) {
	for _, c := range s.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// UserCols returns every column except the leading ID column.
func (s Schema) UserCols() []Column {
	if len(s.Cols) > 0 && s.Cols[0].Name == IDColumn {
		return s.Cols[1:]
	}
	return s.Cols
}

// Names returns column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Cols))
	for i, c := range s.Cols {
		out[i] = c.Name
	}
	return out
}

// String renders the schema as "ID:int, name:str, ...".
func (s Schema) String() string {
	parts := make([]string, len(s.Cols))
	for i, c := range s.Cols {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
