package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Kind is the runtime kind of a literal, inferred from text by the parser.
type Kind uint8

const (
	KindInt Kind = iota
	KindStr
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a typed literal. Only the field selected by Kind is meaningful.
type Value struct {
	Kind Kind
	Int  int64
	Str  string
	Bool bool
}

func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }
func Str(v string) Value { return Value{Kind: KindStr, Str: v} }
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// Equal compares kind and payload. Int(19) is not equal to Str("19").
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == o.Int
	case KindStr:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	default:
		return false
	}
}

// Any returns the payload as int64, string or bool.
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// GoString quotes strings so error messages show what the user typed.
func (v Value) GoString() string {
	if v.Kind == KindStr {
		return strconv.Quote(v.Str)
	}
	return v.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON maps JSON number -> int, string -> str, boolean -> bool.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("record: empty value")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Str(s)
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*v = Bool(x)
	default:
		i, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("record: value %s is not an integer, string or boolean", b)
		}
		*v = Int(i)
	}
	return nil
}

// Record is one row: column name -> value, including ID.
type Record map[string]Value

// ID returns the system identifier of the record.
func (r Record) ID() int64 { return r[IDColumn].Int }

// Matches reports whether every predicate key is present with an equal value.
// An empty predicate matches every record.
func (r Record) Matches(pred map[string]Value) bool {
	for k, want := range pred {
		got, ok := r[k]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

func (r Record) Clone() Record { return maps.Clone(r) }

// Row returns values in schema column order, for rendering.
func (r Record) Row(s Schema) []any {
	row := make([]any, len(s.Cols))
	for i, c := range s.Cols {
		if v, ok := r[c.Name]; ok {
			row[i] = v.Any()
		}
	}
	return row
}
