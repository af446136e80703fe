package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStringList:
		return "string_list"
	default:
		return "text"
	}
}

// Column describes one column of a table. Default is applied on insert when the
// row does not carry the column.
type Column struct {
	Name    string
	Kind    Kind
	Default any
}

// Table describes a collection for backends that own their schema (sqlite,
// postgres, memory). The REST backend relies on the server's schema instead.
type Table struct {
	Name    string
	Columns []Column
}

// Column looks up a column by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Schema indexes tables by name.
type Schema map[string]Table

// NewSchema builds a Schema from tables.
func NewSchema(tables ...Table) Schema {
	s := make(Schema, len(tables))
	for _, t := range tables {
		s[t.Name] = t
	}
	return s
}

// Table returns the named table or ErrUnknownCollection.
func (s Schema) Table(name string) (Table, error) {
	t, ok := s[name]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return t, nil
}

// Normalize converts v to the canonical Go type for the column kind:
// string, int64, float64, bool or []string. nil stays nil.
func (c Column) Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Kind {
	case KindText:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		default:
			return fmt.Sprint(x), nil
		}
	case KindInt:
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("column %s: %v is not an integer", c.Name, v)
		}
		return int64(f), nil
	case KindFloat:
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		return f, nil
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case int:
			return x != 0, nil
		case float64:
			return x != 0, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			return b, nil
		case []byte:
			b, err := strconv.ParseBool(strings.TrimSpace(string(x)))
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			return b, nil
		}
		return nil, fmt.Errorf("column %s: cannot use %T as bool", c.Name, v)
	case KindStringList:
		switch x := v.(type) {
		case []string:
			return append([]string(nil), x...), nil
		case []any:
			out := make([]string, 0, len(x))
			for _, item := range x {
				out = append(out, fmt.Sprint(item))
			}
			return out, nil
		case string:
			return decodeList(c.Name, []byte(x))
		case []byte:
			return decodeList(c.Name, x)
		}
		return nil, fmt.Errorf("column %s: cannot use %T as string list", c.Name, v)
	}
	return v, nil
}

func decodeList(name string, data []byte) ([]string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	}
	return 0, fmt.Errorf("cannot use %T as number", v)
}
