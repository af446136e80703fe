package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Row is one record as it travels to and from a backend: column name to value.
type Row map[string]any

// Client is the remote store capability consumed by controllers. Every method
// addresses one named collection and is atomic from the caller's perspective.
type Client interface {
	Select(ctx context.Context, collection string, q Query) ([]Row, error)
	Insert(ctx context.Context, collection string, row Row) (Row, error)
	Update(ctx context.Context, collection, id string, patch Row) error
	Delete(ctx context.Context, collection, id string) error
}

// Column names shared by every collection.
const (
	IDColumn        = "id"
	OwnerColumn     = "user_id"
	CreatedAtColumn = "created_at"
)

// TimestampLayout formats created_at values. The fixed width keeps text
// ordering equal to time ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Filter is an equality predicate.
type Filter struct {
	Column string
	Value  any
}

// Order sorts a result set by one column.
type Order struct {
	Column     string
	Descending bool
}

// Query describes a read. Owner, when set, restricts rows to that user.
type Query struct {
	Owner   string
	Filters []Filter
	Order   Order
	Limit   int
}

// Predicates returns the owner filter (if any) followed by the equality filters.
func (q Query) Predicates() []Filter {
	out := make([]Filter, 0, len(q.Filters)+1)
	if owner := strings.TrimSpace(q.Owner); owner != "" {
		out = append(out, Filter{Column: OwnerColumn, Value: owner})
	}
	return append(out, q.Filters...)
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	dup := make(Row, len(r))
	for k, v := range r {
		dup[k] = v
	}
	return dup
}

// ID returns the row identifier as a string, or "" when absent.
func (r Row) ID() string {
	v, ok := r[IDColumn]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Encode converts a record struct into a Row using its json tags.
func Encode(v any) (Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return row, nil
}

// Decode converts rows into typed records using their json tags.
func Decode[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}
