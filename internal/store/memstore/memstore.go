// Package memstore is an in-process store.Client used by tests and the demo backend.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/navigator/internal/store"
)

// Store keeps every collection in memory. Rows are copied on the way in and
// out so callers never share maps with the store.
type Store struct {
	mu     sync.RWMutex
	schema store.Schema
	tables map[string][]store.Row
	now    func() time.Time
	calls  map[string]int
}

var _ store.Client = (*Store)(nil)

// New creates an empty store for the given tables.
func New(tables ...store.Table) *Store {
	return &Store{
		schema: store.NewSchema(tables...),
		tables: make(map[string][]store.Row, len(tables)),
		now:    time.Now,
		calls:  make(map[string]int),
	}
}

// Calls returns how many times op ("select", "insert", "update", "delete") was invoked.
func (s *Store) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// Seed inserts rows without counting them as calls.
func (s *Store) Seed(collection string, rows ...store.Row) error {
	for _, row := range rows {
		if _, err := s.insert(collection, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Select(ctx context.Context, collection string, q store.Query) ([]store.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("select", collection, err)
	}
	s.mu.Lock()
	s.calls["select"]++
	s.mu.Unlock()

	table, err := s.schema.Table(collection)
	if err != nil {
		return nil, store.Wrap("select", collection, err)
	}
	preds := q.Predicates()
	wants := make([]any, len(preds))
	for i, p := range preds {
		col, ok := table.Column(p.Column)
		if !ok {
			return nil, store.Wrap("select", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, p.Column))
		}
		if wants[i], err = col.Normalize(p.Value); err != nil {
			return nil, store.Wrap("select", collection, err)
		}
	}
	var orderCol store.Column
	if q.Order.Column != "" {
		col, ok := table.Column(q.Order.Column)
		if !ok {
			return nil, store.Wrap("select", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, q.Order.Column))
		}
		orderCol = col
	}

	s.mu.RLock()
	var out []store.Row
	for _, row := range s.tables[collection] {
		if matches(row, preds, wants) {
			out = append(out, row.Clone())
		}
	}
	s.mu.RUnlock()

	if orderCol.Name != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compare(out[i][orderCol.Name], out[j][orderCol.Name])
			if q.Order.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, collection string, row store.Row) (store.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("insert", collection, err)
	}
	s.mu.Lock()
	s.calls["insert"]++
	s.mu.Unlock()
	return s.insert(collection, row)
}

func (s *Store) insert(collection string, row store.Row) (store.Row, error) {
	table, err := s.schema.Table(collection)
	if err != nil {
		return nil, store.Wrap("insert", collection, err)
	}
	stored := make(store.Row, len(table.Columns))
	for k, v := range row {
		col, ok := table.Column(k)
		if !ok {
			return nil, store.Wrap("insert", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, k))
		}
		if stored[k], err = col.Normalize(v); err != nil {
			return nil, store.Wrap("insert", collection, err)
		}
	}
	for _, col := range table.Columns {
		if _, ok := stored[col.Name]; ok && stored[col.Name] != nil {
			continue
		}
		switch {
		case col.Name == store.IDColumn:
			stored[col.Name] = uuid.NewString()
		case col.Name == store.CreatedAtColumn:
			stored[col.Name] = s.now().UTC().Format(store.TimestampLayout)
		case col.Default != nil:
			stored[col.Name], _ = col.Normalize(col.Default)
		default:
			if _, ok := stored[col.Name]; !ok {
				stored[col.Name] = nil
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := stored.ID()
	for _, existing := range s.tables[collection] {
		if existing.ID() == id {
			return nil, store.Wrap("insert", collection, fmt.Errorf("duplicate id %q", id))
		}
	}
	s.tables[collection] = append(s.tables[collection], stored)
	return stored.Clone(), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Row) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("update", collection, err)
	}
	table, err := s.schema.Table(collection)
	if err != nil {
		return store.Wrap("update", collection, err)
	}
	normalized := make(store.Row, len(patch))
	for k, v := range patch {
		col, ok := table.Column(k)
		if !ok {
			return store.Wrap("update", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, k))
		}
		if normalized[k], err = col.Normalize(v); err != nil {
			return store.Wrap("update", collection, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["update"]++
	for _, row := range s.tables[collection] {
		if row.ID() != id {
			continue
		}
		for k, v := range normalized {
			row[k] = v
		}
		return nil
	}
	return &store.NotFoundError{Collection: collection, ID: id}
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("delete", collection, err)
	}
	if _, err := s.schema.Table(collection); err != nil {
		return store.Wrap("delete", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["delete"]++
	rows := s.tables[collection]
	for i, row := range rows {
		if row.ID() == id {
			s.tables[collection] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return &store.NotFoundError{Collection: collection, ID: id}
}

func matches(row store.Row, preds []store.Filter, wants []any) bool {
	for i, p := range preds {
		if compare(row[p.Column], wants[i]) != 0 {
			return false
		}
	}
	return true
}

// compare orders canonical values; nil sorts before everything.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y)
		}
		if y, ok := b.(float64); ok {
			return cmpOrdered(float64(x), y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y)
		}
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, float64(y))
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case []string:
		if y, ok := b.([]string); ok {
			return strings.Compare(strings.Join(x, "\x00"), strings.Join(y, "\x00"))
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
