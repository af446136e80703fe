// Package sqlstore implements store.Client over database/sql for a local
// SQLite file (modernc.org/sqlite) or a Postgres database (pgx stdlib driver).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/five82/navigator/internal/store"
)

// Dialect selects driver name, placeholders and column types.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

const (
	defaultMaxOpenConns    = 10
	defaultConnMaxLifetime = 5 * time.Minute
)

// Store is a store.Client backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	schema  store.Schema
	tables  []store.Table
	log     *zap.Logger
	now     func() time.Time
}

var _ store.Client = (*Store)(nil)

// ParseDialect maps a configured backend name onto a dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported sql dialect %q", name)
}

// Open connects to dsn and verifies the connection. It does not create tables;
// call Migrate for that.
func Open(ctx context.Context, dialect Dialect, dsn string, tables []store.Table, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	driver := "sqlite"
	if dialect == Postgres {
		driver = "pgx"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == SQLite {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	log.Debug("database connection established", zap.String("dialect", string(dialect)))
	return &Store{
		db:      db,
		dialect: dialect,
		schema:  store.NewSchema(tables...),
		tables:  tables,
		log:     log,
		now:     time.Now,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate creates any missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	for _, t := range s.tables {
		stmt := s.createTable(t)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		s.log.Debug("table ready", zap.String("table", t.Name))
	}
	return nil
}

func (s *Store) createTable(t store.Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := quote(c.Name) + " " + s.columnType(c.Kind)
		if c.Name == store.IDColumn {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(t.Name), strings.Join(defs, ", "))
}

func (s *Store) columnType(k store.Kind) string {
	switch k {
	case store.KindInt:
		if s.dialect == Postgres {
			return "BIGINT"
		}
		return "INTEGER"
	case store.KindFloat:
		if s.dialect == Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case store.KindBool:
		if s.dialect == Postgres {
			return "BOOLEAN"
		}
		return "INTEGER"
	default:
		// String lists are stored as JSON text in both dialects.
		return "TEXT"
	}
}

func (s *Store) Select(ctx context.Context, collection string, q store.Query) ([]store.Row, error) {
	table, err := s.schema.Table(collection)
	if err != nil {
		return nil, store.Wrap("select", collection, err)
	}
	var (
		where []string
		args  []any
	)
	for _, p := range q.Predicates() {
		col, ok := table.Column(p.Column)
		if !ok {
			return nil, store.Wrap("select", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, p.Column))
		}
		v, err := s.bind(col, p.Value)
		if err != nil {
			return nil, store.Wrap("select", collection, err)
		}
		args = append(args, v)
		where = append(where, quote(col.Name)+" = "+s.placeholder(len(args)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", quoteAll(table.ColumnNames()), quote(table.Name))
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if q.Order.Column != "" {
		if _, ok := table.Column(q.Order.Column); !ok {
			return nil, store.Wrap("select", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, q.Order.Column))
		}
		dir := "ASC"
		if q.Order.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", quote(q.Order.Column), dir)
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, store.Wrap("select", collection, err)
	}
	defer func() { _ = rows.Close() }()

	var out []store.Row
	for rows.Next() {
		raw := make([]any, len(table.Columns))
		ptrs := make([]any, len(raw))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, store.Wrap("select", collection, err)
		}
		row := make(store.Row, len(raw))
		for i, col := range table.Columns {
			v, err := col.Normalize(raw[i])
			if err != nil {
				return nil, store.Wrap("select", collection, err)
			}
			row[col.Name] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("select", collection, err)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, collection string, row store.Row) (store.Row, error) {
	table, err := s.schema.Table(collection)
	if err != nil {
		return nil, store.Wrap("insert", collection, err)
	}
	for k := range row {
		if _, ok := table.Column(k); !ok {
			return nil, store.Wrap("insert", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, k))
		}
	}

	stored := make(store.Row, len(table.Columns))
	cols := make([]string, 0, len(table.Columns))
	marks := make([]string, 0, len(table.Columns))
	args := make([]any, 0, len(table.Columns))
	for _, col := range table.Columns {
		v := row[col.Name]
		if v == nil {
			switch {
			case col.Name == store.IDColumn:
				v = uuid.NewString()
			case col.Name == store.CreatedAtColumn:
				v = s.now().UTC().Format(store.TimestampLayout)
			default:
				v = col.Default
			}
		}
		norm, err := col.Normalize(v)
		if err != nil {
			return nil, store.Wrap("insert", collection, err)
		}
		stored[col.Name] = norm
		bound, err := s.bind(col, norm)
		if err != nil {
			return nil, store.Wrap("insert", collection, err)
		}
		cols = append(cols, quote(col.Name))
		args = append(args, bound)
		marks = append(marks, s.placeholder(len(args)))
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, store.Wrap("insert", collection, err)
	}
	return stored, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Row) error {
	table, err := s.schema.Table(collection)
	if err != nil {
		return store.Wrap("update", collection, err)
	}
	if len(patch) == 0 {
		return store.Wrap("update", collection, fmt.Errorf("empty patch"))
	}
	sets := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	// Iterate table columns so the statement text is stable.
	for _, col := range table.Columns {
		v, ok := patch[col.Name]
		if !ok {
			continue
		}
		bound, err := s.bind(col, v)
		if err != nil {
			return store.Wrap("update", collection, err)
		}
		args = append(args, bound)
		sets = append(sets, quote(col.Name)+" = "+s.placeholder(len(args)))
	}
	if len(sets) != len(patch) {
		for k := range patch {
			if _, ok := table.Column(k); !ok {
				return store.Wrap("update", collection, fmt.Errorf("%w: %s", store.ErrUnknownColumn, k))
			}
		}
	}
	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		quote(table.Name), strings.Join(sets, ", "), quote(store.IDColumn), s.placeholder(len(args)))
	return s.execOne(ctx, "update", collection, id, stmt, args...)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	table, err := s.schema.Table(collection)
	if err != nil {
		return store.Wrap("delete", collection, err)
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", quote(table.Name), quote(store.IDColumn), s.placeholder(1))
	return s.execOne(ctx, "delete", collection, id, stmt, id)
}

func (s *Store) execOne(ctx context.Context, op, collection, id, stmt string, args ...any) error {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return store.Wrap(op, collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Wrap(op, collection, err)
	}
	if n == 0 {
		return &store.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}

// bind converts a value into something both drivers accept.
func (s *Store) bind(col store.Column, v any) (any, error) {
	norm, err := col.Normalize(v)
	if err != nil || norm == nil {
		return norm, err
	}
	switch x := norm.(type) {
	case []string:
		data, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		return string(data), nil
	case bool:
		if s.dialect == SQLite {
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		}
	}
	return norm, nil
}

func (s *Store) placeholder(n int) string {
	if s.dialect == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteAll(idents []string) string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = quote(id)
	}
	return strings.Join(out, ", ")
}
