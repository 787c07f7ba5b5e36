// Package ditabase is the top-level facade for the Ditabase engine: a
// small embedded database with a declarative statement language and a
// compact binary file format.
//
// A Session is an explicit handle over one loaded database file. There
// is no hidden global state; callers create a session with Open and
// thread it through every call.
//
//	s, err := ditabase.Open("app.dtb")
//	...
//	_, err = s.Execute(`ADD ITEM { name="John Doe" } TO TABLE users;`)
//
// One session owns its backing file exclusively. Sharing a .dtb file
// between processes is not supported.
package ditabase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tuannm99/ditabase/internal/dql/executor"
	"github.com/tuannm99/ditabase/internal/dtb"
	"github.com/tuannm99/ditabase/internal/engine"
	"github.com/tuannm99/ditabase/internal/record"
)

// Result re-exports the executor result type for facade callers.
type Result = executor.Result

// Session is a live handle over one database file. Mutating statements
// are written through to the file before they are reported complete.
type Session struct {
	path string
	db   *engine.Database
	exec *executor.Executor
}

// Open loads the database at path, or starts an empty one when the file
// does not exist yet. A file that exists but fails to decode is fatal:
// no partial database is usable.
func Open(path string) (*Session, error) {
	if filepath.Ext(path) != ".dtb" {
		path += ".dtb"
	}

	db, err := loadOrEmpty(path)
	if err != nil {
		return nil, err
	}

	s := &Session{path: path, db: db}
	s.exec = executor.New(db, func(db *engine.Database) error {
		return writeFileAtomic(path, db)
	})
	return s, nil
}

// InMemory starts a session with no backing file; mutations are never
// persisted.
func InMemory() *Session {
	db := engine.NewDatabase()
	return &Session{db: db, exec: executor.New(db, nil)}
}

func loadOrEmpty(path string) (*engine.Database, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return engine.NewDatabase(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ditabase: open %s: %w", path, err)
	}
	db, err := dtb.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("ditabase: load %s: %w", path, err)
	}
	return db, nil
}

// writeFileAtomic encodes the whole database and replaces path in one
// rename, so a crash mid-write cannot leave a truncated file behind.
func writeFileAtomic(path string, db *engine.Database) error {
	data, err := dtb.Encode(db)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the backing file path, empty for in-memory sessions.
func (s *Session) Path() string { return s.path }

// Execute runs every statement in source against the session's
// database, in order, stopping at the first error.
func (s *Session) Execute(source string) ([]*Result, error) {
	return s.exec.Execute(source)
}

// ExecuteFile reads a .ditabs source file and executes it.
func (s *Session) ExecuteFile(path string) ([]*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ditabase: read %s: %w", path, err)
	}
	return s.Execute(string(src))
}

// Table returns a read handle over one table.
func (s *Session) Table(name string) (*TableHandle, error) {
	t, err := s.db.Table(name)
	if err != nil {
		return nil, err
	}
	return &TableHandle{t: t}, nil
}

// TableNames lists tables in creation order.
func (s *Session) TableNames() []string { return s.db.TableNames() }

// Compile executes a .ditabs source file against the database stored at
// outputPath (loaded first when it already exists) and writes the
// result back.
func Compile(sourcePath, outputPath string) error {
	s, err := Open(outputPath)
	if err != nil {
		return err
	}
	if _, err := s.ExecuteFile(sourcePath); err != nil {
		return err
	}
	// Executing a read-only file never touches disk; make sure the
	// output exists even then.
	return writeFileAtomic(s.path, s.db)
}

// TableHandle is a read-only view of one table. Values are returned in
// their display form, the same text a literal for them would use.
type TableHandle struct {
	t *engine.Table
}

// Columns returns the schema in declaration order.
func (h *TableHandle) Columns() []record.Column {
	out := make([]record.Column, len(h.t.Schema.Cols))
	copy(out, h.t.Schema.Cols)
	return out
}

// Len returns the current number of items.
func (h *TableHandle) Len() int { return h.t.Len() }

// Items returns all rows column-major: column name to the ordered
// values of that column. All slices have equal length.
func (h *TableHandle) Items() map[string][]string {
	items := h.t.Select()
	out := make(map[string][]string, h.t.Schema.NumCols())
	for _, col := range h.t.Schema.Cols {
		vals := make([]string, 0, len(items))
		for _, item := range items {
			vals = append(vals, item[col.Name].String())
		}
		out[col.Name] = vals
	}
	return out
}

// Item returns the first row whose column equals value, row-major, or
// nil when nothing matches or the column is unknown.
func (h *TableHandle) Item(column, value string) map[string]string {
	col, ok := h.t.Schema.Column(column)
	if !ok {
		return nil
	}
	v, err := record.Coerce(col.Type, value)
	if err != nil {
		return nil
	}
	for _, item := range h.t.Select(engine.Cond{Column: column, Value: v}) {
		out := make(map[string]string, len(item))
		for name, val := range item {
			out[name] = val.String()
		}
		return out
	}
	return nil
}
