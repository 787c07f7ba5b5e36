package engine

import (
	"fmt"

	"github.com/tuannm99/ditabase/internal/record"
)

// Database owns every table, keyed by name and kept in creation order.
// It is exclusively owned by one session; concurrent access from other
// processes is undefined behavior.
type Database struct {
	order  []string
	tables map[string]*Table
}

func NewDatabase() *Database {
	return &Database{tables: make(map[string]*Table)}
}

// CreateTable adds a table. A duplicate name is an error unless
// tolerateExisting is set, in which case the create is a silent no-op
// and created is false.
func (db *Database) CreateTable(name string, cols []record.Column, tolerateExisting bool) (created bool, err error) {
	if _, ok := db.tables[name]; ok {
		if tolerateExisting {
			return false, nil
		}
		return false, fmt.Errorf("%w: %q", ErrDuplicateTable, name)
	}
	t, err := NewTable(name, cols)
	if err != nil {
		return false, err
	}
	db.tables[name] = t
	db.order = append(db.order, name)
	return true, nil
}

// AddTable installs an already-built table, used by the codec on load.
func (db *Database) AddTable(t *Table) error {
	if _, ok := db.tables[t.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTable, t.Name)
	}
	db.tables[t.Name] = t
	db.order = append(db.order, t.Name)
	return nil
}

func (db *Database) DropTable(name string) error {
	if _, ok := db.tables[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	delete(db.tables, name)
	for i, n := range db.order {
		if n == name {
			db.order = append(db.order[:i], db.order[i+1:]...)
			break
		}
	}
	return nil
}

func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// TableNames returns table names in creation order.
func (db *Database) TableNames() []string {
	out := make([]string, len(db.order))
	copy(out, db.order)
	return out
}

func (db *Database) NumTables() int { return len(db.order) }
