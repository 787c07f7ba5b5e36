// Package executor is the single entry point surrounding code uses to
// run DSL source: it lexes and parses the whole text, then feeds each
// statement through the validator and the engine in order, stopping at
// the first error. After every successful mutating statement the whole
// database is re-encoded and handed to the save hook (write-through
// durability), so a crash between statements never loses an
// acknowledged write.
package executor

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/ditabase/internal/dql/parser"
	"github.com/tuannm99/ditabase/internal/dql/validator"
	"github.com/tuannm99/ditabase/internal/engine"
)

// SaveFunc persists the database after a mutation. A nil SaveFunc
// disables persistence (in-memory sessions and tests).
type SaveFunc func(*engine.Database) error

type Executor struct {
	db   *engine.Database
	save SaveFunc
}

func New(db *engine.Database, save SaveFunc) *Executor {
	return &Executor{db: db, save: save}
}

// Execute runs every statement in source, in order. It returns one
// Result per completed statement; on error the results of the already
// completed statements accompany the error.
func (e *Executor) Execute(source string) ([]*Result, error) {
	stmts, err := parser.ParseSource(source)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, stmt := range stmts {
		op, err := validator.Validate(stmt, e.db)
		if err != nil {
			return results, err
		}
		res, mutated, err := e.apply(op)
		if err != nil {
			return results, err
		}
		if mutated && e.save != nil {
			if err := e.save(e.db); err != nil {
				return results, fmt.Errorf("ditabase: save: %w", err)
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Executor) apply(op validator.Op) (*Result, bool, error) {
	switch o := op.(type) {
	case *validator.CreateTableOp:
		created, err := e.db.CreateTable(o.Name, o.Columns, o.TolerateExisting)
		if err != nil {
			return nil, false, err
		}
		slog.Debug("create table", "table", o.Name, "created", created)
		res := &Result{}
		if created {
			res.AffectedRows = 1
		}
		return res, created, nil

	case *validator.InsertOp:
		t, err := e.db.Table(o.Table)
		if err != nil {
			return nil, false, err
		}
		if _, err := t.Insert(o.Fields); err != nil {
			return nil, false, err
		}
		slog.Debug("insert item", "table", o.Table)
		return &Result{AffectedRows: 1}, true, nil

	case *validator.PrintTableOp:
		t, err := e.db.Table(o.Table)
		if err != nil {
			return nil, false, err
		}
		return tableResult(t), false, nil

	case *validator.PrintItemOp:
		t, err := e.db.Table(o.Table)
		if err != nil {
			return nil, false, err
		}
		res := &Result{Columns: []string{o.Column}}
		if v, ok := t.SelectField(o.Column, o.Where.Column, o.Where.Value); ok {
			res.Rows = [][]string{{v.String()}}
			res.AffectedRows = 1
		}
		return res, false, nil

	case *validator.DeleteItemsOp:
		t, err := e.db.Table(o.Table)
		if err != nil {
			return nil, false, err
		}
		removed := t.Delete(o.Conditions)
		slog.Debug("delete items", "table", o.Table, "removed", removed)
		return &Result{AffectedRows: int64(removed)}, removed > 0, nil

	case *validator.DropTableOp:
		if err := e.db.DropTable(o.Table); err != nil {
			return nil, false, err
		}
		slog.Debug("drop table", "table", o.Table)
		return &Result{AffectedRows: 1}, true, nil

	case *validator.UpdateOp:
		t, err := e.db.Table(o.Table)
		if err != nil {
			return nil, false, err
		}
		updated, err := t.Update(o.Column, o.OldValue, o.NewValue, o.Where)
		if err != nil {
			return nil, false, err
		}
		slog.Debug("change value", "table", o.Table, "column", o.Column, "updated", updated)
		return &Result{AffectedRows: int64(updated)}, updated > 0, nil

	default:
		return nil, false, fmt.Errorf("ditabase: unsupported operation %T", op)
	}
}

func tableResult(t *engine.Table) *Result {
	res := &Result{Columns: make([]string, 0, t.Schema.NumCols())}
	for _, col := range t.Schema.Cols {
		res.Columns = append(res.Columns, col.Name)
	}
	for _, item := range t.Select() {
		row := make([]string, 0, len(res.Columns))
		for _, col := range t.Schema.Cols {
			row = append(row, item[col.Name].String())
		}
		res.Rows = append(res.Rows, row)
	}
	res.AffectedRows = int64(len(res.Rows))
	return res
}
