// Package validator type-checks and name-resolves parsed statements
// against the live schema, producing typed operations for the executor.
// Constraint capacity is deliberately left to the engine, which checks
// and applies it in one step.
package validator

import (
	"fmt"

	"github.com/tuannm99/ditabase/internal/dql/parser"
	"github.com/tuannm99/ditabase/internal/engine"
	"github.com/tuannm99/ditabase/internal/record"
)

// TypeError reports a literal that does not fit its column's type.
type TypeError struct {
	Column  string
	Want    record.Type
	Literal string
	Cause   error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("ditabase: column %q expects %s, got %q: %v",
		e.Column, e.Want, e.Literal, e.Cause)
}

// Op is a validated, executable operation.
type Op interface {
	opNode()
}

type CreateTableOp struct {
	Name             string
	Columns          []record.Column
	TolerateExisting bool
}

func (*CreateTableOp) opNode() {}

type InsertOp struct {
	Table  string
	Fields map[string]record.Value
}

func (*InsertOp) opNode() {}

type PrintTableOp struct {
	Table string
}

func (*PrintTableOp) opNode() {}

type PrintItemOp struct {
	Table  string
	Column string
	Where  engine.Cond
}

func (*PrintItemOp) opNode() {}

type DeleteItemsOp struct {
	Table      string
	Conditions []engine.Cond
}

func (*DeleteItemsOp) opNode() {}

type DropTableOp struct {
	Table string
}

func (*DropTableOp) opNode() {}

type UpdateOp struct {
	Table    string
	Column   string
	OldValue record.Value
	NewValue record.Value
	Where    *engine.Cond
}

func (*UpdateOp) opNode() {}

// Validate resolves and type-checks one statement against db.
func Validate(stmt parser.Statement, db *engine.Database) (Op, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return validateCreate(s)
	case *parser.InsertStmt:
		return validateInsert(s, db)
	case *parser.PrintTableStmt:
		if _, err := db.Table(s.Table); err != nil {
			return nil, err
		}
		return &PrintTableOp{Table: s.Table}, nil
	case *parser.PrintItemStmt:
		return validatePrintItem(s, db)
	case *parser.DeleteItemStmt:
		return validateDeleteItems(s, db)
	case *parser.DeleteTableStmt:
		if _, err := db.Table(s.Table); err != nil {
			return nil, err
		}
		return &DropTableOp{Table: s.Table}, nil
	case *parser.ChangeValueStmt:
		return validateChange(s, db)
	default:
		return nil, fmt.Errorf("ditabase: unsupported statement %T", stmt)
	}
}

func validateCreate(s *parser.CreateTableStmt) (Op, error) {
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("%w: %q", engine.ErrEmptySchema, s.Name)
	}
	seen := make(map[string]bool, len(s.Columns))
	cols := make([]record.Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: %q in table %q", engine.ErrDuplicateCol, c.Name, s.Name)
		}
		seen[c.Name] = true
		cols = append(cols, record.Column{Name: c.Name, Type: c.Type, Constraint: c.Constraint})
	}
	// IF EXISTS IS FALSE reads as "tolerate an existing table"; TRUE
	// (and an omitted clause) makes a duplicate an error.
	return &CreateTableOp{
		Name:             s.Name,
		Columns:          cols,
		TolerateExisting: !s.IfExists,
	}, nil
}

func validateInsert(s *parser.InsertStmt, db *engine.Database) (Op, error) {
	t, err := db.Table(s.Table)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]record.Value, len(s.Fields))
	for _, f := range s.Fields {
		col, ok := t.Schema.Column(f.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in table %q", engine.ErrUnknownColumn, f.Name, s.Table)
		}
		v, err := coerce(col, f.Value)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = v
	}

	// Pre-check for missing fields so the statement fails before any
	// UUID generation; the engine re-checks on the same rule.
	for _, col := range t.Schema.Cols {
		if _, ok := fields[col.Name]; !ok && col.Type != record.TypeUuid {
			return nil, &engine.MissingFieldError{Table: s.Table, Column: col.Name}
		}
	}

	return &InsertOp{Table: s.Table, Fields: fields}, nil
}

func validatePrintItem(s *parser.PrintItemStmt, db *engine.Database) (Op, error) {
	t, err := db.Table(s.Table)
	if err != nil {
		return nil, err
	}
	if _, ok := t.Schema.Column(s.Column); !ok {
		return nil, fmt.Errorf("%w: %q in table %q", engine.ErrUnknownColumn, s.Column, s.Table)
	}
	where, err := condition(t, s.Table, s.WhereColumn, s.WhereValue)
	if err != nil {
		return nil, err
	}
	return &PrintItemOp{Table: s.Table, Column: s.Column, Where: where}, nil
}

func validateDeleteItems(s *parser.DeleteItemStmt, db *engine.Database) (Op, error) {
	t, err := db.Table(s.Table)
	if err != nil {
		return nil, err
	}
	conds := make([]engine.Cond, 0, len(s.Conditions))
	for _, c := range s.Conditions {
		cond, err := condition(t, s.Table, c.Name, c.Value)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return &DeleteItemsOp{Table: s.Table, Conditions: conds}, nil
}

func validateChange(s *parser.ChangeValueStmt, db *engine.Database) (Op, error) {
	t, err := db.Table(s.Table)
	if err != nil {
		return nil, err
	}
	col, ok := t.Schema.Column(s.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %q in table %q", engine.ErrUnknownColumn, s.Column, s.Table)
	}
	oldVal, err := coerce(col, s.OldValue)
	if err != nil {
		return nil, err
	}
	newVal, err := coerce(col, s.NewValue)
	if err != nil {
		return nil, err
	}

	op := &UpdateOp{Table: s.Table, Column: s.Column, OldValue: oldVal, NewValue: newVal}
	if s.WhereColumn != "" {
		where, err := condition(t, s.Table, s.WhereColumn, s.WhereValue)
		if err != nil {
			return nil, err
		}
		op.Where = &where
	}
	return op, nil
}

func condition(t *engine.Table, table, column string, lit parser.Literal) (engine.Cond, error) {
	col, ok := t.Schema.Column(column)
	if !ok {
		return engine.Cond{}, fmt.Errorf("%w: %q in table %q", engine.ErrUnknownColumn, column, table)
	}
	v, err := coerce(col, lit)
	if err != nil {
		return engine.Cond{}, err
	}
	return engine.Cond{Column: column, Value: v}, nil
}

// coerce turns raw literal text into a typed value. Bare numbers are
// only meaningful for integer and boolean columns; quoted literals are
// accepted everywhere (the original DSL quotes all values).
func coerce(col record.Column, lit parser.Literal) (record.Value, error) {
	if !lit.Quoted {
		switch col.Type {
		case record.TypeInt16, record.TypeInt32, record.TypeInt64, record.TypeBool:
		default:
			return record.Value{}, &TypeError{
				Column: col.Name, Want: col.Type, Literal: lit.Text,
				Cause: fmt.Errorf("bare number not allowed here"),
			}
		}
	}
	v, err := record.Coerce(col.Type, lit.Text)
	if err != nil {
		return record.Value{}, &TypeError{Column: col.Name, Want: col.Type, Literal: lit.Text, Cause: err}
	}
	return v, nil
}
