package parser

import "github.com/tuannm99/ditabase/internal/record"

// Statement is the root interface for all DSL statements.
type Statement interface {
	stmtNode()
}

// Literal is raw, unvalidated literal text straight from the source.
// Quoted distinguishes "42" from 42; coercion happens in the validator.
type Literal struct {
	Text   string
	Quoted bool
	Line   int
	Column int
}

// FieldAssign is one "name = literal" pair inside braces.
type FieldAssign struct {
	Name  string
	Value Literal
}

// ColumnDef is one column in a NEW TABLE statement.
type ColumnDef struct {
	Name       string
	Type       record.Type
	Constraint record.Constraint
}

// CreateTableStmt: NEW TABLE [IF EXISTS IS (TRUE|FALSE)] { cols } name ;
// IfExists records the flag literally; when the clause is omitted the
// statement behaves as IF EXISTS IS TRUE (duplicate is an error).
type CreateTableStmt struct {
	Name     string
	Columns  []ColumnDef
	IfExists bool
}

func (*CreateTableStmt) stmtNode() {}

// InsertStmt: ADD ITEM { f = lit, ... } TO TABLE name ;
type InsertStmt struct {
	Table  string
	Fields []FieldAssign
}

func (*InsertStmt) stmtNode() {}

// PrintTableStmt: PRINT TABLE name ;
type PrintTableStmt struct {
	Table string
}

func (*PrintTableStmt) stmtNode() {}

// PrintItemStmt: PRINT ITEM col WHERE f = lit FROM TABLE name ;
type PrintItemStmt struct {
	Table       string
	Column      string
	WhereColumn string
	WhereValue  Literal
}

func (*PrintItemStmt) stmtNode() {}

// DeleteItemStmt: DELETE ITEM { f = lit, ... } FROM TABLE name ;
// All conditions are ANDed; every matching item is removed.
type DeleteItemStmt struct {
	Table      string
	Conditions []FieldAssign
}

func (*DeleteItemStmt) stmtNode() {}

// DeleteTableStmt: DELETE TABLE name ;
type DeleteTableStmt struct {
	Table string
}

func (*DeleteTableStmt) stmtNode() {}

// ChangeValueStmt: CHANGE VALUE OF col = old TO new FROM TABLE name
// [WHERE f = lit] ;
type ChangeValueStmt struct {
	Table       string
	Column      string
	OldValue    Literal
	NewValue    Literal
	WhereColumn string // empty when no WHERE clause
	WhereValue  Literal
}

func (*ChangeValueStmt) stmtNode() {}
