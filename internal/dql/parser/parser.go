package parser

import (
	"fmt"

	"github.com/tuannm99/ditabase/internal/record"
)

// ParseError reports the first malformed statement.
type ParseError struct {
	Line     int
	Column   int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: expected %s, found %s",
		e.Line, e.Column, e.Expected, e.Found)
}

type stmtParser struct {
	tokens []Token
	pos    int
}

// Parse consumes a token stream and returns the statement list. It stops
// at the first malformed statement.
func Parse(tokens []Token) ([]Statement, error) {
	p := &stmtParser{tokens: tokens}
	var stmts []Statement
	for !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseSource is the convenience path: lex then parse.
func ParseSource(source string) ([]Statement, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *stmtParser) statement() (Statement, error) {
	switch {
	case p.match(TokNew):
		return p.createTable()
	case p.match(TokAdd):
		return p.insert()
	case p.match(TokPrint):
		if p.check(TokItem) {
			return p.printItem()
		}
		return p.printTable()
	case p.match(TokDelete):
		if p.check(TokTable) {
			return p.deleteTable()
		}
		return p.deleteItem()
	case p.match(TokRemove):
		// REMOVE TABLE is a synonym of DELETE TABLE.
		return p.deleteTable()
	case p.match(TokChange):
		return p.changeValue()
	default:
		return nil, p.errorf("a statement keyword")
	}
}

func (p *stmtParser) createTable() (Statement, error) {
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}

	// Omitting the clause asserts the table does not exist yet.
	ifExists := true
	if p.match(TokIf) {
		if _, err := p.consume(TokExists); err != nil {
			return nil, err
		}
		if _, err := p.consume(TokIs); err != nil {
			return nil, err
		}
		switch {
		case p.match(TokTrue):
			ifExists = true
		case p.match(TokFalse):
			ifExists = false
		default:
			return nil, p.errorf("TRUE or FALSE")
		}
	}

	if _, err := p.consume(TokLBrace); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for !p.check(TokRBrace) {
		col, err := p.columnDef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if !p.check(TokRBrace) {
			if _, err := p.consume(TokComma); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.consume(TokRBrace); err != nil {
		return nil, err
	}

	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}

	return &CreateTableStmt{Name: name.Text, Columns: cols, IfExists: ifExists}, nil
}

// columnDef parses [UNIC] [MAIN] Type Name. Only the orderings none,
// UNIC, MAIN, and UNIC MAIN are accepted.
func (p *stmtParser) columnDef() (ColumnDef, error) {
	unic := p.match(TokUnic)
	main := p.match(TokMain)

	constraint := record.ConstraintNone
	switch {
	case unic && main:
		constraint = record.ConstraintUnicMain
	case unic:
		constraint = record.ConstraintUnic
	case main:
		constraint = record.ConstraintMain
	}
	if p.check(TokUnic) || p.check(TokMain) {
		return ColumnDef{}, p.errorf("a column type")
	}

	typ, err := p.columnType()
	if err != nil {
		return ColumnDef{}, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return ColumnDef{}, err
	}
	return ColumnDef{Name: name.Text, Type: typ, Constraint: constraint}, nil
}

func (p *stmtParser) columnType() (record.Type, error) {
	switch {
	case p.match(TokUuid):
		return record.TypeUuid, nil
	case p.match(TokStr):
		return record.TypeStr, nil
	case p.match(TokPassword):
		return record.TypePassword, nil
	case p.match(TokInt16):
		return record.TypeInt16, nil
	case p.match(TokInt32):
		return record.TypeInt32, nil
	case p.match(TokInt64):
		return record.TypeInt64, nil
	case p.match(TokChar):
		return record.TypeChar, nil
	case p.match(TokBool):
		return record.TypeBool, nil
	default:
		return 0, p.errorf("a column type")
	}
}

func (p *stmtParser) insert() (Statement, error) {
	if _, err := p.consume(TokItem); err != nil {
		return nil, err
	}
	fields, err := p.fieldBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokTo); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}
	return &InsertStmt{Table: name.Text, Fields: fields}, nil
}

func (p *stmtParser) printTable() (Statement, error) {
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}
	return &PrintTableStmt{Table: name.Text}, nil
}

func (p *stmtParser) printItem() (Statement, error) {
	p.advance() // ITEM
	column, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokWhere); err != nil {
		return nil, err
	}
	whereCol, whereVal, err := p.condition()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokFrom); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}
	return &PrintItemStmt{
		Table:       name.Text,
		Column:      column.Text,
		WhereColumn: whereCol,
		WhereValue:  whereVal,
	}, nil
}

func (p *stmtParser) deleteItem() (Statement, error) {
	if _, err := p.consume(TokItem); err != nil {
		return nil, err
	}
	conds, err := p.fieldBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokFrom); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}
	return &DeleteItemStmt{Table: name.Text, Conditions: conds}, nil
}

func (p *stmtParser) deleteTable() (Statement, error) {
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}
	return &DeleteTableStmt{Table: name.Text}, nil
}

func (p *stmtParser) changeValue() (Statement, error) {
	if _, err := p.consume(TokValue); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokOf); err != nil {
		return nil, err
	}
	column, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokEquals); err != nil {
		return nil, err
	}
	oldVal, err := p.literal()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokTo); err != nil {
		return nil, err
	}
	newVal, err := p.literal()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokFrom); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokTable); err != nil {
		return nil, err
	}
	name, err := p.consume(TokIdent)
	if err != nil {
		return nil, err
	}

	stmt := &ChangeValueStmt{
		Table:    name.Text,
		Column:   column.Text,
		OldValue: oldVal,
		NewValue: newVal,
	}
	if p.match(TokWhere) {
		whereCol, whereVal, err := p.condition()
		if err != nil {
			return nil, err
		}
		stmt.WhereColumn = whereCol
		stmt.WhereValue = whereVal
	}
	if _, err := p.consume(TokSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// fieldBlock parses { name = literal (, name = literal)* }.
func (p *stmtParser) fieldBlock() ([]FieldAssign, error) {
	if _, err := p.consume(TokLBrace); err != nil {
		return nil, err
	}
	var fields []FieldAssign
	for !p.check(TokRBrace) {
		name, val, err := p.condition()
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldAssign{Name: name, Value: val})
		if !p.check(TokRBrace) {
			if _, err := p.consume(TokComma); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.consume(TokRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

// condition parses name = literal.
func (p *stmtParser) condition() (string, Literal, error) {
	name, err := p.consume(TokIdent)
	if err != nil {
		return "", Literal{}, err
	}
	if _, err := p.consume(TokEquals); err != nil {
		return "", Literal{}, err
	}
	val, err := p.literal()
	if err != nil {
		return "", Literal{}, err
	}
	return name.Text, val, nil
}

func (p *stmtParser) literal() (Literal, error) {
	switch {
	case p.check(TokString):
		tok := p.advance()
		return Literal{Text: tok.Text, Quoted: true, Line: tok.Line, Column: tok.Column}, nil
	case p.check(TokNumber):
		tok := p.advance()
		return Literal{Text: tok.Text, Line: tok.Line, Column: tok.Column}, nil
	default:
		return Literal{}, p.errorf("a literal")
	}
}

func (p *stmtParser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *stmtParser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *stmtParser) consume(kind TokenKind) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.errorf(kind.String())
}

func (p *stmtParser) advance() Token {
	tok := p.tokens[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *stmtParser) peek() Token { return p.tokens[p.pos] }

func (p *stmtParser) atEnd() bool { return p.peek().Kind == TokEOF }

func (p *stmtParser) errorf(expected string) error {
	tok := p.peek()
	found := tok.Kind.String()
	if tok.Kind == TokIdent || tok.Kind == TokString || tok.Kind == TokNumber {
		found = fmt.Sprintf("%s %q", found, tok.Text)
	}
	return &ParseError{Line: tok.Line, Column: tok.Column, Expected: expected, Found: found}
}
