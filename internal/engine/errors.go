package engine

import (
	"errors"
	"fmt"

	"github.com/tuannm99/ditabase/internal/record"
)

var (
	ErrUnknownTable   = errors.New("ditabase: unknown table")
	ErrUnknownColumn  = errors.New("ditabase: unknown column")
	ErrDuplicateTable = errors.New("ditabase: table already exists")
	ErrEmptySchema    = errors.New("ditabase: table needs at least one column")
	ErrDuplicateCol   = errors.New("ditabase: duplicate column name")
)

// MissingFieldError reports an insert that omitted a column whose value
// cannot be auto-generated.
type MissingFieldError struct {
	Table  string
	Column string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("ditabase: no value for column %q of table %q", e.Column, e.Table)
}

// ConstraintViolation reports an insert or update that would push a
// column's value past its constraint cap.
type ConstraintViolation struct {
	Table  string
	Column string
	Value  record.Value
	Count  int
	Max    int
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("ditabase: constraint violation on %s.%s: value %q already held by %d item(s), max %d",
		e.Table, e.Column, e.Value.String(), e.Count, e.Max)
}
