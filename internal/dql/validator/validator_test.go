package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/ditabase/internal/dql/parser"
	"github.com/tuannm99/ditabase/internal/engine"
	"github.com/tuannm99/ditabase/internal/record"
)

func testDB(t *testing.T) *engine.Database {
	t.Helper()
	db := engine.NewDatabase()
	_, err := db.CreateTable("users", []record.Column{
		{Name: "id", Type: record.TypeUuid, Constraint: record.ConstraintUnicMain},
		{Name: "name", Type: record.TypeStr},
		{Name: "age", Type: record.TypeInt16},
		{Name: "active", Type: record.TypeBool},
	}, false)
	require.NoError(t, err)
	return db
}

func validateOne(t *testing.T, db *engine.Database, src string) (Op, error) {
	t.Helper()
	stmts, err := parser.ParseSource(src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return Validate(stmts[0], db)
}

func TestValidate_CreateTable(t *testing.T) {
	op, err := validateOne(t, testDB(t), `NEW TABLE IF EXISTS IS FALSE { STR name } t;`)
	require.NoError(t, err)

	create, ok := op.(*CreateTableOp)
	require.True(t, ok, "want *CreateTableOp, got %T", op)
	assert.Equal(t, "t", create.Name)
	assert.True(t, create.TolerateExisting, "IF EXISTS IS FALSE tolerates an existing table")

	op, err = validateOne(t, testDB(t), `NEW TABLE IF EXISTS IS TRUE { STR name } t;`)
	require.NoError(t, err)
	assert.False(t, op.(*CreateTableOp).TolerateExisting)
}

func TestValidate_CreateTable_DuplicateColumn(t *testing.T) {
	_, err := validateOne(t, testDB(t), `NEW TABLE { STR a, INT32 a } t;`)
	require.ErrorIs(t, err, engine.ErrDuplicateCol)
}

func TestValidate_Insert(t *testing.T) {
	op, err := validateOne(t, testDB(t),
		`ADD ITEM { name="John", age="30", active="1" } TO TABLE users;`)
	require.NoError(t, err)

	ins, ok := op.(*InsertOp)
	require.True(t, ok, "want *InsertOp, got %T", op)
	assert.Equal(t, record.StrValue(record.TypeStr, "John"), ins.Fields["name"])
	assert.Equal(t, record.IntValue(record.TypeInt16, 30), ins.Fields["age"])
	assert.Equal(t, record.BoolValue(true), ins.Fields["active"])
}

func TestValidate_Insert_BareNumbers(t *testing.T) {
	// bare numbers are fine for integer and boolean columns
	op, err := validateOne(t, testDB(t),
		`ADD ITEM { name="x", age=30, active=1 } TO TABLE users;`)
	require.NoError(t, err)
	assert.Equal(t, int64(30), op.(*InsertOp).Fields["age"].Int)

	// but not for string columns
	_, err = validateOne(t, testDB(t),
		`ADD ITEM { name=42, age="1", active="1" } TO TABLE users;`)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "name", typeErr.Column)
}

func TestValidate_Insert_UnknownTable(t *testing.T) {
	_, err := validateOne(t, testDB(t), `ADD ITEM { x="1" } TO TABLE nope;`)
	require.ErrorIs(t, err, engine.ErrUnknownTable)
}

func TestValidate_Insert_UnknownColumn(t *testing.T) {
	_, err := validateOne(t, testDB(t),
		`ADD ITEM { bogus="1", name="x", age="1", active="1" } TO TABLE users;`)
	require.ErrorIs(t, err, engine.ErrUnknownColumn)
}

func TestValidate_Insert_MissingField(t *testing.T) {
	_, err := validateOne(t, testDB(t), `ADD ITEM { name="x", age="1" } TO TABLE users;`)
	var missing *engine.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "active", missing.Column)
}

func TestValidate_Insert_UuidMayBeOmitted(t *testing.T) {
	op, err := validateOne(t, testDB(t),
		`ADD ITEM { name="x", age="1", active="0" } TO TABLE users;`)
	require.NoError(t, err)
	_, hasID := op.(*InsertOp).Fields["id"]
	assert.False(t, hasID, "omitted UUID is generated by the engine, not the validator")
}

func TestValidate_Insert_TypeError(t *testing.T) {
	_, err := validateOne(t, testDB(t),
		`ADD ITEM { name="x", age="99999", active="1" } TO TABLE users;`)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "age", typeErr.Column)
	assert.Equal(t, record.TypeInt16, typeErr.Want)
	assert.Equal(t, "99999", typeErr.Literal)
}

func TestValidate_PrintItem(t *testing.T) {
	op, err := validateOne(t, testDB(t),
		`PRINT ITEM name WHERE age="30" FROM TABLE users;`)
	require.NoError(t, err)

	pi, ok := op.(*PrintItemOp)
	require.True(t, ok, "want *PrintItemOp, got %T", op)
	assert.Equal(t, "name", pi.Column)
	assert.Equal(t, record.IntValue(record.TypeInt16, 30), pi.Where.Value)

	_, err = validateOne(t, testDB(t),
		`PRINT ITEM bogus WHERE age="30" FROM TABLE users;`)
	require.ErrorIs(t, err, engine.ErrUnknownColumn)
}

func TestValidate_DeleteItems(t *testing.T) {
	op, err := validateOne(t, testDB(t),
		`DELETE ITEM { name="x", active="1" } FROM TABLE users;`)
	require.NoError(t, err)
	require.Len(t, op.(*DeleteItemsOp).Conditions, 2)

	_, err = validateOne(t, testDB(t), `DELETE ITEM { bogus="1" } FROM TABLE users;`)
	require.ErrorIs(t, err, engine.ErrUnknownColumn)
}

func TestValidate_ChangeValue(t *testing.T) {
	op, err := validateOne(t, testDB(t),
		`CHANGE VALUE OF name="John" TO "Jane" FROM TABLE users WHERE age="30";`)
	require.NoError(t, err)

	up, ok := op.(*UpdateOp)
	require.True(t, ok, "want *UpdateOp, got %T", op)
	assert.Equal(t, "Jane", up.NewValue.Str)
	require.NotNil(t, up.Where)
	assert.Equal(t, "age", up.Where.Column)

	// new value must fit the column type too
	_, err = validateOne(t, testDB(t),
		`CHANGE VALUE OF age="30" TO "99999" FROM TABLE users;`)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestValidate_DropTable(t *testing.T) {
	op, err := validateOne(t, testDB(t), `DELETE TABLE users;`)
	require.NoError(t, err)
	assert.Equal(t, "users", op.(*DropTableOp).Table)

	_, err = validateOne(t, testDB(t), `DELETE TABLE nope;`)
	require.ErrorIs(t, err, engine.ErrUnknownTable)
}
