package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/ditabase/internal/engine"
	"github.com/tuannm99/ditabase/internal/record"
)

func newTestExecutor() (*Executor, *engine.Database) {
	db := engine.NewDatabase()
	return New(db, nil), db
}

func TestExecute_EndToEndScenario(t *testing.T) {
	ex, _ := newTestExecutor()

	_, err := ex.Execute(`NEW TABLE IF EXISTS IS FALSE {
		UNIC MAIN UUID id,
		STR name,
		PASSWORD password
	} users;`)
	require.NoError(t, err)

	_, err = ex.Execute(`ADD ITEM { name="John Doe", password="12423" } TO TABLE users;`)
	require.NoError(t, err)

	results, err := ex.Execute(`PRINT ITEM password WHERE name="John Doe" FROM TABLE users;`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, []string{"password"}, results[0].Columns)
	require.Equal(t, [][]string{{"12423"}}, results[0].Rows)

	results, err = ex.Execute(`DELETE ITEM { name="John Doe" } FROM TABLE users;`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[0].AffectedRows)

	results, err = ex.Execute(`PRINT TABLE users;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "password"}, results[0].Columns)
	assert.Empty(t, results[0].Rows)
}

func TestExecute_GeneratesUuid(t *testing.T) {
	ex, db := newTestExecutor()

	_, err := ex.Execute(`
		NEW TABLE { UNIC MAIN UUID id, STR name } users;
		ADD ITEM { name="a" } TO TABLE users;
		ADD ITEM { name="b" } TO TABLE users;
	`)
	require.NoError(t, err)

	tbl, err := db.Table("users")
	require.NoError(t, err)
	items := tbl.Select()
	require.Len(t, items, 2)
	assert.NotEmpty(t, items[0]["id"].Str)
	assert.NotEqual(t, items[0]["id"], items[1]["id"])
}

func TestExecute_StopsAtFirstError(t *testing.T) {
	ex, db := newTestExecutor()

	results, err := ex.Execute(`
		NEW TABLE { STR name } users;
		ADD ITEM { name="kept" } TO TABLE users;
		ADD ITEM { bogus="x" } TO TABLE users;
		ADD ITEM { name="never reached" } TO TABLE users;
	`)
	require.ErrorIs(t, err, engine.ErrUnknownColumn)
	assert.Len(t, results, 2, "statements before the failure complete")

	tbl, err := db.Table("users")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestExecute_ConstraintViolationSurfaces(t *testing.T) {
	ex, _ := newTestExecutor()

	_, err := ex.Execute(`
		NEW TABLE { UNIC MAIN STR key } t;
		ADD ITEM { key="dup" } TO TABLE t;
		ADD ITEM { key="dup" } TO TABLE t;
	`)
	var violation *engine.ConstraintViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "key", violation.Column)
}

func TestExecute_ChangeValue(t *testing.T) {
	ex, db := newTestExecutor()

	_, err := ex.Execute(`
		NEW TABLE { STR name, STR role } users;
		ADD ITEM { name="John Doe", role="user" } TO TABLE users;
		ADD ITEM { name="John Doe", role="admin" } TO TABLE users;
		ADD ITEM { name="Jane Doe", role="user" } TO TABLE users;
	`)
	require.NoError(t, err)

	results, err := ex.Execute(`CHANGE VALUE OF name="John Doe" TO "Johnny" FROM TABLE users;`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), results[0].AffectedRows, "every match updates")

	tbl, err := db.Table("users")
	require.NoError(t, err)
	assert.Len(t, tbl.Select(engine.Cond{
		Column: "name", Value: strVal("Johnny"),
	}), 2)
	assert.Len(t, tbl.Select(engine.Cond{
		Column: "name", Value: strVal("Jane Doe"),
	}), 1)
}

func TestExecute_TolerantCreateSkips(t *testing.T) {
	ex, _ := newTestExecutor()

	_, err := ex.Execute(`NEW TABLE { STR a } t;`)
	require.NoError(t, err)

	results, err := ex.Execute(`NEW TABLE IF EXISTS IS FALSE { STR other } t;`)
	require.NoError(t, err)
	assert.Zero(t, results[0].AffectedRows, "tolerated duplicate is a no-op")

	_, err = ex.Execute(`NEW TABLE { STR other } t;`)
	require.ErrorIs(t, err, engine.ErrDuplicateTable)
}

func TestExecute_WriteThroughCallsSave(t *testing.T) {
	db := engine.NewDatabase()
	saves := 0
	ex := New(db, func(*engine.Database) error {
		saves++
		return nil
	})

	_, err := ex.Execute(`
		NEW TABLE { STR a } t;
		ADD ITEM { a="1" } TO TABLE t;
		PRINT TABLE t;
	`)
	require.NoError(t, err)
	assert.Equal(t, 2, saves, "only mutating statements persist")
}

func TestExecute_SaveFailureSurfaces(t *testing.T) {
	db := engine.NewDatabase()
	boom := errors.New("disk full")
	ex := New(db, func(*engine.Database) error { return boom })

	_, err := ex.Execute(`NEW TABLE { STR a } t;`)
	require.ErrorIs(t, err, boom)
}

func TestExecute_NoOpStatementsDoNotSave(t *testing.T) {
	db := engine.NewDatabase()
	_, err := db.CreateTable("t", nil, false)
	require.Error(t, err) // sanity: empty schema rejected

	saves := 0
	ex := New(db, func(*engine.Database) error {
		saves++
		return nil
	})
	_, err = ex.Execute(`NEW TABLE { STR a } t;`)
	require.NoError(t, err)

	// tolerated duplicate mutates nothing, so nothing is written
	_, err = ex.Execute(`NEW TABLE IF EXISTS IS FALSE { STR a } t;`)
	require.NoError(t, err)
	assert.Equal(t, 1, saves)

	// deleting zero items writes nothing either
	_, err = ex.Execute(`DELETE ITEM { a="nope" } FROM TABLE t;`)
	require.NoError(t, err)
	assert.Equal(t, 1, saves)
}

func strVal(s string) record.Value {
	return record.StrValue(record.TypeStr, s)
}
