package executor

// Result is the generic statement result returned to the caller.
// PRINT statements fill Columns/Rows; mutating statements report
// AffectedRows only.
type Result struct {
	Columns []string
	Rows    [][]string

	AffectedRows int64
}
