package executor

// Result is the outcome of one command, rendered by the REPL.
type Result struct {
	// Message is the status text. For a query with rows it is empty.
	Message string

	// For SELECT:
	Query   bool
	Columns []string
	Rows    [][]any

	// For DML, and the row count of a query.
	AffectedRows int64

	// Exit asks the REPL loop to stop.
	Exit bool
}
