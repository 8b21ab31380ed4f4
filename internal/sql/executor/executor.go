package executor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tuannm99/primdb/internal/engine"
	"github.com/tuannm99/primdb/internal/record"
	"github.com/tuannm99/primdb/internal/sql/parser"
)

const noRecords = "No records found."

// executorDB is a small seam for unit-testing Executor without a real DB.
type executorDB interface {
	CreateTable(name string, columnSpecs []string) (record.Schema, error)
	DropTable(name string) error
	ListTables() []string
	Describe(name string) (record.Schema, int, error)

	Insert(table string, values []record.Value) (record.Record, error)
	Select(table string, where map[string]record.Value) (record.Schema, []record.Record, error)
	Update(table string, set, where map[string]record.Value) (int, error)
	Delete(table string, where map[string]record.Value) (int, error)
}

var _ executorDB = (*engine.Database)(nil)

// Executor runs parsed statements against a Database.
type Executor struct {
	DB executorDB
}

func NewExecutor(db *engine.Database) *Executor {
	return &Executor{DB: db}
}

// NewExecutorForTest allows injecting a fake executorDB.
func NewExecutorForTest(db executorDB) *Executor {
	return &Executor{DB: db}
}

// ExecLine is the top-level entry: input line -> Result.
func (e *Executor) ExecLine(line string) (*Result, error) {
	stmt, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	return e.Exec(stmt)
}

// Status formats an error as the one-line message shown to the user.
func Status(err error) string {
	return "Error: " + err.Error()
}

func (e *Executor) Exec(stmt parser.Statement) (*Result, error) {
	res, err := e.exec(stmt)
	if err != nil {
		slog.Debug("command failed", "stmt", fmt.Sprintf("%T", stmt), "err", err)
	}
	return res, err
}

func (e *Executor) exec(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.execCreateTable(s)
	case *parser.DropTableStmt:
		return e.execDropTable(s)
	case *parser.ListTablesStmt:
		return e.execListTables()
	case *parser.InfoStmt:
		return e.execInfo(s)

	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	case *parser.UpdateStmt:
		return e.execUpdate(s)
	case *parser.DeleteStmt:
		return e.execDelete(s)

	case *parser.HelpStmt:
		return &Result{Message: HelpText()}, nil
	case *parser.ExitStmt:
		return &Result{Message: "Bye.", Exit: true}, nil

	default:
		return nil, fmt.Errorf("executor: unsupported statement type %T", stmt)
	}
}

func (e *Executor) execCreateTable(s *parser.CreateTableStmt) (*Result, error) {
	schema, err := e.DB.CreateTable(s.TableName, s.Columns)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("Table %q created with columns: %s", s.TableName, schema),
	}, nil
}

func (e *Executor) execDropTable(s *parser.DropTableStmt) (*Result, error) {
	if err := e.DB.DropTable(s.TableName); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Table %q dropped.", s.TableName)}, nil
}

func (e *Executor) execListTables() (*Result, error) {
	names := e.DB.ListTables()
	if len(names) == 0 {
		return &Result{Message: "No tables."}, nil
	}
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = "- " + n
	}
	return &Result{Message: strings.Join(lines, "\n"), AffectedRows: int64(len(names))}, nil
}

func (e *Executor) execInfo(s *parser.InfoStmt) (*Result, error) {
	schema, count, err := e.DB.Describe(s.TableName)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message:      fmt.Sprintf("Table: %s\nColumns: %s\nRecords: %d", s.TableName, schema, count),
		AffectedRows: int64(count),
	}, nil
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	rec, err := e.DB.Insert(s.TableName, s.Values)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message:      fmt.Sprintf("Record with ID=%d added to table %q.", rec.ID(), s.TableName),
		AffectedRows: 1,
	}, nil
}

func (e *Executor) execSelect(s *parser.SelectStmt) (*Result, error) {
	schema, recs, err := e.DB.Select(s.TableName, s.Where)
	if err != nil {
		return nil, err
	}

	res := &Result{Query: true, Columns: schema.Names()}
	if len(recs) == 0 {
		res.Message = noRecords
		return res, nil
	}
	for _, r := range recs {
		res.Rows = append(res.Rows, r.Row(schema))
	}
	res.AffectedRows = int64(len(res.Rows))
	return res, nil
}

func (e *Executor) execUpdate(s *parser.UpdateStmt) (*Result, error) {
	n, err := e.DB.Update(s.TableName, s.Set, s.Where)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &Result{Message: noRecords}, nil
	}
	return &Result{Message: fmt.Sprintf("Records updated: %d.", n), AffectedRows: int64(n)}, nil
}

func (e *Executor) execDelete(s *parser.DeleteStmt) (*Result, error) {
	n, err := e.DB.Delete(s.TableName, s.Where)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &Result{Message: noRecords}, nil
	}
	return &Result{Message: fmt.Sprintf("Records deleted: %d.", n), AffectedRows: int64(n)}, nil
}

// HelpText lists every command with its usage line.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	width := 0
	for _, c := range parser.Commands {
		width = max(width, len(c.Usage))
	}
	for _, c := range parser.Commands {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, c.Usage, c.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
