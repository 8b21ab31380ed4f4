package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyStatement = errors.New("empty statement")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidSyntax  = errors.New("invalid syntax")
)

// Command describes one verb for help output and usage errors.
type Command struct {
	Verb        string
	Usage       string
	Description string
}

// Commands lists every verb in help order.
var Commands = []Command{
	{"create_table", "create_table <table> <column:type> ...", "create a table (types: int, str, bool)"},
	{"drop_table", "drop_table <table>", "drop a table and its data"},
	{"list_tables", "list_tables", "list all tables"},
	{"insert", "insert into <table> values (<value>, ...)", "add a record"},
	{"select", "select from <table> [where <column> = <value>]", "show records"},
	{"update", "update <table> set <column> = <value> where <column> = <value>", "change records"},
	{"delete", "delete from <table> where <column> = <value>", "remove records"},
	{"info", "info <table>", "show table columns and record count"},
	{"help", "help", "show this help"},
	{"exit", "exit", "quit"},
}

func usage(verb string) error {
	for _, c := range Commands {
		if c.Verb == verb {
			return fmt.Errorf("%w, usage: %s", ErrInvalidSyntax, c.Usage)
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidSyntax, verb)
}

// Parse parses one input line into a Statement.
// Tokens are split shell-style; clause text after WHERE/SET is taken from the raw
// line so quoting inside a clause is preserved.
func Parse(line string) (Statement, error) {
	toks, err := tokenize(line, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokenizeErrKind(line, err), err)
	}
	if len(toks) == 0 {
		return nil, ErrEmptyStatement
	}

	p := &lineParser{src: line, verb: strings.ToLower(toks[0].Text), args: toks[1:]}

	switch p.verb {
	case "create_table":
		return p.parseCreateTable()
	case "drop_table":
		return p.parseDropTable()
	case "list_tables":
		return p.parseListTables()
	case "insert":
		return p.parseInsert()
	case "select":
		return p.parseSelect()
	case "update":
		return p.parseUpdate()
	case "delete":
		return p.parseDelete()
	case "info":
		return p.parseInfo()
	case "help":
		return &HelpStmt{}, nil
	case "exit":
		return &ExitStmt{}, nil
	default:
		return nil, fmt.Errorf("%w: %q, type help for the list", ErrUnknownCommand, toks[0].Text)
	}
}

// tokenizeErrKind picks the sentinel for a line that failed to tokenize:
// the value list for insert, the condition for select/update/delete.
func tokenizeErrKind(line string, err error) error {
	if errors.Is(err, errInvalidUTF8) {
		return ErrInvalidSyntax
	}
	var verb string
	if f := strings.Fields(line); len(f) > 0 {
		verb = strings.ToLower(f[0])
	}
	switch verb {
	case "insert":
		return ErrMalformedValueList
	case "select", "update", "delete":
		return ErrMalformedClause
	default:
		return ErrInvalidSyntax
	}
}

type lineParser struct {
	src  string
	verb string
	args []Token
}

// isKeyword matches an unquoted token case-insensitively.
func isKeyword(tok Token, kw string) bool {
	return !tok.Quoted && strings.EqualFold(tok.Text, kw)
}

// keywordAt reports whether args[i] exists and is the keyword kw.
func (p *lineParser) keywordAt(i int, kw string) bool {
	return i < len(p.args) && isKeyword(p.args[i], kw)
}

// indexKeyword returns the position of the first kw at or after from, or -1.
func (p *lineParser) indexKeyword(kw string, from int) int {
	for i := from; i < len(p.args); i++ {
		if isKeyword(p.args[i], kw) {
			return i
		}
	}
	return -1
}

// after returns the trimmed raw text following args[i].
func (p *lineParser) after(i int) string {
	return strings.TrimSpace(p.src[p.args[i].End:])
}

// between returns the trimmed raw text strictly between args[i] and args[j].
func (p *lineParser) between(i, j int) string {
	return strings.TrimSpace(p.src[p.args[i].End:p.args[j].Start])
}

func (p *lineParser) parseCreateTable() (Statement, error) {
	if len(p.args) < 2 {
		return nil, usage(p.verb)
	}
	cols := make([]string, 0, len(p.args)-1)
	for _, t := range p.args[1:] {
		cols = append(cols, t.Text)
	}
	return &CreateTableStmt{TableName: p.args[0].Text, Columns: cols}, nil
}

func (p *lineParser) parseDropTable() (Statement, error) {
	if len(p.args) != 1 {
		return nil, usage(p.verb)
	}
	return &DropTableStmt{TableName: p.args[0].Text}, nil
}

func (p *lineParser) parseListTables() (Statement, error) {
	if len(p.args) != 0 {
		return nil, usage(p.verb)
	}
	return &ListTablesStmt{}, nil
}

func (p *lineParser) parseInfo() (Statement, error) {
	if len(p.args) != 1 {
		return nil, usage(p.verb)
	}
	return &InfoStmt{TableName: p.args[0].Text}, nil
}

func (p *lineParser) parseInsert() (Statement, error) {
	// insert into <table> values (<v>, ...)
	if len(p.args) < 3 || !p.keywordAt(0, "into") || !p.keywordAt(2, "values") {
		return nil, usage(p.verb)
	}

	raw := p.after(2)
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}

	values, err := ParseLiteralList(raw)
	if err != nil {
		return nil, err
	}
	return &InsertStmt{TableName: p.args[1].Text, Values: values}, nil
}

func (p *lineParser) parseSelect() (Statement, error) {
	// select from <table> [where <col> = <v>]
	if len(p.args) < 2 || !p.keywordAt(0, "from") {
		return nil, usage(p.verb)
	}
	stmt := &SelectStmt{TableName: p.args[1].Text}
	if len(p.args) == 2 {
		return stmt, nil
	}
	if !p.keywordAt(2, "where") {
		return nil, usage(p.verb)
	}

	where, err := ParseAssignment(p.after(2))
	if err != nil {
		return nil, err
	}
	stmt.Where = where
	return stmt, nil
}

func (p *lineParser) parseUpdate() (Statement, error) {
	// update <table> set <col> = <v> where <col> = <v>
	if len(p.args) < 1 || !p.keywordAt(1, "set") {
		return nil, usage(p.verb)
	}
	whereIdx := p.indexKeyword("where", 2)
	if whereIdx < 0 {
		return nil, usage(p.verb)
	}

	set, err := ParseAssignment(p.between(1, whereIdx))
	if err != nil {
		return nil, err
	}
	where, err := ParseAssignment(p.after(whereIdx))
	if err != nil {
		return nil, err
	}
	return &UpdateStmt{TableName: p.args[0].Text, Set: set, Where: where}, nil
}

func (p *lineParser) parseDelete() (Statement, error) {
	// delete from <table> where <col> = <v>
	if len(p.args) < 3 || !p.keywordAt(0, "from") || !p.keywordAt(2, "where") {
		return nil, usage(p.verb)
	}
	where, err := ParseAssignment(p.after(2))
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{TableName: p.args[1].Text, Where: where}, nil
}
