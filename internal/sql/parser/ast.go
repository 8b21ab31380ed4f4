package parser

import "github.com/tuannm99/primdb/internal/record"

// Statement is the closed set of commands a line can parse into.
type Statement interface {
	stmtNode()
}

// ----- schema -----
type CreateTableStmt struct {
	TableName string
	// Columns are raw "name:type" specs; the catalog validates them.
	Columns []string
}

func (*CreateTableStmt) stmtNode() {}

type DropTableStmt struct {
	TableName string
}

func (*DropTableStmt) stmtNode() {}

type ListTablesStmt struct{}

func (*ListTablesStmt) stmtNode() {}

type InfoStmt struct {
	TableName string
}

func (*InfoStmt) stmtNode() {}

// ----- records -----
type InsertStmt struct {
	TableName string
	Values    []record.Value
}

func (*InsertStmt) stmtNode() {}

type SelectStmt struct {
	TableName string
	Where     map[string]record.Value // nil selects everything
}

func (*SelectStmt) stmtNode() {}

type UpdateStmt struct {
	TableName string
	Set       map[string]record.Value
	Where     map[string]record.Value
}

func (*UpdateStmt) stmtNode() {}

type DeleteStmt struct {
	TableName string
	Where     map[string]record.Value
}

func (*DeleteStmt) stmtNode() {}

// ----- session -----
type HelpStmt struct{}

func (*HelpStmt) stmtNode() {}

type ExitStmt struct{}

func (*ExitStmt) stmtNode() {}
