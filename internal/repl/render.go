package repl

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tuannm99/primdb/internal/sql/executor"
)

// Render writes one command result: a table for select rows, the message otherwise.
func Render(w io.Writer, res *executor.Result) {
	if !res.Query || len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, res.Message)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range res.Rows {
		t.AppendRow(table.Row(r))
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
}
