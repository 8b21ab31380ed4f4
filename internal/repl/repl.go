package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/primdb/internal/sql/executor"
)

const Banner = "=== primdb is running! ==="

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

// Runner executes one input line. *executor.Executor implements it.
type Runner interface {
	ExecLine(line string) (*executor.Result, error)
}

// Run reads commands until exit, EOF or interrupt. Each non-empty line prints
// exactly one status block to out. The returned error is only a read error.
func Run(in LineReader, out io.Writer, r Runner) error {
	_, _ = fmt.Fprintln(out, Banner)

	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(out, "Bye.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		res, err := r.ExecLine(line)
		if err != nil {
			_, _ = fmt.Fprintln(out, executor.Status(err))
			continue
		}
		Render(out, res)
		if res.Exit {
			slog.Debug("repl exit requested")
			return nil
		}
	}
}

// NewCompleter completes verbs, keywords and table names.
func NewCompleter(tables func() []string) *readline.PrefixCompleter {
	names := func(string) []string { return tables() }
	return readline.NewPrefixCompleter(
		readline.PcItem("create_table"),
		readline.PcItem("drop_table", readline.PcItemDynamic(names)),
		readline.PcItem("list_tables"),
		readline.PcItem("insert",
			readline.PcItem("into", readline.PcItemDynamic(names, readline.PcItem("values"))),
		),
		readline.PcItem("select",
			readline.PcItem("from", readline.PcItemDynamic(names, readline.PcItem("where"))),
		),
		readline.PcItem("update", readline.PcItemDynamic(names, readline.PcItem("set"))),
		readline.PcItem("delete",
			readline.PcItem("from", readline.PcItemDynamic(names, readline.PcItem("where"))),
		),
		readline.PcItem("info", readline.PcItemDynamic(names)),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}
