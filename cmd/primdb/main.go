package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chzyer/readline"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/afero"

	"github.com/tuannm99/primdb"
	"github.com/tuannm99/primdb/internal"
	"github.com/tuannm99/primdb/internal/repl"
	"github.com/tuannm99/primdb/internal/sql/executor"
	"github.com/tuannm99/primdb/internal/storage"
)

func main() {
	cfg, err := internal.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	initLogging(cfg.Log.Level)

	if err := os.MkdirAll(cfg.Storage.Workdir, storage.FileMode0755); err != nil {
		slog.Error("create workdir", "dir", cfg.Storage.Workdir, "err", err)
		os.Exit(1)
	}

	db, err := primdb.OpenFs(afero.NewOsFs(), cfg.Storage.Workdir, cfg.Storage.MetaFile, cfg.Storage.DataDir)
	if err != nil {
		slog.Error("open database", "dir", cfg.Storage.Workdir, "err", err)
		os.Exit(1)
	}
	slog.Info("database ready", "app", cfg.AppName, "dir", cfg.Storage.Workdir, "tables", len(db.ListTables()))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Repl.Prompt,
		HistoryFile:     cfg.Repl.HistoryFile,
		HistoryLimit:    cfg.Repl.HistoryLimit,
		AutoComplete:    repl.NewCompleter(db.ListTables),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		slog.Error("init readline", "err", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	if err := repl.Run(rl, rl.Stdout(), executor.NewExecutor(db)); err != nil {
		slog.Error("repl", "err", err)
	}
}

func initLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}

	// stdout carries command output
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
}
