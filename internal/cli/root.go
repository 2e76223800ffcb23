// Package cli implements the tasktracker commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"task-tracker/internal/config"
	"task-tracker/internal/output"
	"task-tracker/internal/repository"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitNotFound = 3
	exitRejected = 4
)

type app struct {
	loadConfig func() (config.Config, error)

	cfg   config.Config
	db    *gorm.DB
	tasks *repository.TaskRepository

	flagJSON    bool
	flagYAML    bool
	flagNoColor bool
	flagDB      string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasktracker",
		Short: "Manage tasks and subtasks",
		Long: `tasktracker stores tasks with their subtasks in SQLite or PostgreSQL
and can send a digest of overdue tasks on a schedule.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}

	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")
	root.PersistentFlags().BoolVar(&a.flagYAML, "yaml", false, "output as YAML")
	root.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "disable color output")
	root.PersistentFlags().StringVar(&a.flagDB, "db", "", "database URL or SQLite path (overrides DATABASE_URL)")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newSubtaskCmd(a),
		newDigestCmd(a),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{loadConfig: config.Load}
	defer a.close()
	err := newRootCmd(a).ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	if a.format() == output.FormatJSON {
		output.JSONError(os.Stdout, errorCode(err), err.Error())
	} else {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return exitCode(err)
}

func (a *app) open(_ *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.flagDB != "" {
		cfg.DatabaseURL = a.flagDB
	}
	a.cfg = cfg

	if a.flagNoColor || os.Getenv("NO_COLOR") != "" {
		output.DisableColor()
	}

	db, err := repository.NewDB(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	a.db = db
	a.tasks = repository.NewTaskRepository(db)
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.db = nil
}

func (a *app) format() output.Format {
	return output.Detect(a.flagJSON, a.flagYAML, a.cfg.Output)
}

// render writes data as JSON or YAML when requested, otherwise calls table.
func (a *app) render(w io.Writer, data interface{}, table func(io.Writer)) error {
	switch a.format() {
	case output.FormatJSON:
		return output.JSON(w, data)
	case output.FormatYAML:
		return output.YAML(w, data)
	default:
		table(w)
		return nil
	}
}

func errorCode(err error) string {
	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		return repoErr.Kind.String()
	}
	return "ERROR"
}

func exitCode(err error) int {
	var repoErr *repository.Error
	if !errors.As(err, &repoErr) {
		return exitFailure
	}
	switch repoErr.Kind {
	case repository.KindNotFound:
		return exitNotFound
	case repository.KindInvalid, repository.KindConstraint:
		return exitRejected
	default:
		return exitFailure
	}
}
