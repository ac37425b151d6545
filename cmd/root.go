// Package cmd implements the CLI command structure for tasker.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/config"
	"github.com/nibzard/tasker-go/internal/console"
	"github.com/nibzard/tasker-go/internal/hooks"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/storage"
	"github.com/nibzard/tasker-go/internal/task"
	"github.com/nibzard/tasker-go/internal/ui"
	"github.com/nibzard/tasker-go/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errProblems is returned by check when the file has issues; the issues
// themselves are already printed.
var errProblems = errors.New("task file has problems")

// streams holds the standard streams a command talks to.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	io     streams
}

// Run executes the tasker CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	fs := flag.NewFlagSet("tasker", flag.ContinueOnError)
	fs.SetOutput(s.err)
	fs.Usage = func() {
		printUsage(fs, s.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.out)
	}

	a := &app{
		cfg:    cfg,
		logger: logging.FromConfig(s.err, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		io:     s,
	}
	for _, unknown := range cfg.Unknown {
		a.logger.Warn("unknown config key", "key", unknown)
	}

	// If no args or first arg is a flag, use "run" as default
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "run":
		return a.runCommand(ctx, remainingArgs)
	case "ls":
		return a.lsCommand(remainingArgs)
	case "check":
		return a.checkCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(s.out)
	case "help":
		printUsage(fs, s.out)
		return nil
	default:
		// A bare existing file is shorthand for "run <file>".
		if fi, err := os.Stat(cfg.ResolvePath(subcommand)); err == nil && !fi.IsDir() {
			return a.runCommand(ctx, append([]string{subcommand}, remainingArgs...))
		}
		fmt.Fprintf(s.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// fileArg returns the task file path from an optional single positional
// argument.
func (a *app) fileArg(fs *flag.FlagSet) (string, error) {
	remaining := fs.Args()
	if len(remaining) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		return a.cfg.ResolvePath(remaining[0]), nil
	}
	return a.cfg.ResolvePath(""), nil
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasker "+name, flag.ContinueOnError)
	fs.SetOutput(a.io.err)
	return fs
}

// runCommand starts the interactive menu loop.
func (a *app) runCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.fileArg(fs)
	if err != nil {
		return err
	}

	c, err := console.New(path,
		console.WithInput(console.ReaderInput(a.io.in, a.io.out)),
		console.WithOutput(console.WriterOutput(a.io.out)),
		console.WithLogger(a.logger),
		console.WithStrictLoad(a.cfg.StrictLoad),
		console.WithAfterSave(a.afterSave(path)),
	)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	return c.Run(ctx)
}

// lsCommand prints the task list without entering the menu.
func (a *app) lsCommand(args []string) error {
	fs := a.newFlagSet("ls")
	statusFilter := fs.String("status", "", "Comma-separated statuses to show (pending,in_progress,done,completed)")
	overdueOnly := fs.Bool("overdue", false, "Show only overdue tasks")
	format := fs.String("format", formatText, "Output format (text, json, yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !validListFormat(*format) {
		return fmt.Errorf("invalid format %q (want text, json or yaml)", *format)
	}
	path, err := a.fileArg(fs)
	if err != nil {
		return err
	}

	statuses := make(map[task.Status]bool)
	for _, s := range utils.SplitAndTrim(*statusFilter, ",") {
		status, err := task.ParseStatus(s)
		if err != nil {
			return err
		}
		statuses[status] = true
	}

	result, err := a.load(path)
	if err != nil {
		return err
	}
	today := task.Today()
	var entries []listEntry
	for i, t := range result.Tasks {
		if len(statuses) > 0 && !statuses[t.Status] {
			continue
		}
		overdue := !t.Status.IsFinished() && t.IsOverdueAt(today)
		if *overdueOnly && !overdue {
			continue
		}
		entries = append(entries, newListEntry(i+1, t, overdue))
	}
	return writeList(a.io.out, *format, entries)
}

// checkCommand validates the task file against the schema and task rules.
func (a *app) checkCommand(args []string) error {
	fs := a.newFlagSet("check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.fileArg(fs)
	if err != nil {
		return err
	}

	result, err := storage.Check(path)
	if err != nil {
		return err
	}
	if result.Valid {
		fmt.Fprintf(a.io.out, "%s: ok (%d tasks)\n", path, result.Tasks)
		return nil
	}
	fmt.Fprintf(a.io.out, "%s: %d problem(s)\n", path, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(a.io.out, "  %s\n", issue)
	}
	return errProblems
}

// tuiCommand launches the terminal UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	watch := fs.Bool("watch", true, "Reload when the task file changes on disk")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.fileArg(fs)
	if err != nil {
		return err
	}
	if !ui.IsTTY(a.io.out) {
		return fmt.Errorf("tui requires a TTY")
	}
	return ui.RunTUI(ctx, ui.Options{
		Path:       path,
		StrictLoad: a.cfg.StrictLoad,
		Logger:     a.logger,
		AfterSave:  a.afterSave(path),
		Watch:      *watch,
	})
}

// configCommand prints the effective configuration.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *example {
		fmt.Fprint(a.io.out, config.ExampleConfig())
		return nil
	}

	for _, file := range a.cfg.Files {
		fmt.Fprintf(a.io.out, "# %s\n", file)
	}
	for _, key := range config.Keys() {
		fmt.Fprintf(a.io.out, "%-15s = %-20q # %s\n", key, a.cfg.Value(key), a.cfg.Source(key))
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasker version %s\n", Version)
	return nil
}

func (a *app) load(path string) (*storage.Result, error) {
	result, err := storage.Load(path, storage.WithStrict(a.cfg.StrictLoad))
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	if result.FileErr != nil {
		a.logger.Warn("task file ignored", "path", path, "err", result.FileErr)
	}
	for _, skipped := range result.Skipped {
		a.logger.Warn("skipped invalid task", "path", path, "index", skipped.Index, "err", skipped.Err)
	}
	return result, nil
}

// afterSave returns the post-save hook runner for path, or nil when no hook
// is configured.
func (a *app) afterSave(path string) func(context.Context, []*task.Task) error {
	if a.cfg.HookCommand == "" {
		return nil
	}
	return func(ctx context.Context, tasks []*task.Task) error {
		result, err := hooks.Invoke(ctx, hooks.Options{
			Command:   a.cfg.HookCommand,
			TasksPath: path,
			TaskCount: len(tasks),
			WorkDir:   a.cfg.WorkDir,
		})
		if result.Ran {
			a.logger.Debug("hook ran", "command", a.cfg.HookCommand, "exit_code", result.ExitCode, "output", result.Output)
		}
		return err
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasker - a to-do list kept in a JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasker [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [file]    Interactive menu (default command)")
	fmt.Fprintln(w, "  ls [file]     List tasks")
	fmt.Fprintln(w, "  check [file]  Validate the task file")
	fmt.Fprintln(w, "  tui [file]    Launch terminal UI")
	fmt.Fprintln(w, "  config        Show effective configuration")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Comma-separated statuses to show (pending,in_progress,done,completed)")
	fmt.Fprintln(w, "  -overdue")
	fmt.Fprintln(w, "        Show only overdue tasks")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: text, json or yaml (default \"text\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -watch")
	fmt.Fprintln(w, "        Reload when the task file changes on disk (default true)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
