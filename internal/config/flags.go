package config

import "flag"

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"file":           KeyTasksFile,
	"strict-load":    KeyStrictLoad,
	"hook":           KeyHookCommand,
	"log-level":      KeyLogLevel,
	"log-format":     KeyLogFormat,
	"log-timestamps": KeyLogTimestamps,
	"log-caller":     KeyLogCaller,
}

// parseFlags defines the global flags on fs and parses args. Flags are
// bound directly to cfg, so their defaults are whatever the earlier layers
// produced; only flags actually given are credited to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasker", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.TasksFile, "file", cfg.TasksFile, "Path to task file")
	fs.BoolVar(&cfg.StrictLoad, "strict-load", cfg.StrictLoad, "Fail on the first invalid task instead of skipping it")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Shell command to run after each save")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			cfg.Sources[key] = SourceFlag
		}
	})
	return nil
}
