package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Defaults.
const (
	DefaultTasksFile = "tasks.json"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Source is the layer a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Field keys, as written in config files.
const (
	KeyTasksFile     = "tasks_file"
	KeyStrictLoad    = "strict_load"
	KeyHookCommand   = "hook_command"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyLogTimestamps = "log_timestamps"
	KeyLogCaller     = "log_caller"
)

// Keys returns the configurable keys in display order.
func Keys() []string {
	return []string{
		KeyTasksFile,
		KeyStrictLoad,
		KeyHookCommand,
		KeyLogLevel,
		KeyLogFormat,
		KeyLogTimestamps,
		KeyLogCaller,
	}
}

// Config holds the effective settings.
type Config struct {
	// Task file path. Relative paths are resolved against WorkDir.
	TasksFile string `toml:"tasks_file"`
	// Abort loading on the first invalid task instead of skipping it.
	StrictLoad bool `toml:"strict_load"`
	// Shell command run after every successful save.
	HookCommand string `toml:"hook_command"`

	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Derived and bookkeeping fields.
	WorkDir string            `toml:"-"`
	Files   []string          `toml:"-"` // Config files that were read
	Sources map[string]Source `toml:"-"`
	// Unknown keys found in config files, as "file: key".
	Unknown []string `toml:"-"`
}

// setDefaults applies built-in defaults.
func setDefaults(cfg *Config) {
	cfg.TasksFile = DefaultTasksFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Sources = make(map[string]Source, len(Keys()))
	for _, key := range Keys() {
		cfg.Sources[key] = SourceDefault
	}
}

// Value returns the display value of key.
func (c *Config) Value(key string) string {
	switch key {
	case KeyTasksFile:
		return c.TasksFile
	case KeyStrictLoad:
		return fmt.Sprint(c.StrictLoad)
	case KeyHookCommand:
		return c.HookCommand
	case KeyLogLevel:
		return c.LogLevel
	case KeyLogFormat:
		return c.LogFormat
	case KeyLogTimestamps:
		return fmt.Sprint(c.LogTimestamps)
	case KeyLogCaller:
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}

// Source returns the layer that set key.
func (c *Config) Source(key string) Source {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// ResolvePath resolves p against the working directory after expanding ~
// and environment variables. An empty p resolves to the configured task
// file.
func (c *Config) ResolvePath(p string) string {
	if p == "" {
		p = c.TasksFile
	}
	p = expandPath(p)
	if filepath.IsAbs(p) || c.WorkDir == "" {
		return p
	}
	return filepath.Join(c.WorkDir, p)
}

// findProjectConfigFile looks for a config file in dir.
func findProjectConfigFile(dir string) string {
	for _, name := range []string{"tasker.toml", ".tasker.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasker/tasker.toml first, then the OS-specific config directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".tasker", "tasker.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if dir := osUserConfigDir(); dir != "" {
		path := filepath.Join(dir, "tasker", "tasker.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory, or "".
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
