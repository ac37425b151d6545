package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasker-go/internal/logging"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasker/tasker.toml or OS-specific config dir)
// 3. Project config file (tasker.toml or .tasker.toml in current directory)
// 4. Environment variables
// 5. CLI flags, defined on fs and parsed from args
//
// After Load returns, fs.Args() holds the remaining positional arguments.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg.WorkDir = wd

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(wd); path != "" {
		if err := loadConfigFile(cfg, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes the TOML file at path over cfg. Only keys present
// in the file are changed and credited to source.
func loadConfigFile(cfg *Config, path string, source Source) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	for _, key := range Keys() {
		if md.IsDefined(key) {
			cfg.Sources[key] = source
		}
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, fmt.Sprintf("%s: %s", path, key.String()))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig normalizes values and rejects invalid ones.
func finalizeConfig(cfg *Config) error {
	cfg.TasksFile = strings.TrimSpace(cfg.TasksFile)
	if cfg.TasksFile == "" {
		return fmt.Errorf("invalid config: %s is empty", KeyTasksFile)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid config: unknown %s %q", KeyLogLevel, cfg.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid config: unknown %s %q", KeyLogFormat, cfg.LogFormat)
	}
	cfg.HookCommand = strings.TrimSpace(cfg.HookCommand)
	return nil
}
