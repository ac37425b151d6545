package config

import "os"

// Environment variable names.
const (
	EnvTasksFile     = "TASKER_FILE"
	EnvStrictLoad    = "TASKER_STRICT_LOAD"
	EnvHook          = "TASKER_HOOK"
	EnvLogLevel      = "TASKER_LOG_LEVEL"
	EnvLogFormat     = "TASKER_LOG_FORMAT"
	EnvLogTimestamps = "TASKER_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKER_LOG_CALLER"
)

// loadFromEnv overrides config from non-empty environment variables.
func loadFromEnv(cfg *Config) {
	setString := func(env, key string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			cfg.Sources[key] = SourceEnv
		}
	}
	setBool := func(env, key string, dst *bool) {
		if v := os.Getenv(env); v != "" {
			*dst = boolFromString(v)
			cfg.Sources[key] = SourceEnv
		}
	}

	setString(EnvTasksFile, KeyTasksFile, &cfg.TasksFile)
	setBool(EnvStrictLoad, KeyStrictLoad, &cfg.StrictLoad)
	setString(EnvHook, KeyHookCommand, &cfg.HookCommand)
	setString(EnvLogLevel, KeyLogLevel, &cfg.LogLevel)
	setString(EnvLogFormat, KeyLogFormat, &cfg.LogFormat)
	setBool(EnvLogTimestamps, KeyLogTimestamps, &cfg.LogTimestamps)
	setBool(EnvLogCaller, KeyLogCaller, &cfg.LogCaller)
}
