// Package main is the entry point of the chainsync client.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/agilechain/chainsync/cmd/chainsync/app"
	"github.com/agilechain/chainsync/internal/config"
)

// getLogLevel parses the CHAINSYNC_LOG_LEVEL environment variable and returns the corresponding
// slog.Level, falling back to LOG_LEVEL. The boolean reports whether either variable was set;
// when neither is, the level of the configuration file applies.
func getLogLevel() (slog.Level, bool) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	levelStr := v.GetString("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}

	switch strings.ToLower(levelStr) {
	case "":
		return slog.LevelInfo, false
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		slog.Warn("Invalid LOG_LEVEL, using INFO", "value", levelStr)
		return slog.LevelInfo, false
	}
}

func main() {
	// Logs go to stderr to keep stdout clean for command output (e.g., version --format json)
	app.SetupLogging(getLogLevel())

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
