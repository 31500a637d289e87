package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/config"
)

// configPathEnv - overrides the location of config.yml.
const configPathEnv = "CONFIG_PATH"

// main - starts the tic-tac-toe room server: WebSocket play on socket-port,
// summaries over HTTP on http-port, finished sessions archived to Redis.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "tictactoe server stopped: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(conf.LogLevel)}))

	logger.Info("room server starting",
		"opening_policy", conf.Session.OpeningPolicy,
		"idle_timeout", conf.Session.IdleTimeout.String(),
	)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

func configPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return filepath.Join(baseDir, "config.yml")
}

// parseLevel - unknown values fall back to info.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
