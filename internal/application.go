package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/config"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/entity"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/registry"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/repository"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/repository/storage"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/usecase"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/transport/rest"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	policy, err := entity.ParseOpeningPolicy(conf.Session.OpeningPolicy)
	if err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	summaryRepo := repository.NewSummaryRepository(redisStorage, conf.Session.SummaryTTL)
	rooms := registry.New(policy, entity.DisplayNameResolver{})
	gameManager := usecase.NewGameManager(logger, rooms, summaryRepo)

	go gameManager.MaintainRooms(ctx, conf.Session.SweepInterval, conf.Session.IdleTimeout)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, rest.NewRouter(logger, gameManager)); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
