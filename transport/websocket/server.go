package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/usecase"
)

const (
	shutdownTimeout = 5 * time.Second
	readLimit       = 4096
)

type gameManager interface {
	Handle(ctx context.Context, cmd usecase.Command) ([]usecase.Delivery, error)
	Disconnect(ctx context.Context, endpointID string)
}

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*client
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	return &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		connections: make(map[string]*client),
	}
}

// Handler - routes /ws to the upgrade handler.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and shuts it down when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until the peer goes away.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn.SetReadLimit(readLimit)

	endpoint := newClient(uuid.NewString(), conn)
	that.register(endpoint)

	defer func() {
		that.unregister(endpoint.id)
		that.gameManager.Disconnect(ctx, endpoint.id)

		if err = conn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}

		log.Info("WebSocket connection closed", "endpointID", endpoint.id)
	}()

	log.Info("WebSocket connection established", "endpointID", endpoint.id)

	if err = that.handleMessages(ctx, endpoint); err != nil {
		log.Debug("stopped reading messages", "endpointID", endpoint.id, "error", err)
	}
}

func (that *Server) register(endpoint *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[endpoint.id] = endpoint
}

func (that *Server) unregister(endpointID string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	delete(that.connections, endpointID)
}

func (that *Server) connection(endpointID string) (*client, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	endpoint, ok := that.connections[endpointID]

	return endpoint, ok
}
