package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// SessionFactory builds the session backing one connection.
type SessionFactory func(id string) *usecase.Session

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger     *slog.Logger
	newSession SessionFactory
	upgrader   websocket.Upgrader

	handlers map[string]handlerFunc
}

// connection is one client. Writes come from the read loop and from computer replies.
type connection struct {
	ws      *websocket.Conn
	session *usecase.Session
	logger  *slog.Logger

	writeMu sync.Mutex
	replies sync.WaitGroup
}

func New(logger *slog.Logger, newSession SessionFactory) *Server {
	server := &Server{
		logger:     logger.With("component", "websocket"),
		newSession: newSession,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionState] = server.handleState

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer ws.Close()

	sessionID := pkg.GenerateNewSessionID()
	conn := &connection{
		ws:      ws,
		session: that.newSession(sessionID),
		logger:  that.logger.With("session", sessionID),
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer func() {
		cancel()
		conn.replies.Wait()
	}()

	log.Info("WebSocket connection established", "session", sessionID)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("WebSocket connection closed", "session", sessionID, "reason", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := conn.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := conn.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("error reading message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)

			if err = conn.sendError(actionError, "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)

			if err = conn.sendError(message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			return fmt.Errorf("error processing %s: %w", message.Action, err)
		}
	}
}

func (that *connection) send(action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.ws.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(action, reason string) error {
	return that.send(action, ResponsePayload{Error: reason})
}

func (that *connection) sendSnapshot(action string, snapshot usecase.Snapshot) error {
	payload := ResponsePayload{Game: &snapshot}
	if snapshot.Outcome.IsTerminal() {
		payload.Message = snapshot.Outcome.Message()
	}

	return that.send(action, payload)
}
