package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/config"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tui"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/rest"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/websocket"
)

var ErrRedisRequired = errors.New("the watch frontend needs redis.enabled")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	mode, err := conf.Mode()
	if err != nil {
		return fmt.Errorf("invalid default mode: %w", err)
	}

	var outcomes *redis.Client
	if conf.Redis.Enabled {
		conn, connErr := redis.Connect(ctx, conf.Redis.GetRedisAddr())
		if connErr != nil {
			return fmt.Errorf("could not connect to redis: %w", connErr)
		}

		defer func() {
			if closeErr := conn.Close(); closeErr != nil {
				log.Error("could not close redis connection", "error", closeErr)
			}
		}()

		outcomes = redis.New(conn, conf.Redis.Channel)
		log.Info("Connected to redis", "channel", outcomes.Channel())
	}

	newSession := func(id string) *usecase.Session {
		var publisher usecase.OutcomePublisher
		if outcomes != nil {
			publisher = outcomes
		}

		session := usecase.NewSession(logger, id, tictactoe.NewEngine(), publisher, conf.ComputerDelay)
		session.NewGame(mode)

		return session
	}

	switch conf.Frontend {
	case config.FrontendServer:
		return runServer(ctx, logger, conf, newSession)
	case config.FrontendWatch:
		if outcomes == nil {
			return ErrRedisRequired
		}

		return runWatch(ctx, logger, outcomes)
	default:
		return runTerminal(ctx, logger, newSession(pkg.GenerateTerminalSessionID()))
	}
}

func runTerminal(ctx context.Context, logger *slog.Logger, session *usecase.Session) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}

	if err = screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	if err = tui.New(logger, screen, session).Run(ctx); err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}

	return nil
}

func runServer(ctx context.Context, logger *slog.Logger, conf *config.Config, newSession websocket.SessionFactory) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- rest.Start(ctx, logger, conf.HTTPPort)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsErrCh <- websocket.New(logger, newSession).Start(ctx, conf.SocketPort)
	}()

	var err error
	select {
	case err = <-httpErrCh:
		if err != nil {
			err = fmt.Errorf("HTTP server error: %w", err)
		}
	case err = <-wsErrCh:
		if err != nil {
			err = fmt.Errorf("WebSocket server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()

	return err
}

// runWatch logs every finished game published on the outcome channel until ctx is done.
func runWatch(ctx context.Context, logger *slog.Logger, outcomes *redis.Client) error {
	log := logger.With("component", "watch")

	events, err := outcomes.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch outcomes: %w", err)
	}

	log.Info("Watching outcomes", "channel", outcomes.Channel())

	for event := range events {
		logOutcome(log, event)
	}

	return nil
}

func logOutcome(log *slog.Logger, event *entity.OutcomeEvent) {
	log.Info("game finished",
		"session", event.SessionID,
		"outcome", event.Message,
		"mode", event.Mode,
		"board", event.Board.String(),
		"x_wins", event.Scores.XWins,
		"o_wins", event.Scores.OWins,
		"ties", event.Scores.Ties,
		"at", event.At.Format(time.RFC3339),
	)
}
