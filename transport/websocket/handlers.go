package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

func (that *Server) handleConnect(_ context.Context, conn *connection, msg *Message) error {
	conn.logger.Info("player connected")

	return conn.sendSnapshot(msg.Action, conn.session.State())
}

func (that *Server) handleState(_ context.Context, conn *connection, msg *Message) error {
	return conn.sendSnapshot(msg.Action, conn.session.State())
}

func (that *Server) handleNewGame(_ context.Context, conn *connection, msg *Message) error {
	log := conn.logger.With("method", "handleNewGame")

	var payloadReq RequestPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		log.Error("failed to unmarshal payload", "error", err)
		return conn.sendError(msg.Action, "malformed payload")
	}

	mode, err := entity.ParseMode(payloadReq.Mode)
	if err != nil {
		log.Error("unknown mode", "mode", payloadReq.Mode)
		return conn.sendError(msg.Action, err.Error())
	}

	return conn.sendSnapshot(msg.Action, conn.session.NewGame(mode))
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := conn.logger.With("method", "handleGameTurn")

	var payloadReq RequestPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		log.Error("failed to unmarshal payload", "error", err)
		return conn.sendError(msg.Action, "malformed payload")
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return conn.sendError(msg.Action, "row and col are required")
	}

	snapshot, err := conn.session.Move(ctx, *payloadReq.Row, *payloadReq.Col)
	switch {
	case errors.Is(err, apperror.ErrInvalidMove), errors.Is(err, apperror.ErrComputerThinking):
		return conn.sendError(msg.Action, err.Error())
	case err != nil:
		log.Error("failed to make turn", "error", err)
		return conn.sendError(msg.Action, "failed to make turn")
	}

	if err = conn.sendSnapshot(msg.Action, snapshot); err != nil {
		return err
	}

	if snapshot.AwaitingComputer {
		conn.replies.Add(1)
		go that.computerReply(ctx, conn)
	}

	return nil
}

// computerReply runs outside the read loop so the client can still start a new game during the delay.
func (that *Server) computerReply(ctx context.Context, conn *connection) {
	defer conn.replies.Done()

	log := conn.logger.With("method", "computerReply")

	snapshot, err := conn.session.ComputerReply(ctx)
	if errors.Is(err, apperror.ErrNoPendingReply) {
		return
	}

	if err != nil {
		log.Info("computer reply dropped", "error", err)
		return
	}

	if err = conn.sendSnapshot(actionComputer, snapshot); err != nil {
		log.Error("failed to send computer reply", "error", err)
	}
}
