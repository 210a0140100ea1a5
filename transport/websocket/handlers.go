package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var errPayloadMissingPlayer = errors.New("player is missing in payload")

func (that *Server) handleConnect(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return c.sendError(msg.Action, "malformed payload")
	}

	// clients without a stored id fall back to the session cookie
	playerID := c.sessionID
	if payloadReq.Player != nil && payloadReq.Player.ID != "" {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return c.sendError(msg.Action, "failed to create a new player")
	}

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		switch {
		case err == nil:
			payloadResp.Game = maskGameDetails(game)
		case errors.Is(err, apperror.ErrGameNotFound):
			log.Info("game expired", "gameID", player.GameID)
		default:
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return c.sendError(msg.Action, "failed to get the game")
		}
	}

	if err = c.sendMessage(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewGame")

	playerID, err := requirePlayer(msg)
	if err != nil {
		log.Error("invalid payload", "error", err)
		return c.sendError(msg.Action, "player is required")
	}

	game, err := that.gameUseCase.GetOrCreateGame(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get game", "playerID", playerID, "error", err)
		return c.sendError(msg.Action, "failed to create a new game")
	}

	log.Info("player is in game", "playerID", playerID, "gameID", game.ID)

	return c.sendMessage(msg.Action, Payload{
		Player: findPlayer(game, playerID),
		Game:   maskGameDetails(game),
	})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.Player == nil || payloadReq.Player.ID == "" {
		return c.sendError(msg.Action, "player is required")
	}

	move, err := payloadReq.turn()
	if err != nil {
		return c.sendError(msg.Action, "move is required")
	}

	playerID := payloadReq.Player.ID
	log = log.With("playerID", playerID)

	game, err := that.gameUseCase.MakeTurn(ctx, playerID, move)
	if err != nil {
		log.Info("turn rejected", "move", move.String(), "error", err)

		payloadResp := Payload{Error: turnErrorMessage(err)}
		if game != nil {
			payloadResp.Game = maskGameDetails(game)
		}

		return c.sendMessage(msg.Action, payloadResp)
	}

	log.Info("player made a turn", "gameID", game.ID, "status", game.Status)

	return c.sendMessage(msg.Action, Payload{
		Player: findPlayer(game, playerID),
		Game:   maskGameDetails(game),
	})
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameLeave")

	playerID, err := requirePlayer(msg)
	if err != nil {
		return c.sendError(msg.Action, "player is required")
	}

	if err = that.gameUseCase.LeaveGame(ctx, playerID); err != nil {
		log.Error("failed to leave game", "playerID", playerID, "error", err)
		return c.sendError(msg.Action, "game doesn't exist")
	}

	log.Info("player left", "playerID", playerID)

	return c.sendMessage(msg.Action, Payload{Player: &entity.Player{ID: playerID}})
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

func requirePlayer(msg *Message) (string, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return "", err
	}

	if payload.Player == nil || payload.Player.ID == "" {
		return "", errPayloadMissingPlayer
	}

	return payload.Player.ID, nil
}

func (that Payload) turn() (entity.Move, error) {
	switch {
	case that.Move != nil:
		return *that.Move, nil
	case that.Cell != nil:
		return entity.MoveFromIndex(*that.Cell)
	default:
		return entity.Move{}, entity.ErrInvalidCell
	}
}

func turnErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return "game is already finished"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "not your turn"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell is already occupied"
	case errors.Is(err, apperror.ErrInvalidCell):
		return "invalid cell"
	case errors.Is(err, apperror.ErrNoActiveGame), errors.Is(err, apperror.ErrGameNotFound):
		return "no active game"
	default:
		return "failed to make turn"
	}
}

func findPlayer(game *entity.Game, playerID string) *entity.Player {
	for _, player := range game.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

// maskGameDetails hides the player list from the game payload.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil

	return &masked
}
