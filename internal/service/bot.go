package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) (entity.Move, error)
}

type botService struct {
	logger *slog.Logger

	// one engine per mark the bot can hold
	engines map[entity.Mark]*minimax.Engine
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		engines: map[entity.Mark]*minimax.Engine{
			entity.X: minimax.MustNew(logger, entity.X),
			entity.O: minimax.MustNew(logger, entity.O),
		},
	}
}

// MakeTurn plays the bot's optimal move on game and returns it.
func (that *botService) MakeTurn(game *entity.Game) (entity.Move, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	if game.Board.IsFull() {
		return entity.Move{}, ErrNoAvailableMoves
	}

	botPlayer := game.Bot()
	if botPlayer == nil {
		return entity.Move{}, ErrBotNotFound
	}

	engine, ok := that.engines[botPlayer.Mark]
	if !ok {
		return entity.Move{}, fmt.Errorf("%w: bot holds mark %q", minimax.ErrInvalidMark, botPlayer.Mark)
	}

	move := engine.BestMove(&game.Board)

	if err := tictactoe.MakeTurn(game, botPlayer.Mark, move); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Debug("bot moved", "move", move.String(), "status", game.Status)

	return move, nil
}
