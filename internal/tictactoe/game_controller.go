package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// MakeTurn validates and applies a player's move, then updates the game
// status or passes the turn.
func MakeTurn(gameInstance *entity.Game, player entity.Mark, move entity.Move) error {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateMove(gameInstance, player, move); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.Board.ApplyMove(move, player)
	updateGameStatus(gameInstance, player)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, player entity.Mark, move entity.Move) error {
	if !move.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if gameInstance.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if gameInstance.Board.Cell(move) != entity.Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(gameInstance *entity.Game, player entity.Mark) {
	gameInstance.UpdateGameState()

	if gameInstance.IsOngoing() {
		gameInstance.Turn = player.Opponent()
	}
}
