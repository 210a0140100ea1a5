// Package minimax implements the exhaustive game-tree search that picks the
// automated player's moves.
//
// An Engine plays one mark (the maximizer) against its opponent (the
// minimizer). Scores are 10-depth for a maximizer win, depth-10 for a
// minimizer win and 0 for a draw, so faster wins and slower losses rank
// higher. Searches mutate the caller's board in place and always restore it
// before returning.
package minimax

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// WinScore is the value of a win found at depth 0.
const WinScore = 10

var (
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrInvalidMark  = errors.New("engine mark must be X or O")
)

// MoveScore is the minimax value of playing Move for the maximizer.
type MoveScore struct {
	Move  entity.Move `json:"move"`
	Score int         `json:"score"`
}

// Stats describes one top-level search.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// Engine holds no state between calls and is safe for concurrent use as long
// as each call gets its own board.
type Engine struct {
	logger *slog.Logger

	maximizer entity.Mark
	minimizer entity.Mark
}

func New(logger *slog.Logger, mark entity.Mark) (*Engine, error) {
	if !mark.IsPlayer() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	return &Engine{
		logger:    logger.With("component", "minimax", "mark", mark),
		maximizer: mark,
		minimizer: mark.Opponent(),
	}, nil
}

// MustNew is New for marks known at compile time.
func MustNew(logger *slog.Logger, mark entity.Mark) *Engine {
	engine, err := New(logger, mark)
	if err != nil {
		panic(err)
	}

	return engine
}

func (that *Engine) Mark() entity.Mark {
	return that.maximizer
}

// Evaluate returns the minimax value of board with maximizing telling whose
// turn it is.
func (that *Engine) Evaluate(board *entity.Board, depth int, maximizing bool) int {
	var nodes int
	return that.evaluate(board, depth, maximizing, &nodes)
}

func (that *Engine) evaluate(board *entity.Board, depth int, maximizing bool, nodes *int) int {
	*nodes++

	switch {
	case board.IsWinner(that.maximizer):
		return WinScore - depth
	case board.IsWinner(that.minimizer):
		return depth - WinScore
	case board.IsFull():
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, move := range board.LegalMoves() {
			board.ApplyMove(move, that.maximizer)
			best = max(best, that.evaluate(board, depth+1, false, nodes))
			board.UndoMove(move)
		}

		return best
	}

	best := math.MaxInt
	for _, move := range board.LegalMoves() {
		board.ApplyMove(move, that.minimizer)
		best = min(best, that.evaluate(board, depth+1, true, nodes))
		board.UndoMove(move)
	}

	return best
}

// scoreMove plays move for the maximizer and evaluates the opponent's reply.
func (that *Engine) scoreMove(board *entity.Board, move entity.Move, nodes *int) int {
	board.ApplyMove(move, that.maximizer)
	defer board.UndoMove(move)

	return that.evaluate(board, 0, false, nodes)
}

// BestMove returns the maximizer's optimal move. Among equally scored moves
// the first in row-major order wins. Calling it on a board without legal
// moves panics with ErrNoLegalMoves.
func (that *Engine) BestMove(board *entity.Board) entity.Move {
	move, _, _ := that.Search(board)

	return move
}

// Search is BestMove that also reports the chosen move's score and the search
// statistics.
func (that *Engine) Search(board *entity.Board) (entity.Move, int, Stats) {
	log := that.logger.With("method", "Search")

	moves := board.LegalMoves()
	if len(moves) == 0 {
		panic(fmt.Errorf("%w: board %s", ErrNoLegalMoves, board))
	}

	started := time.Now()

	var (
		nodes     int
		bestMove  entity.Move
		bestScore = math.MinInt
	)

	for _, move := range moves {
		if score := that.scoreMove(board, move, &nodes); score > bestScore {
			bestMove, bestScore = move, score
		}
	}

	stats := Stats{Nodes: nodes, Duration: time.Since(started)}

	log.Debug("best move selected",
		"board", board.String(),
		"move", bestMove.String(),
		"score", bestScore,
		"nodes", stats.Nodes,
		"duration", stats.Duration,
	)

	return bestMove, bestScore, stats
}

// Analyze scores every legal move in row-major order.
func (that *Engine) Analyze(board *entity.Board) []MoveScore {
	moves := board.LegalMoves()
	scores := make([]MoveScore, 0, len(moves))

	var nodes int
	for _, move := range moves {
		scores = append(scores, MoveScore{Move: move, Score: that.scoreMove(board, move, &nodes)})
	}

	that.logger.Debug("board analyzed", "board", board.String(), "moves", len(scores), "nodes", nodes)

	return scores
}
