package minimax

import (
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.X
	o = entity.O
	e = entity.Empty
)

func newTestEngine(t *testing.T, mark entity.Mark) *Engine {
	t.Helper()

	engine, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mark)
	require.NoError(t, err)

	return engine
}

func TestNew(t *testing.T) {
	t.Run("Maximizer and minimizer come from the mark", func(t *testing.T) {
		engine := newTestEngine(t, o)

		assert.Equal(t, o, engine.Mark())
		assert.Equal(t, x, engine.minimizer)
	})

	t.Run("Empty mark is rejected", func(t *testing.T) {
		_, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), e)

		require.ErrorIs(t, err, ErrInvalidMark)
	})
}

func TestEngine_Evaluate(t *testing.T) {
	t.Run("Empty board is a forced draw", func(t *testing.T) {
		// Given: an empty board and an engine playing X
		engine := newTestEngine(t, x)
		var board entity.Board

		// When: evaluating with the maximizer to move
		score := engine.Evaluate(&board, 0, true)

		// Then: perfect play from both sides draws
		assert.Equal(t, 0, score)
		assert.Equal(t, entity.Board{}, board)
	})

	t.Run("Terminal boards", func(t *testing.T) {
		engine := newTestEngine(t, x)

		won := entity.Board{{x, x, x}, {o, o, e}, {e, e, e}}
		lost := entity.Board{{o, o, o}, {x, x, e}, {x, e, e}}
		drawn := entity.Board{{x, o, x}, {x, o, o}, {o, x, x}}

		assert.Equal(t, 10-4, engine.Evaluate(&won, 4, false))
		assert.Equal(t, 5-10, engine.Evaluate(&lost, 5, true))
		assert.Equal(t, 0, engine.Evaluate(&drawn, 9, true))
	})

	t.Run("Maximizer line is checked before minimizer line", func(t *testing.T) {
		// Given: a malformed board where both players own a line
		engine := newTestEngine(t, o)
		board := entity.Board{{x, x, x}, {o, o, o}, {e, e, e}}

		// Then: the maximizer's win takes priority
		assert.Equal(t, 10, engine.Evaluate(&board, 0, true))
	})

	t.Run("Deterministic and board is restored", func(t *testing.T) {
		// Given: a mid-game board
		engine := newTestEngine(t, o)
		board := entity.Board{{x, e, e}, {e, o, e}, {e, e, x}}
		before := board

		// When: evaluating twice
		first := engine.Evaluate(&board, 2, true)
		second := engine.Evaluate(&board, 2, true)

		// Then: both results agree and no speculative mark is left behind
		assert.Equal(t, first, second)
		assert.Equal(t, before, board)
	})

	t.Run("Faster win scores higher", func(t *testing.T) {
		engine := newTestEngine(t, x)

		// Given: X wins in one move at (0,2)
		winInOne := entity.Board{{x, x, e}, {o, o, e}, {e, e, e}}

		// Given: X must block at (2,0), which forks (1,0) and (2,1), winning on its next move
		winInThree := entity.Board{{x, e, o}, {e, o, e}, {e, e, x}}

		// When: evaluating both with X to move
		fast := engine.Evaluate(&winInOne, 0, true)
		slow := engine.Evaluate(&winInThree, 0, true)

		// Then: the quicker win is strictly better
		assert.Equal(t, 9, fast)
		assert.Equal(t, 7, slow)
		assert.Greater(t, fast, slow)
	})
}

func TestEngine_BestMove(t *testing.T) {
	t.Run("Empty board opens in the first corner", func(t *testing.T) {
		// Given: an empty board, every opening draws
		engine := newTestEngine(t, x)
		var board entity.Board

		// When: choosing the opening move
		move := engine.BestMove(&board)

		// Then: the tie goes to the first cell in row-major order
		assert.Equal(t, entity.Move{Row: 0, Col: 0}, move)
		assert.Equal(t, entity.Board{}, board)
	})

	t.Run("Completes the top row", func(t *testing.T) {
		// Given: X holds two cells of row 0
		engine := newTestEngine(t, x)
		board := entity.Board{{x, x, e}, {e, e, e}, {e, e, e}}

		// When: X picks a move
		move, score, _ := engine.Search(&board)

		// Then: X completes the line at once
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
		assert.Equal(t, WinScore, score)
	})

	t.Run("Winning beats blocking even when the block comes first", func(t *testing.T) {
		// Given: O threatens (0,2) and X can win at (1,2)
		engine := newTestEngine(t, x)
		board := entity.Board{{o, o, e}, {x, x, e}, {e, e, e}}

		// When: X picks a move
		move := engine.BestMove(&board)

		// Then: X takes the win
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, move)
	})

	t.Run("Blocks an immediate threat", func(t *testing.T) {
		// Given: X threatens row 0 and O is to move
		engine := newTestEngine(t, o)
		board := entity.Board{{x, x, e}, {o, e, e}, {e, e, e}}

		// When: O picks a move
		move, score, _ := engine.Search(&board)

		// Then: O blocks, and X's center fork still wins three plies later
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
		assert.Equal(t, -7, score)
	})

	t.Run("Single legal move", func(t *testing.T) {
		// Given: one empty cell and no winner yet
		engine := newTestEngine(t, x)
		board := entity.Board{{x, o, x}, {x, o, o}, {o, x, e}}
		require.False(t, board.IsWinner(x))
		require.False(t, board.IsWinner(o))

		// Then: that cell is returned
		assert.Equal(t, entity.Move{Row: 2, Col: 2}, engine.BestMove(&board))
	})

	t.Run("Full board panics", func(t *testing.T) {
		engine := newTestEngine(t, x)
		board := entity.Board{{x, o, x}, {x, o, o}, {o, x, x}}

		assert.Panics(t, func() {
			engine.BestMove(&board)
		})
	})

	t.Run("Search reports visited nodes", func(t *testing.T) {
		engine := newTestEngine(t, x)
		board := entity.Board{{x, o, x}, {x, o, o}, {o, x, e}}

		_, _, stats := engine.Search(&board)

		assert.Equal(t, 1, stats.Nodes)
	})
}

func TestEngine_Analyze(t *testing.T) {
	// Given: X can win at (0,2)
	engine := newTestEngine(t, x)
	board := entity.Board{{x, x, e}, {o, o, e}, {e, e, e}}

	// When: scoring every legal move
	scores := engine.Analyze(&board)

	// Then: moves are listed in row-major order with the win first
	require.Len(t, scores, 5)
	assert.Equal(t, MoveScore{Move: entity.Move{Row: 0, Col: 2}, Score: 10}, scores[0])
	for i, move := range board.LegalMoves() {
		assert.Equal(t, move, scores[i].Move)
	}
	assert.Equal(t, entity.Board{{x, x, e}, {o, o, e}, {e, e, e}}, board)
}

func TestEngine_BestMoveMatchesAnalyze(t *testing.T) {
	if testing.Short() {
		t.Skip("walks every reachable position")
	}

	engines := map[entity.Mark]*Engine{x: newTestEngine(t, x), o: newTestEngine(t, o)}
	seen := make(map[entity.Board]bool)

	var walk func(board *entity.Board)
	walk = func(board *entity.Board) {
		if seen[*board] || board.IsTerminal() {
			return
		}
		seen[*board] = true

		mark := board.NextMark()
		engine := engines[mark]
		before := *board

		move, score, _ := engine.Search(board)
		scores := engine.Analyze(board)
		require.Equal(t, before, *board)

		first := 0
		for i, ms := range scores {
			if ms.Score > scores[first].Score {
				first = i
			}
		}
		require.Equal(t, scores[first].Move, move, "board %s", board)
		require.Equal(t, scores[first].Score, score, "board %s", board)

		for _, next := range board.LegalMoves() {
			board.ApplyMove(next, mark)
			walk(board)
			board.UndoMove(next)
		}
	}

	var board entity.Board
	walk(&board)

	assert.Len(t, seen, 4520)
}

func TestSelfPlay(t *testing.T) {
	// Given: two engines, one per mark
	engines := map[entity.Mark]*Engine{x: newTestEngine(t, x), o: newTestEngine(t, o)}
	var board entity.Board

	// When: they play each other from an empty board
	mark := x
	var moves []entity.Move
	for !board.IsTerminal() {
		move := engines[mark].BestMove(&board)
		board.ApplyMove(move, mark)
		moves = append(moves, move)
		mark = mark.Opponent()
	}

	// Then: the game is a tie and replaying it gives the same moves
	assert.Equal(t, entity.OutcomeDraw, board.Outcome())
	assert.Len(t, moves, 9)
	assert.Equal(t, entity.Move{Row: 0, Col: 0}, moves[0])

	var replay entity.Board
	mark = x
	for _, move := range moves {
		require.Equal(t, move, engines[mark].BestMove(&replay))
		replay.ApplyMove(move, mark)
		mark = mark.Opponent()
	}
}

func TestEngineNeverLoses(t *testing.T) {
	if testing.Short() {
		t.Skip("plays every opponent line")
	}

	for _, botMark := range []entity.Mark{x, o} {
		t.Run(string(botMark), func(t *testing.T) {
			// Given: the engine plays botMark against every possible opponent
			engine := newTestEngine(t, botMark)
			games := 0

			var play func(board *entity.Board, toMove entity.Mark)
			play = func(board *entity.Board, toMove entity.Mark) {
				if board.IsTerminal() {
					games++
					// Then: the opponent never owns a line
					require.False(t, board.IsWinner(botMark.Opponent()), "lost on %s", board)
					return
				}

				if toMove == botMark {
					move := engine.BestMove(board)
					board.ApplyMove(move, botMark)
					play(board, toMove.Opponent())
					board.UndoMove(move)
					return
				}

				for _, move := range board.LegalMoves() {
					board.ApplyMove(move, toMove)
					play(board, toMove.Opponent())
					board.UndoMove(move)
				}
			}

			var board entity.Board
			play(&board, x)

			assert.Positive(t, games)
		})
	}
}
