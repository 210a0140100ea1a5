package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const BoardSize = 3

type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Outcome of a board: who has a line, a draw, or nothing yet.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeXWins      Outcome = "x_wins"
	OutcomeOWins      Outcome = "o_wins"
	OutcomeDraw       Outcome = "draw"
)

var (
	// shared with the game layer so errors.Is matches either way
	ErrCellOccupied = apperror.ErrCellOccupied
	ErrInvalidCell  = apperror.ErrInvalidCell

	ErrInvalidMark  = errors.New("invalid mark")
	ErrTurnOrder    = errors.New("marks do not alternate")
	ErrBothWinners  = errors.New("both players have a winning line")
	ErrPlayAfterWin = errors.New("moves were played after the game was won")

	// Lines lists the 3 rows, 3 columns and 2 diagonals.
	Lines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) IsPlayer() bool {
	return that == X || that == O
}

// Move is a 0-indexed (row, column) coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) Valid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Index returns the cell number 0..8 counted in row-major order.
func (that Move) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func MoveFromIndex(cell int) (Move, error) {
	if cell < 0 || cell >= BoardSize*BoardSize {
		return Move{}, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	return Move{Row: cell / BoardSize, Col: cell % BoardSize}, nil
}

// Board is a 3x3 grid. It is a value: copying a Board copies every cell.
type Board [BoardSize][BoardSize]Mark

func (that *Board) Cell(move Move) Mark {
	return that[move.Row][move.Col]
}

// IsWinner reports whether any line is fully marked by mark.
func (that *Board) IsWinner(mark Mark) bool {
	if !mark.IsPlayer() {
		return false
	}

	for _, line := range Lines {
		if that.Cell(line[0]) == mark && that.Cell(line[1]) == mark && that.Cell(line[2]) == mark {
			return true
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	for row := range that {
		for col := range that[row] {
			if that[row][col] == Empty {
				return false
			}
		}
	}

	return true
}

// LegalMoves returns the empty cells in row-major order. Search tie-breaks
// depend on this order.
func (that *Board) LegalMoves() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := range that {
		for col := range that[row] {
			if that[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// ApplyMove marks an empty cell. Any other use is a programming error and panics.
func (that *Board) ApplyMove(move Move, mark Mark) {
	if !move.Valid() {
		panic(fmt.Errorf("%w: %s", ErrInvalidCell, move))
	}

	if !mark.IsPlayer() {
		panic(fmt.Errorf("%w: %q", ErrInvalidMark, mark))
	}

	if that[move.Row][move.Col] != Empty {
		panic(fmt.Errorf("%w: %s", ErrCellOccupied, move))
	}

	that[move.Row][move.Col] = mark
}

func (that *Board) UndoMove(move Move) {
	that[move.Row][move.Col] = Empty
}

func (that *Board) Count(mark Mark) int {
	count := 0
	for row := range that {
		for col := range that[row] {
			if that[row][col] == mark {
				count++
			}
		}
	}

	return count
}

// NextMark returns the mark to move. X always opens.
func (that *Board) NextMark() Mark {
	if that.Count(X) > that.Count(O) {
		return O
	}

	return X
}

// Winner returns the mark owning a complete line, or Empty.
func (that *Board) Winner() Mark {
	switch {
	case that.IsWinner(X):
		return X
	case that.IsWinner(O):
		return O
	default:
		return Empty
	}
}

func (that *Board) Outcome() Outcome {
	switch {
	case that.IsWinner(X):
		return OutcomeXWins
	case that.IsWinner(O):
		return OutcomeOWins
	case that.IsFull():
		return OutcomeDraw
	default:
		return OutcomeInProgress
	}
}

func (that *Board) IsTerminal() bool {
	return that.Outcome() != OutcomeInProgress
}

// Validate checks that the board could have been reached by alternating play
// with X moving first.
func (that *Board) Validate() error {
	for row := range that {
		for col := range that[row] {
			if mark := that[row][col]; mark != Empty && !mark.IsPlayer() {
				return fmt.Errorf("%w: %q at %s", ErrInvalidMark, mark, Move{Row: row, Col: col})
			}
		}
	}

	if diff := that.Count(X) - that.Count(O); diff < 0 || diff > 1 {
		return fmt.Errorf("%w: x=%d o=%d", ErrTurnOrder, that.Count(X), that.Count(O))
	}

	xWins, oWins := that.IsWinner(X), that.IsWinner(O)
	if xWins && oWins {
		return ErrBothWinners
	}

	// the winner made the last move
	diff := that.Count(X) - that.Count(O)
	if xWins && diff != 1 {
		return fmt.Errorf("%w: x has a line but o moved after it", ErrPlayAfterWin)
	}

	if oWins && diff != 0 {
		return fmt.Errorf("%w: o has a line but x moved after it", ErrPlayAfterWin)
	}

	return nil
}

func (that *Board) String() string {
	var sb strings.Builder
	for row := range that {
		if row > 0 {
			sb.WriteByte('/')
		}
		for col := range that[row] {
			if that[row][col] == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(that[row][col]))
		}
	}

	return sb.String()
}
