// Package console plays tic-tac-toe against the minimax engine in a terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

var (
	ErrQuit     = errors.New("player quit")
	ErrBadInput = errors.New("enter row and column between 1 and 3, e.g. 2 3")
)

type Options struct {
	// HumanFirst gives the human X.
	HumanFirst bool
	Colors     bool
}

type Session struct {
	logger *slog.Logger

	scanner *bufio.Scanner
	out     io.Writer
	au      aurora.Aurora

	humanFirst bool
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, opts Options) *Session {
	return &Session{
		logger:     logger.With("component", "console"),
		scanner:    bufio.NewScanner(in),
		out:        out,
		au:         aurora.NewAurora(opts.Colors),
		humanFirst: opts.HumanFirst,
	}
}

// Run plays games until the player declines a rematch, quits or input ends.
func (that *Session) Run() error {
	for {
		if _, err := that.PlayGame(); err != nil {
			if errors.Is(err, ErrQuit) || errors.Is(err, io.EOF) {
				that.println("Bye!")
				return nil
			}

			return err
		}

		again, err := that.askRestart()
		if err != nil || !again {
			that.println("Bye!")
			return nil
		}
	}
}

// PlayGame plays one game from an empty board and returns how it ended.
func (that *Session) PlayGame() (entity.Outcome, error) {
	humanMark, botMark := entity.O, entity.X
	if that.humanFirst {
		humanMark, botMark = entity.X, entity.O
	}

	engine := minimax.MustNew(that.logger, botMark)

	var board entity.Board
	that.printf("You play %s.\n", that.colorMark(humanMark))

	for mark := entity.X; !board.IsTerminal(); mark = mark.Opponent() {
		if mark == botMark {
			move := engine.BestMove(&board)
			board.ApplyMove(move, botMark)
			that.printf("Bot plays %d %d\n", move.Row+1, move.Col+1)
			continue
		}

		that.render(&board)

		move, err := that.readMove(&board)
		if err != nil {
			return board.Outcome(), err
		}

		board.ApplyMove(move, humanMark)
	}

	that.render(&board)

	outcome := board.Outcome()
	switch board.Winner() {
	case humanMark:
		that.println(that.au.Green("You win!").String())
	case botMark:
		that.println(that.au.Red("Bot wins.").String())
	default:
		that.println(that.au.Yellow("It's a draw.").String())
	}

	that.logger.Debug("game over", "outcome", outcome, "board", board.String())

	return outcome, nil
}

// readMove prompts until the player enters an empty cell.
func (that *Session) readMove(board *entity.Board) (entity.Move, error) {
	for {
		that.printf("Your move (row col, q to quit): ")

		line, err := that.readLine()
		if err != nil {
			return entity.Move{}, err
		}

		move, err := ParseMove(line)
		if err != nil {
			if errors.Is(err, ErrQuit) {
				return entity.Move{}, err
			}

			that.println(that.au.Red(ErrBadInput.Error()).String())
			continue
		}

		if board.Cell(move) != entity.Empty {
			that.println(that.au.Red("That cell is taken.").String())
			continue
		}

		return move, nil
	}
}

func (that *Session) askRestart() (bool, error) {
	that.printf("Play again? (y/n): ")

	line, err := that.readLine()
	if err != nil {
		return false, err
	}

	answer := strings.ToLower(line)

	return answer == "y" || answer == "yes", nil
}

func (that *Session) readLine() (string, error) {
	if !that.scanner.Scan() {
		if err := that.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return "", io.EOF
	}

	return strings.TrimSpace(that.scanner.Text()), nil
}

// ParseMove reads a 1-based "row col" pair as typed by a person.
func ParseMove(line string) (entity.Move, error) {
	fields := strings.Fields(line)

	if len(fields) == 1 && (fields[0] == "q" || fields[0] == "quit") {
		return entity.Move{}, ErrQuit
	}

	if len(fields) != 2 {
		return entity.Move{}, ErrBadInput
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Move{}, ErrBadInput
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Move{}, ErrBadInput
	}

	move := entity.Move{Row: row - 1, Col: col - 1}
	if !move.Valid() {
		return entity.Move{}, ErrBadInput
	}

	return move, nil
}

func (that *Session) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Session) println(s string) {
	that.printf("%s\n", s)
}
