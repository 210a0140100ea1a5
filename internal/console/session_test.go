package console

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// drawLine is a human line as X that the bot answers at (1,1), (0,1), (2,0)
// and (1,2), filling the board without a winner.
const drawLine = "1 1\n3 3\n3 2\n1 3\n2 1\n"

func newTestSession(input string, humanFirst bool) (*Session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, strings.NewReader(input), out, Options{HumanFirst: humanFirst}), out
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		line    string
		want    entity.Move
		wantErr error
	}{
		{"1 1", entity.Move{Row: 0, Col: 0}, nil},
		{"  3   2 ", entity.Move{Row: 2, Col: 1}, nil},
		{"0 1", entity.Move{}, ErrBadInput},
		{"4 1", entity.Move{}, ErrBadInput},
		{"1", entity.Move{}, ErrBadInput},
		{"1 2 3", entity.Move{}, ErrBadInput},
		{"a b", entity.Move{}, ErrBadInput},
		{"", entity.Move{}, ErrBadInput},
		{"q", entity.Move{}, ErrQuit},
		{"quit", entity.Move{}, ErrQuit},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			move, err := ParseMove(tt.line)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, move)
		})
	}
}

func TestSession_PlayGame(t *testing.T) {
	t.Run("Scripted line ends in a draw", func(t *testing.T) {
		// Given: the human plays X along a drawing line
		session, out := newTestSession(drawLine, true)

		// When: the game is played
		outcome, err := session.PlayGame()

		// Then: the bot answers every threat and the game is drawn
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeDraw, outcome)
		assert.Contains(t, out.String(), "Bot plays 2 2")
		assert.Contains(t, out.String(), "Bot plays 1 2")
		assert.Contains(t, out.String(), "It's a draw.")
	})

	t.Run("Bad input is asked again", func(t *testing.T) {
		// Given: invalid entries and an occupied cell before the drawing line
		input := "0 0\nhello\n1 1\n2 2\n" + strings.TrimPrefix(drawLine, "1 1\n")
		session, out := newTestSession(input, true)

		// When: the game is played
		outcome, err := session.PlayGame()

		// Then: each bad entry is reported and the game still completes
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeDraw, outcome)
		assert.Equal(t, 2, strings.Count(out.String(), ErrBadInput.Error()))
		assert.Equal(t, 1, strings.Count(out.String(), "That cell is taken."))
	})

	t.Run("Careless human loses", func(t *testing.T) {
		// Given: the human as O answers the corner opening in the far corner
		// and then takes cells from the bottom right
		session, out := newTestSession("3 3\n3 2\n3 1\n2 3\n2 2\n2 1\n1 3\n1 2\n1 1\n", false)

		// When: the game is played
		outcome, err := session.PlayGame()

		// Then: the bot wins
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeXWins, outcome)
		assert.Contains(t, out.String(), "Bot wins.")
		assert.NotContains(t, out.String(), "You win!")
	})

	t.Run("Input ends mid game", func(t *testing.T) {
		session, _ := newTestSession("1 1\n", true)

		outcome, err := session.PlayGame()

		require.ErrorIs(t, err, io.EOF)
		assert.Equal(t, entity.OutcomeInProgress, outcome)
	})
}

func TestSession_Run(t *testing.T) {
	t.Run("Rematch then stop", func(t *testing.T) {
		// Given: two drawing games separated by a yes and followed by a no
		session, out := newTestSession(drawLine+"y\n"+drawLine+"n\n", true)

		// When: running the session
		err := session.Run()

		// Then: both games are played
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out.String(), "It's a draw."))
		assert.Equal(t, 2, strings.Count(out.String(), "Play again?"))
		assert.True(t, strings.HasSuffix(out.String(), "Bye!\n"))
	})

	t.Run("Bot opens and the human quits", func(t *testing.T) {
		// Given: the bot plays X
		session, out := newTestSession("q\n", false)

		// When: the human quits at the first prompt
		err := session.Run()

		// Then: the bot's corner opening was shown
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Bot plays 1 1")
		assert.NotContains(t, out.String(), "Play again?")
	})
}

func TestSession_RenderWithoutColors(t *testing.T) {
	session, out := newTestSession("", true)
	board := entity.Board{{entity.X, entity.Empty, entity.O}, {}, {}}
	board[1][1] = entity.X

	session.render(&board)

	assert.Contains(t, out.String(), "1   X |   | O \n")
	assert.Contains(t, out.String(), "2     | X |   \n")
}
