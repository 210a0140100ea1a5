package console

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

func (that *Session) render(board *entity.Board) {
	var sb strings.Builder

	sb.WriteString("\n    1   2   3\n")
	for row := range board {
		if row > 0 {
			sb.WriteString("   ---+---+---\n")
		}

		sb.WriteString(string(rune('1' + row)))
		sb.WriteString("  ")

		for col := range board[row] {
			if col > 0 {
				sb.WriteString("|")
			}

			sb.WriteString(" ")
			sb.WriteString(that.colorMark(board[row][col]))
			sb.WriteString(" ")
		}

		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	that.printf("%s", sb.String())
}

func (that *Session) colorMark(mark entity.Mark) string {
	switch mark {
	case entity.X:
		return that.au.Bold(that.au.Red("X")).String()
	case entity.O:
		return that.au.Bold(that.au.Cyan("O")).String()
	default:
		return " "
	}
}
