package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

const maxBodySize = 1 << 12

var (
	ErrBoardShape    = errors.New("board must have 3 rows of 3 cells")
	ErrBoardFinished = errors.New("game on this board is already over")
)

type boardRequest struct {
	Board [][]entity.Mark `json:"board"`
}

type bestMoveResponse struct {
	Mark  entity.Mark `json:"mark"`
	Move  entity.Move `json:"move"`
	Cell  int         `json:"cell"`
	Score int         `json:"score"`
	Nodes int         `json:"nodes"`
}

type analyzeResponse struct {
	Mark    entity.Mark         `json:"mark"`
	Outcome entity.Outcome      `json:"outcome"`
	Scores  []minimax.MoveScore `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) bestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "bestMove")

	board, err := decodeBoard(w, r)
	if err == nil && board.IsTerminal() {
		err = ErrBoardFinished
	}

	if err != nil {
		log.Info("bad request", "error", err)
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	mark := board.NextMark()
	move, score, stats := that.engines[mark].Search(board)

	that.writeJSON(w, http.StatusOK, bestMoveResponse{
		Mark:  mark,
		Move:  move,
		Cell:  move.Index(),
		Score: score,
		Nodes: stats.Nodes,
	})
}

func (that *Server) analyze(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "analyze")

	board, err := decodeBoard(w, r)
	if err != nil {
		log.Info("bad request", "error", err)
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	mark := board.NextMark()

	// finished boards only report the outcome
	if board.IsTerminal() {
		that.writeJSON(w, http.StatusOK, analyzeResponse{Mark: mark, Outcome: board.Outcome(), Scores: []minimax.MoveScore{}})
		return
	}

	that.writeJSON(w, http.StatusOK, analyzeResponse{
		Mark:    mark,
		Outcome: board.Outcome(),
		Scores:  that.engines[mark].Analyze(board),
	})
}

// decodeBoard reads a board that could be reached by alternating play.
func decodeBoard(w http.ResponseWriter, r *http.Request) (*entity.Board, error) {
	var req boardRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}

	if len(req.Board) != entity.BoardSize {
		return nil, ErrBoardShape
	}

	var board entity.Board
	for row := range req.Board {
		if len(req.Board[row]) != entity.BoardSize {
			return nil, ErrBoardShape
		}

		copy(board[row][:], req.Board[row])
	}

	if err := board.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}

	return &board, nil
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
