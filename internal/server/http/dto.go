package httpserver

import (
	"xiangqi/internal/ai"
	"xiangqi/internal/server/game"
	"xiangqi/internal/xiangqi"
)

type CoordDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c CoordDTO) coord() xiangqi.Coord {
	return xiangqi.Coord{Row: c.Row, Col: c.Col}
}

// 前端用的招法结构
type MoveDTO struct {
	From CoordDTO `json:"from"`
	To   CoordDTO `json:"to"`
}

func moveToDTO(m xiangqi.Move) MoveDTO {
	f, t := xiangqi.CoordOf(m.From), xiangqi.CoordOf(m.To)
	return MoveDTO{
		From: CoordDTO{Row: f.Row, Col: f.Col},
		To:   CoordDTO{Row: t.Row, Col: t.Col},
	}
}

func movesToDTO(ms []xiangqi.Move) []MoveDTO {
	out := make([]MoveDTO, len(ms))
	for i, m := range ms {
		out[i] = moveToDTO(m)
	}
	return out
}

// CreateGameRequest 两个字段都可以省略
type CreateGameRequest struct {
	FEN        string `json:"fen"`
	Difficulty string `json:"difficulty"`
}

type SelectRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type MoveRequest struct {
	From CoordDTO `json:"from"`
	To   CoordDTO `json:"to"`
}

type AIRequest struct {
	Difficulty string `json:"difficulty"`
}

// GameResponse 前端刷新整个棋盘所需的全部信息
type GameResponse struct {
	ID         string                  `json:"id"`
	FEN        string                  `json:"fen"`
	Turn       string                  `json:"turn"`
	Status     string                  `json:"status"`
	Check      bool                    `json:"check"`
	Checkmate  bool                    `json:"checkmate"`
	Pieces     []xiangqi.PieceSnapshot `json:"pieces"`
	History    []xiangqi.MoveRecord    `json:"history"`
	Selection  *xiangqi.Selection      `json:"selection,omitempty"`
	LegalMoves []MoveDTO               `json:"legal_moves"`
	Difficulty string                  `json:"difficulty"`
	Thinking   bool                    `json:"thinking"`
}

func gameToResponse(s game.Snapshot) GameResponse {
	st := s.State
	pos := st.Position
	legal := []MoveDTO{}
	if st.Status == xiangqi.StatusInProgress {
		legal = movesToDTO(st.LegalMoves())
	}
	history := st.History
	if history == nil {
		history = []xiangqi.MoveRecord{}
	}
	return GameResponse{
		ID:         s.ID,
		FEN:        s.FEN,
		Turn:       st.Turn().String(),
		Status:     st.Status.String(),
		Check:      st.Check,
		Checkmate:  st.Checkmate,
		Pieces:     pos.Pieces(),
		History:    history,
		Selection:  st.Selection,
		LegalMoves: legal,
		Difficulty: s.Difficulty,
		Thinking:   s.Thinking,
	}
}

type MoveResponse struct {
	Game GameResponse       `json:"game"`
	Move xiangqi.MoveRecord `json:"move"`
}

type AIResponse struct {
	Game  GameResponse       `json:"game"`
	Move  xiangqi.MoveRecord `json:"move"`
	Stats ai.Stats           `json:"stats"`
}

type DifficultyDTO struct {
	Name         string `json:"name"`
	Depth        int    `json:"depth"`
	TimeBudgetMs int    `json:"time_budget_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
