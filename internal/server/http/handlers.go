package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"xiangqi/internal/ai"
	"xiangqi/internal/config"
	"xiangqi/internal/server/game"
	"xiangqi/internal/xiangqi"
)

type Handler struct {
	mgr *game.Manager
	hub *Hub
	cfg *config.Store
}

func NewHandler(mgr *game.Manager, hub *Hub, cfg *config.Store) *Handler {
	return &Handler{mgr: mgr, hub: hub, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError 把领域错误映射成状态码，消息只用哨兵错误本身的文字
func writeServiceError(w http.ResponseWriter, err error) {
	var sentinel error
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		status, sentinel = http.StatusNotFound, game.ErrGameNotFound
	case errors.Is(err, game.ErrIllegalMove):
		status, sentinel = http.StatusBadRequest, game.ErrIllegalMove
	case errors.Is(err, xiangqi.ErrInvalidFEN):
		status, sentinel = http.StatusBadRequest, xiangqi.ErrInvalidFEN
	case errors.Is(err, ai.ErrUnknownDifficulty):
		status, sentinel = http.StatusBadRequest, ai.ErrUnknownDifficulty
	case errors.Is(err, game.ErrGameOver):
		status, sentinel = http.StatusConflict, game.ErrGameOver
	case errors.Is(err, game.ErrNothingToUndo):
		status, sentinel = http.StatusConflict, game.ErrNothingToUndo
	case errors.Is(err, game.ErrStateChanged):
		status, sentinel = http.StatusConflict, game.ErrStateChanged
	case errors.Is(err, ai.ErrBusy):
		status, sentinel = http.StatusConflict, ai.ErrBusy
	case errors.Is(err, game.ErrNoMove):
		status, sentinel = http.StatusUnprocessableEntity, game.ErrNoMove
	}
	if sentinel == nil {
		log.Printf("[server] internal error: %v", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, sentinel.Error())
}

// decode 空 body 当成零值请求
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) difficulties(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg.Get()
	out := make([]DifficultyDTO, 0, len(cfg.Difficulties))
	for _, name := range cfg.DifficultyNames() {
		p := cfg.Difficulties[name]
		out = append(out, DifficultyDTO{Name: name, Depth: p.Depth, TimeBudgetMs: p.TimeBudgetMs})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	snap, err := h.mgr.NewGame(game.NewGameOptions{FEN: req.FEN, Difficulty: req.Difficulty})
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, ai.ErrUnknownDifficulty.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameToResponse(snap))
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToResponse(snap))
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Delete(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) selectPiece(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	snap, err := h.mgr.Select(chi.URLParam(r, "id"), req.Row, req.Col)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToResponse(snap))
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	snap, rec, err := h.mgr.Move(chi.URLParam(r, "id"), req.From.coord(), req.To.coord())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Game: gameToResponse(snap), Move: rec})
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.Undo(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToResponse(snap))
}

// aiMove 同步等 AI 走完；客户端断开时 r.Context() 结束，结果作废
func (h *Handler) aiMove(w http.ResponseWriter, r *http.Request) {
	var req AIRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	snap, stats, err := h.mgr.AIMove(r.Context(), chi.URLParam(r, "id"), req.Difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rec, _ := snap.State.LastMove()
	writeJSON(w, http.StatusOK, AIResponse{Game: gameToResponse(snap), Move: rec, Stats: stats})
}
