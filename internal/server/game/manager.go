package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"xiangqi/internal/ai"
	"xiangqi/internal/config"
	"xiangqi/internal/xiangqi"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNoMove        = errors.New("no move available")
	ErrStateChanged  = errors.New("game changed while the ai was thinking")
)

// MoveEvent 一步棋落下后发给监听者
type MoveEvent struct {
	GameID string             `json:"game_id"`
	Record xiangqi.MoveRecord `json:"record"`
	State  xiangqi.GameState  `json:"state"`
	ByAI   bool               `json:"by_ai"`
}

type Listener func(MoveEvent)

// NewGameOptions FEN 为空时从开局开始
type NewGameOptions struct {
	FEN        string
	Difficulty string
}

type Manager struct {
	cfg *config.Store

	mu        sync.RWMutex
	games     map[string]*Game
	listeners []Listener
}

func NewManager(cfg *config.Store) *Manager {
	return &Manager{
		cfg:   cfg,
		games: make(map[string]*Game),
	}
}

// OnMove 注册一个监听者。监听者在锁外同步调用，不能阻塞太久。
func (m *Manager) OnMove(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

func (m *Manager) notify(ev MoveEvent) {
	m.mu.RLock()
	ls := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range ls {
		l(ev)
	}
}

func (m *Manager) NewGame(opts NewGameOptions) (Snapshot, error) {
	cfg := m.cfg.Get()
	if opts.Difficulty != "" {
		cfg.DefaultDifficulty = opts.Difficulty
	}
	orch, err := ai.New(cfg)
	if err != nil {
		return Snapshot{}, err
	}

	var state xiangqi.GameState
	if opts.FEN != "" {
		pos, err := xiangqi.DecodePosition(opts.FEN)
		if err != nil {
			return Snapshot{}, err
		}
		state = xiangqi.GameStateFromPosition(pos)
	} else {
		state = xiangqi.StartGame(xiangqi.InitializeGameState())
	}

	now := time.Now()
	g := &Game{
		ID:        uuid.NewString(),
		State:     state,
		AI:        orch,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	return g.Snapshot(), nil
}

func (m *Manager) game(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

func (m *Manager) Get(id string) (Snapshot, error) {
	g, err := m.game(id)
	if err != nil {
		return Snapshot{}, err
	}
	return g.Snapshot(), nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(m.games, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Select 选子；空位或对方的子会清空选择
func (m *Manager) Select(id string, row, col int) (Snapshot, error) {
	g, err := m.game(id)
	if err != nil {
		return Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.State = xiangqi.SelectPiece(g.State, row, col)
	return g.snapshotLocked(), nil
}

func (m *Manager) Move(id string, from, to xiangqi.Coord) (Snapshot, xiangqi.MoveRecord, error) {
	g, err := m.game(id)
	if err != nil {
		return Snapshot{}, xiangqi.MoveRecord{}, err
	}
	g.mu.Lock()
	if err := playable(g.State); err != nil {
		g.mu.Unlock()
		return Snapshot{}, xiangqi.MoveRecord{}, err
	}
	next, ok := xiangqi.MakeMove(g.State, from, to)
	if !ok {
		g.mu.Unlock()
		return Snapshot{}, xiangqi.MoveRecord{}, fmt.Errorf("%w: %v-%v", ErrIllegalMove, from, to)
	}
	g.State = next
	g.UpdatedAt = time.Now()
	rec, _ := next.LastMove()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	m.notify(MoveEvent{GameID: id, Record: rec, State: snap.State})
	return snap, rec, nil
}

func (m *Manager) Undo(id string) (Snapshot, error) {
	g, err := m.game(id)
	if err != nil {
		return Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	prev, ok := xiangqi.UndoMove(g.State)
	if !ok {
		return Snapshot{}, ErrNothingToUndo
	}
	// 服务端的对局一直处于进行中
	g.State = xiangqi.StartGame(prev)
	g.UpdatedAt = time.Now()
	return g.snapshotLocked(), nil
}

func (m *Manager) SetDifficulty(id, name string) error {
	g, err := m.game(id)
	if err != nil {
		return err
	}
	return g.AI.SetDifficulty(name)
}

// AIMove 让 AI 替当前走子方走一步。搜索期间不持有对局锁；
// 搜完发现局面或历史变了（包括悔棋后又走了别的棋）就放弃这步。
func (m *Manager) AIMove(ctx context.Context, id, difficulty string) (Snapshot, ai.Stats, error) {
	g, err := m.game(id)
	if err != nil {
		return Snapshot{}, ai.Stats{}, err
	}
	if difficulty != "" {
		if err := g.AI.SetDifficulty(difficulty); err != nil {
			return Snapshot{}, ai.Stats{}, err
		}
	}

	g.mu.Lock()
	if err := playable(g.State); err != nil {
		g.mu.Unlock()
		return Snapshot{}, ai.Stats{}, err
	}
	state := xiangqi.DeselectPiece(g.State)
	searched := positionKey(state)
	g.mu.Unlock()

	res, err := g.AI.BestMove(ctx, state)
	if err != nil {
		return Snapshot{}, res.Stats, err
	}
	if !res.Found() {
		return Snapshot{}, res.Stats, ErrNoMove
	}

	g.mu.Lock()
	if positionKey(g.State) != searched || g.State.Status != xiangqi.StatusInProgress {
		g.mu.Unlock()
		return Snapshot{}, res.Stats, ErrStateChanged
	}
	from, to := xiangqi.CoordOf(res.Move.From), xiangqi.CoordOf(res.Move.To)
	next, ok := xiangqi.MakeMove(xiangqi.DeselectPiece(g.State), from, to)
	if !ok {
		g.mu.Unlock()
		log.Printf("[game] %s: ai produced an unplayable move %v", id, res.Move)
		return Snapshot{}, res.Stats, fmt.Errorf("%w: %v", ErrIllegalMove, res.Move)
	}
	g.State = next
	g.UpdatedAt = time.Now()
	rec, _ := next.LastMove()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	m.notify(MoveEvent{GameID: id, Record: rec, State: snap.State, ByAI: true})
	return snap, res.Stats, nil
}

// stateKey 搜索前后用来判断对局有没有被改过。悔棋后走回同一个局面算没变，AI 的着法仍然合法。
type stateKey struct {
	hash  uint64
	plies int
}

func positionKey(s xiangqi.GameState) stateKey {
	pos := s.Position
	return stateKey{hash: pos.EnsureHash(), plies: len(s.History)}
}

func playable(s xiangqi.GameState) error {
	switch s.Status {
	case xiangqi.StatusInProgress:
		return nil
	case xiangqi.StatusNotStarted:
		return fmt.Errorf("%w: not started", ErrIllegalMove)
	}
	return fmt.Errorf("%w: %s", ErrGameOver, s.Status)
}
