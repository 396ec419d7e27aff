package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"xiangqi/internal/config"
	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

var (
	ErrBusy              = errors.New("ai: a search is already running")
	ErrUnknownDifficulty = errors.New("ai: unknown difficulty")
)

// Stats 上一次搜索的统计
type Stats struct {
	Difficulty  string        `json:"difficulty"`
	Depth       int           `json:"depth"`
	Elapsed     time.Duration `json:"elapsed"`
	Nodes       int64         `json:"nodes"`
	Score       int           `json:"score"`
	CacheHits   uint64        `json:"cache_hits"`
	CacheMisses uint64        `json:"cache_misses"`
	Complete    bool          `json:"complete"`
	MateProbe   bool          `json:"mate_probe"` // 结果来自连将杀搜索
}

// Result Move 为 NoMove 时表示没有可走的着法：可能是被将死、困毙，也可能是搜索失败，
// 不能当成对局结束的依据。
type Result struct {
	Move  xiangqi.Move
	Stats Stats
}

func (r Result) Found() bool { return !r.Move.IsNone() }

// Settings 当前生效的搜索参数，由难度档位和开关推导出来
type Settings struct {
	Difficulty   string        `json:"difficulty"`
	Depth        int           `json:"depth"`
	TimeBudget   time.Duration `json:"time_budget"`
	MateProbe    bool          `json:"mate_probe"`
	UseAlphaBeta bool          `json:"use_alpha_beta"`
	UseTable     bool          `json:"use_table"`
}

// Orchestrator 把难度映射到搜索深度和时间预算，驱动搜索引擎。
// 同一时刻只允许一个搜索；置换表只在一次搜索内有效。
type Orchestrator struct {
	cfg config.Config

	mu       sync.Mutex
	settings Settings
	last     Stats

	thinking atomic.Bool
	eng      *engine.Engine
	table    *engine.TranspositionTable
}

func New(cfg config.Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		cfg:   cfg,
		eng:   engine.NewEngine(),
		table: engine.NewTranspositionTable(cfg.TableCapacity),
		settings: Settings{
			UseAlphaBeta: cfg.UseAlphaBeta,
			UseTable:     cfg.UseTable,
		},
	}
	if err := o.SetDifficulty(cfg.DefaultDifficulty); err != nil {
		return nil, err
	}
	return o, nil
}

// recompute 根据难度和开关重新推导深度、时间预算。调用方持有 mu。
func (o *Orchestrator) recompute() {
	p := o.cfg.Difficulties[o.settings.Difficulty]
	s := &o.settings
	s.Depth = p.Depth
	s.TimeBudget = time.Duration(p.TimeBudgetMs) * time.Millisecond
	s.MateProbe = p.MateProbe
	if !s.UseAlphaBeta {
		// 不剪枝的搜索是指数级的，深度封顶；置换表只和 alpha-beta 配合
		s.Depth = min(s.Depth, o.cfg.MinimaxMaxDepth)
		s.UseTable = false
	}
}

func (o *Orchestrator) SetDifficulty(name string) error {
	if _, ok := o.cfg.Difficulties[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings.Difficulty = name
	o.recompute()
	return nil
}

func (o *Orchestrator) SetUseAlphaBeta(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings.UseAlphaBeta = on
	if on {
		o.settings.UseTable = o.cfg.UseTable
	}
	o.recompute()
}

func (o *Orchestrator) SetUseTable(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings.UseTable = on && o.settings.UseAlphaBeta
}

func (o *Orchestrator) Settings() Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

func (o *Orchestrator) IsThinking() bool {
	return o.thinking.Load()
}

func (o *Orchestrator) LastSearchStats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Think 在后台 goroutine 里为 state 的走子方搜索，不阻塞调用方。
// 返回的 channel 恰好收到一个结果然后关闭。已经有搜索在跑时返回 ErrBusy。
// ctx 的截止时间会收紧时间预算；搜索本身只在节点之间轮询截止时间，没有硬中断。
func (o *Orchestrator) Think(ctx context.Context, state xiangqi.GameState) (<-chan Result, error) {
	if !o.thinking.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	settings := o.Settings()
	pos := state.Position
	inProgress := state.Status == xiangqi.StatusInProgress

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		defer o.thinking.Store(false)

		res := Result{Move: xiangqi.NoMove, Stats: Stats{Difficulty: settings.Difficulty}}
		if inProgress && ctx.Err() == nil {
			res = o.search(ctx, &pos, settings)
		}
		o.mu.Lock()
		o.last = res.Stats
		o.mu.Unlock()
		out <- res
	}()
	return out, nil
}

// BestMove 同步版本：等 Think 的结果。ctx 结束时立即返回 ctx.Err()，后台搜索会在自己的截止时间内退出。
func (o *Orchestrator) BestMove(ctx context.Context, state xiangqi.GameState) (Result, error) {
	ch, err := o.Think(ctx, state)
	if err != nil {
		return Result{Move: xiangqi.NoMove}, err
	}
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return Result{Move: xiangqi.NoMove}, ctx.Err()
	}
}

func (o *Orchestrator) search(ctx context.Context, pos *xiangqi.Position, s Settings) (res Result) {
	start := time.Now()
	res = Result{Move: xiangqi.NoMove, Stats: Stats{Difficulty: s.Difficulty}}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ai] search failed: %v", r)
			res.Stats.Elapsed = time.Since(start)
		}
	}()

	budget := s.TimeBudget
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); budget == 0 || left < budget {
			budget = max(left, time.Millisecond)
		}
	}

	if s.MateProbe {
		mate := o.eng.MateSearch(pos, o.cfg.MateProbeDepth)
		if mate.Found {
			res.Move = mate.Move
			res.Stats.MateProbe = true
			res.Stats.Score = engine.MateScore
			res.Stats.Nodes = int64(mate.Nodes)
			res.Stats.Complete = true
			res.Stats.Elapsed = time.Since(start)
			o.logStats(res.Stats)
			return res
		}
	}

	// 置换表只活一次搜索
	o.table.Clear()
	sr := o.eng.FindBestMove(pos, engine.SearchConfig{
		MaxDepth:     s.Depth,
		UseAlphaBeta: s.UseAlphaBeta,
		TimeLimit:    budget,
		UseTable:     s.UseTable,
		Table:        o.table,
	})
	res.Move = sr.BestMove
	res.Stats.Depth = sr.Depth
	res.Stats.Nodes = sr.Nodes
	res.Stats.Score = sr.Score
	res.Stats.Complete = sr.Complete
	res.Stats.CacheHits = sr.Table.Hits
	res.Stats.CacheMisses = sr.Table.Misses
	res.Stats.Elapsed = time.Since(start)
	o.logStats(res.Stats)
	return res
}

func (o *Orchestrator) logStats(st Stats) {
	if !o.cfg.LogSearchStats {
		return
	}
	log.Printf("[ai] %s depth=%d score=%d nodes=%d hits=%d elapsed=%v mate=%v",
		st.Difficulty, st.Depth, st.Score, st.Nodes, st.CacheHits, st.Elapsed.Round(time.Millisecond), st.MateProbe)
}
