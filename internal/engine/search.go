package engine

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"xiangqi/internal/xiangqi"
)

// 离截止时间不到这么多就不再开始新的一层
const deadlineMargin = 100 * time.Millisecond

// 搜索配置
type SearchConfig struct {
	MaxDepth     int           // 最大搜索深度（ply）
	UseAlphaBeta bool          // false 时用不剪枝的 minimax
	TimeLimit    time.Duration // 搜索时间上限（0 表示不限制）
	UseTable     bool          // 是否使用置换表
	Table        *TranspositionTable
}

// 搜索结果
type SearchResult struct {
	BestMove xiangqi.Move  // 最佳着法；NoMove 表示没有可走的或搜索失败
	Score    int           // 走子方视角
	Depth    int           // 完整搜完的最深一层
	Nodes    int64         // 节点数
	TimeUsed time.Duration // 花费时间
	Complete bool          // BestMove 是否来自完整搜完的一层
	Table    TTStats
}

func (r SearchResult) Found() bool { return !r.BestMove.IsNone() }

// Minimax 不剪枝的参考实现。分数从 side 视角看，maximizing 表示当前层是 side 在走。
func (e *Engine) Minimax(pos *xiangqi.Position, depth int, maximizing bool, side xiangqi.Side) int {
	score, _ := e.minimax(pos, depth, maximizing, side, time.Time{})
	return score
}

func (e *Engine) minimax(pos *xiangqi.Position, depth int, maximizing bool, side xiangqi.Side, deadline time.Time) (int, xiangqi.Move) {
	e.visit()
	if depth <= 0 {
		return Evaluate(pos, side), xiangqi.NoMove
	}
	if e.expired(deadline) {
		return Evaluate(pos, side), xiangqi.NoMove
	}
	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		return terminalScore(pos, depth, side), xiangqi.NoMove
	}
	orderMoves(pos, moves, xiangqi.NoMove)

	best := xiangqi.NoMove
	bestScore := scoreInf
	if maximizing {
		bestScore = -scoreInf
	}
	for _, mv := range moves {
		child, ok := pos.ApplyMove(mv)
		if !ok {
			continue
		}
		score, _ := e.minimax(child, depth-1, !maximizing, side, deadline)
		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
			best = mv
		}
	}
	return bestScore, best
}

// AlphaBeta 带置换表的 alpha-beta。tt 为 nil 时不查表也不存表；deadline 为零值时不限时。
// 超过截止时间直接返回静态评估，这一层的结果因此不完整。
func (e *Engine) AlphaBeta(pos *xiangqi.Position, depth, alpha, beta int, maximizing bool, side xiangqi.Side, tt *TranspositionTable, deadline time.Time) (int, xiangqi.Move) {
	e.visit()
	if e.expired(deadline) {
		return Evaluate(pos, side), xiangqi.NoMove
	}

	key := tableKey(pos, side)
	ttMove := xiangqi.NoMove
	if tt != nil {
		if entry, ok := tt.Lookup(key, depth); ok {
			switch entry.Bound {
			case BoundExact:
				return entry.Score, entry.BestMove
			case BoundLower:
				alpha = max(alpha, entry.Score)
			case BoundUpper:
				beta = min(beta, entry.Score)
			}
			if alpha >= beta {
				return entry.Score, entry.BestMove
			}
		}
		if mv, ok := tt.BestMove(key); ok {
			ttMove = mv
		}
	}

	if depth <= 0 {
		score := Evaluate(pos, side)
		if tt != nil {
			tt.Store(key, 0, score, BoundExact, xiangqi.NoMove)
		}
		return score, xiangqi.NoMove
	}

	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		score := terminalScore(pos, depth, side)
		if tt != nil {
			tt.Store(key, depth, score, BoundExact, xiangqi.NoMove)
		}
		return score, xiangqi.NoMove
	}
	orderMoves(pos, moves, ttMove)

	alphaOrig, betaOrig := alpha, beta
	best := xiangqi.NoMove
	var bestScore int
	if maximizing {
		bestScore = -scoreInf
		for _, mv := range moves {
			child, ok := pos.ApplyMove(mv)
			if !ok {
				continue
			}
			score, _ := e.AlphaBeta(child, depth-1, alpha, beta, false, side, tt, deadline)
			if score > bestScore {
				bestScore = score
				best = mv
			}
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
	} else {
		bestScore = scoreInf
		for _, mv := range moves {
			child, ok := pos.ApplyMove(mv)
			if !ok {
				continue
			}
			score, _ := e.AlphaBeta(child, depth-1, alpha, beta, true, side, tt, deadline)
			if score < bestScore {
				bestScore = score
				best = mv
			}
			beta = min(beta, score)
			if beta <= alpha {
				break
			}
		}
	}

	if tt != nil {
		bound := BoundExact
		switch {
		case bestScore <= alphaOrig:
			bound = BoundUpper
		case bestScore >= betaOrig:
			bound = BoundLower
		}
		tt.Store(key, depth, bestScore, bound, best)
	}
	return bestScore, best
}

// FindBestMove 迭代加深：每搜完一层更新最佳着法。搜完 d 层后剩余时间少于
// TimeLimit/(2d)，或者离截止不到 100ms 时提前停。搜索中的 panic 会被记录下来，返回最深的已完成层的结果；
// 没有任何一层完成时才会返回未完成层的着法。
func (e *Engine) FindBestMove(pos *xiangqi.Position, cfg SearchConfig) SearchResult {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 3
	}
	start := time.Now()
	e.resetNodes()

	var tt *TranspositionTable
	if cfg.UseTable && cfg.UseAlphaBeta {
		tt = cfg.Table
		if tt == nil {
			tt = NewTranspositionTable(DefaultTableCapacity)
		}
	}

	deadline := time.Time{}
	if cfg.TimeLimit > 0 {
		deadline = start.Add(cfg.TimeLimit)
	}

	side := pos.SideToMove
	res := SearchResult{BestMove: xiangqi.NoMove}
	partial := SearchResult{BestMove: xiangqi.NoMove}

	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		if depth > 1 && !deadline.IsZero() && !worthDeepening(time.Until(deadline), cfg.TimeLimit, depth-1) {
			break
		}

		atomic.StoreInt32(&e.timeout, 0)
		score, move, err := e.searchDepth(pos, depth, side, cfg.UseAlphaBeta, tt, deadline)
		if err != nil {
			log.Printf("[engine] search aborted at depth %d: %v", depth, err)
			break
		}
		if move.IsNone() {
			// 无子可动
			break
		}
		if atomic.LoadInt32(&e.timeout) != 0 {
			if res.BestMove.IsNone() {
				partial = SearchResult{BestMove: move, Score: score, Depth: depth}
			}
			break
		}
		res.BestMove = move
		res.Score = score
		res.Depth = depth
		res.Complete = true
		if IsMateScore(score) && score > 0 {
			break
		}
	}

	if res.BestMove.IsNone() && !partial.BestMove.IsNone() {
		res = partial
	}
	res.Nodes = e.Nodes()
	res.TimeUsed = time.Since(start)
	if tt != nil {
		res.Table = tt.Stats()
	}
	return res
}

// worthDeepening 搜完 completed 层后还要不要开下一层
func worthDeepening(remaining, limit time.Duration, completed int) bool {
	if remaining < deadlineMargin {
		return false
	}
	return remaining >= limit/time.Duration(completed*2)
}

// searchDepth 搜一整层，把 panic 转成 error
func (e *Engine) searchDepth(pos *xiangqi.Position, depth int, side xiangqi.Side, useAlphaBeta bool, tt *TranspositionTable, deadline time.Time) (score int, move xiangqi.Move, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, move = 0, xiangqi.NoMove
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if e.beforeIteration != nil {
		e.beforeIteration(depth)
	}
	if useAlphaBeta {
		score, move = e.AlphaBeta(pos, depth, -scoreInf, scoreInf, true, side, tt, deadline)
	} else {
		score, move = e.minimax(pos, depth, true, side, deadline)
	}
	return score, move, nil
}
