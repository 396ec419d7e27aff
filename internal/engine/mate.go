package engine

import (
	"sort"

	"xiangqi/internal/xiangqi"
)

const (
	mateDepthCap         = 15
	mateDefaultDepth     = 7
	mateNodeBudgetBase   = 20000
	mateNodeBudgetPerPly = 6000
)

const (
	mateModeAttack uint64 = 0xA5A5A5A5A5A5A5A5
	mateModeDefend uint64 = 0x5A5A5A5A5A5A5A5A
)

type mateTTEntry struct {
	Depth  int
	Result bool
	Move   xiangqi.Move // 记录最佳走法用于排序
}

type mateContext struct {
	tt         map[uint64]mateTTEntry
	inPath     map[uint64]bool
	nodes      int
	nodeBudget int
}

// MateResult 连将杀搜索结果
type MateResult struct {
	Found bool
	Move  xiangqi.Move
	Nodes int
}

// MateSearch 只用将军着法找连将杀：攻方每步必须将军，守方可以走任何合法着法。
// maxDepth 按 ply 计（攻守各算一步），是奇数时刚好以攻方的将军结束。
func (e *Engine) MateSearch(pos *xiangqi.Position, maxDepth int) MateResult {
	if maxDepth <= 0 {
		maxDepth = mateDefaultDepth
	}
	if maxDepth > mateDepthCap {
		maxDepth = mateDepthCap
	}

	ctx := &mateContext{
		tt:         make(map[uint64]mateTTEntry, 1<<14),
		inPath:     make(map[uint64]bool, 1<<8),
		nodeBudget: mateNodeBudgetBase + maxDepth*mateNodeBudgetPerPly,
	}

	// 迭代加深：1、3、5… 层，先找最短的杀
	for d := 1; d <= maxDepth; d += 2 {
		if mv, ok := e.mateRoot(pos, d, ctx); ok {
			return MateResult{Found: true, Move: mv, Nodes: ctx.nodes}
		}
		if ctx.nodes > ctx.nodeBudget {
			break
		}
	}
	return MateResult{Move: xiangqi.NoMove, Nodes: ctx.nodes}
}

func (e *Engine) mateRoot(pos *xiangqi.Position, depth int, ctx *mateContext) (xiangqi.Move, bool) {
	moves := pos.GenerateLegalMoves()
	e.scoreMateMoves(pos, moves, ctx)
	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})

	for _, mv := range moves {
		next, ok := pos.ApplyMove(mv)
		if !ok {
			continue
		}
		// 攻方必须将军
		if !next.IsInCheck(next.SideToMove) {
			continue
		}
		if !e.mateDefenderCanEscape(next, depth-1, ctx) {
			return mv, true
		}
	}
	return xiangqi.NoMove, false
}

// scoreMateMoves 启发式评分：置换表着法 > 吃子 > 车 > 马炮 > 兵
func (e *Engine) scoreMateMoves(pos *xiangqi.Position, moves []xiangqi.Move, ctx *mateContext) {
	ttMove := xiangqi.NoMove
	if entry, ok := ctx.tt[pos.Hash^mateModeAttack]; ok {
		ttMove = entry.Move
	}

	for i := range moves {
		mv := &moves[i]
		mv.Score = 0
		if mv.Same(ttMove) {
			mv.Score = 1000
			continue
		}
		if target := pos.Board.Squares[mv.To]; target != 0 {
			mv.Score = 100 + int(target.Kind())
		}
		switch pos.Board.Squares[mv.From].Kind() {
		case xiangqi.PieceChariot:
			mv.Score += 80
		case xiangqi.PieceHorse, xiangqi.PieceCannon:
			mv.Score += 60
		case xiangqi.PieceSoldier:
			mv.Score += 20
		}
	}
}

func (e *Engine) mateAttackerCanForce(pos *xiangqi.Position, depth int, ctx *mateContext) bool {
	if depth <= 0 || ctx.reachNodeBudget() {
		return false
	}
	key := pos.Hash ^ mateModeAttack
	if ctx.inPath[key] {
		return false
	}
	if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth {
		return entry.Result
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	moves := pos.GenerateLegalMoves()
	e.scoreMateMoves(pos, moves, ctx)
	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})

	result := false
	best := xiangqi.NoMove
	for _, mv := range moves {
		next, ok := pos.ApplyMove(mv)
		if !ok {
			continue
		}
		if !next.IsInCheck(next.SideToMove) {
			continue
		}
		if !e.mateDefenderCanEscape(next, depth-1, ctx) {
			result = true
			best = mv
			break
		}
	}
	ctx.tt[key] = mateTTEntry{Depth: depth, Result: result, Move: best}
	return result
}

// mateDefenderCanEscape 守方被将军时是否有一步能跳出连将。没有合法着法就是被将死。
func (e *Engine) mateDefenderCanEscape(pos *xiangqi.Position, depth int, ctx *mateContext) bool {
	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		return false
	}
	if depth <= 0 || ctx.reachNodeBudget() {
		return true
	}
	key := pos.Hash ^ mateModeDefend
	if ctx.inPath[key] {
		return true
	}
	if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth {
		return entry.Result
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	result := false
	best := xiangqi.NoMove
	for _, mv := range moves {
		next, ok := pos.ApplyMove(mv)
		if !ok {
			continue
		}
		// 只要有一步躲得开连将就算逃脱
		if !e.mateAttackerCanForce(next, depth-1, ctx) {
			result = true
			best = mv
			break
		}
	}
	ctx.tt[key] = mateTTEntry{Depth: depth, Result: result, Move: best}
	return result
}

func (ctx *mateContext) reachNodeBudget() bool {
	ctx.nodes++
	return ctx.nodes > ctx.nodeBudget
}
