package engine

import (
	"sync/atomic"
	"time"

	"xiangqi/internal/xiangqi"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000
	// 将死分，再加上剩余深度，越快的杀分越高
	MateScore = 100_000
)

// 黑方视角的分数和红方视角相反，存表时把视角混进键里
const perspectiveSalt uint64 = 0x9E3779B97F4A7C15

// Engine 一次只跑一个搜索。置换表不放在 Engine 里，由调用方按次传入。
type Engine struct {
	nodes   int64
	timeout int32 // 本层搜索是否碰到过截止时间

	// beforeIteration 每层搜索开始前调用，在 panic 保护范围内；测试里用它模拟搜索出错
	beforeIteration func(depth int)
}

func NewEngine() *Engine {
	return &Engine{}
}

// Nodes 当前（或上一次）搜索访问的节点数，可以在搜索进行中读取
func (e *Engine) Nodes() int64 {
	return atomic.LoadInt64(&e.nodes)
}

func (e *Engine) resetNodes() {
	atomic.StoreInt64(&e.nodes, 0)
}

func (e *Engine) visit() {
	atomic.AddInt64(&e.nodes, 1)
}

// expired 轮询截止时间，过了就记下来，FindBestMove 据此判断这一层是否完整
func (e *Engine) expired(deadline time.Time) bool {
	if deadline.IsZero() || !time.Now().After(deadline) {
		return false
	}
	atomic.StoreInt32(&e.timeout, 1)
	return true
}

func tableKey(pos *xiangqi.Position, side xiangqi.Side) uint64 {
	key := pos.Hash
	if side == xiangqi.Black {
		key ^= perspectiveSalt
	}
	return key
}

// terminalScore 没有合法着法时的分数（side 视角）。
// 被将死按杀棋算；困毙规则层不判，这里退回静态评估。
func terminalScore(pos *xiangqi.Position, depth int, side xiangqi.Side) int {
	mover := pos.SideToMove
	if !pos.GeneralExists(mover) || pos.IsInCheck(mover) {
		if mover == side {
			return -(MateScore + depth)
		}
		return MateScore + depth
	}
	return Evaluate(pos, side)
}

// IsMateScore 分数是否表示能算出的杀棋
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}
