package engine

import (
	"sort"

	"xiangqi/internal/xiangqi"
)

// 开局阶段：子数多于这个值时鼓励出子
const developmentPieceCount = 28

const developmentBonus = 10

// scoreMove 排序分：MVV-LVA + 中心控制 + 开局出子
func scoreMove(pos *xiangqi.Position, mv xiangqi.Move, pieceCount int) int {
	attacker := pos.Board.Squares[mv.From]
	victim := pos.Board.Squares[mv.To]
	score := 0
	if victim != 0 {
		score += PieceValue(victim.Kind())*10 - PieceValue(attacker.Kind())
	}

	kind := attacker.Kind()
	to := xiangqi.CoordOf(mv.To)
	if kind != xiangqi.PieceGeneral && kind != xiangqi.PieceAdvisor {
		// max(0, 4-|col-4|) * max(0, 5-|row-4.5|) * 2，两边同乘 2 免掉小数
		colTerm := max(0, 4-abs(to.Col-4))
		rowTerm := max(0, 10-abs(2*to.Row-9))
		score += colTerm * rowTerm
	}

	if pieceCount > developmentPieceCount {
		back := xiangqi.BackRank(attacker.Side())
		if xiangqi.CoordOf(mv.From).Row == back && to.Row != back {
			score += developmentBonus
		}
	}
	return score
}

// orderMoves 按排序分从高到低排，置换表给出的着法放在最前
func orderMoves(pos *xiangqi.Position, moves []xiangqi.Move, ttMove xiangqi.Move) {
	count := pos.TotalPieces()
	for i := range moves {
		moves[i].Score = scoreMove(pos, moves[i], count)
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	if ttMove.IsNone() {
		return
	}
	for i := range moves {
		if moves[i].Same(ttMove) {
			mv := moves[i]
			copy(moves[1:i+1], moves[:i])
			moves[0] = mv
			break
		}
	}
}
