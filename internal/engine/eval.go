package engine

import "xiangqi/internal/xiangqi"

// 基础子力估值
var pieceValues = [...]int{
	xiangqi.PieceNone:     0,
	xiangqi.PieceGeneral:  6000,
	xiangqi.PieceAdvisor:  120,
	xiangqi.PieceElephant: 120,
	xiangqi.PieceHorse:    270,
	xiangqi.PieceChariot:  600,
	xiangqi.PieceCannon:   285,
	xiangqi.PieceSoldier:  30,
}

func PieceValue(k xiangqi.PieceKind) int {
	if k < 0 || int(k) >= len(pieceValues) {
		return 0
	}
	return pieceValues[k]
}

// Evaluate 从 side 的视角给局面打分：子力 + 位置 + 将的安全。
// 子力是必需的；后两项只影响棋力，不影响搜索正确性。
func Evaluate(pos *xiangqi.Position, side xiangqi.Side) int {
	red := evaluateMaterialPositional(pos) + evaluateKingSafety(pos)
	if side == xiangqi.Black {
		return -red
	}
	return red
}

// 红方视角：红 - 黑
func evaluateMaterialPositional(pos *xiangqi.Position) int {
	score := 0
	for sq, pc := range pos.Board.Squares {
		if pc == 0 {
			continue
		}
		c := xiangqi.CoordOf(sq)
		val := PieceValue(pc.Kind()) + positionalBonus(pc.Kind(), pc.Side(), c.Row, c.Col)
		if pc.Side() == xiangqi.Red {
			score += val
		} else {
			score -= val
		}
	}
	return score
}

// 自己这一方往前走了几行，0 表示还在底线
func advance(side xiangqi.Side, row int) int {
	if side == xiangqi.Red {
		return xiangqi.Rows - 1 - row
	}
	return row
}

func positionalBonus(kind xiangqi.PieceKind, side xiangqi.Side, row, col int) int {
	centerDist := abs(col - 4)
	switch kind {
	case xiangqi.PieceSoldier:
		if !xiangqi.IsAcrossRiver(row, side) {
			return 0
		}
		// 过河兵值一个半子左右，靠中、没有沉底更好
		b := 40 + (4-centerDist)*3
		if row == xiangqi.BackRank(side.Opponent()) {
			b -= 20
		}
		return b
	case xiangqi.PieceHorse:
		b := (4 - centerDist) * 4
		if a := advance(side, row); a >= 3 && a <= 7 {
			b += 10
		}
		return b
	case xiangqi.PieceChariot:
		b := (4 - centerDist) * 2
		if row != xiangqi.BackRank(side) {
			b += 8
		}
		return b
	case xiangqi.PieceCannon:
		if col == 4 {
			return 12
		}
		return (4 - centerDist) * 2
	case xiangqi.PieceGeneral:
		if col != 4 {
			return -10
		}
	}
	return 0
}

// 士象残缺时扣分，对方过河的车马兵越多扣得越多
func evaluateKingSafety(pos *xiangqi.Position) int {
	return kingSafety(pos, xiangqi.Red) - kingSafety(pos, xiangqi.Black)
}

func kingSafety(pos *xiangqi.Position, side xiangqi.Side) int {
	guards := 0
	attackers := 0
	enemy := side.Opponent()
	for sq, pc := range pos.Board.Squares {
		if pc == 0 {
			continue
		}
		row := sq / xiangqi.Cols
		switch {
		case pc.Side() == side && (pc.Kind() == xiangqi.PieceAdvisor || pc.Kind() == xiangqi.PieceElephant):
			guards++
		case pc.Side() == enemy && xiangqi.IsAcrossRiver(row, enemy):
			switch pc.Kind() {
			case xiangqi.PieceChariot, xiangqi.PieceHorse, xiangqi.PieceCannon, xiangqi.PieceSoldier:
				attackers++
			}
		}
	}
	missing := 4 - guards
	if missing < 0 {
		missing = 0
	}
	return -missing * attackers * 6
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
