package xiangqi

var (
	orthoDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagDirs  = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

func addIfNotOwn(p *Position, side Side, from, to int, moves *[]Move) {
	dst := p.Board.Squares[to]
	if dst == 0 || dst.Side() != side {
		*moves = append(*moves, Move{From: from, To: to})
	}
}

// 车：横竖随便走
func genChariotMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range orthoDirs {
		r, c := row+d[0], col+d[1]
		for onBoard(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc == 0 {
				*moves = append(*moves, Move{From: from, To: to})
			} else {
				if pc.Side() != side {
					*moves = append(*moves, Move{From: from, To: to})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 炮：不吃子时同车，吃子必须隔一个炮架
func genCannonMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range orthoDirs {
		r, c := row+d[0], col+d[1]

		// 走子阶段：直到第一个棋子
		for onBoard(r, c) {
			to := indexOf(r, c)
			if p.Board.Squares[to] == 0 {
				*moves = append(*moves, Move{From: from, To: to})
				r += d[0]
				c += d[1]
				continue
			}
			r += d[0]
			c += d[1]
			break
		}

		// 吃子阶段：越过炮架，遇到第一子可吃
		for onBoard(r, c) {
			pc := p.Board.Squares[indexOf(r, c)]
			if pc != 0 {
				if pc.Side() != side {
					*moves = append(*moves, Move{From: from, To: indexOf(r, c)})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 相：田字 + 不过河 + 塞象眼
func genElephantMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range diagDirs {
		r, c := row+2*d[0], col+2*d[1]
		if !onBoard(r, c) || acrossRiver(side, r) {
			continue
		}
		if p.Board.Squares[indexOf(row+d[0], col+d[1])] != 0 {
			continue
		}
		addIfNotOwn(p, side, from, indexOf(r, c), moves)
	}
}

// 士：九宫内斜走一格
func genAdvisorMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range diagDirs {
		r, c := row+d[0], col+d[1]
		if !inPalace(side, r, c) {
			continue
		}
		addIfNotOwn(p, side, from, indexOf(r, c), moves)
	}
}

// 将：九宫内上下左右一格，外加飞将吃对方的将
func genGeneralMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range orthoDirs {
		r, c := row+d[0], col+d[1]
		if !inPalace(side, r, c) {
			continue
		}
		addIfNotOwn(p, side, from, indexOf(r, c), moves)
	}

	// 沿本列找第一个子，是对方的将就能飞过去
	for _, dir := range [2]int{-1, 1} {
		for r := row + dir; onBoard(r, col); r += dir {
			pc := p.Board.Squares[indexOf(r, col)]
			if pc == 0 {
				continue
			}
			adjacentInPalace := abs(r-row) == 1 && inPalace(side, r, col) // 上面已经生成过
			if pc.Kind() == PieceGeneral && pc.Side() != side && !adjacentInPalace {
				*moves = append(*moves, Move{From: from, To: indexOf(r, col)})
			}
			break
		}
	}
}
