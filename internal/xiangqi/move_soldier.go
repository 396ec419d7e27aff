package xiangqi

func genSoldierMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	pc := p.Board.Squares[from]
	if pc == 0 {
		return
	}
	side := pc.Side()

	// 前一格（可以吃子）；到了对方底线就没有前进了
	if r := row + soldierDir(side); onBoard(r, col) {
		addIfNotOwn(p, side, from, indexOf(r, col), moves)
	}

	// 过河以后左右一格，永远不能后退
	if !acrossRiver(side, row) {
		return
	}
	for _, dc := range [2]int{-1, +1} {
		c := col + dc
		if !onBoard(row, c) {
			continue
		}
		addIfNotOwn(p, side, from, indexOf(row, c), moves)
	}
}
