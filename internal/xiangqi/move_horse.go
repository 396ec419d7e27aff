package xiangqi

// 马的 8 种“日”字：终点 + 马腿
var horseLegMoves = [8]struct {
	Dr, Dc int // 终点
	Br, Bc int // 马腿
}{
	{-2, -1, -1, 0},
	{-2, +1, -1, 0},
	{-1, -2, 0, -1},
	{-1, +2, 0, +1},
	{+1, -2, 0, -1},
	{+1, +2, 0, +1},
	{+2, -1, +1, 0},
	{+2, +1, +1, 0},
}

func genHorseMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()

	for _, m := range horseLegMoves {
		r, c := row+m.Dr, col+m.Dc
		if !onBoard(r, c) {
			continue
		}
		if p.Board.Squares[indexOf(row+m.Br, col+m.Bc)] != 0 {
			continue // 憋马腿
		}
		addIfNotOwn(p, side, from, indexOf(r, c), moves)
	}
}
