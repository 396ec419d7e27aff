package xiangqi

// IsValidMove 只看走法几何和阻挡，不管轮到谁走、也不管走完后自己是否被将。
// 越界、原地不动、吃自己的子一律拒绝。
func (p *Position) IsValidMove(from, to int) bool {
	if !validSquare(from) || !validSquare(to) || from == to {
		return false
	}
	pc := p.Board.Squares[from]
	if pc == 0 {
		return false
	}
	dst := p.Board.Squares[to]
	if dst != 0 && dst.Side() == pc.Side() {
		return false
	}

	fr, fc := rowOf(from), colOf(from)
	tr, tc := rowOf(to), colOf(to)
	switch pc.Kind() {
	case PieceGeneral:
		return p.validGeneral(pc.Side(), fr, fc, tr, tc, dst)
	case PieceAdvisor:
		return abs(tr-fr) == 1 && abs(tc-fc) == 1 && inPalace(pc.Side(), tr, tc)
	case PieceElephant:
		return p.validElephant(pc.Side(), fr, fc, tr, tc)
	case PieceHorse:
		return p.validHorse(fr, fc, tr, tc)
	case PieceChariot:
		return p.countBetween(fr, fc, tr, tc) == 0
	case PieceCannon:
		n := p.countBetween(fr, fc, tr, tc)
		if dst == 0 {
			return n == 0
		}
		return n == 1
	case PieceSoldier:
		return validSoldier(pc.Side(), fr, fc, tr, tc)
	}
	return false
}

func (p *Position) validGeneral(side Side, fr, fc, tr, tc int, dst Piece) bool {
	// 飞将：同一列、中间无子，直接吃对方的将
	if fc == tc && dst.Kind() == PieceGeneral && dst.Side() != side {
		if p.countBetween(fr, fc, tr, tc) == 0 {
			return true
		}
	}
	if abs(tr-fr)+abs(tc-fc) != 1 {
		return false
	}
	return inPalace(side, tr, tc)
}

func (p *Position) validElephant(side Side, fr, fc, tr, tc int) bool {
	if abs(tr-fr) != 2 || abs(tc-fc) != 2 {
		return false
	}
	// 塞象眼
	if p.Board.Squares[indexOf((fr+tr)/2, (fc+tc)/2)] != 0 {
		return false
	}
	return !acrossRiver(side, tr)
}

func (p *Position) validHorse(fr, fc, tr, tc int) bool {
	dr, dc := tr-fr, tc-fc
	var lr, lc int
	switch {
	case abs(dr) == 2 && abs(dc) == 1:
		lr, lc = fr+dr/2, fc
	case abs(dr) == 1 && abs(dc) == 2:
		lr, lc = fr, fc+dc/2
	default:
		return false
	}
	// 蹩马腿
	return p.Board.Squares[indexOf(lr, lc)] == 0
}

func validSoldier(side Side, fr, fc, tr, tc int) bool {
	dir := soldierDir(side)
	if tc == fc && tr-fr == dir {
		return true
	}
	// 过河后可以横走一步
	if acrossRiver(side, fr) && tr == fr && abs(tc-fc) == 1 {
		return true
	}
	return false
}

// countBetween 返回两点之间（不含端点）的棋子数；不在同一行/列返回 -1
func (p *Position) countBetween(fr, fc, tr, tc int) int {
	if fr != tr && fc != tc {
		return -1
	}
	dr, dc := sign(tr-fr), sign(tc-fc)
	n := 0
	for r, c := fr+dr, fc+dc; r != tr || c != tc; r, c = r+dr, c+dc {
		if p.Board.Squares[indexOf(r, c)] != 0 {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
