package xiangqi

// IsAttacked 判断 sq 这个点是否被 bySide 这一方攻击：
// 只要对方任何一个棋子能合法地“走到”这个位置，就说明该位置被攻击。
func (p *Position) IsAttacked(sq int, bySide Side) bool {
	if !validSquare(sq) {
		return false
	}
	for s := 0; s < NumSquares; s++ {
		pc := p.Board.Squares[s]
		if pc == 0 || pc.Side() != bySide {
			continue
		}
		if p.IsValidMove(s, sq) {
			return true
		}
	}
	return false
}

// IsInCheck 判断 side 这一方的将是否被将军。将不存在时返回 false（对局已经结束，不算错误）。
func (p *Position) IsInCheck(side Side) bool {
	kingSq := p.GeneralSquare(side)
	if kingSq == -1 {
		return false
	}
	enemy := opposite(side)
	for s := 0; s < NumSquares; s++ {
		pc := p.Board.Squares[s]
		if pc == 0 || pc.Side() != enemy {
			continue
		}
		// 士、象过不了河也出不了自己的九宫，够不着对方的将
		if k := pc.Kind(); k == PieceAdvisor || k == PieceElephant {
			continue
		}
		if p.IsValidMove(s, kingSq) {
			return true
		}
	}
	return false
}

// WouldBeInCheck 在棋盘副本上模拟 from->to（吃子则先移除），返回走子方是否被将。
// 不检查走法本身是否合法，也不检查是否轮到该方。
func (p *Position) WouldBeInCheck(from, to int) bool {
	if !validSquare(from) || !validSquare(to) {
		return false
	}
	pc := p.Board.Squares[from]
	if pc == 0 {
		return false
	}
	np := *p
	np.relocate(from, to)
	return np.IsInCheck(pc.Side())
}

// HasLegalMove side 是否还有不送将的走法
func (p *Position) HasLegalMove(side Side) bool {
	for _, mv := range p.GeneratePseudoMovesForSide(side) {
		if !p.WouldBeInCheck(mv.From, mv.To) {
			return true
		}
	}
	return false
}

// IsCheckmate 被将军，并且所有子的所有走法都解不了将
func (p *Position) IsCheckmate(side Side) bool {
	if !p.IsInCheck(side) {
		return false
	}
	return !p.HasLegalMove(side)
}

// IsStalemate 没被将但无子可动。规则层不据此判胜负，只把它暴露给调用方。
func (p *Position) IsStalemate(side Side) bool {
	if p.IsInCheck(side) || !p.GeneralExists(side) {
		return false
	}
	return !p.HasLegalMove(side)
}
