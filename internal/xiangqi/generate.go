package xiangqi

// GeneratePseudoMovesForSide 生成指定一方的伪合法走法（不考虑自己的将是否被将）
func (p *Position) GeneratePseudoMovesForSide(side Side) []Move {
	moves := make([]Move, 0, 64)
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc == 0 || pc.Side() != side {
			continue
		}
		p.genPieceMoves(sq, &moves)
	}
	return moves
}

func (p *Position) genPieceMoves(sq int, moves *[]Move) {
	switch p.Board.Squares[sq].Kind() {
	case PieceChariot:
		genChariotMoves(p, sq, moves)
	case PieceCannon:
		genCannonMoves(p, sq, moves)
	case PieceHorse:
		genHorseMoves(p, sq, moves)
	case PieceElephant:
		genElephantMoves(p, sq, moves)
	case PieceAdvisor:
		genAdvisorMoves(p, sq, moves)
	case PieceGeneral:
		genGeneralMoves(p, sq, moves)
	case PieceSoldier:
		genSoldierMoves(p, sq, moves)
	}
}

// 伪合法（不考虑自己的将被将军）
func (p *Position) GeneratePseudoMoves() []Move {
	return p.GeneratePseudoMovesForSide(p.SideToMove)
}

// GenerateLegalMoves 走子方全部合法走法：伪合法走法去掉送将的
func (p *Position) GenerateLegalMoves() []Move {
	pseudo := p.GeneratePseudoMoves()
	out := pseudo[:0]
	for _, mv := range pseudo {
		if p.WouldBeInCheck(mv.From, mv.To) {
			continue
		}
		out = append(out, mv)
	}
	return out
}

// ValidMoves 暴力扫描 90 个点，返回 from 上棋子所有几何合法的落点。
// 棋盘固定很小，这样写足够快，也是 genXxxMoves 的对照实现。
func (p *Position) ValidMoves(from int) []int {
	if !validSquare(from) || p.Board.Squares[from] == 0 {
		return nil
	}
	var out []int
	for to := 0; to < NumSquares; to++ {
		if p.IsValidMove(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// LegalTargets 是 ValidMoves 去掉走完后自己被将的落点
func (p *Position) LegalTargets(from int) []int {
	valid := p.ValidMoves(from)
	out := valid[:0]
	for _, to := range valid {
		if !p.WouldBeInCheck(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// relocate 原地移动棋子（连同编号），吃子直接覆盖。不动哈希，也不切换走子方。
func (p *Position) relocate(from, to int) Piece {
	captured := p.Board.Squares[to]
	p.Board.Squares[to] = p.Board.Squares[from]
	p.Board.IDs[to] = p.Board.IDs[from]
	p.Board.Squares[from] = 0
	p.Board.IDs[from] = 0
	return captured
}

// ApplyMove 应用走子：这里默认传进来的就是合法招（由上层检查），只校验是不是走子方的子
func (p *Position) ApplyMove(m Move) (*Position, bool) {
	if !validSquare(m.From) || !validSquare(m.To) || m.From == m.To {
		return nil, false
	}
	pc := p.Board.Squares[m.From]
	if pc == 0 || pc.Side() != p.SideToMove {
		return nil, false
	}

	np := *p
	h := np.EnsureHash()
	captured := np.relocate(m.From, m.To)
	np.Hash = hashMove(h, pc, m.From, m.To, captured)
	np.SideToMove = opposite(p.SideToMove)
	return &np, true
}

// Perft 统计 depth 层以内的合法走法叶子数，用来核对走法生成
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var n int64
	for _, mv := range moves {
		child, ok := p.ApplyMove(mv)
		if !ok {
			continue
		}
		n += child.Perft(depth - 1)
	}
	return n
}
