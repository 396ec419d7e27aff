package xiangqi

const (
	Rows       = 10
	Cols       = 9
	NumSquares = Rows * Cols

	// 河界在第 4 行和第 5 行之间：0..4 是黑方半场，5..9 是红方半场
	RiverRow = 5
)

func indexOf(row, col int) int { return row*Cols + col }
func rowOf(sq int) int         { return sq / Cols }
func colOf(sq int) int         { return sq % Cols }

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func validSquare(sq int) bool { return sq >= 0 && sq < NumSquares }

// Square 把 (row, col) 换成 0..89 的下标；越界返回 -1
func Square(row, col int) int {
	if !onBoard(row, col) {
		return -1
	}
	return indexOf(row, col)
}

func opposite(side Side) Side {
	if side == Red {
		return Black
	}
	if side == Black {
		return Red
	}
	return NoSide
}

// 兵的前进方向：红向上(-1)，黑向下(+1)
func soldierDir(side Side) int {
	if side == Red {
		return -1
	}
	if side == Black {
		return +1
	}
	return 0
}

// 是否已经过河
func acrossRiver(side Side, row int) bool {
	if side == Red {
		return row < RiverRow
	}
	if side == Black {
		return row >= RiverRow
	}
	return false
}

// 是否在九宫
func inPalace(side Side, row, col int) bool {
	if col < 3 || col > 5 {
		return false
	}
	if side == Black {
		return row >= 0 && row <= 2
	}
	if side == Red {
		return row >= 7 && row <= 9
	}
	return false
}

// 底线：红 9，黑 0
func backRank(side Side) int {
	if side == Red {
		return Rows - 1
	}
	return 0
}

// PieceAt 返回 (row, col) 上的棋子；越界或空位返回 false。
func (b *Board) PieceAt(row, col int) (Piece, bool) {
	if !onBoard(row, col) {
		return 0, false
	}
	pc := b.Squares[indexOf(row, col)]
	return pc, pc != 0
}

// IDAt 返回该点棋子的稳定编号，空位为 0
func (b *Board) IDAt(sq int) uint8 {
	if !validSquare(sq) {
		return 0
	}
	return b.IDs[sq]
}

func (b *Board) Count() int {
	n := 0
	for _, pc := range b.Squares {
		if pc != 0 {
			n++
		}
	}
	return n
}

func IsWithinBoard(row, col int) bool { return onBoard(row, col) }

func IsWithinPalace(side Side, row, col int) bool { return inPalace(side, row, col) }

func IsAcrossRiver(row int, side Side) bool { return acrossRiver(side, row) }

// BackRank side 的底线行号
func BackRank(side Side) int { return backRank(side) }

// InitialFEN 标准开局
const InitialFEN = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w"

func NewInitialPosition() *Position {
	pos, err := DecodePosition(InitialFEN)
	if err != nil {
		panic("xiangqi: bad initial FEN: " + err.Error())
	}
	return pos
}

// TotalPieces 盘面总子数
func (p *Position) TotalPieces() int {
	return p.Board.Count()
}

// GeneralSquare 返回 side 的帅/将所在点，没有则 -1
func (p *Position) GeneralSquare(side Side) int {
	want := MakePiece(side, PieceGeneral)
	for sq, pc := range p.Board.Squares {
		if pc == want {
			return sq
		}
	}
	return -1
}

func (p *Position) GeneralExists(side Side) bool {
	return p.GeneralSquare(side) >= 0
}
