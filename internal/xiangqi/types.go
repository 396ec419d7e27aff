package xiangqi

import "strconv"

type Side int8

const (
	NoSide Side = -1
	Red    Side = 0
	Black  Side = 1
)

func (s Side) String() string {
	switch s {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Opponent 返回对方；NoSide 仍是 NoSide
func (s Side) Opponent() Side {
	return opposite(s)
}

type PieceKind int8

const (
	PieceNone     PieceKind = iota
	PieceGeneral            // 帅 / 将
	PieceAdvisor            // 仕 / 士
	PieceElephant           // 相 / 象
	PieceHorse              // 马
	PieceChariot            // 车
	PieceCannon             // 炮
	PieceSoldier            // 兵 / 卒
)

var kindNames = [...]string{"none", "general", "advisor", "elephant", "horse", "chariot", "cannon", "soldier"}

func (k PieceKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

type Piece int8 // 0=空；>0 红；<0 黑；abs=PieceKind

func MakePiece(side Side, kind PieceKind) Piece {
	if kind == PieceNone || side == NoSide {
		return 0
	}
	if side == Red {
		return Piece(kind)
	}
	return -Piece(kind)
}

func (p Piece) Kind() PieceKind {
	if p < 0 {
		return PieceKind(-p)
	}
	return PieceKind(p)
}

func (p Piece) Side() Side {
	if p == 0 {
		return NoSide
	}
	if p > 0 {
		return Red
	}
	return Black
}

var redSymbols = [...]string{"", "帅", "仕", "相", "马", "车", "炮", "兵"}
var blackSymbols = [...]string{"", "将", "士", "象", "马", "车", "炮", "卒"}

// Symbol 棋子显示字
func (p Piece) Symbol() string {
	k := p.Kind()
	if p == 0 || int(k) >= len(redSymbols) {
		return ""
	}
	if p.Side() == Red {
		return redSymbols[k]
	}
	return blackSymbols[k]
}

// Coord 是棋盘上的交叉点（不是格子）
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) Square() int { return indexOf(c.Row, c.Col) }

func (c Coord) Valid() bool { return onBoard(c.Row, c.Col) }

func (c Coord) String() string {
	return "(" + strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col) + ")"
}

func CoordOf(sq int) Coord { return Coord{Row: rowOf(sq), Col: colOf(sq)} }

// Board 以行优先存 90 个点；IDs 与 Squares 平行，记录每个子的稳定编号（1..32），空位为 0。
type Board struct {
	Squares [NumSquares]Piece `json:"squares"`
	IDs     [NumSquares]uint8 `json:"ids"`
}

type Move struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Score int `json:"-"` // 用于搜索排序，不进行 JSON 序列化
}

// NoMove 表示“没有着法”。0 号点是合法的交叉点，不能拿 Move{} 当空值。
var NoMove = Move{From: -1, To: -1}

func (m Move) IsNone() bool { return m.From < 0 || m.To < 0 }

func (m Move) Same(o Move) bool { return m.From == o.From && m.To == o.To }

// Position = 棋盘 + 轮到谁走
type Position struct {
	Board      Board  `json:"board"`
	SideToMove Side   `json:"side_to_move"`
	Hash       uint64 `json:"hash"`
}
