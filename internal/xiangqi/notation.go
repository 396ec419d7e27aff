package xiangqi

import (
	"strconv"
	"strings"
)

var wxfLetters = [...]byte{'?', 'K', 'A', 'E', 'H', 'R', 'C', 'P'}

// 纵线编号：各方从自己的右手边数 1..9
func fileNumber(side Side, col int) int {
	if side == Red {
		return Cols - col
	}
	return col + 1
}

// Notation 生成 WXF 记谱，例如 C2.5、H8+7、R1+1；同一纵线上有两个同种子时用 +/- 区分前后。
// 必须在走子之前调用。
func (p *Position) Notation(m Move) string {
	if !validSquare(m.From) || !validSquare(m.To) {
		return ""
	}
	pc := p.Board.Squares[m.From]
	if pc == 0 {
		return ""
	}
	side := pc.Side()
	kind := pc.Kind()
	fr, fc := rowOf(m.From), colOf(m.From)
	tr, tc := rowOf(m.To), colOf(m.To)

	var sb strings.Builder
	sb.WriteByte(wxfLetters[kind])
	sb.WriteString(p.fileTag(pc, fr, fc))

	forward := (tr - fr) * soldierDir(side)
	switch {
	case forward == 0:
		sb.WriteByte('.')
	case forward > 0:
		sb.WriteByte('+')
	default:
		sb.WriteByte('-')
	}

	straight := kind == PieceGeneral || kind == PieceChariot || kind == PieceCannon || kind == PieceSoldier
	if straight && fc == tc {
		sb.WriteString(strconv.Itoa(abs(tr - fr)))
	} else {
		sb.WriteString(strconv.Itoa(fileNumber(side, tc)))
	}
	return sb.String()
}

// fileTag 一般是纵线号；同一纵线上还有同种同色子时，前面的记 +，后面的记 -
func (p *Position) fileTag(pc Piece, row, col int) string {
	ahead, behind := 0, 0
	dir := soldierDir(pc.Side())
	for r := 0; r < Rows; r++ {
		if r == row || p.Board.Squares[indexOf(r, col)] != pc {
			continue
		}
		if (r-row)*dir > 0 {
			ahead++
		} else {
			behind++
		}
	}
	switch {
	case ahead == 0 && behind == 0:
		return strconv.Itoa(fileNumber(pc.Side(), col))
	case ahead == 0:
		return "+"
	case behind == 0:
		return "-"
	default:
		return strconv.Itoa(fileNumber(pc.Side(), col))
	}
}

// String 把着法编码成 "from-to"（两个 0..89 下标），置换表里就存这个
func (m Move) String() string {
	if m.IsNone() {
		return "-"
	}
	return strconv.Itoa(m.From) + "-" + strconv.Itoa(m.To)
}

// ParseMove 解析 Move.String 的输出
func ParseMove(s string) (Move, bool) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return NoMove, false
	}
	from, err1 := strconv.Atoi(a)
	to, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || !validSquare(from) || !validSquare(to) {
		return NoMove, false
	}
	return Move{From: from, To: to}, true
}
