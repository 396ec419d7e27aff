package xiangqi

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var letterToKind = map[rune]PieceKind{
	'k': PieceGeneral,
	'a': PieceAdvisor,
	'b': PieceElephant,
	'e': PieceElephant, // 有的 FEN 用 e 表示象
	'n': PieceHorse,
	'h': PieceHorse,
	'r': PieceChariot,
	'c': PieceCannon,
	'p': PieceSoldier,
}

var kindToLetter = [...]rune{'.', 'k', 'a', 'b', 'n', 'r', 'c', 'p'}

func pieceToChar(p Piece) rune {
	if p == 0 {
		return '.'
	}
	k := p.Kind()
	if int(k) >= len(kindToLetter) {
		return '.'
	}
	base := kindToLetter[k]
	if p.Side() == Red {
		return unicode.ToUpper(base)
	}
	return base
}

// Encode 输出标准象棋 FEN：10 行用“/”隔开，空位用数字压缩；空格后 w/b 表示轮到红/黑
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			pc := p.Board.Squares[indexOf(r, c)]
			if pc == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(pieceToChar(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if p.SideToMove == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	return sb.String()
}

var ErrInvalidFEN = errors.New("invalid FEN")

// DecodePosition 解析 FEN。棋子编号按扫描顺序从 1 开始分配。
func DecodePosition(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, ErrInvalidFEN
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidFEN, Rows, len(rows))
	}
	var b Board
	var nextID uint8 = 1
	for r := 0; r < Rows; r++ {
		c := 0
		for _, ch := range rows[r] {
			if c >= Cols {
				return nil, fmt.Errorf("%w: rank %d too long", ErrInvalidFEN, r)
			}
			if ch >= '1' && ch <= '9' {
				c += int(ch - '0')
				continue
			}
			kind, ok := letterToKind[unicode.ToLower(ch)]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			side := Black
			if unicode.IsUpper(ch) {
				side = Red
			}
			sq := indexOf(r, c)
			b.Squares[sq] = MakePiece(side, kind)
			b.IDs[sq] = nextID
			nextID++
			c++
		}
		if c != Cols {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, r, c)
		}
	}
	stm := Red
	if len(parts) > 1 {
		switch parts[1] {
		case "w", "r":
			stm = Red
		case "b":
			stm = Black
		default:
			return nil, fmt.Errorf("%w: side %q", ErrInvalidFEN, parts[1])
		}
	}
	pos := &Position{
		Board:      b,
		SideToMove: stm,
	}
	pos.Hash = pos.CalculateHash()
	return pos, nil
}

// MustDecode 只用于常量局面和测试
func MustDecode(fen string) *Position {
	pos, err := DecodePosition(fen)
	if err != nil {
		panic(err)
	}
	return pos
}
