package xiangqi

// Piece 的取值是 -7..7，加 7 直接当下标；7 号槽是空位，不用
const zobristSlots = 15

var (
	zobristPieces [zobristSlots][NumSquares]uint64
	zobristSide   uint64 // 轮到黑方时异或进去
)

// 固定种子的 splitmix64，同一局面在不同进程里哈希一致，可以落盘比对
func init() {
	state := uint64(0x2545F4914F6CDD1D)
	next := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for slot := range zobristPieces {
		if slot == 7 {
			continue
		}
		for sq := range zobristPieces[slot] {
			zobristPieces[slot][sq] = next()
		}
	}
	zobristSide = next()
}

func pieceKey(pc Piece, sq int) uint64 {
	if pc == 0 || !validSquare(sq) {
		return 0
	}
	return zobristPieces[int(pc)+7][sq]
}

// hashMove 在 h 上叠加一步：pc 从 from 到 to，captured 是 to 上原来的子（可以是 0），并换走子方。
// 异或自逆，撤销同一步时用同样的参数再调一次即可。
func hashMove(h uint64, pc Piece, from, to int, captured Piece) uint64 {
	h ^= pieceKey(pc, from) ^ pieceKey(pc, to)
	h ^= pieceKey(captured, to)
	return h ^ zobristSide
}

// CalculateHash 全量计算当前局面的 Zobrist 哈希。棋子编号不参与哈希。
func (p *Position) CalculateHash() uint64 {
	var h uint64
	for sq, pc := range p.Board.Squares {
		h ^= pieceKey(pc, sq)
	}
	if p.SideToMove == Black {
		h ^= zobristSide
	}
	return h
}

// EnsureHash 确保 Position.Hash 已初始化；返回当前哈希值。
func (p *Position) EnsureHash() uint64 {
	if p.Hash == 0 {
		p.Hash = p.CalculateHash()
	}
	return p.Hash
}
