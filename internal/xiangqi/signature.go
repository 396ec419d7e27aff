package xiangqi

import (
	"sort"
	"strconv"
	"strings"
)

// Signature 返回局面的规范字符串：每个子写成 kind,side,row,col，排序后拼接，再拼上走子方。
// 结构相同的局面签名一定相同，与棋子的枚举顺序无关。
// 搜索里用 Position.Hash（Zobrist）当键，这个函数主要给调试、持久化和测试用。
func Signature(p *Position) string {
	parts := make([]string, 0, 32)
	for sq, pc := range p.Board.Squares {
		if pc == 0 {
			continue
		}
		parts = append(parts, strconv.Itoa(int(pc.Kind()))+","+
			strconv.Itoa(int(pc.Side()))+","+
			strconv.Itoa(rowOf(sq))+","+
			strconv.Itoa(colOf(sq)))
	}
	sort.Strings(parts)

	var sb strings.Builder
	for _, s := range parts {
		sb.WriteString(s)
		sb.WriteByte(';')
	}
	sb.WriteString(p.SideToMove.String())
	return sb.String()
}

// Key 是 Signature 的可比较哈希版本，等价局面得到相同的值
func Key(p *Position) uint64 {
	return p.CalculateHash()
}
