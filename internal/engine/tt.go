package engine

import (
	"sort"
	"sync"

	"xiangqi/internal/xiangqi"
)

type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "unknown"
}

// DefaultTableCapacity 单次搜索用的置换表默认容量
const DefaultTableCapacity = 1 << 18

// 满了以后一次淘汰最老的 20%
const evictFraction = 5

// TTEntry 置换表条目。Stamp 是写入时的逻辑时钟，只用于淘汰。
type TTEntry struct {
	Key      uint64
	Depth    int
	Score    int
	Bound    Bound
	BestMove xiangqi.Move
	Stamp    uint64
}

type TTStats struct {
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Stores    uint64 `json:"stores"`
	Evictions uint64 `json:"evictions"`
}

// TranspositionTable 深度优先的局面缓存。一个表只属于一次搜索，锁只是为了
// 让别的 goroutine 能在搜索进行时读 Stats。
type TranspositionTable struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]TTEntry
	clock    uint64

	hits, misses, stores, evictions uint64
}

func NewTranspositionTable(capacity int) *TranspositionTable {
	if capacity <= 0 {
		capacity = DefaultTableCapacity
	}
	return &TranspositionTable{
		capacity: capacity,
		entries:  make(map[uint64]TTEntry, min(capacity, 1<<16)),
	}
}

// Store 写入一条结果。已有条目比这次更深时保留旧的。
func (tt *TranspositionTable) Store(key uint64, depth, score int, bound Bound, best xiangqi.Move) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	old, ok := tt.entries[key]
	if ok && old.Depth > depth {
		return
	}
	if !ok && len(tt.entries) >= tt.capacity {
		tt.evictLocked()
	}
	tt.clock++
	tt.stores++
	tt.entries[key] = TTEntry{
		Key:      key,
		Depth:    depth,
		Score:    score,
		Bound:    bound,
		BestMove: best,
		Stamp:    tt.clock,
	}
}

// evictLocked 按写入时间排序，删掉最老的 1/5（至少一条）。近似 LRU。
func (tt *TranspositionTable) evictLocked() {
	type aged struct {
		key   uint64
		stamp uint64
	}
	all := make([]aged, 0, len(tt.entries))
	for k, e := range tt.entries {
		all = append(all, aged{k, e.Stamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].stamp < all[j].stamp })
	n := len(all) / evictFraction
	if n < 1 {
		n = 1
	}
	for _, a := range all[:n] {
		delete(tt.entries, a.key)
	}
	tt.evictions += uint64(n)
}

// Lookup 只在条目深度 >= depth 时命中；更浅的结果算未命中。
func (tt *TranspositionTable) Lookup(key uint64, depth int) (TTEntry, bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	e, ok := tt.entries[key]
	if !ok || e.Depth < depth {
		tt.misses++
		return TTEntry{}, false
	}
	tt.hits++
	return e, true
}

// BestMove 取出缓存的最佳着法用于排序，不看深度，也不计入命中统计
func (tt *TranspositionTable) BestMove(key uint64) (xiangqi.Move, bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	e, ok := tt.entries[key]
	if !ok || e.BestMove.IsNone() {
		return xiangqi.NoMove, false
	}
	return e.BestMove, true
}

// Clear 清空条目和计数器
func (tt *TranspositionTable) Clear() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.entries = make(map[uint64]TTEntry, min(tt.capacity, 1<<16))
	tt.clock = 0
	tt.hits, tt.misses, tt.stores, tt.evictions = 0, 0, 0, 0
}

func (tt *TranspositionTable) Len() int {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return len(tt.entries)
}

func (tt *TranspositionTable) Stats() TTStats {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return TTStats{
		Entries:   len(tt.entries),
		Capacity:  tt.capacity,
		Hits:      tt.hits,
		Misses:    tt.misses,
		Stores:    tt.stores,
		Evictions: tt.evictions,
	}
}
