package main

import (
	"fmt"
	"log"
	"time"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

type PlayerConfig struct {
	Name string
	Cfg  engine.SearchConfig
}

type GameResult struct {
	Index     int
	Red       string
	Black     string
	Winner    xiangqi.Side // NoSide 表示和棋
	Reason    string
	Plies     int
	Nodes     int64
	Moves     []string
	Fallbacks int // 搜索没给出着法、改走第一个合法着法的次数
	Spent     time.Duration
}

func newPlayer(depth int, timeLimit time.Duration, alphaBeta bool) PlayerConfig {
	name := fmt.Sprintf("alpha-beta d%d", depth)
	if !alphaBeta {
		name = fmt.Sprintf("minimax d%d", depth)
	}
	return PlayerConfig{
		Name: name,
		Cfg: engine.SearchConfig{
			MaxDepth:     depth,
			UseAlphaBeta: alphaBeta,
			UseTable:     alphaBeta,
			TimeLimit:    timeLimit,
		},
	}
}

// playGame 两个配置对下一局。没有合法着法的一方判负；同一局面第三次出现或超过步数上限判和。
func playGame(idx int, start *xiangqi.Position, red, black PlayerConfig, maxPlies int) (res GameResult) {
	e := engine.NewEngine()
	res = GameResult{Index: idx, Red: red.Name, Black: black.Name, Winner: xiangqi.NoSide}
	begin := time.Now()
	defer func() { res.Spent = time.Since(begin) }()

	pos := start
	seen := map[uint64]int{xiangqi.Key(pos): 1}
	for res.Plies < maxPlies {
		cur := red
		if pos.SideToMove == xiangqi.Black {
			cur = black
		}
		// 每步一张新表，和界面上的 AI 一致
		cfg := cur.Cfg
		if cfg.UseTable {
			cfg.Table = engine.NewTranspositionTable(engine.DefaultTableCapacity)
		}
		if !pos.HasLegalMove(pos.SideToMove) {
			res.Winner = pos.SideToMove.Opponent()
			res.Reason = "no legal moves"
			if pos.IsInCheck(pos.SideToMove) {
				res.Reason = "checkmate"
			}
			return res
		}
		sr := e.FindBestMove(pos, cfg)
		res.Nodes += sr.Nodes
		best := sr.BestMove
		if !sr.Found() {
			// 有棋可走但搜索没给出着法（超时或出错），不能当成输棋
			best = pos.GenerateLegalMoves()[0]
			res.Fallbacks++
			log.Printf("[selfplay] game %d ply %d: %s returned no move, playing %s", idx, res.Plies, cur.Name, pos.Notation(best))
		}
		res.Moves = append(res.Moves, pos.Notation(best))
		next, ok := pos.ApplyMove(best)
		if !ok {
			res.Reason = fmt.Sprintf("engine produced invalid move %v", best)
			return res
		}
		pos = next
		res.Plies++

		key := xiangqi.Key(pos)
		seen[key]++
		if seen[key] >= 3 {
			res.Reason = "repetition"
			return res
		}
	}
	res.Reason = "move limit"
	return res
}

// tally 按玩家名统计胜负
type tally struct {
	wins  map[string]int
	draws int
}

func newTally() *tally { return &tally{wins: make(map[string]int)} }

func (t *tally) add(r GameResult) {
	switch r.Winner {
	case xiangqi.Red:
		t.wins[r.Red]++
	case xiangqi.Black:
		t.wins[r.Black]++
	default:
		t.draws++
	}
}
