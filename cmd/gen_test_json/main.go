package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"

	"xiangqi/internal/xiangqi"
)

// TestCase 一个局面和它的全部合法走法，给别的实现对拍用
type TestCase struct {
	FEN        string   `json:"fen"`
	Signature  string   `json:"signature"`
	InCheck    bool     `json:"in_check"`
	LegalMoves []string `json:"legal_moves"` // "from-to"，按字典序
	Notations  []string `json:"notations"`   // 和 LegalMoves 一一对应
	Perft2     int64    `json:"perft2,omitempty"`
}

func buildCase(pos *xiangqi.Position, withPerft bool) TestCase {
	legal := pos.GenerateLegalMoves()
	sort.Slice(legal, func(i, j int) bool { return legal[i].String() < legal[j].String() })
	tc := TestCase{
		FEN:        pos.Encode(),
		Signature:  xiangqi.Signature(pos),
		InCheck:    pos.IsInCheck(pos.SideToMove),
		LegalMoves: make([]string, len(legal)),
		Notations:  make([]string, len(legal)),
	}
	for i, mv := range legal {
		tc.LegalMoves[i] = mv.String()
		tc.Notations[i] = pos.Notation(mv)
	}
	if withPerft {
		tc.Perft2 = pos.Perft(2)
	}
	return tc
}

func main() {
	numGames := flag.Int("games", 10, "random games to sample")
	maxPlies := flag.Int("maxplies", 300, "plies per game")
	seed := flag.Int64("seed", 1, "random seed")
	perft := flag.Bool("perft", false, "include perft(2) for each position")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	var cases []TestCase
	for g := 0; g < *numGames; g++ {
		pos := xiangqi.NewInitialPosition()
		for ply := 0; ply < *maxPlies; ply++ {
			cases = append(cases, buildCase(pos, *perft))
			legal := pos.GenerateLegalMoves()
			if len(legal) == 0 {
				break
			}
			next, ok := pos.ApplyMove(legal[rng.Intn(len(legal))])
			if !ok {
				log.Fatalf("game %d ply %d: generated move rejected", g, ply)
			}
			pos = next
		}
	}

	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(cases), *numGames, *out)
}
