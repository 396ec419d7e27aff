package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"xiangqi/internal/xiangqi"
)

func main() {
	games := flag.Int("games", 4, "number of games to play")
	parallel := flag.Int("parallel", 2, "games played at the same time")
	redDepth := flag.Int("red-depth", 3, "red search depth")
	blackDepth := flag.Int("black-depth", 2, "black search depth")
	moveTime := flag.Duration("movetime", 2*time.Second, "time limit per move (0 = none)")
	minimax := flag.Bool("minimax", false, "use plain minimax instead of alpha-beta")
	maxPlies := flag.Int("maxplies", 200, "draw after this many plies")
	fen := flag.String("fen", xiangqi.InitialFEN, "start position")
	verbose := flag.Bool("v", false, "print every game's moves")
	flag.Parse()

	start, err := xiangqi.DecodePosition(*fen)
	if err != nil {
		log.Fatalf("bad -fen: %v", err)
	}

	a := newPlayer(*redDepth, *moveTime, !*minimax)
	b := newPlayer(*blackDepth, *moveTime, !*minimax)
	if a.Name == b.Name {
		a.Name += " (A)"
		b.Name += " (B)"
	}

	results := make([]GameResult, *games)
	var mu sync.Mutex
	done := 0

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(max(*parallel, 1))
	begin := time.Now()
	for i := 0; i < *games; i++ {
		i := i
		g.Go(func() error {
			// 轮流执红
			red, black := a, b
			if i%2 == 1 {
				red, black = b, a
			}
			r := playGame(i+1, start, red, black, *maxPlies)
			if strings.HasPrefix(r.Reason, "engine produced") {
				return fmt.Errorf("game %d: %s", i+1, r.Reason)
			}
			mu.Lock()
			results[i] = r
			done++
			log.Printf("[selfplay] %d/%d game %d: %s vs %s -> %s (%s, %d plies, %v)",
				done, *games, r.Index, r.Red, r.Black, winnerName(r), r.Reason, r.Plies, r.Spent.Round(time.Millisecond))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[selfplay] aborted: %v", err)
		os.Exit(1)
	}

	t := newTally()
	var nodes int64
	for _, r := range results {
		t.add(r)
		nodes += r.Nodes
		if *verbose {
			fmt.Printf("game %d: %s\n", r.Index, strings.Join(r.Moves, " "))
		}
	}
	elapsed := time.Since(begin)
	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("%s: %d\n", a.Name, t.wins[a.Name])
	fmt.Printf("%s: %d\n", b.Name, t.wins[b.Name])
	fmt.Printf("Draws: %d\n", t.draws)
	fmt.Printf("Nodes: %d in %v (%.0f nps)\n", nodes, elapsed.Round(time.Millisecond), float64(nodes)/elapsed.Seconds())
}

func winnerName(r GameResult) string {
	switch r.Winner {
	case xiangqi.Red:
		return r.Red
	case xiangqi.Black:
		return r.Black
	}
	return "draw"
}
