package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"xiangqi/internal/xiangqi"
)

func main() {
	fen := flag.String("fen", xiangqi.InitialFEN, "position to inspect")
	depth := flag.Int("perft", 3, "perft depth (0 = skip)")
	flag.Parse()

	pos, err := xiangqi.DecodePosition(*fen)
	if err != nil {
		log.Fatalf("bad -fen: %v", err)
	}
	fmt.Println("FEN:", pos.Encode())
	fmt.Println("Signature:", xiangqi.Signature(pos))
	fmt.Printf("Hash: %016x\n", pos.Hash)
	fmt.Println("Pseudo moves:", len(pos.GeneratePseudoMoves()))

	legal := pos.GenerateLegalMoves()
	fmt.Println("Legal moves:", len(legal))
	for _, mv := range legal {
		fmt.Printf("  %-6s %v\n", pos.Notation(mv), mv)
	}
	side := pos.SideToMove
	fmt.Printf("In check: %v  Checkmate: %v  Stalemate: %v\n",
		pos.IsInCheck(side), pos.IsCheckmate(side), pos.IsStalemate(side))

	for d := 1; d <= *depth; d++ {
		start := time.Now()
		n := pos.Perft(d)
		fmt.Printf("perft(%d) = %d  (%v)\n", d, n, time.Since(start).Round(time.Millisecond))
	}
}
