package xiangqi

import "testing"

func TestInitialPositionLayout(t *testing.T) {
	pos := NewInitialPosition()
	if got := pos.TotalPieces(); got != 32 {
		t.Fatalf("initial pieces: got=%d want=32", got)
	}
	if pos.SideToMove != Red {
		t.Fatalf("red should move first, got %v", pos.SideToMove)
	}
	if pc, ok := pos.Board.PieceAt(0, 4); !ok || pc != MakePiece(Black, PieceGeneral) {
		t.Fatalf("black general expected at (0,4), got %v", pc)
	}
	if pc, ok := pos.Board.PieceAt(9, 4); !ok || pc != MakePiece(Red, PieceGeneral) {
		t.Fatalf("red general expected at (9,4), got %v", pc)
	}
	if _, ok := pos.Board.PieceAt(4, 4); ok {
		t.Fatalf("(4,4) should be empty")
	}
	if _, ok := pos.Board.PieceAt(10, 0); ok {
		t.Fatalf("off-board lookup must report not found")
	}

	seen := map[uint8]bool{}
	for sq, pc := range pos.Board.Squares {
		id := pos.Board.IDs[sq]
		if (pc == 0) != (id == 0) {
			t.Fatalf("square %d: piece %v with id %d", sq, pc, id)
		}
		if id != 0 && seen[id] {
			t.Fatalf("duplicate piece id %d", id)
		}
		seen[id] = true
	}
}

func TestZoneQueries(t *testing.T) {
	if !IsWithinBoard(0, 0) || !IsWithinBoard(9, 8) || IsWithinBoard(-1, 0) || IsWithinBoard(0, 9) {
		t.Fatalf("board bounds wrong")
	}
	if !IsWithinPalace(Red, 9, 4) || !IsWithinPalace(Red, 7, 3) || IsWithinPalace(Red, 6, 4) || IsWithinPalace(Red, 8, 6) {
		t.Fatalf("red palace wrong")
	}
	if !IsWithinPalace(Black, 0, 5) || !IsWithinPalace(Black, 2, 3) || IsWithinPalace(Black, 3, 4) {
		t.Fatalf("black palace wrong")
	}
	if IsAcrossRiver(5, Red) || !IsAcrossRiver(4, Red) {
		t.Fatalf("red river boundary wrong")
	}
	if IsAcrossRiver(4, Black) || !IsAcrossRiver(5, Black) {
		t.Fatalf("black river boundary wrong")
	}
}

func TestIsValidMoveByPiece(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from Coord
		to   Coord
		want bool
	}{
		{"soldier forward before river", InitialFEN, Coord{6, 4}, Coord{5, 4}, true},
		{"soldier sideways before river", InitialFEN, Coord{6, 4}, Coord{6, 3}, false},
		{"soldier two steps", InitialFEN, Coord{6, 4}, Coord{4, 4}, false},
		{"soldier sideways after river", "4k4/9/9/9/4P4/9/9/9/9/3K5 w", Coord{4, 4}, Coord{4, 3}, true},
		{"soldier backward after river", "4k4/9/9/9/4P4/9/9/9/9/3K5 w", Coord{4, 4}, Coord{5, 4}, false},
		{"black soldier forward", InitialFEN, Coord{3, 0}, Coord{4, 0}, true},
		{"black soldier sideways across river", "4k4/9/9/9/9/4p4/9/9/9/3K5 b", Coord{5, 4}, Coord{5, 5}, true},

		{"horse open", InitialFEN, Coord{9, 1}, Coord{7, 2}, true},
		{"horse hobbled", InitialFEN, Coord{9, 1}, Coord{8, 3}, false},
		{"horse not L", InitialFEN, Coord{9, 1}, Coord{7, 1}, false},

		{"elephant open", InitialFEN, Coord{9, 2}, Coord{7, 4}, true},
		{"elephant eye blocked", "4k4/9/9/9/9/9/9/9/3N5/2B1K4 w", Coord{9, 2}, Coord{7, 4}, false},
		{"elephant cannot cross river", "4k4/9/9/9/9/2B6/9/9/9/4K4 w", Coord{5, 2}, Coord{3, 4}, false},

		{"advisor diagonal in palace", InitialFEN, Coord{9, 3}, Coord{8, 4}, true},
		{"advisor leaves palace", "4k4/9/9/9/9/9/9/3A5/9/4K4 w", Coord{7, 3}, Coord{6, 2}, false},
		{"advisor orthogonal", InitialFEN, Coord{9, 3}, Coord{8, 3}, false},

		{"general step", InitialFEN, Coord{9, 4}, Coord{8, 4}, true},
		{"general leaves palace", "4k4/9/9/9/9/9/9/4K4/9/9 w", Coord{7, 4}, Coord{6, 4}, false},
		{"general diagonal", "4k4/9/9/9/9/9/9/9/4K4/9 w", Coord{8, 4}, Coord{7, 3}, false},
		{"flying general clear file", "4k4/9/9/9/9/9/9/9/9/4K4 w", Coord{9, 4}, Coord{0, 4}, true},
		{"flying general blocked", "4k4/9/9/9/4p4/9/9/9/9/4K4 w", Coord{9, 4}, Coord{0, 4}, false},

		{"chariot clear", "4k4/9/9/9/9/9/9/9/9/R3K4 w", Coord{9, 0}, Coord{1, 0}, true},
		{"chariot blocked", InitialFEN, Coord{9, 0}, Coord{5, 0}, false},
		{"chariot capture", "4k4/p8/9/9/9/9/9/9/9/R3K4 w", Coord{9, 0}, Coord{1, 0}, true},

		{"cannon slide", InitialFEN, Coord{7, 1}, Coord{7, 4}, true},
		{"cannon capture over screen", InitialFEN, Coord{7, 1}, Coord{0, 1}, true},
		{"cannon capture without screen", "4k4/9/9/9/9/9/9/9/4K4/C7r w", Coord{9, 0}, Coord{9, 8}, false},
		{"cannon two screens", "4k4/9/9/9/9/9/9/9/9/C1P1K3r w", Coord{9, 0}, Coord{9, 8}, false},
		{"cannon slide over piece", InitialFEN, Coord{7, 1}, Coord{1, 1}, false},

		{"own capture", InitialFEN, Coord{9, 0}, Coord{9, 1}, false},
		{"empty origin", InitialFEN, Coord{5, 5}, Coord{4, 5}, false},
		{"off board", InitialFEN, Coord{9, 0}, Coord{10, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := MustDecode(tt.fen)
			to := -1
			if tt.to.Valid() {
				to = tt.to.Square()
			}
			if got := pos.IsValidMove(tt.from.Square(), to); got != tt.want {
				t.Fatalf("IsValidMove(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCheckDetection(t *testing.T) {
	pos := MustDecode("4k4/9/9/9/9/9/9/9/9/4K4 w")
	if !pos.IsInCheck(Black) || !pos.IsInCheck(Red) {
		t.Fatalf("facing generals must check both sides")
	}

	pos = MustDecode("4k4/9/9/9/4R4/9/9/9/9/4K4 w")
	if pos.IsInCheck(Red) {
		t.Fatalf("red is screened by its own chariot")
	}
	if !pos.IsInCheck(Black) {
		t.Fatalf("chariot on the open file checks black")
	}
	if !pos.WouldBeInCheck(Square(4, 4), Square(4, 0)) {
		t.Fatalf("moving the screen off the file exposes the red general")
	}
	if pos.WouldBeInCheck(Square(4, 4), Square(1, 4)) {
		t.Fatalf("staying on the file keeps the red general covered")
	}

	pos = MustDecode("9/9/9/9/9/9/9/9/9/4K4 w")
	if pos.IsInCheck(Black) {
		t.Fatalf("missing general is not in check")
	}
}

func TestCheckmateWithSingleEvasion(t *testing.T) {
	// 黑将只剩 (1,4) 一个逃跑点
	pos := MustDecode("R3k4/9/9/9/9/9/9/9/9/3K5 b")
	if !pos.IsInCheck(Black) {
		t.Fatalf("black should be in check")
	}
	if pos.IsCheckmate(Black) {
		t.Fatalf("black still has the (1,4) evasion")
	}
	targets := pos.LegalTargets(Square(0, 4))
	if len(targets) != 1 || targets[0] != Square(1, 4) {
		t.Fatalf("only evasion should be (1,4), got %v", targets)
	}

	// 用黑卒把逃跑点堵上
	blocked := MustDecode("R3k4/4p4/9/9/9/9/9/9/9/3K5 b")
	if !blocked.IsCheckmate(Black) {
		t.Fatalf("blocked evasion must be checkmate")
	}

	// 或者用红车控制逃跑点
	covered := MustDecode("R3k4/8R/9/9/9/9/9/9/9/3K5 b")
	if !covered.IsCheckmate(Black) {
		t.Fatalf("covered evasion must be checkmate")
	}
	if covered.IsCheckmate(Red) {
		t.Fatalf("red is not checkmated")
	}
}

func TestCheckmateMatchesDefinition(t *testing.T) {
	fens := []string{
		InitialFEN,
		"R3k4/9/9/9/9/9/9/9/9/3K5 b",
		"R3k4/4p4/9/9/9/9/9/9/9/3K5 b",
		"3k5/4R4/9/9/9/9/9/9/9/4K4 b",
		"4k4/4a4/4C4/9/9/9/9/9/9/3K5 b",
	}
	for _, fen := range fens {
		pos := MustDecode(fen)
		for _, side := range []Side{Red, Black} {
			everyMoveStillChecked := true
			for sq, pc := range pos.Board.Squares {
				if pc == 0 || pc.Side() != side {
					continue
				}
				for _, to := range pos.ValidMoves(sq) {
					if !pos.WouldBeInCheck(sq, to) {
						everyMoveStillChecked = false
					}
				}
			}
			want := pos.IsInCheck(side) && everyMoveStillChecked
			if got := pos.IsCheckmate(side); got != want {
				t.Fatalf("%s side=%v: IsCheckmate=%v want %v", fen, side, got, want)
			}
		}
	}
}

func TestStalemateIsReportedNotAdjudicated(t *testing.T) {
	// 黑将不被将，但所有去处都被控制
	pos := MustDecode("3k5/8R/4R4/9/9/9/9/9/9/4K4 b")
	if pos.IsInCheck(Black) {
		t.Fatalf("black should not be in check")
	}
	if !pos.IsStalemate(Black) {
		t.Fatalf("black has no legal moves")
	}
	if pos.IsCheckmate(Black) {
		t.Fatalf("stalemate is not checkmate")
	}
}
