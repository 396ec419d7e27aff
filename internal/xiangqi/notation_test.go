package xiangqi

import (
	"errors"
	"testing"
)

func TestWXFNotation(t *testing.T) {
	tests := []struct {
		fen  string
		from Coord
		to   Coord
		want string
	}{
		{InitialFEN, Coord{7, 7}, Coord{7, 4}, "C2.5"},
		{InitialFEN, Coord{7, 1}, Coord{7, 4}, "C8.5"},
		{InitialFEN, Coord{9, 7}, Coord{7, 6}, "H2+3"},
		{InitialFEN, Coord{9, 8}, Coord{8, 8}, "R1+1"},
		{InitialFEN, Coord{9, 2}, Coord{7, 4}, "E7+5"},
		{InitialFEN, Coord{9, 4}, Coord{8, 4}, "K5+1"},
		{InitialFEN, Coord{6, 4}, Coord{5, 4}, "P5+1"},
		{"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR b", Coord{2, 7}, Coord{2, 4}, "C8.5"},
		{"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR b", Coord{0, 1}, Coord{2, 2}, "H2+3"},
		// 同一纵线两个车：前车 +，后车 -
		{"4k4/9/9/9/9/R8/9/9/9/R3K4 w", Coord{5, 0}, Coord{5, 3}, "R+.6"},
		{"4k4/9/9/9/9/R8/9/9/9/R3K4 w", Coord{9, 0}, Coord{8, 0}, "R-+1"},
	}
	for _, tt := range tests {
		pos := MustDecode(tt.fen)
		got := pos.Notation(Move{From: tt.from.Square(), To: tt.to.Square()})
		if got != tt.want {
			t.Fatalf("%s %v->%v: got %q want %q", tt.fen, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestMoveStringRoundTrip(t *testing.T) {
	mv := Move{From: Square(7, 7), To: Square(7, 4)}
	back, ok := ParseMove(mv.String())
	if !ok || !back.Same(mv) {
		t.Fatalf("round trip failed: %q -> %v", mv.String(), back)
	}
	if NoMove.String() != "-" {
		t.Fatalf("NoMove renders as %q", NoMove.String())
	}
	if _, ok := ParseMove("x-1"); ok {
		t.Fatalf("garbage parsed")
	}
}

func TestFENRoundTripAndErrors(t *testing.T) {
	pos := MustDecode(InitialFEN)
	if got := pos.Encode(); got != InitialFEN {
		t.Fatalf("encode: got %q want %q", got, InitialFEN)
	}
	bad := []string{
		"",
		"rnbakabnr/9/1c5c1 w",
		"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNRR w",
		"rnbakabnx/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w",
		"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR x",
	}
	for _, fen := range bad {
		if _, err := DecodePosition(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Fatalf("%q: expected ErrInvalidFEN, got %v", fen, err)
		}
	}
}
