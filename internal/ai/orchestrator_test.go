package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"xiangqi/internal/config"
	"xiangqi/internal/xiangqi"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.LogSearchStats = false
	cfg.Difficulties["slow"] = config.DifficultyProfile{Depth: 30, TimeBudgetMs: 400}
	return cfg
}

func newOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o, err := New(testConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return o
}

func TestDifficultySettings(t *testing.T) {
	o := newOrchestrator(t)
	s := o.Settings()
	if s.Difficulty != "medium" || s.Depth != 3 || s.TimeBudget != 1500*time.Millisecond {
		t.Fatalf("default settings %+v", s)
	}

	if err := o.SetDifficulty("expert"); err != nil {
		t.Fatalf("set expert: %v", err)
	}
	s = o.Settings()
	if s.Depth != 6 || s.TimeBudget != 10*time.Second || !s.MateProbe {
		t.Fatalf("expert settings %+v", s)
	}

	if err := o.SetDifficulty("grandmaster"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
	if o.Settings().Difficulty != "expert" {
		t.Fatalf("failed setter changed difficulty")
	}
}

func TestTogglesRecomputeSettings(t *testing.T) {
	o := newOrchestrator(t)
	if err := o.SetDifficulty("expert"); err != nil {
		t.Fatal(err)
	}

	o.SetUseAlphaBeta(false)
	s := o.Settings()
	if s.UseAlphaBeta || s.UseTable || s.Depth != 3 {
		t.Fatalf("minimax settings %+v", s)
	}
	o.SetUseTable(true)
	if o.Settings().UseTable {
		t.Fatalf("table enabled without alpha-beta")
	}

	o.SetUseAlphaBeta(true)
	s = o.Settings()
	if !s.UseAlphaBeta || !s.UseTable || s.Depth != 6 {
		t.Fatalf("alpha-beta settings %+v", s)
	}
	o.SetUseTable(false)
	if o.Settings().UseTable {
		t.Fatalf("table still enabled")
	}
}

func TestBestMoveCapturesHangingChariot(t *testing.T) {
	o := newOrchestrator(t)
	if err := o.SetDifficulty("easy"); err != nil {
		t.Fatal(err)
	}
	state := xiangqi.GameStateFromPosition(xiangqi.MustDecode("4k4/9/9/9/4r4/9/9/9/4R4/3K5 w"))
	res, err := o.BestMove(context.Background(), state)
	if err != nil {
		t.Fatalf("best move: %v", err)
	}
	want := xiangqi.Move{From: xiangqi.Square(8, 4), To: xiangqi.Square(4, 4)}
	if !res.Move.Same(want) {
		t.Fatalf("got %v want %v", res.Move, want)
	}
	st := o.LastSearchStats()
	if st.Difficulty != "easy" || st.Depth < 1 || st.Nodes == 0 {
		t.Fatalf("stats %+v", st)
	}
}

func TestMateProbeShortCircuits(t *testing.T) {
	o := newOrchestrator(t)
	if err := o.SetDifficulty("hard"); err != nil {
		t.Fatal(err)
	}
	pos := xiangqi.MustDecode("4k4/8R/9/9/9/R8/9/9/9/3K5 w")
	res, err := o.BestMove(context.Background(), xiangqi.GameStateFromPosition(pos))
	if err != nil {
		t.Fatalf("best move: %v", err)
	}
	if !res.Stats.MateProbe {
		t.Fatalf("expected the mate probe to answer")
	}
	next, ok := pos.ApplyMove(res.Move)
	if !ok || !next.IsCheckmate(xiangqi.Black) {
		t.Fatalf("move %v does not mate", res.Move)
	}
}

func TestThinkIsAsyncAndExclusive(t *testing.T) {
	o := newOrchestrator(t)
	if err := o.SetDifficulty("slow"); err != nil {
		t.Fatal(err)
	}
	state := xiangqi.StartGame(xiangqi.InitializeGameState())

	ch, err := o.Think(context.Background(), state)
	if err != nil {
		t.Fatalf("think: %v", err)
	}
	if !o.IsThinking() {
		t.Fatalf("should be thinking")
	}
	if _, err := o.Think(context.Background(), state); !errors.Is(err, ErrBusy) {
		t.Fatalf("second search: expected ErrBusy, got %v", err)
	}

	select {
	case res := <-ch:
		if !res.Found() {
			t.Fatalf("no move from the opening")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("search did not finish")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after one result")
	}
	if o.IsThinking() {
		t.Fatalf("still thinking after the result")
	}
	if st := o.LastSearchStats(); st.Depth == 0 || st.Elapsed == 0 {
		t.Fatalf("stats not recorded: %+v", st)
	}
}

func TestContextDeadlineTightensBudget(t *testing.T) {
	o := newOrchestrator(t)
	if err := o.SetDifficulty("slow"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	ch, err := o.Think(ctx, xiangqi.StartGame(xiangqi.InitializeGameState()))
	if err != nil {
		t.Fatalf("think: %v", err)
	}
	res := <-ch
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("deadline ignored: %v", elapsed)
	}
	if !res.Found() {
		t.Fatalf("expected a move even under a short deadline")
	}
}

func TestNoMoveWhenGameNotInProgress(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.BestMove(context.Background(), xiangqi.InitializeGameState())
	if err != nil {
		t.Fatalf("best move: %v", err)
	}
	if res.Found() {
		t.Fatalf("game not started, got %v", res.Move)
	}

	mated := xiangqi.GameStateFromPosition(xiangqi.MustDecode("R3k4/8R/9/9/9/9/9/9/9/3K5 b"))
	res, err = o.BestMove(context.Background(), mated)
	if err != nil || res.Found() {
		t.Fatalf("mated side got %v (err=%v)", res.Move, err)
	}
}
