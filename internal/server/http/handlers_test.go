package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"xiangqi/internal/config"
	"xiangqi/internal/server/game"
)

type testServer struct {
	handler http.Handler
	hub     *Hub
	done    chan struct{}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LogSearchStats = false
	cfg.WebDir = t.TempDir()
	store := config.NewStore(cfg)
	mgr := game.NewManager(store)
	hub := NewHub()
	mgr.OnMove(hub.PublishMove)
	done := make(chan struct{})
	go hub.Run(done)
	t.Cleanup(func() { close(done) })
	return &testServer{handler: NewRouter(mgr, hub, store), hub: hub, done: done}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func (s *testServer) create(t *testing.T, req CreateGameRequest) GameResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/games", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	return decodeBody[GameResponse](t, rec)
}

func TestCreateAndGetGame(t *testing.T) {
	s := newTestServer(t)
	g := s.create(t, CreateGameRequest{})
	if g.ID == "" || g.Turn != "red" || g.Status != "in_progress" {
		t.Fatalf("unexpected game %+v", g)
	}
	if len(g.Pieces) != 32 || len(g.LegalMoves) != 44 {
		t.Fatalf("pieces=%d legal=%d", len(g.Pieces), len(g.LegalMoves))
	}

	rec := s.do(t, http.MethodGet, "/api/games/"+g.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	if got := decodeBody[GameResponse](t, rec); got.FEN != g.FEN {
		t.Fatalf("fen %q != %q", got.FEN, g.FEN)
	}

	rec = s.do(t, http.MethodGet, "/api/games/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing game: %d", rec.Code)
	}
}

func TestCreateGameValidation(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name string
		req  CreateGameRequest
	}{
		{"bad fen", CreateGameRequest{FEN: "not a fen"}},
		{"bad difficulty", CreateGameRequest{Difficulty: "godlike"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/games", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMoveAndIllegalMove(t *testing.T) {
	s := newTestServer(t)
	g := s.create(t, CreateGameRequest{})

	rec := s.do(t, http.MethodPost, "/api/games/"+g.ID+"/move", MoveRequest{
		From: CoordDTO{Row: 7, Col: 7}, To: CoordDTO{Row: 7, Col: 4},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move: %d %s", rec.Code, rec.Body.String())
	}
	mv := decodeBody[MoveResponse](t, rec)
	if mv.Move.Notation != "C2.5" || mv.Game.Turn != "black" || len(mv.Game.History) != 1 {
		t.Fatalf("move response %+v", mv.Move)
	}

	// 马不能直走
	rec = s.do(t, http.MethodPost, "/api/games/"+g.ID+"/move", MoveRequest{
		From: CoordDTO{Row: 0, Col: 1}, To: CoordDTO{Row: 1, Col: 1},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("illegal move: %d", rec.Code)
	}
	if e := decodeBody[ErrorResponse](t, rec); e.Error != "illegal move" {
		t.Fatalf("error %q", e.Error)
	}

	rec = s.do(t, http.MethodPost, "/api/games/"+g.ID+"/undo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("undo: %d", rec.Code)
	}
	if back := decodeBody[GameResponse](t, rec); back.FEN != g.FEN || len(back.History) != 0 {
		t.Fatalf("undo result %s", back.FEN)
	}
	rec = s.do(t, http.MethodPost, "/api/games/"+g.ID+"/undo", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("undo empty history: %d", rec.Code)
	}
}

func TestSelectReturnsTargets(t *testing.T) {
	s := newTestServer(t)
	g := s.create(t, CreateGameRequest{})
	rec := s.do(t, http.MethodPost, "/api/games/"+g.ID+"/select", SelectRequest{Row: 9, Col: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("select: %d", rec.Code)
	}
	got := decodeBody[GameResponse](t, rec)
	if got.Selection == nil || len(got.Selection.Targets) != 2 {
		t.Fatalf("selection %+v", got.Selection)
	}
}

func TestAIMoveEndpoint(t *testing.T) {
	s := newTestServer(t)
	g := s.create(t, CreateGameRequest{FEN: "4k4/9/9/9/4r4/9/9/9/4R4/3K5 w"})
	rec := s.do(t, http.MethodPost, "/api/games/"+g.ID+"/ai", AIRequest{Difficulty: "easy"})
	if rec.Code != http.StatusOK {
		t.Fatalf("ai: %d %s", rec.Code, rec.Body.String())
	}
	res := decodeBody[AIResponse](t, rec)
	if res.Move.Captured == nil || res.Move.To.Row != 4 || res.Move.To.Col != 4 {
		t.Fatalf("ai move %+v", res.Move)
	}
	if res.Stats.Difficulty != "easy" || res.Game.Turn != "black" {
		t.Fatalf("stats %+v turn %s", res.Stats, res.Game.Turn)
	}

	rec = s.do(t, http.MethodPost, "/api/games/"+g.ID+"/ai", AIRequest{Difficulty: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown difficulty: %d", rec.Code)
	}
}

func TestDifficulties(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/difficulties", nil)
	got := decodeBody[[]DifficultyDTO](t, rec)
	if len(got) != 4 || got[0].Name != "easy" || got[3].Name != "expert" {
		t.Fatalf("difficulties %+v", got)
	}
}

func TestStaticRedirects(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		ua, query, want string
	}{
		{"Mozilla/5.0 (Windows NT 10.0)", "", "/web/"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)", "", "/web_mobile/"},
		{"Mozilla/5.0 (iPhone)", "?view=desktop", "/web/"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		req.Header.Set("User-Agent", tc.ua)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != tc.want {
			t.Fatalf("%s%s: %d -> %s", tc.ua, tc.query, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestWebSocketPushesMoves(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()
	g := s.create(t, CreateGameRequest{})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + g.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first wsMessage
	if err := conn.ReadJSON(&first); err != nil || first.Type != "state" {
		t.Fatalf("first message %+v err=%v", first, err)
	}

	// 注册在首条消息之前完成，之后的走子一定能收到
	rec := s.do(t, http.MethodPost, "/api/games/"+g.ID+"/move", MoveRequest{
		From: CoordDTO{Row: 9, Col: 7}, To: CoordDTO{Row: 7, Col: 6},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move: %d", rec.Code)
	}

	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "move" {
		t.Fatalf("type %q", msg.Type)
	}
	var p movePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.GameID != g.ID || p.Record.Notation != "H2+3" || p.Turn != "black" {
		t.Fatalf("payload %+v", p)
	}

	if s.hub.Clients(g.ID) != 1 {
		t.Fatalf("clients %d", s.hub.Clients(g.ID))
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/ws/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}
