package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"xiangqi/internal/server/game"
	"xiangqi/internal/xiangqi"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// movePayload 对端靠 Record 就能重放这一步
type movePayload struct {
	GameID    string             `json:"game_id"`
	Record    xiangqi.MoveRecord `json:"record"`
	ByAI      bool               `json:"by_ai"`
	FEN       string             `json:"fen"`
	Turn      string             `json:"turn"`
	Status    string             `json:"status"`
	Check     bool               `json:"check"`
	Checkmate bool               `json:"checkmate"`
}

type outbound struct {
	gameID string
	msg    wsMessage
}

// Hub 按对局分房间广播。Publish 不阻塞，队列满了就丢弃。
type Hub struct {
	mu        sync.Mutex
	rooms     map[string]map[*Client]struct{}
	broadcast chan outbound
}

type Client struct {
	hub    *Hub
	gameID string
	send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Client]struct{}),
		broadcast: make(chan outbound, 64),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case out := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[out.gameID] {
				client.sendJSON(out.msg)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.gameID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.gameID]; ok {
		if _, ok := room[c]; ok {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.gameID)
		}
	}
	h.mu.Unlock()
}

// Clients 某一局当前的订阅数
func (h *Hub) Clients(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[gameID])
}

func (h *Hub) Publish(gameID, typ string, payload any) {
	msg := wsMessage{Type: typ, Payload: mustMarshal(payload)}
	select {
	case h.broadcast <- outbound{gameID: gameID, msg: msg}:
	default:
		log.Printf("[server] ws queue full, dropping %s for %s", typ, gameID)
	}
}

// PublishMove 挂到 game.Manager.OnMove 上
func (h *Hub) PublishMove(ev game.MoveEvent) {
	pos := ev.State.Position
	h.Publish(ev.GameID, "move", movePayload{
		GameID:    ev.GameID,
		Record:    ev.Record,
		ByAI:      ev.ByAI,
		FEN:       pos.Encode(),
		Turn:      ev.State.Turn().String(),
		Status:    ev.State.Status.String(),
		Check:     ev.State.Check,
		Checkmate: ev.State.Checkmate,
	})
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[server] marshal %T: %v", v, err)
		return nil
	}
	return data
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// serveWS 订阅一局的走子推送。连上先推一次完整状态；客户端发 request_state 可以再要一次。
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.mgr.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: h.hub, gameID: id, send: make(chan []byte, 16)}
	h.hub.Register(client)
	client.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(gameToResponse(snap))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			h.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_state":
			if snap, err := h.mgr.Get(id); err == nil {
				client.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(gameToResponse(snap))})
			}
		}
	}
}
