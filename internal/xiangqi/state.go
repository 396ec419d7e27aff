package xiangqi

type Status int8

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusRedWon
	StatusBlackWon
	StatusDraw
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusRedWon:
		return "red_won"
	case StatusBlackWon:
		return "black_won"
	case StatusDraw:
		return "draw"
	}
	return "unknown"
}

func wonBy(side Side) Status {
	if side == Red {
		return StatusRedWon
	}
	return StatusBlackWon
}

// PieceSnapshot 某一时刻一个棋子的完整描述
type PieceSnapshot struct {
	ID     uint8     `json:"id"`
	Kind   PieceKind `json:"kind"`
	Side   Side      `json:"side"`
	At     Coord     `json:"at"`
	Symbol string    `json:"symbol"`
}

func (ps PieceSnapshot) Piece() Piece { return MakePiece(ps.Side, ps.Kind) }

// MoveRecord 已经走过的一步，记录后不再修改。联机对端只靠它就能重放这一步。
type MoveRecord struct {
	Piece    PieceSnapshot  `json:"piece"`
	From     Coord          `json:"from"`
	To       Coord          `json:"to"`
	Captured *PieceSnapshot `json:"captured,omitempty"`
	Notation string         `json:"notation"`
}

func (r MoveRecord) Move() Move {
	return Move{From: r.From.Square(), To: r.To.Square()}
}

// Selection 当前选中的子和它的合法落点（已去掉送将的落点）
type Selection struct {
	From    Coord   `json:"from"`
	Targets []Coord `json:"targets"`
}

// GameState 是纯数据，可以直接 JSON 序列化。
// 所有状态迁移函数都返回新值，不修改传入的状态。
type GameState struct {
	Position  Position     `json:"position"`
	History   []MoveRecord `json:"history"`
	Status    Status       `json:"status"`
	Check     bool         `json:"check"`
	Checkmate bool         `json:"checkmate"`
	Selection *Selection   `json:"selection,omitempty"`
}

func (s GameState) Turn() Side { return s.Position.SideToMove }

// LastMove 最后一步，没有则 false
func (s GameState) LastMove() (MoveRecord, bool) {
	if len(s.History) == 0 {
		return MoveRecord{}, false
	}
	return s.History[len(s.History)-1], true
}

// LegalMoves 当前走子方的全部合法走法
func (s GameState) LegalMoves() []Move {
	pos := s.Position
	return pos.GenerateLegalMoves()
}

func InitializeGameState() GameState {
	return GameState{
		Position: *NewInitialPosition(),
		Status:   StatusNotStarted,
	}
}

// GameStateFromPosition 从任意局面开一局（残局、排局），状态直接是 InProgress
func GameStateFromPosition(pos *Position) GameState {
	p := *pos
	p.EnsureHash()
	s := GameState{Position: p, Status: StatusInProgress}
	side := p.SideToMove
	s.Check = p.IsInCheck(side)
	s.Checkmate = s.Check && !p.HasLegalMove(side)
	if s.Checkmate {
		s.Status = wonBy(opposite(side))
	}
	return s
}

func StartGame(s GameState) GameState {
	if s.Status != StatusNotStarted {
		return s
	}
	s.Status = StatusInProgress
	return s
}

func snapshotAt(p *Position, sq int) PieceSnapshot {
	pc := p.Board.Squares[sq]
	return PieceSnapshot{
		ID:     p.Board.IDs[sq],
		Kind:   pc.Kind(),
		Side:   pc.Side(),
		At:     CoordOf(sq),
		Symbol: pc.Symbol(),
	}
}

// Pieces 棋盘上所有子，按行优先顺序
func (p *Position) Pieces() []PieceSnapshot {
	out := make([]PieceSnapshot, 0, p.TotalPieces())
	for sq, pc := range p.Board.Squares {
		if pc != 0 {
			out = append(out, snapshotAt(p, sq))
		}
	}
	return out
}

// MakeMove 走一步。对局不在进行中、不是该方走、走法不合法或走完自己被将时，
// 原样返回 s 和 false（不报错）。
func MakeMove(s GameState, from, to Coord) (GameState, bool) {
	if s.Status != StatusInProgress || !from.Valid() || !to.Valid() {
		return s, false
	}
	pos := &s.Position
	fromSq, toSq := from.Square(), to.Square()
	pc := pos.Board.Squares[fromSq]
	if pc == 0 || pc.Side() != pos.SideToMove {
		return s, false
	}
	// Selection 只给界面显示落点用，可能是反序列化来的旧数据，这里不信它
	if !pos.IsValidMove(fromSq, toSq) || pos.WouldBeInCheck(fromSq, toSq) {
		return s, false
	}

	mv := Move{From: fromSq, To: toSq}
	rec := MoveRecord{
		Piece:    snapshotAt(pos, fromSq),
		From:     from,
		To:       to,
		Notation: pos.Notation(mv),
	}
	if pos.Board.Squares[toSq] != 0 {
		captured := snapshotAt(pos, toSq)
		rec.Captured = &captured
	}

	next, ok := pos.ApplyMove(mv)
	if !ok {
		return s, false
	}

	out := GameState{
		Position: *next,
		History:  appendRecord(s.History, rec),
		Status:   StatusInProgress,
	}
	mover := pc.Side()
	opp := opposite(mover)
	out.Check = next.IsInCheck(opp)
	out.Checkmate = out.Check && !next.HasLegalMove(opp)
	if out.Checkmate || !next.GeneralExists(opp) {
		out.Status = wonBy(mover)
	}
	return out, true
}

// 拷贝一份再追加，旧状态的 History 不受影响
func appendRecord(h []MoveRecord, rec MoveRecord) []MoveRecord {
	out := make([]MoveRecord, len(h), len(h)+1)
	copy(out, h)
	return append(out, rec)
}

// ApplyRecord 按对端发来的记录重放一步；记录里的棋子必须和本地 From 上的子一致
func ApplyRecord(s GameState, rec MoveRecord) (GameState, bool) {
	if !rec.From.Valid() || !rec.To.Valid() {
		return s, false
	}
	if s.Position.Board.Squares[rec.From.Square()] != rec.Piece.Piece() {
		return s, false
	}
	return MakeMove(s, rec.From, rec.To)
}

// SelectPiece 选中 (row, col) 上的子。空位或不是走子方的子则清空选择。
func SelectPiece(s GameState, row, col int) GameState {
	s.Selection = nil
	pc, ok := s.Position.Board.PieceAt(row, col)
	if !ok || pc.Side() != s.Position.SideToMove {
		return s
	}
	pos := s.Position
	targets := pos.LegalTargets(indexOf(row, col))
	sel := &Selection{
		From:    Coord{Row: row, Col: col},
		Targets: make([]Coord, 0, len(targets)),
	}
	for _, sq := range targets {
		sel.Targets = append(sel.Targets, CoordOf(sq))
	}
	s.Selection = sel
	return s
}

func DeselectPiece(s GameState) GameState {
	s.Selection = nil
	return s
}

// UndoMove 撤销最后一步。历史为空时原样返回 s 和 false。
// 撤销后 Checkmate 总是 false，不重新推导将死。
func UndoMove(s GameState) (GameState, bool) {
	n := len(s.History)
	if n == 0 {
		return s, false
	}
	last := s.History[n-1]
	fromSq, toSq := last.From.Square(), last.To.Square()

	pos := s.Position
	pc := pos.Board.Squares[toSq]
	if pc != last.Piece.Piece() {
		// 局面和历史对不上，拒绝
		return s, false
	}
	var captured Piece
	if last.Captured != nil {
		captured = last.Captured.Piece()
	}
	h := hashMove(pos.EnsureHash(), pc, fromSq, toSq, captured)
	pos.Board.Squares[fromSq] = pc
	pos.Board.IDs[fromSq] = pos.Board.IDs[toSq]
	if last.Captured != nil {
		pos.Board.Squares[toSq] = captured
		pos.Board.IDs[toSq] = last.Captured.ID
	} else {
		pos.Board.Squares[toSq] = 0
		pos.Board.IDs[toSq] = 0
	}
	pos.SideToMove = last.Piece.Side
	pos.Hash = h

	out := GameState{
		Position: pos,
		History:  s.History[: n-1 : n-1],
		Status:   StatusInProgress,
	}
	if n-1 == 0 {
		out.Status = StatusNotStarted
		out.History = nil
	}
	out.Check = pos.IsInCheck(pos.SideToMove)
	return out, true
}
