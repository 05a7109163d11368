package httpapi

import (
	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

type posDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPos(p board.Pos) *posDTO {
	return &posDTO{X: p.X, Y: p.Y}
}

// eventDTO is the wire form of every engine event. Fields not used by a kind
// are omitted.
type eventDTO struct {
	Kind      string  `json:"kind"`
	From      *posDTO `json:"from,omitempty"`
	To        *posDTO `json:"to,omitempty"`
	At        *posDTO `json:"at,omitempty"`
	Value     int     `json:"value,omitempty"`
	Delta     int     `json:"delta,omitempty"`
	Total     int     `json:"total,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Changed   *bool   `json:"changed,omitempty"`
	Moves     int     `json:"moves,omitempty"`
	Score     int     `json:"score,omitempty"`
	MaxTile   int     `json:"max_tile,omitempty"`
}

func toEventDTO(ev engine.Event) eventDTO {
	dto := eventDTO{Kind: ev.Kind().String()}
	switch e := ev.(type) {
	case engine.TileMoved:
		dto.From, dto.To, dto.Value = toPos(e.From), toPos(e.To), e.Value
	case engine.TileMerged:
		dto.From, dto.To, dto.Value = toPos(e.From), toPos(e.To), e.Value
	case engine.ThresholdReached:
		dto.At, dto.Value = toPos(e.At), e.Value
	case engine.ScoreChanged:
		dto.Delta, dto.Total = e.Delta, e.Total
	case engine.TileSpawned:
		dto.At, dto.Value = toPos(e.At), e.Value
	case engine.MoveProcessed:
		changed := e.Changed
		dto.Direction, dto.Changed, dto.Moves = e.Swipe.String(), &changed, e.Moves
	case engine.GameOver:
		dto.Score, dto.MaxTile = e.Score, e.MaxTile
	}
	return dto
}

func toEventDTOs(events []engine.Event) []eventDTO {
	out := make([]eventDTO, len(events))
	for i, ev := range events {
		out[i] = toEventDTO(ev)
	}
	return out
}

// stateResponse describes a session.
type stateResponse struct {
	ID               string  `json:"id"`
	Variant          string  `json:"variant"`
	Size             int     `json:"size"`
	Threshold        int     `json:"threshold"`
	Board            [][]int `json:"board"`
	Score            int     `json:"score"`
	Moves            int     `json:"moves"`
	MaxTile          int     `json:"max_tile"`
	ThresholdReached bool    `json:"threshold_reached"`
	GameOver         bool    `json:"game_over"`
}

type swipeResponse struct {
	Events []eventDTO     `json:"events"`
	State  *stateResponse `json:"state"`
}

type createRequest struct {
	Variant string `json:"variant"`
	Seed    *int64 `json:"seed,omitempty"`
	Board   []int  `json:"board,omitempty"`
}

type swipeRequest struct {
	Direction string `json:"direction"`
}

type variantDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Size        int    `json:"size"`
	Threshold   int    `json:"threshold"`
	Description string `json:"description"`
}

func toVariantDTO(v t2048.Variant) variantDTO {
	v = v.Resolved()
	return variantDTO{ID: v.ID, Title: v.Title, Size: v.Size, Threshold: v.Threshold, Description: v.Description}
}

type scoreDTO struct {
	Score     int    `json:"score"`
	MaxTile   int    `json:"max_tile"`
	Moves     int    `json:"moves"`
	CreatedAt string `json:"created_at"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// envelope is one WebSocket frame.
type envelope struct {
	Session string         `json:"session"`
	Type    string         `json:"type"` // "state" or "event"
	State   *stateResponse `json:"state,omitempty"`
	Event   *eventDTO      `json:"event,omitempty"`
}
