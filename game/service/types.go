package service

import (
	"time"

	"github.com/wricardo/klondike/game/engine"
)

// Event types reported in MoveResult.Events
const (
	EventDraw        = "draw"
	EventRecycle     = "recycle"
	EventPlaced      = "placed"
	EventRevealed    = "revealed"
	EventDiscard     = "discard"
	EventStockEmpty  = "stock_empty"
	EventIllegalMove = "illegal_move"
	EventNewDeal     = "new_deal"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           uint64             `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation. An illegal move is a
// normal result with Success false, never an error.
type MoveResult struct {
	Success    bool              `json:"success"`
	Move       engine.Move       `json:"move"`
	GameState  *engine.GameState `json:"game_state"`
	Message    string            `json:"message"`
	CardsMoved int               `json:"cards_moved"`
	Events     []GameEvent       `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"` // 1-based index of the move that failed
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Steps          []StepInfo        `json:"steps,omitempty"`
	Message        string            `json:"message,omitempty"`
}

// StepInfo is a compact record for each attempted move in a bulk call
type StepInfo struct {
	Idx        int         `json:"idx"`
	Move       engine.Move `json:"move"`
	Success    bool        `json:"success"`
	CardsMoved int         `json:"cards_moved"`
	Message    string      `json:"message"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Card      string    `json:"card,omitempty"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	DrawCount   int    `json:"draw_count"`
}
