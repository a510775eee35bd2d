package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMove is returned for moves that are malformed, as opposed to illegal
var ErrInvalidMove = errors.New("invalid move")

// Action names one engine operation
type Action string

const (
	ActionDraw                Action = "draw"
	ActionWasteToTableau      Action = "waste_to_tableau"
	ActionTableauRun          Action = "tableau_run"
	ActionTableauToFoundation Action = "tableau_to_foundation"
	ActionWasteToFoundation   Action = "waste_to_foundation"
	ActionDiscardWaste        Action = "discard_waste"
)

// Actions lists every supported action
var Actions = []Action{
	ActionDraw,
	ActionWasteToTableau,
	ActionTableauRun,
	ActionTableauToFoundation,
	ActionWasteToFoundation,
	ActionDiscardWaste,
}

// ParseAction parses an action name, accepting dashes for underscores
func ParseAction(name string) (Action, error) {
	normalized := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, a := range Actions {
		if a == normalized {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidMove, name)
}

// UnmarshalText decodes an action name, normalizing case and dashes
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Indices names the JSON index fields the action reads
func (a Action) Indices() []string {
	switch a {
	case ActionWasteToTableau, ActionWasteToFoundation:
		return []string{"target"}
	case ActionTableauRun:
		return []string{"source", "from", "target"}
	case ActionTableauToFoundation:
		return []string{"source", "target"}
	}
	return nil
}

// Move is a request to perform one action.
//
//	draw, discard_waste       no indices
//	waste_to_tableau          Target = tableau pile
//	tableau_run               Source = tableau pile, From = run start, Target = tableau pile
//	tableau_to_foundation     Source = tableau pile, Target = foundation
//	waste_to_foundation       Target = foundation
type Move struct {
	Action Action `json:"action"`
	Source int    `json:"source"`
	From   int    `json:"from"`
	Target int    `json:"target"`
}

// UnmarshalJSON decodes a move, rejecting one that omits an index its action reads.
// A missing index would otherwise decode as pile 0.
func (m *Move) UnmarshalJSON(data []byte) error {
	type plain Move
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, name := range decoded.Action.Indices() {
		if raw, ok := fields[name]; !ok || string(raw) == "null" {
			return fmt.Errorf("%w: %s requires %s", ErrInvalidMove, decoded.Action, name)
		}
	}
	*m = Move(decoded)
	return nil
}

// Validate checks that the action is known and the indices address real piles.
// It does not check game legality.
func (m Move) Validate() error {
	action, err := ParseAction(string(m.Action))
	if err != nil {
		return err
	}

	switch action {
	case ActionWasteToTableau:
		if !validTableau(m.Target) {
			return fmt.Errorf("%w: target tableau %d out of range 0-%d", ErrInvalidMove, m.Target, TableauPiles-1)
		}
	case ActionTableauRun:
		if !validTableau(m.Source) {
			return fmt.Errorf("%w: source tableau %d out of range 0-%d", ErrInvalidMove, m.Source, TableauPiles-1)
		}
		if !validTableau(m.Target) {
			return fmt.Errorf("%w: target tableau %d out of range 0-%d", ErrInvalidMove, m.Target, TableauPiles-1)
		}
		if m.From < 0 || m.From >= DeckSize {
			return fmt.Errorf("%w: run start %d out of range", ErrInvalidMove, m.From)
		}
	case ActionTableauToFoundation:
		if !validTableau(m.Source) {
			return fmt.Errorf("%w: source tableau %d out of range 0-%d", ErrInvalidMove, m.Source, TableauPiles-1)
		}
		if !validFoundation(m.Target) {
			return fmt.Errorf("%w: foundation %d out of range 0-%d", ErrInvalidMove, m.Target, FoundationPiles-1)
		}
	case ActionWasteToFoundation:
		if !validFoundation(m.Target) {
			return fmt.Errorf("%w: foundation %d out of range 0-%d", ErrInvalidMove, m.Target, FoundationPiles-1)
		}
	}
	return nil
}

// String describes the move in a compact form for logs
func (m Move) String() string {
	switch m.Action {
	case ActionWasteToTableau:
		return fmt.Sprintf("waste -> tableau %d", m.Target)
	case ActionTableauRun:
		return fmt.Sprintf("tableau %d[%d:] -> tableau %d", m.Source, m.From, m.Target)
	case ActionTableauToFoundation:
		return fmt.Sprintf("tableau %d -> foundation %d", m.Source, m.Target)
	case ActionWasteToFoundation:
		return fmt.Sprintf("waste -> foundation %d", m.Target)
	}
	return string(m.Action)
}

// Apply performs the move and reports whether it was legal. A draw succeeds
// when at least one card reached the waste; a discard always succeeds.
// Malformed moves are rejected without changing state.
func (e *GameEngine) Apply(m Move) bool {
	if m.Validate() != nil {
		return false
	}
	m.Action, _ = ParseAction(string(m.Action))

	switch m.Action {
	case ActionDraw:
		return e.DrawFromStock() > 0
	case ActionWasteToTableau:
		return e.PlayWasteToTableau(m.Target)
	case ActionTableauRun:
		return e.MoveTableauRun(m.Source, m.From, m.Target)
	case ActionTableauToFoundation:
		return e.PlayTableauToFoundation(m.Source, m.Target)
	case ActionWasteToFoundation:
		return e.PlayWasteToFoundation(m.Target)
	case ActionDiscardWaste:
		e.SendWasteToDiscard()
		return true
	}
	return false
}
