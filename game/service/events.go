package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/klondike/game/engine"
)

// messagesFor returns the config's messages with blanks filled from the defaults
func messagesFor(config *engine.GameConfig) engine.Messages {
	defaults := engine.DefaultConfig().Messages
	if config == nil {
		return defaults
	}

	m := config.Messages
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.Welcome, defaults.Welcome)
	fill(&m.Drew, defaults.Drew)
	fill(&m.Recycled, defaults.Recycled)
	fill(&m.StockEmpty, defaults.StockEmpty)
	fill(&m.Placed, defaults.Placed)
	fill(&m.Revealed, defaults.Revealed)
	fill(&m.Discarded, defaults.Discarded)
	fill(&m.IllegalMove, defaults.IllegalMove)
	return m
}

// describeMove compares the table before and after a move and returns how many
// cards changed piles, the player-facing message and the events it produced.
func describeMove(config *engine.GameConfig, m engine.Move, ok bool, before, after *engine.GameState) (int, string, []GameEvent) {
	msgs := messagesFor(config)
	now := time.Now()

	if m.Action == engine.ActionDraw && !ok {
		return 0, msgs.StockEmpty, []GameEvent{{Type: EventStockEmpty, Message: msgs.StockEmpty, Timestamp: now}}
	}
	if !ok {
		return 0, msgs.IllegalMove, []GameEvent{{Type: EventIllegalMove, Message: msgs.IllegalMove, Timestamp: now}}
	}

	var events []GameEvent

	switch m.Action {
	case engine.ActionDraw:
		wasteBefore := before.Waste.Len()
		if before.Stock.IsEmpty() {
			events = append(events, GameEvent{Type: EventRecycle, Message: msgs.Recycled, Timestamp: now})
			wasteBefore = 0
		}
		drawn := after.Waste.Len() - wasteBefore
		msg := fmt.Sprintf(msgs.Drew, drawn)
		top, _ := after.Waste.Peek()
		events = append(events, GameEvent{Type: EventDraw, Message: msg, Timestamp: now, Card: top.String()})
		return drawn, joinMessages(events), events

	case engine.ActionDiscardWaste:
		n := before.Waste.Len()
		msg := fmt.Sprintf(msgs.Discarded, n)
		events = append(events, GameEvent{Type: EventDiscard, Message: msg, Timestamp: now})
		return n, msg, events
	}

	// Placement moves: find the card that moved and whether a card was turned up
	moved := 1
	var card engine.Card
	switch m.Action {
	case engine.ActionWasteToTableau:
		card, _ = after.Tableau[m.Target].Peek()
	case engine.ActionTableauRun:
		moved = before.Tableau[m.Source].Len() - m.From
		card, _ = after.Tableau[m.Target].At(after.Tableau[m.Target].Len() - moved)
	case engine.ActionTableauToFoundation, engine.ActionWasteToFoundation:
		card, _ = after.Foundations[m.Target].Peek()
	}

	placed := fmt.Sprintf(msgs.Placed, card.String())
	events = append(events, GameEvent{Type: EventPlaced, Message: placed, Timestamp: now, Card: card.String()})

	if m.Action == engine.ActionTableauRun || m.Action == engine.ActionTableauToFoundation {
		src := before.Tableau[m.Source]
		if exposed, ok := src.At(src.Len() - moved - 1); ok && !exposed.FaceUp {
			exposed.FaceUp = true
			events = append(events, GameEvent{
				Type:      EventRevealed,
				Message:   fmt.Sprintf(msgs.Revealed, exposed.String()),
				Timestamp: now,
				Card:      exposed.String(),
			})
		}
	}

	return moved, joinMessages(events), events
}

func joinMessages(events []GameEvent) string {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		parts = append(parts, ev.Message)
	}
	return strings.Join(parts, ". ")
}
