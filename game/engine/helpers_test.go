package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// table describes a position by short card names. Bracketed tableau cards are
// face-down. Every card not named ends up face-up in the discard pile so the
// table always holds the full deck.
type table struct {
	stock       []string
	waste       []string
	tableau     [TableauPiles][]string
	foundations [FoundationPiles][]string
}

func mustCard(t *testing.T, s string) Card {
	t.Helper()
	c, err := ParseCard(s)
	require.NoError(t, err)
	return c
}

func engineWith(t *testing.T, layout table) *GameEngine {
	t.Helper()

	gs := &GameState{ConfigName: "test", DrawCount: DefaultDrawCount}
	used := make(map[CardID]bool)

	place := func(p *Pile, names []string, orient func(Card) Card) {
		for _, name := range names {
			c := orient(mustCard(t, name))
			require.False(t, used[c.ID()], "card %s used twice in test table", name)
			used[c.ID()] = true
			p.Push(c)
		}
	}
	faceDown := func(c Card) Card { c.FaceUp = false; return c }
	faceUp := func(c Card) Card { c.FaceUp = true; return c }
	asWritten := func(c Card) Card { return c }

	place(&gs.Stock, layout.stock, faceDown)
	place(&gs.Waste, layout.waste, faceUp)
	for i := range layout.tableau {
		place(&gs.Tableau[i], layout.tableau[i], asWritten)
	}
	for i := range layout.foundations {
		place(&gs.Foundations[i], layout.foundations[i], faceUp)
	}
	for _, c := range NewDeck() {
		if !used[c.ID()] {
			c.FaceUp = true
			gs.Discard.Push(c)
		}
	}

	config := DefaultConfig()
	eng, err := NewEngineFromState(config, gs, NewShuffler(1))
	require.NoError(t, err)
	return eng
}

func names(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
