package engine

import (
	"fmt"
	"strings"
)

// Dump renders every pile as text for manual inspection. The format is not
// stable and is not meant to be parsed.
func (gs *GameState) Dump() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock: %d card(s)\n", gs.Stock.Len())

	b.WriteString("Waste: ")
	writeCards(&b, gs.Waste.cards, "None")

	fmt.Fprintf(&b, "Discarded: %d card(s)\n", gs.Discard.Len())

	b.WriteString("Tableau:\n")
	for i := range gs.Tableau {
		fmt.Fprintf(&b, "  Pile %d: ", i+1)
		writeCards(&b, gs.Tableau[i].cards, "Empty")
	}

	b.WriteString("Foundations:\n")
	for i := range gs.Foundations {
		fmt.Fprintf(&b, "  Foundation %d: ", i+1)
		writeCards(&b, gs.Foundations[i].cards, "Empty")
	}

	return b.String()
}

func writeCards(b *strings.Builder, cards []Card, empty string) {
	if len(cards) == 0 {
		b.WriteString(empty)
		b.WriteByte('\n')
		return
	}
	for i, c := range cards {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte('\n')
}
