package engine

// FaceUpIndex returns the position of the lowest face-up card of a tableau
// pile, i.e. where its movable run starts. It returns len(cards) when no card
// is face-up.
func FaceUpIndex(cards []Card) int {
	for i, c := range cards {
		if c.FaceUp {
			return i
		}
	}
	return len(cards)
}

// CountCards counts the cards across every pile of the state
func CountCards(state *GameState) int {
	count := 0
	for _, p := range state.piles() {
		count += p.Len()
	}
	return count
}

// FoundationSuit returns the suit a foundation is being built in, if any
func FoundationSuit(cards []Card) (Suit, bool) {
	if len(cards) == 0 {
		return 0, false
	}
	return cards[0].Suit, true
}

// CountFaceDown counts the face-down cards across the tableau
func CountFaceDown(state *GameState) int {
	count := 0
	for i := range state.Tableau {
		count += FaceUpIndex(state.Tableau[i].cards)
	}
	return count
}
