package engine

// DrawFromStock turns the waste back into the stock when the stock is empty,
// then moves up to DrawCount cards from the stock to the waste face-up.
// It returns the number of cards that reached the waste.
func (e *GameEngine) DrawFromStock() int {
	gs := e.state

	if gs.Stock.IsEmpty() && !gs.Waste.IsEmpty() {
		// Popping the waste onto the stock reverses it, so the card at the
		// bottom of the waste becomes the next one drawn.
		for !gs.Waste.IsEmpty() {
			card, _ := gs.Waste.Pop()
			card.FaceUp = false
			gs.Stock.Push(card)
		}
	}

	drawn := 0
	for drawn < gs.DrawCount && !gs.Stock.IsEmpty() {
		card, _ := gs.Stock.Pop()
		card.FaceUp = true
		gs.Waste.Push(card)
		drawn++
	}
	return drawn
}

// SendWasteToDiscard moves every waste card to the discard sink, keeping order
// and orientation. It returns the number of cards moved.
func (e *GameEngine) SendWasteToDiscard() int {
	gs := e.state
	n := gs.Waste.Len()
	gs.Discard.pushAll(gs.Waste.split(0))
	return n
}

// CanPlaceOnTableau reports whether card may be placed on tableau pile i:
// a King on an empty pile, or a card of the opposite color and one rank lower
// than a face-up top card.
func (e *GameEngine) CanPlaceOnTableau(card Card, i int) bool {
	if !validTableau(i) {
		return false
	}
	top, ok := e.state.Tableau[i].Peek()
	if !ok {
		return card.Rank == King
	}
	return top.FaceUp && stacksOn(card, top)
}

// CanPlaceOnFoundation reports whether card may be placed on foundation i:
// an Ace on an empty foundation, or the next rank of the top card's suit.
func (e *GameEngine) CanPlaceOnFoundation(card Card, i int) bool {
	if !validFoundation(i) {
		return false
	}
	top, ok := e.state.Foundations[i].Peek()
	if !ok {
		return card.Rank == Ace
	}
	return card.Suit == top.Suit && card.Rank == top.Rank+1
}

// PlayWasteToTableau moves the top waste card onto tableau pile i
func (e *GameEngine) PlayWasteToTableau(i int) bool {
	card, ok := e.state.Waste.Peek()
	if !ok || !e.CanPlaceOnTableau(card, i) {
		return false
	}
	e.state.Waste.Pop()
	e.state.Tableau[i].Push(card)
	return true
}

// MoveTableauRun moves the cards of tableau pile source from position from
// through the top onto tableau pile target, as one unit. Only the bottom card
// of the run is checked; face-up runs are valid by construction. The card left
// exposed on the source pile is turned face-up.
func (e *GameEngine) MoveTableauRun(source, from, target int) bool {
	if !validTableau(source) || !validTableau(target) || source == target {
		return false
	}

	src := &e.state.Tableau[source]
	bottom, ok := src.At(from)
	if !ok || !bottom.FaceUp {
		return false
	}
	if !e.CanPlaceOnTableau(bottom, target) {
		return false
	}

	e.state.Tableau[target].pushAll(src.split(from))
	src.turnTop(true)
	return true
}

// PlayTableauToFoundation moves the top card of tableau pile source onto
// foundation f and turns up the card beneath it
func (e *GameEngine) PlayTableauToFoundation(source, f int) bool {
	if !validTableau(source) {
		return false
	}

	src := &e.state.Tableau[source]
	card, ok := src.Peek()
	if !ok || !card.FaceUp || !e.CanPlaceOnFoundation(card, f) {
		return false
	}

	src.Pop()
	e.state.Foundations[f].Push(card)
	src.turnTop(true)
	return true
}

// PlayWasteToFoundation moves the top waste card onto foundation f
func (e *GameEngine) PlayWasteToFoundation(f int) bool {
	card, ok := e.state.Waste.Peek()
	if !ok || !e.CanPlaceOnFoundation(card, f) {
		return false
	}
	e.state.Waste.Pop()
	e.state.Foundations[f].Push(card)
	return true
}
