package engine

import "encoding/json"

// Pile is an ordered stack of cards. Index 0 is the bottom, Len()-1 the top.
// Cards are held by value so a card lives in exactly one pile at a time.
type Pile struct {
	cards []Card
}

// NewPile creates a pile holding cards, bottom first
func NewPile(cards ...Card) Pile {
	p := Pile{}
	p.pushAll(cards)
	return p
}

// Len returns the number of cards in the pile
func (p *Pile) Len() int {
	return len(p.cards)
}

// IsEmpty reports whether the pile has no cards
func (p *Pile) IsEmpty() bool {
	return len(p.cards) == 0
}

// Peek returns the top card without removing it
func (p *Pile) Peek() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// At returns the card at position i counted from the bottom
func (p *Pile) At(i int) (Card, bool) {
	if i < 0 || i >= len(p.cards) {
		return Card{}, false
	}
	return p.cards[i], true
}

// Push places a card on top of the pile
func (p *Pile) Push(c Card) {
	p.cards = append(p.cards, c)
}

// Pop removes and returns the top card
func (p *Pile) Pop() (Card, bool) {
	c, ok := p.Peek()
	if !ok {
		return Card{}, false
	}
	p.cards = p.cards[:len(p.cards)-1]
	return c, true
}

// Cards returns a copy of the pile contents, bottom first
func (p *Pile) Cards() []Card {
	out := make([]Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// Clone returns an independent copy of the pile
func (p *Pile) Clone() Pile {
	return Pile{cards: p.Cards()}
}

// split detaches and returns the cards from position from through the top
func (p *Pile) split(from int) []Card {
	run := make([]Card, len(p.cards)-from)
	copy(run, p.cards[from:])
	p.cards = p.cards[:from]
	return run
}

// pushAll places cards on top in the given order
func (p *Pile) pushAll(cards []Card) {
	p.cards = append(p.cards, cards...)
}

// turnTop sets the orientation of the top card and reports whether it changed
func (p *Pile) turnTop(faceUp bool) bool {
	if len(p.cards) == 0 {
		return false
	}
	top := &p.cards[len(p.cards)-1]
	if top.FaceUp == faceUp {
		return false
	}
	top.FaceUp = faceUp
	return true
}

// MarshalJSON encodes the pile as an array of cards, bottom first
func (p Pile) MarshalJSON() ([]byte, error) {
	if p.cards == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.cards)
}

// UnmarshalJSON decodes an array of cards, bottom first
func (p *Pile) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	*p = NewPile(cards...)
	return nil
}
