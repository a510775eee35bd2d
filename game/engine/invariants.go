package engine

import (
	"errors"
	"fmt"
)

var (
	ErrCardCount        = errors.New("table does not hold exactly 52 cards")
	ErrDuplicateCard    = errors.New("card appears more than once")
	ErrInvalidCard      = errors.New("card has no valid suit or rank")
	ErrFoundationOrder  = errors.New("foundation is not an ace-up run of one suit")
	ErrTableauOrder     = errors.New("tableau pile breaks face-down/run ordering")
	ErrFaceOrientation  = errors.New("card has the wrong orientation for its pile")
	ErrInvalidDrawCount = errors.New("draw count out of range")
	ErrNilState         = errors.New("state cannot be nil")
)

// ValidateState checks every invariant a reachable state satisfies:
// the 52 distinct cards exist exactly once, foundations are ace-up single-suit
// runs, tableau piles hold face-down cards under a face-up alternating descending
// run, stock cards are face-down and waste/discard cards are face-up.
func ValidateState(gs *GameState) error {
	if gs == nil {
		return ErrNilState
	}
	if gs.DrawCount < MinDrawCount || gs.DrawCount > MaxDrawCount {
		return fmt.Errorf("%w: %d", ErrInvalidDrawCount, gs.DrawCount)
	}

	seen := make(map[CardID]bool, DeckSize)
	total := 0
	for _, pile := range gs.piles() {
		for _, c := range pile.cards {
			if !c.Valid() {
				return fmt.Errorf("%w: %+v", ErrInvalidCard, c)
			}
			if seen[c.ID()] {
				return fmt.Errorf("%w: %s", ErrDuplicateCard, c.Rank.String()+c.Suit.Symbol())
			}
			seen[c.ID()] = true
			total++
		}
	}
	if total != DeckSize {
		return fmt.Errorf("%w: found %d", ErrCardCount, total)
	}

	for _, c := range gs.Stock.cards {
		if c.FaceUp {
			return fmt.Errorf("%w: stock card %s is face-up", ErrFaceOrientation, c)
		}
	}
	for _, c := range gs.Waste.cards {
		if !c.FaceUp {
			return fmt.Errorf("%w: waste card %s is face-down", ErrFaceOrientation, c)
		}
	}
	for _, c := range gs.Discard.cards {
		if !c.FaceUp {
			return fmt.Errorf("%w: discarded card %s is face-down", ErrFaceOrientation, c)
		}
	}

	for i := range gs.Foundations {
		if err := validateFoundation(gs.Foundations[i].cards); err != nil {
			return fmt.Errorf("foundation %d: %w", i, err)
		}
	}
	for i := range gs.Tableau {
		if err := validateTableau(gs.Tableau[i].cards); err != nil {
			return fmt.Errorf("tableau %d: %w", i, err)
		}
	}

	return nil
}

func validateFoundation(cards []Card) error {
	for i, c := range cards {
		if !c.FaceUp {
			return fmt.Errorf("%w: %s is face-down", ErrFoundationOrder, c)
		}
		if c.Rank != Rank(i+1) || c.Suit != cards[0].Suit {
			return fmt.Errorf("%w: %s at position %d", ErrFoundationOrder, c, i)
		}
	}
	return nil
}

func validateTableau(cards []Card) error {
	if len(cards) == 0 {
		return nil
	}
	if !cards[len(cards)-1].FaceUp {
		return fmt.Errorf("%w: top card is face-down", ErrTableauOrder)
	}

	start := FaceUpIndex(cards)
	for i := start; i < len(cards); i++ {
		if !cards[i].FaceUp {
			return fmt.Errorf("%w: face-down %s above a face-up card", ErrTableauOrder, cards[i])
		}
		if i == start {
			continue
		}
		below := cards[i-1]
		if !stacksOn(cards[i], below) {
			return fmt.Errorf("%w: %s cannot rest on %s", ErrTableauOrder, cards[i], below)
		}
	}
	return nil
}

// stacksOn reports whether card may sit directly on top of below in a tableau run
func stacksOn(card, below Card) bool {
	return card.Color() != below.Color() && card.Rank == below.Rank-1
}
