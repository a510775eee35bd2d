package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is one of the four card suits
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in deck order
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

var suitNames = [...]string{"clubs", "diamonds", "hearts", "spades"}

// Color is the color of a suit
type Color int

const (
	Black Color = iota
	Red
)

// String returns the color name
func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Spades
}

// Color returns red for hearts and diamonds, black for clubs and spades
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// String returns the lowercase suit name
func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("suit(%d)", int(s))
	}
	return suitNames[s]
}

// Symbol returns the single-letter suit code used in the dump
func (s Suit) Symbol() string {
	if !s.Valid() {
		return "?"
	}
	return strings.ToUpper(suitNames[s][:1])
}

// MarshalText encodes the suit by name
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(suitNames[s]), nil
}

// UnmarshalText decodes a suit name
func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit parses a suit name or its single-letter code, case-insensitively
func ParseSuit(name string) (Suit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range suitNames {
		if name == n || name == n[:1] {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

// Rank is the card rank, Ace lowest and King highest
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Valid reports whether r is between Ace and King
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// String returns the short rank symbol (A, 2..10, J, Q, K)
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r.Valid() {
		return fmt.Sprintf("%d", int(r))
	}
	return fmt.Sprintf("rank(%d)", int(r))
}

// ParseRank parses a rank symbol such as "A", "10" or "q"
func ParseRank(symbol string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "A", "1":
		return Ace, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(symbol))
	if err != nil || !Rank(n).Valid() {
		return 0, fmt.Errorf("unknown rank %q", symbol)
	}
	return Rank(n), nil
}

// CardID identifies one of the 52 cards independently of its orientation
type CardID struct {
	Suit Suit
	Rank Rank
}

// Card is a playing card. Suit and rank never change; FaceUp is flipped as the
// card moves between piles.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"face_up"`
}

// NewCard creates a face-down card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// ID returns the card identity
func (c Card) ID() CardID {
	return CardID{Suit: c.Suit, Rank: c.Rank}
}

// Color returns the color of the card's suit
func (c Card) Color() Color {
	return c.Suit.Color()
}

// Valid reports whether the card has a real suit and rank
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

// String renders the card as rank followed by suit code, e.g. "10H".
// Face-down cards are bracketed.
func (c Card) String() string {
	s := c.Rank.String() + c.Suit.Symbol()
	if !c.FaceUp {
		return "[" + s + "]"
	}
	return s
}

// ParseCard parses the short form used by String ("QS", "10h", "[AD]").
// Bracketed cards are returned face-down, bare ones face-up.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	faceUp := true
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		faceUp = false
		s = s[1 : len(s)-1]
	}
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	suit, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}

	return Card{Suit: suit, Rank: rank, FaceUp: faceUp}, nil
}
