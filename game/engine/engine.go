package engine

import (
	"errors"
	"fmt"
)

// ErrPileIndex is returned by accessors given an index outside the fixed pile counts
var ErrPileIndex = errors.New("pile index out of range")

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetConfig() *GameConfig

	// Stock and waste
	DrawFromStock() int
	SendWasteToDiscard() int

	// Placement rules
	CanPlaceOnTableau(card Card, pile int) bool
	CanPlaceOnFoundation(card Card, foundation int) bool

	// Moves
	PlayWasteToTableau(pile int) bool
	MoveTableauRun(source, from, target int) bool
	PlayTableauToFoundation(source, foundation int) bool
	PlayWasteToFoundation(foundation int) bool
	Apply(move Move) bool

	// Read-only pile views
	Stock() []Card
	Waste() []Card
	Discard() []Card
	Tableau(pile int) ([]Card, error)
	Foundation(foundation int) ([]Card, error)
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access.
type GameEngine struct {
	state    *GameState
	config   *GameConfig
	shuffler Shuffler
}

// NewGame deals a fresh draw-three game using shuffler as the randomness source.
// A nil shuffler is replaced by a randomly seeded one.
func NewGame(shuffler Shuffler) *GameEngine {
	eng, _ := NewEngine(DefaultConfig(), shuffler)
	return eng
}

// NewEngine creates a new game engine with the provided configuration and deals
func NewEngine(config *GameConfig, shuffler Shuffler) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if shuffler == nil {
		shuffler = NewShuffler(RandomSeed())
	}

	e := &GameEngine{
		config:   config,
		shuffler: shuffler,
	}
	e.state = deal(config, shuffler)
	return e, nil
}

// NewEngineFromState restores an engine from a previously saved state.
// The state must satisfy every table invariant.
func NewEngineFromState(config *GameConfig, state *GameState, shuffler Shuffler) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if shuffler == nil {
		shuffler = NewShuffler(RandomSeed())
	}

	e := &GameEngine{
		config:   config,
		shuffler: shuffler,
	}
	if err := e.SetState(state); err != nil {
		return nil, err
	}
	return e, nil
}

// deal builds, shuffles and lays out a new table
func deal(config *GameConfig, shuffler Shuffler) *GameState {
	deck := NewDeck()
	ShuffleDeck(deck, shuffler)

	gs := &GameState{
		ConfigName: config.Name,
		DrawCount:  config.EffectiveDrawCount(),
	}

	// Pile i receives i+1 cards taken from the top of the deck; the last is turned up
	for i := range gs.Tableau {
		for j := 0; j <= i; j++ {
			card := deck[len(deck)-1]
			deck = deck[:len(deck)-1]
			card.FaceUp = j == i
			gs.Tableau[i].Push(card)
		}
	}

	gs.Stock.pushAll(deck)
	return gs
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state.Clone()
}

// SetState replaces the game state after validating it (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return ErrNilState
	}
	if err := ValidateState(state); err != nil {
		return fmt.Errorf("invalid game state: %w", err)
	}
	e.state = state.Clone()
	return nil
}

// Reset deals a new game with the engine's shuffler
func (e *GameEngine) Reset() *GameState {
	e.state = deal(e.config, e.shuffler)
	return e.GetState()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Stock returns the stock cards, bottom first
func (e *GameEngine) Stock() []Card {
	return e.state.Stock.Cards()
}

// Waste returns the waste cards, bottom first
func (e *GameEngine) Waste() []Card {
	return e.state.Waste.Cards()
}

// Discard returns the discarded cards, bottom first
func (e *GameEngine) Discard() []Card {
	return e.state.Discard.Cards()
}

// Tableau returns the cards of tableau pile i, bottom first
func (e *GameEngine) Tableau(i int) ([]Card, error) {
	if !validTableau(i) {
		return nil, fmt.Errorf("%w: tableau %d", ErrPileIndex, i)
	}
	return e.state.Tableau[i].Cards(), nil
}

// Foundation returns the cards of foundation i, bottom first
func (e *GameEngine) Foundation(i int) ([]Card, error) {
	if !validFoundation(i) {
		return nil, fmt.Errorf("%w: foundation %d", ErrPileIndex, i)
	}
	return e.state.Foundations[i].Cards(), nil
}

// Dump returns the diagnostic text dump of the current state
func (e *GameEngine) Dump() string {
	return e.state.Dump()
}

func validTableau(i int) bool {
	return i >= 0 && i < TableauPiles
}

func validFoundation(i int) bool {
	return i >= 0 && i < FoundationPiles
}
