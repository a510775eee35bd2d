package engine

const (
	TableauPiles    = 7
	FoundationPiles = 4
	DeckSize        = 52

	// Cards left in the stock after the initial deal (1+2+...+7 go to the tableau)
	StockSizeAfterDeal = DeckSize - TableauPiles*(TableauPiles+1)/2

	DefaultDrawCount = 3
	MinDrawCount     = 1
	MaxDrawCount     = 3

	MaxBulkMoves        = 100
	WebSocketBufferSize = 256
)

// GameState holds every pile of a game. The engine is its only mutator;
// callers receive clones.
type GameState struct {
	Stock       Pile                  `json:"stock"`
	Waste       Pile                  `json:"waste"`
	Discard     Pile                  `json:"discard"`
	Tableau     [TableauPiles]Pile    `json:"tableau"`
	Foundations [FoundationPiles]Pile `json:"foundations"`

	ConfigName string `json:"config_name"`
	DrawCount  int    `json:"draw_count"`
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	out := &GameState{
		Stock:      gs.Stock.Clone(),
		Waste:      gs.Waste.Clone(),
		Discard:    gs.Discard.Clone(),
		ConfigName: gs.ConfigName,
		DrawCount:  gs.DrawCount,
	}
	for i := range gs.Tableau {
		out.Tableau[i] = gs.Tableau[i].Clone()
	}
	for i := range gs.Foundations {
		out.Foundations[i] = gs.Foundations[i].Clone()
	}
	return out
}

// piles returns every pile of the state, for whole-table checks
func (gs *GameState) piles() []*Pile {
	all := []*Pile{&gs.Stock, &gs.Waste, &gs.Discard}
	for i := range gs.Tableau {
		all = append(all, &gs.Tableau[i])
	}
	for i := range gs.Foundations {
		all = append(all, &gs.Foundations[i])
	}
	return all
}
