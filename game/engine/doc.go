// Package engine provides the rules engine for Klondike patience.
//
// The engine package owns the authoritative table and decides, for every
// requested move, whether it is legal and what the resulting table is:
//   - Dealing a shuffled 52-card deck into seven tableau piles and the stock
//   - Drawing from the stock to the waste and turning the waste back over
//   - Placing cards on the tableau and on the four foundations
//   - Moving face-up runs between tableau piles
//   - Discarding the waste
//
// Core Types:
//
// Card is a suit, a rank and an orientation. Pile is an ordered stack of cards
// held by value, so every card lives in exactly one pile. GameState groups the
// piles of one table and GameEngine is the only code that mutates it.
//
// Usage:
//
//	eng := engine.NewGame(engine.NewShuffler(42))
//
//	eng.DrawFromStock()
//	if !eng.PlayWasteToTableau(3) {
//		// illegal move, nothing changed
//	}
//	ok := eng.MoveTableauRun(6, 6, 2)
//	state := eng.GetState()
//
// Rules:
//
// Illegal moves are not errors: every move operation returns false and leaves
// the table untouched. Indices outside the seven tableau piles or the four
// foundations are rejected the same way. There is no win detection, scoring or
// undo; the engine only arbitrates individual moves. A GameEngine is not safe
// for concurrent use.
package engine
