// Package engine provides the core rules of the stacking game.
//
// The engine package implements the game mechanics including:
//   - Stacks where a larger piece may cover a smaller one
//   - Reserve stacks and their integrity check
//   - Turn alternation and atomic moves
//   - Win detection over a 2-bit-per-cell snapshot
//   - Game state archiving and configuration loading
//
// Core Types:
//
// Board owns the 4x4 grid, the six reserve stacks and the turn. GameEngine
// wraps a Board with a GameConfig, messages and move history, and is what the
// session and service layers drive. GameState is the JSON view of a game.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Place Black's largest piece in the corner
//	err = gameEngine.Move(engine.ReserveRef(2), engine.Point{X: 1, Y: 1})
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Each color owns twelve pieces of sizes 1 to 12, split over three reserve
// stacks. On its turn a color moves the top piece of one of its reserve
// stacks, or one of its visible pieces on the grid, onto an empty cell or a
// cell whose top piece is smaller. Only top pieces are visible. The first
// color to show four pieces in a row, column or diagonal wins.
package engine
