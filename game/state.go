package game

// GameState is the world resource holding the round's outcome.
type GameState struct {
	IsGameOver bool
}

// Player tags the entity steered by the keyboard.
type Player struct{}
