package core

// Color is the semantic role of a screen cell.
// The platform layer maps roles to concrete terminal colors per theme.
type Color uint8

// Color roles for board elements.
const (
	ColorDefault Color = iota
	ColorSnakeHead
	ColorSnakeBody
	ColorSnakeDead
	ColorFoodRegular
	ColorFoodDoubleScore
	ColorFoodSpeedBoost
	ColorFoodSpeedUp
	ColorFoodSlowDown
	ColorObstacle
	ColorBorder
	ColorHUD
	ColorHighlight
	ColorDim
)
