package core

// Color is the foreground colour of a screen cell. The platform maps each value
// to an ANSI 256 colour; the engine only picks roles.
type Color uint8

const (
	ColorDefault Color = iota
	ColorSky
	ColorGround
	ColorGrass
	ColorPlayer
	ColorCoin
	ColorSpike
	ColorPit
	ColorBlock
	ColorWall
	ColorHUD
	ColorGood
	ColorBad
	ColorMuted
	ColorHighlight
)
