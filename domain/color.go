package domain

// Color is the note color. Anything outside the fixed palette collapses
// to white, so a stored row never carries an unknown color.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorIndigo Color = "indigo"
	ColorPurple Color = "purple"
	ColorWhite  Color = "white"
	ColorBlack  Color = "black"
)

var palette = map[Color]struct{}{
	ColorRed:    {},
	ColorOrange: {},
	ColorYellow: {},
	ColorGreen:  {},
	ColorBlue:   {},
	ColorIndigo: {},
	ColorPurple: {},
	ColorWhite:  {},
	ColorBlack:  {},
}

// NormalizeColor maps unrecognized or empty input to white.
func NormalizeColor(c Color) Color {
	if _, ok := palette[c]; ok {
		return c
	}
	return ColorWhite
}
