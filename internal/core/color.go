package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to a terminal style.
type Color uint8

// Colors used by tiles and the HUD. Tile colors follow the tile value ladder.
const (
	ColorDefault Color = iota
	ColorGray
	ColorWhite
	ColorYellow
	ColorOrange
	ColorRed
	ColorMagenta
	ColorBlue
	ColorCyan
	ColorGreen
	ColorBrightYellow
	ColorBrightWhite
)

// tileColors indexes by log2(value) - 1: 2, 4, 8, ...
var tileColors = []Color{
	ColorWhite,        // 2
	ColorBrightWhite,  // 4
	ColorYellow,       // 8
	ColorOrange,       // 16
	ColorRed,          // 32
	ColorMagenta,      // 64
	ColorBlue,         // 128
	ColorCyan,         // 256
	ColorGreen,        // 512
	ColorBrightYellow, // 1024
	ColorBrightYellow, // 2048
}

// TileColor returns the color for a tile value. Values past the ladder share
// its last color; zero and non powers of two are gray.
func TileColor(value int) Color {
	if value <= 0 {
		return ColorGray
	}
	step := -1
	for v := value; v > 1; v >>= 1 {
		if v&1 != 0 {
			return ColorGray
		}
		step++
	}
	if step < 0 {
		return ColorGray
	}
	if step >= len(tileColors) {
		return tileColors[len(tileColors)-1]
	}
	return tileColors[step]
}
