package shimio

import "strconv"

// Color is one of the 16 basic ANSI colors (0-7 normal, 8-15 bright).
type Color int

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// sgr returns the foreground SGR code for c.
func (c Color) sgr() string {
	if c < 0 || c > BrightWhite {
		return "39"
	}
	if c < 8 {
		return strconv.Itoa(30 + int(c))
	}
	return strconv.Itoa(90 + int(c-8))
}

// Theme provides semantic colors per log level
type Theme struct {
	Success, Warning, Error, Info, Debug Color
}

// DefaultTheme returns the 16-color theme used by the shim's logger.
func DefaultTheme() Theme {
	return Theme{
		Success: BrightGreen,
		Warning: BrightYellow,
		Error:   BrightRed,
		Info:    BrightCyan,
		Debug:   BrightMagenta,
	}
}
