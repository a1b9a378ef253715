package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the output.
var (
	colorHeader = color.New(color.Bold)
	colorTime   = color.New(color.FgCyan)
	colorGoal   = color.New(color.FgGreen)
	colorWarn   = color.New(color.FgYellow)
	colorMuted  = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or 80 when stdout is not a terminal.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// swatch renders a project color as a colored dot. Colors that are not
// #rrggbb fall back to a plain dot.
func swatch(hex string) string {
	var r, g, b int
	if n, _ := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); n != 3 {
		return "●"
	}
	return color.RGB(r, g, b).Sprint("●")
}
