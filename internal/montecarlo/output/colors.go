package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Title    *color.Color
	Label    *color.Color
	Value    *color.Color
	Estimate *color.Color
	Good     *color.Color
	Warn     *color.Color
	Error    *color.Color
	Dim      *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title:    color.New(color.FgCyan, color.Bold),
		Label:    color.New(color.FgBlue),
		Value:    color.New(color.FgWhite, color.Bold),
		Estimate: color.New(color.FgMagenta, color.Bold),
		Good:     color.New(color.FgGreen),
		Warn:     color.New(color.FgYellow),
		Error:    color.New(color.FgRed, color.Bold),
		Dim:      color.New(color.Faint),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// ForcedColorScheme returns the default scheme with colors enabled even
// when the color package has detected a non-terminal stdout.
func ForcedColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.EnableColor()
	}
	return scheme
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{s.Title, s.Label, s.Value, s.Estimate, s.Good, s.Warn, s.Error, s.Dim}
}
