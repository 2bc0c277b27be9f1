package cli

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/customs-triage/internal/model"
)

// namedColors maps the CSS color names used by the rule table to hex.
var namedColors = map[string]string{
	"white":   "#ffffff",
	"black":   "#000000",
	"blue":    "#0000ff",
	"red":     "#ff0000",
	"darkred": "#8b0000",
	"orange":  "#ffa500",
	"yellow":  "#ffff00",
	"green":   "#008000",
	"gray":    "#808080",
	"grey":    "#808080",
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// TerminalColor converts a rule color (a CSS name or a hex code) into a
// lipgloss color. "transparent" maps to no color. The bool is false for
// colors it does not know.
func TerminalColor(name string) (lipgloss.TerminalColor, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == model.NeutralBackground || name == "":
		return lipgloss.NoColor{}, true
	case hexColor.MatchString(name):
		return lipgloss.Color(name), true
	}
	if hex, ok := namedColors[name]; ok {
		return lipgloss.Color(hex), true
	}
	return lipgloss.NoColor{}, false
}

// ClassificationStyle renders text in the classification's colors.
func ClassificationStyle(c model.Classification) lipgloss.Style {
	bg, _ := TerminalColor(c.BackgroundColor)
	fg, _ := TerminalColor(c.TextColor)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1)
}
