// Package themes holds the lipgloss palettes of the dashboard.
package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is derived from.
type Palette struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	OnPrimary lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Positive  lipgloss.Color
	Negative  lipgloss.Color
	Caution   lipgloss.Color
}

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	Inflow        lipgloss.Style
	Outflow       lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style

	Primary lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
}

// New derives every style from p.
func New(p Palette) Theme {
	text := lipgloss.NewStyle().Foreground(p.Text)
	status := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}

	return Theme{
		Title:    text.Bold(true).MarginBottom(1),
		Normal:   text,
		Bold:     text.Bold(true),
		Selected: lipgloss.NewStyle().Background(p.Primary).Foreground(p.OnPrimary).Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		Inflow:        lipgloss.NewStyle().Foreground(p.Positive),
		Outflow:       lipgloss.NewStyle().Foreground(p.Negative),
		StatusSuccess: status(p.Positive),
		StatusWarning: status(p.Caution),
		StatusError:   status(p.Negative),
		Primary:       p.Primary,
		Muted:         p.Muted,
		Border:        p.Border,
	}
}

// Default is the default theme.
var Default = New(Palette{
	Primary:   "#7c3aed",
	Text:      "#fafafa",
	OnPrimary: "#fafafa",
	Muted:     "#737373",
	Border:    "#404040",
	Positive:  "#10b981",
	Negative:  "#ef4444",
	Caution:   "#f59e0b",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = New(Palette{
	Primary:   "#cba6f7",
	Text:      "#cdd6f4",
	OnPrimary: "#1e1e2e",
	Muted:     "#6c7086",
	Border:    "#45475a",
	Positive:  "#a6e3a1",
	Negative:  "#f38ba8",
	Caution:   "#f9e2af",
})

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "catppuccin-mocha", "mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

var categoryIcons = map[string]string{
	"alimentação":  "🍽️",
	"mercado":      "🛒",
	"transporte":   "🚗",
	"moradia":      "🏠",
	"saúde":        "💊",
	"lazer":        "🎬",
	"educação":     "📚",
	"viagem":       "✈️",
	"assinaturas":  "📱",
	"contas":       "💡",
	"salário":      "💰",
	"investimento": "📈",
	"presentes":    "🎁",
}

// GetCategoryIcon returns the icon for a category name, matched case-insensitively
// on its first word, so "Lazer e Cultura" shares the Lazer icon.
func GetCategoryIcon(category string) string {
	name := strings.ToLower(strings.TrimSpace(category))
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}
	if first, _, found := strings.Cut(name, " "); found {
		if icon, ok := categoryIcons[first]; ok {
			return icon
		}
	}
	return "📦"
}
