// Package cli provides styled terminal output and line prompts for the command line.
package cli

import (
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	green  = lipgloss.Color("#2E8B57")
	teal   = lipgloss.Color("#4ECDC4")
	yellow = lipgloss.Color("#FFE66D")
	red    = lipgloss.Color("#FF6B6B")
	gray   = lipgloss.Color("#666666")

	InfoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	SubtleStyle      = lipgloss.NewStyle().Foreground(gray)
	BoldStyle        = lipgloss.NewStyle().Bold(true)
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

	successStyle = lipgloss.NewStyle().Foreground(teal)
	warningStyle = lipgloss.NewStyle().Foreground(yellow)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(green)
)

// Message icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess reports a completed write.
func FormatSuccess(message string) string { return withIcon(successStyle, SuccessIcon, message) }

// FormatError reports a failure the user can act on.
func FormatError(message string) string { return withIcon(errorStyle, ErrorIcon, message) }

// FormatWarning reports a skipped or partial result.
func FormatWarning(message string) string { return withIcon(warningStyle, WarningIcon, message) }

// FormatInfo reports neutral progress.
func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatPrompt renders a question awaiting a typed answer.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatAmount renders an amount in BRL, colored and signed by direction.
func FormatAmount(amount model.Amount, direction model.Direction) string {
	if direction == model.DirectionIn {
		return successStyle.Render("+" + amount.BRL())
	}
	return errorStyle.Render("-" + amount.BRL())
}
