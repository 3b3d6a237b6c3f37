package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorGreen  = lipgloss.Color("10")
	ColorYellow = lipgloss.Color("220")
	ColorRed    = lipgloss.Color("204")
	ColorCyan   = lipgloss.Color("14")
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleNoun styles identifiable nouns such as mod and profile names.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)
	// StyleDim styles secondary details such as identifiers.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// Stdout and Stderr are where status lines are written. Tests replace them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func PrintSuccess(message string) {
	fmt.Fprintf(Stdout, "%s %s\n", styleSuccess.Render("✓"), message)
}

func PrintError(message string) {
	fmt.Fprintf(Stderr, "%s %s\n", styleError.Render("×"), message)
}

func PrintWarning(message string) {
	fmt.Fprintf(Stdout, "%s %s\n", styleWarning.Render("⚠"), message)
}

func PrintInfo(message string) {
	fmt.Fprintf(Stdout, "%s %s\n", styleInfo.Render("ℹ"), message)
}
