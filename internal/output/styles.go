package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Log level styles
	Debug   lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Task      lipgloss.Style
	Message   lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Danger  lipgloss.Style
	Label   lipgloss.Style
}{
	Debug:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),            // Gray
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),             // Cyan
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold

	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Task:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
	Message:   lipgloss.NewStyle(),

	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// LevelStyle returns the appropriate style for a log level string
func LevelStyle(level string) lipgloss.Style {
	switch strings.ToLower(level) {
	case "debug":
		return Styles.Debug
	case "info":
		return Styles.Info
	case "warning", "warn":
		return Styles.Warning
	case "error", "critical":
		return Styles.Error
	default:
		return Styles.Message
	}
}

// StateStyle returns the style for a run/task state string
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "success":
		return Styles.Success
	case "failed":
		return Styles.Danger
	default:
		return Styles.Info
	}
}
