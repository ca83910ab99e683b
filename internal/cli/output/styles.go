package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the text styles used by the renderer.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles returns coloured styles, or plain ones when color is false.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header:  plain,
			Success: plain,
			Warning: plain,
			Error:   plain,
			Muted:   plain,
			Key:     plain,
		}
	}
	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Key:     lipgloss.NewStyle().Bold(true),
	}
}

// FormatKeyValue formats a "key: value" line with the key styled.
func FormatKeyValue(styles *Styles, key string, value any) string {
	return fmt.Sprintf("%s %v", styles.Key.Render(key+":"), value)
}
