package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Key      lipgloss.Style
	Hint     lipgloss.Style
	Value    lipgloss.Style
	Label    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtle:   lipgloss.NewStyle().Foreground(t.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Normal:   lipgloss.NewStyle().Foreground(t.Muted),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Hint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Label:    lipgloss.NewStyle().Foreground(t.Secondary),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// KeyHints renders "key action" pairs in a single line.
func (s Styles) KeyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.Key.Render(pairs[i]))
		b.WriteString(s.Subtle.Render(" " + pairs[i+1]))
	}
	return b.String()
}

// Field renders an aligned "label: value" line.
func (s Styles) Field(label string, width int, value string) string {
	return s.Label.Render(padRight(label+":", width)) + " " + value
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Gradient colours each rune of text along a blend from start to end.
// Colours that do not parse as hex leave the text unstyled.
func Gradient(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, err := colorful.Hex(string(start))
	if err != nil {
		return text
	}
	z, err := colorful.Hex(string(end))
	if err != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(z, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}
