package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// Item is one entry of the picker.
type Item struct {
	Name    string
	Summary string
}

// Picker is a Bubble Tea model that lets the user choose one Item.
type Picker struct {
	title     string
	items     []Item
	visible   []int
	cursor    int
	filtering bool
	query     string
	chosen    string
	quit      bool
	styles    Styles
}

func NewPicker(title string, items []Item, t Theme) Picker {
	p := Picker{title: title, items: items, styles: NewStyles(t)}
	p.refilter()
	return p
}

// Chosen is the selected item name; empty if the user quit.
func (p Picker) Chosen() string { return p.chosen }

// Visible lists the names currently shown, in display order.
func (p Picker) Visible() []string {
	names := make([]string, len(p.visible))
	for i, idx := range p.visible {
		names[i] = p.items[idx].Name
	}
	return names
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if p.filtering {
		return p.filterKey(key)
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		p.quit = true
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.visible)-1 {
			p.cursor++
		}
	case "/":
		p.filtering = true
	case "enter", " ":
		if len(p.visible) > 0 {
			p.chosen = p.items[p.visible[p.cursor]].Name
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p Picker) filterKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		p.quit = true
		return p, tea.Quit
	case tea.KeyEsc:
		p.filtering, p.query = false, ""
	case tea.KeyEnter:
		p.filtering = false
		return p, nil
	case tea.KeyBackspace:
		if r := []rune(p.query); len(r) > 0 {
			p.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		p.query += string(key.Runes)
	default:
		return p, nil
	}
	p.refilter()
	return p, nil
}

type itemNames []Item

func (n itemNames) String(i int) string { return n[i].Name }
func (n itemNames) Len() int            { return len(n) }

func (p *Picker) refilter() {
	p.visible = p.visible[:0]
	if p.query == "" {
		for i := range p.items {
			p.visible = append(p.visible, i)
		}
	} else {
		for _, m := range fuzzy.FindFrom(p.query, itemNames(p.items)) {
			p.visible = append(p.visible, m.Index)
		}
	}
	if p.cursor >= len(p.visible) {
		p.cursor = max(len(p.visible)-1, 0)
	}
}

func (p Picker) View() string {
	if p.chosen != "" || p.quit {
		return ""
	}
	s := p.styles
	var b strings.Builder
	b.WriteString("\n  " + Gradient(strings.ToUpper(p.title), ThemeArcade.Primary, ThemeArcade.Accent) + "\n")
	if p.filtering || p.query != "" {
		b.WriteString("  " + s.Subtle.Render("filter: ") + s.Value.Render(p.query))
		if p.filtering {
			b.WriteString(s.Value.Render("_"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(p.visible) == 0 {
		b.WriteString("  " + s.Hint.Render("nothing matches") + "\n")
	}
	for i, idx := range p.visible {
		it := p.items[idx]
		if i == p.cursor {
			fmt.Fprintf(&b, "  %s %s  %s\n", s.Key.Render("▸"), s.Selected.Render(fmt.Sprintf("%-12s", it.Name)), s.Value.Render(it.Summary))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", s.Normal.Render(fmt.Sprintf("%-12s", it.Name)), s.Subtle.Render(it.Summary))
		}
	}
	b.WriteString("\n  " + s.KeyHints("j/k", "navigate", "enter", "play", "/", "filter", "q", "quit") + "\n")
	return b.String()
}

// Pick runs the picker on in/out and returns the chosen name, or "" if the
// user quit.
func Pick(title string, items []Item, t Theme, in io.Reader, out io.Writer) (string, error) {
	final, err := tea.NewProgram(NewPicker(title, items, t), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", err
	}
	return final.(Picker).Chosen(), nil
}
