package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Choice is one entry of a Picker.
type Choice struct {
	Group string
	Name  string
	Info  string
}

// Picker is a menu for choosing a preset before a replay.
type Picker struct {
	Title    string
	choices  []Choice
	cursor   int
	selected *Choice
}

func NewPicker(title string, choices []Choice) Picker {
	return Picker{Title: title, choices: choices}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.choices) > 0 {
			c := p.choices[p.cursor]
			p.selected = &c
		}
		return p, tea.Quit
	}
	return p, nil
}

func (p Picker) View() string {
	var s strings.Builder
	s.WriteString(cyan.Render(p.Title) + "\n\n")
	group := ""
	for i, c := range p.choices {
		if c.Group != group {
			group = c.Group
			s.WriteString(dim.Render(strings.ToUpper(group)) + "\n")
		}
		line := "  " + c.Name
		if i == p.cursor {
			line = magenta.Render("> " + c.Name)
		}
		if c.Info != "" {
			line += " " + dim.Render(c.Info)
		}
		s.WriteString(line + "\n")
	}
	s.WriteString("\n" + dim.Render("↑↓ move  enter select  q quit"))
	return s.String()
}

// Selected is nil when the user quit without choosing.
func (p Picker) Selected() *Choice {
	return p.selected
}

// Pick runs the menu and returns the chosen entry, or nil.
func Pick(title string, choices []Choice) (*Choice, error) {
	final, err := tea.NewProgram(NewPicker(title, choices)).Run()
	if err != nil {
		return nil, err
	}
	return final.(Picker).Selected(), nil
}
