package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/conneroisu/folio/internal/theme"
)

// themeItem adapts theme.Theme to list.Item
type themeItem struct {
	theme   theme.Theme
	current bool
}

func (i themeItem) Title() string {
	if i.current {
		return i.theme.Name + " (current)"
	}
	return i.theme.Name
}

func (i themeItem) Description() string {
	return fmt.Sprintf("%-14s %s  %s", i.theme.ID, swatches(i.theme.Light), swatches(i.theme.Dark))
}

func (i themeItem) FilterValue() string { return i.theme.ID + " " + i.theme.Name }

// pickerModel is the interactive theme list.
type pickerModel struct {
	list     list.Model
	chosen   string
	quitting bool
}

func newPickerModel(current string) pickerModel {
	themes := theme.All()
	items := make([]list.Item, len(themes))
	selected := 0
	for i, t := range themes {
		items[i] = themeItem{theme: t, current: t.ID == current}
		if t.ID == current {
			selected = i
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 60, 20)
	l.Title = "Pick a theme"
	l.SetShowHelp(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	l.Select(selected)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		index := m.list.Index()
		m.list.SetSize(msg.Width, msg.Height)
		m.list.Select(index)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(themeItem); ok {
				m.chosen = item.theme.ID
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.chosen != "" || m.quitting {
		return ""
	}
	return m.list.View()
}

// pickTheme runs the picker and returns the chosen id, or "" when the user
// quit without choosing.
func pickTheme(in io.Reader, out io.Writer, current string) (string, error) {
	p := tea.NewProgram(newPickerModel(current), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("theme picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok || m.quitting {
		return "", nil
	}
	return m.chosen, nil
}
