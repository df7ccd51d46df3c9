package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyouko-taiga/xst/store"
)

var detailStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7D56F4")).
	Padding(0, 1)

type browseItem struct {
	entry entry
}

func (i browseItem) Title() string { return i.entry.desc }

func (i browseItem) Description() string {
	return i.entry.kind.String()
}

func (i browseItem) FilterValue() string { return i.entry.desc }

type browseState int

const (
	stateBrowse browseState = iota
	stateDetail
)

type browseModel struct {
	list     list.Model
	selected entry
	state    browseState
}

func newBrowseModel(s *store.Store, entries []entry) browseModel {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = browseItem{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("interned types (%d in store)", len(s.Types()))
	l.SetShowStatusBar(false)

	return browseModel{list: l, state: stateBrowse}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateBrowse:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "enter":
				if it, ok := m.list.SelectedItem().(browseItem); ok {
					m.selected = it.entry
					m.state = stateDetail
				}
				return m, nil
			}
		case stateDetail:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "enter":
				m.state = stateBrowse
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if m.state == stateDetail {
		panel := detailStyle.Render(m.selected.render(true))
		help := helpStyle.Render("esc: back  q: quit")
		return panel + "\n" + help
	}
	return m.list.View() + "\n" + helpStyle.Render("enter: inspect  q: quit")
}

func runInteractive(s *store.Store, entries []entry) error {
	p := tea.NewProgram(newBrowseModel(s, entries), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
