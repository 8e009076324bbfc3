package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/integrations/nominatim"
	"github.com/matzehuels/starchart/pkg/observer"
)

// placePicker lets the user choose one of several geocoding candidates.
// Digits 1-9 jump straight to a row.
type placePicker struct {
	query  string
	places []nominatim.Place
	cursor int
	top    int
	rows   int
	chosen *nominatim.Place
}

func newPlacePicker(query string, places []nominatim.Place) placePicker {
	return placePicker{query: query, places: places, rows: 10}
}

func (m placePicker) Init() tea.Cmd { return nil }

func (m placePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-8, 3)
		m.moveTo(m.cursor)
	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.cursor - 1)
		case "down", "j":
			m.moveTo(m.cursor + 1)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.places) - 1)
		case "enter":
			if len(m.places) == 0 {
				return m, tea.Quit
			}
			return m.choose(m.cursor)
		default:
			if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
				if i := int(k[0] - '1'); i < len(m.places) {
					return m.choose(i)
				}
			}
		}
	}
	return m, nil
}

// moveTo clamps i to the list and scrolls so the cursor stays visible.
func (m *placePicker) moveTo(i int) {
	m.cursor = max(0, min(i, len(m.places)-1))
	switch {
	case m.cursor < m.top:
		m.top = m.cursor
	case m.cursor >= m.top+m.rows:
		m.top = m.cursor - m.rows + 1
	}
}

func (m placePicker) choose(i int) (tea.Model, tea.Cmd) {
	p := m.places[i]
	m.cursor, m.chosen = i, &p
	return m, tea.Quit
}

var (
	pickHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	pickCurrent  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	pickName     = lipgloss.NewStyle().Foreground(colorWhite)
	pickSubtle   = lipgloss.NewStyle().Foreground(colorDim)
	pickBorderFg = lipgloss.NewStyle().Foreground(colorDim)
)

func (m placePicker) View() string {
	end := min(m.top+m.rows, len(m.places))
	rows := make([][]string, 0, end-m.top)
	for i := m.top; i < end; i++ {
		p := m.places[i]
		mark := fmt.Sprintf("%d", i+1)
		if i == m.cursor {
			mark = "▸"
		}
		kind := p.Kind
		if kind == "" {
			kind = "·"
		}
		rows = append(rows, []string{mark, p.Name, kind, observer.FormatCoordinates(p.Latitude, p.Longitude)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(pickBorderFg).
		Headers("", "Place", "Kind", "Coordinates").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return pickHeader
			case m.top+row == m.cursor:
				return pickCurrent
			case col >= 2:
				return pickSubtle
			}
			return pickName
		})

	var b strings.Builder
	fmt.Fprintln(&b, StyleTitle.Render(fmt.Sprintf("Which %q?", m.query)))
	fmt.Fprintln(&b, pickSubtle.Render("↑/↓ move  1-9 pick  ⏎ select  q quit"))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, t.Render())
	fmt.Fprintln(&b)
	b.WriteString(pickSubtle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.places))))
	return b.String()
}

// pickPlace runs the picker on the terminal. It implements observer.Picker.
func pickPlace(ctx context.Context, query string, places []nominatim.Place) (nominatim.Place, error) {
	final, err := tea.NewProgram(newPlacePicker(query, places), tea.WithContext(ctx)).Run()
	if err != nil {
		return nominatim.Place{}, err
	}
	if p := final.(placePicker).chosen; p != nil {
		return *p, nil
	}
	return nominatim.Place{}, errors.New(errors.ErrCodeInvalidInput, "no place selected for %q", query)
}
