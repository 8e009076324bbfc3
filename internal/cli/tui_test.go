package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/starchart/pkg/integrations/nominatim"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

var springfields = []nominatim.Place{
	{Name: "Springfield, Illinois", Latitude: 39.8, Longitude: -89.6, Kind: "city"},
	{Name: "Springfield, Missouri", Latitude: 37.2, Longitude: -93.3},
	{Name: "Springfield, Massachusetts", Latitude: 42.1, Longitude: -72.6, Kind: "city"},
}

func TestPlacePickerNavigate(t *testing.T) {
	m, _ := press(newPlacePicker("Springfield", springfields), "down", "down", "down", "up")
	if got := m.(placePicker).cursor; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"Springfield", "Missouri", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Error("enter should quit")
	}
	if p := m.(placePicker).chosen; p == nil || p.Name != "Springfield, Missouri" {
		t.Errorf("chosen = %+v", p)
	}
}

func TestPlacePickerKeys(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		want   string
		cursor int
	}{
		{"digit", []string{"3"}, "Springfield, Massachusetts", 2},
		{"digit out of range", []string{"7", "enter"}, "Springfield, Illinois", 0},
		{"end then home", []string{"G", "home", "enter"}, "Springfield, Illinois", 0},
		{"clamped at bottom", []string{"j", "j", "j", "j", "enter"}, "Springfield, Massachusetts", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(newPlacePicker("Springfield", springfields), tt.keys...)
			pp := m.(placePicker)
			if pp.chosen == nil || pp.chosen.Name != tt.want || pp.cursor != tt.cursor {
				t.Errorf("chosen = %+v at %d, want %q at %d", pp.chosen, pp.cursor, tt.want, tt.cursor)
			}
		})
	}
}

func TestPlacePickerQuit(t *testing.T) {
	m, cmd := press(newPlacePicker("Springfield", springfields), "q")
	if cmd == nil || m.(placePicker).chosen != nil {
		t.Error("q should quit without a choice")
	}
}

func TestPlacePickerScrolls(t *testing.T) {
	places := make([]nominatim.Place, 6)
	for i := range places {
		places[i] = nominatim.Place{Name: string(rune('A' + i))}
	}
	var m tea.Model = newPlacePicker("x", places)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if r := m.(placePicker).rows; r != 3 {
		t.Fatalf("rows = %d, want 3", r)
	}
	m, _ = press(m, "j", "j", "j", "j")
	pp := m.(placePicker)
	if pp.cursor != 4 || pp.top != 2 {
		t.Errorf("cursor, top = %d, %d; want 4, 2", pp.cursor, pp.top)
	}
	if !strings.Contains(m.View(), "[5/6]") {
		t.Error("view missing position")
	}
}
