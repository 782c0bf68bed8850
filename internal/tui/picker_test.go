package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wethinkt/go-colorname/internal/palette"
)

func testPalette(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.Parse(strings.NewReader("red\t#FF0000\nlime\t#00FF00\nblue\t#0000FF\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestPickerModelWindowSize(t *testing.T) {
	m := NewPickerModel(testPalette(t), "#00ff00", 2)
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if cmd != nil {
		t.Fatal("WindowSizeMsg should not produce a command")
	}
	pm := updated.(PickerModel)
	if pm.width != 100 || pm.height != 40 {
		t.Fatalf("size = %dx%d, want 100x40", pm.width, pm.height)
	}
	if !strings.Contains(pm.View().Content, "lime") {
		t.Fatal("View() should show the nearest name")
	}
}

func TestPickerModelNeighborsOption(t *testing.T) {
	m := NewPickerModel(testPalette(t), "#00ff00", 2)
	if got := strings.Join(m.picker.Similar(), ","); got != "red,lime,blue" {
		t.Fatalf("Similar() = %q", got)
	}
	m = NewPickerModel(testPalette(t), "#00ff00", 0)
	if m.picker.Neighbors != 4 {
		t.Fatalf("Neighbors = %d, want default 4", m.picker.Neighbors)
	}
}

func TestPickerResultBeforeQuit(t *testing.T) {
	m := NewPickerModel(testPalette(t), "#0000ff", 2)
	if r := m.Result(); r.Cancelled || r.Name != "" {
		t.Fatalf("Result() = %+v before any input", r)
	}
}
