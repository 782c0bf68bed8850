// Package tui provides terminal UI components.
package tui

import (
	"os"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/wethinkt/go-colorname/internal/palette"
	"github.com/wethinkt/go-colorname/internal/tui/colorpicker"
)

// PickerResult holds the outcome of a picker run.
type PickerResult struct {
	Hex       string
	Name      string
	Cancelled bool
}

// PickerModel wraps the color picker in a bubbletea program.
type PickerModel struct {
	picker colorpicker.Model
	keys   pickerKeyMap
	width  int
	height int
	result PickerResult
}

// NewPickerModel creates a picker over p starting at hex.
func NewPickerModel(p *palette.Palette, hex string, neighbors int) PickerModel {
	cp := colorpicker.New(p, hex)
	if neighbors > 0 {
		cp.Neighbors = neighbors
	}
	return PickerModel{
		picker: cp,
		keys:   defaultPickerKeyMap(),
	}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.result = PickerResult{Cancelled: true}
			return m, tea.Quit
		}
		m.picker.HandleKey(msg.String())
		switch {
		case m.picker.Cancelled:
			m.result = PickerResult{Cancelled: true}
			return m, tea.Quit
		case m.picker.Confirmed:
			m.result = PickerResult{Hex: m.picker.Value(), Name: m.picker.Nearest().Name}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PickerModel) View() tea.View {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.picker.AccentColor)).
		Padding(1, 2)
	if m.width > 4 {
		box = box.MaxWidth(m.width)
	}
	v := tea.NewView(box.Render(m.picker.View()))
	v.AltScreen = true
	return v
}

// Result returns the outcome once the program has quit.
func (m PickerModel) Result() PickerResult {
	return m.result
}

func termSizeOpts() []tea.ProgramOption {
	var opts []tea.ProgramOption
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if term.IsTerminal(fd) {
			w, h, err := term.GetSize(fd)
			if err == nil && w > 0 && h > 0 {
				opts = append(opts, tea.WithWindowSize(w, h))
				break
			}
		}
	}
	return opts
}

// RunPicker runs the interactive picker and returns the chosen color.
func RunPicker(p *palette.Palette, hex string, neighbors int) (PickerResult, error) {
	model := NewPickerModel(p, hex, neighbors)
	prog := tea.NewProgram(model, termSizeOpts()...)
	finalModel, err := prog.Run()
	if err != nil {
		return PickerResult{Cancelled: true}, err
	}
	result, ok := finalModel.(PickerModel)
	if !ok {
		return PickerResult{Cancelled: true}, nil
	}
	return result.Result(), nil
}
