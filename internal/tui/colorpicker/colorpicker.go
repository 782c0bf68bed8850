// Package colorpicker provides an interactive terminal color picker that
// names whatever color it is showing.
//
// The picker supports three modes:
//   - Sliders: RGB sliders with keyboard controls
//   - Hex: Direct hex input
//   - Palette: Browse the reference palette in order
//
// Example usage in a bubbletea Update function:
//
//	case tea.KeyPressMsg:
//	    m.picker.HandleKey(msg.String())
//	    if m.picker.Confirmed {
//	        name := m.picker.Nearest().Name
//	    }
package colorpicker

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/palette"
)

// Mode represents the current picker mode
type Mode int

const (
	ModeSliders Mode = iota // RGB slider mode
	ModeHex                 // Hex input mode
	ModePalette             // Palette browsing mode
)

// Channel represents an RGB channel
type Channel int

const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
)

// Model is the color picker model.
type Model struct {
	// Current color as RGB values
	R, G, B int

	// Original color (for reset)
	OrigR, OrigG, OrigB int

	// Reference palette and neighbors window size
	Palette   *palette.Palette
	Neighbors int

	// UI state
	Mode         Mode
	Channel      Channel // Selected RGB channel in slider mode
	HexInput     string  // Current hex input string
	HexCursor    int     // Cursor position in hex input
	PaletteIndex int     // Selected entry in palette mode

	// Styling
	AccentColor string
	MutedColor  string

	// Result state
	Confirmed bool
	Cancelled bool
}

// New creates a picker over p starting at the given hex color.
func New(p *palette.Palette, hexColor string) Model {
	r, g, b := HexToRGB(hexColor)
	m := Model{
		R: r, G: g, B: b,
		OrigR: r, OrigG: g, OrigB: b,
		Palette:     p,
		Neighbors:   4,
		Mode:        ModeSliders,
		HexInput:    RGBToHex(r, g, b),
		AccentColor: "#7D56F4",
		MutedColor:  "#666666",
	}
	m.syncPaletteIndex()
	return m
}

// Value returns the current color as a hex string.
func (m Model) Value() string {
	return RGBToHex(m.R, m.G, m.B)
}

// Sample returns the current color as a normalized sample.
func (m Model) Sample() palette.RGBA {
	return palette.RGBA{R: float64(m.R) / 255, G: float64(m.G) / 255, B: float64(m.B) / 255, A: 1}
}

// Nearest returns the palette entry closest to the current color.
func (m Model) Nearest() palette.Match {
	if m.Palette == nil {
		return palette.Match{Name: palette.Undefined}
	}
	match, _ := m.Palette.Nearest(m.Sample())
	return match
}

// Similar returns the neighbors window around the nearest name.
func (m Model) Similar() []string {
	if m.Palette == nil {
		return nil
	}
	names, _ := m.Palette.Neighbors(m.Nearest().Name, max(m.Neighbors, 1))
	return names
}

// Reset restores the picker to its original color.
func (m *Model) Reset() {
	m.R, m.G, m.B = m.OrigR, m.OrigG, m.OrigB
	m.HexInput = RGBToHex(m.R, m.G, m.B)
	m.syncPaletteIndex()
}

// SetColor sets the current color from a hex string.
func (m *Model) SetColor(hex string) {
	m.R, m.G, m.B = HexToRGB(hex)
	m.HexInput = RGBToHex(m.R, m.G, m.B)
	m.syncPaletteIndex()
}

// syncPaletteIndex points palette mode at the nearest entry.
func (m *Model) syncPaletteIndex() {
	if m.Palette == nil {
		return
	}
	if i, ok := m.Palette.Index(m.Nearest().Name); ok {
		m.PaletteIndex = i
	}
}

// HandleKey processes a key press and returns true if the key was handled.
func (m *Model) HandleKey(key string) bool {
	switch key {
	case "enter":
		m.Confirmed = true
		return true
	case "esc":
		m.Cancelled = true
		return true
	case "r":
		m.Reset()
		return true
	case "tab":
		m.Mode = (m.Mode + 1) % 3
		switch m.Mode {
		case ModeHex:
			m.HexInput = RGBToHex(m.R, m.G, m.B)
			m.HexCursor = len(m.HexInput)
		case ModePalette:
			m.syncPaletteIndex()
		}
		return true
	}

	switch m.Mode {
	case ModeSliders:
		return m.handleSliderKey(key)
	case ModeHex:
		return m.handleHexKey(key)
	case ModePalette:
		return m.handlePaletteKey(key)
	}
	return false
}

func (m *Model) handleSliderKey(key string) bool {
	switch key {
	case "up", "k":
		if m.Channel > ChannelR {
			m.Channel--
		}
		return true
	case "down", "j":
		if m.Channel < ChannelB {
			m.Channel++
		}
		return true
	case "left", "h":
		m.adjustChannel(-13) // ~5%
		return true
	case "right", "l":
		m.adjustChannel(13)
		return true
	case "H":
		m.adjustChannel(-1)
		return true
	case "L":
		m.adjustChannel(1)
		return true
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// 0=0, 1=28, ... 9=255
		n, _ := strconv.Atoi(key)
		m.setChannel(n * 255 / 9)
		return true
	}
	return false
}

func (m *Model) adjustChannel(delta int) {
	m.setChannel(clamp(m.channel()+delta, 0, 255))
}

func (m *Model) channel() int {
	switch m.Channel {
	case ChannelG:
		return m.G
	case ChannelB:
		return m.B
	}
	return m.R
}

func (m *Model) setChannel(val int) {
	switch m.Channel {
	case ChannelR:
		m.R = val
	case ChannelG:
		m.G = val
	case ChannelB:
		m.B = val
	}
	m.HexInput = RGBToHex(m.R, m.G, m.B)
}

func (m *Model) handleHexKey(key string) bool {
	switch key {
	case "left":
		if m.HexCursor > 0 {
			m.HexCursor--
		}
		return true
	case "right":
		if m.HexCursor < len(m.HexInput) {
			m.HexCursor++
		}
		return true
	case "backspace":
		if m.HexCursor > 0 {
			m.HexInput = m.HexInput[:m.HexCursor-1] + m.HexInput[m.HexCursor:]
			m.HexCursor--
			m.tryParseHex()
		}
		return true
	case "delete":
		if m.HexCursor < len(m.HexInput) {
			m.HexInput = m.HexInput[:m.HexCursor] + m.HexInput[m.HexCursor+1:]
			m.tryParseHex()
		}
		return true
	}

	if len(key) == 1 && isHexChar(key[0]) && len(m.HexInput) < 7 {
		m.HexInput = m.HexInput[:m.HexCursor] + key + m.HexInput[m.HexCursor:]
		m.HexCursor++
		m.tryParseHex()
		return true
	}
	if key == "#" && m.HexCursor == 0 && !strings.HasPrefix(m.HexInput, "#") {
		m.HexInput = "#" + m.HexInput
		m.HexCursor++
		m.tryParseHex()
		return true
	}
	return false
}

func (m *Model) tryParseHex() {
	if IsValidHex(m.HexInput) {
		m.R, m.G, m.B = HexToRGB(m.HexInput)
	}
}

func (m *Model) handlePaletteKey(key string) bool {
	if m.Palette == nil || m.Palette.Count() == 0 {
		return false
	}
	last := m.Palette.Count() - 1
	page := max(m.Neighbors, 1)

	switch key {
	case "up", "k", "left", "h":
		m.PaletteIndex = clamp(m.PaletteIndex-1, 0, last)
		return true
	case "down", "j", "right", "l":
		m.PaletteIndex = clamp(m.PaletteIndex+1, 0, last)
		return true
	case "pgup", "[":
		m.PaletteIndex = clamp(m.PaletteIndex-page, 0, last)
		return true
	case "pgdown", "]":
		m.PaletteIndex = clamp(m.PaletteIndex+page, 0, last)
		return true
	case " ":
		name := m.Palette.Names()[m.PaletteIndex]
		if c, ok := m.Palette.ColorForName(name); ok {
			m.R, m.G, m.B = rgbInts(c)
			m.HexInput = RGBToHex(m.R, m.G, m.B)
		}
		return true
	}
	return false
}

// View renders the color picker.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.AccentColor))
	b.WriteString(titleStyle.Render(i18n.T("tui.picker.title", "Color Picker")) + "\n\n")

	currentHex := RGBToHex(m.R, m.G, m.B)
	preview := lipgloss.NewStyle().
		Background(lipgloss.Color(currentHex)).
		Foreground(lipgloss.Color(ContrastColor(m.R, m.G, m.B))).
		Padding(0, 4).
		Render(currentHex)

	origHex := RGBToHex(m.OrigR, m.OrigG, m.OrigB)
	origPreview := lipgloss.NewStyle().
		Background(lipgloss.Color(origHex)).
		Foreground(lipgloss.Color(ContrastColorHex(origHex))).
		Padding(0, 2).
		Render("orig")

	b.WriteString(preview + "  " + origPreview + "\n\n")

	// Live classification
	match := m.Nearest()
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.MutedColor))
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.AccentColor))
	b.WriteString(labelStyle.Render(i18n.T("tui.picker.nearest", "Nearest name")+": ") +
		nameStyle.Render(match.Name) +
		labelStyle.Render(fmt.Sprintf("  %s  Δ %.3f", match.Color.Hex(), match.Distance)) + "\n")
	b.WriteString(labelStyle.Render(i18n.T("tui.picker.similar", "Similar colors")+": ") +
		m.renderStrip(m.Similar(), match.Name) + "\n\n")

	b.WriteString(m.renderModeTabs() + "\n\n")

	switch m.Mode {
	case ModeSliders:
		b.WriteString(m.renderSliders())
	case ModeHex:
		b.WriteString(m.renderHexInput())
	case ModePalette:
		b.WriteString(m.renderPalette())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.MutedColor))
	b.WriteString(helpStyle.Render(m.getHelp()))

	return b.String()
}

// renderStrip draws one swatch per name, marking current.
func (m Model) renderStrip(names []string, current string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		c, _ := m.Palette.ColorForName(name)
		hex := c.Hex()
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(hex)).
			Foreground(lipgloss.Color(ContrastColorHex(hex))).
			Padding(0, 1)
		if name == current {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(name))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderModeTabs() string {
	tabs := []string{
		i18n.T("tui.picker.mode.sliders", "Sliders"),
		i18n.T("tui.picker.mode.hex", "Hex"),
		i18n.T("tui.picker.mode.palette", "Palette"),
	}
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		style := lipgloss.NewStyle().Padding(0, 1)
		if Mode(i) == m.Mode {
			style = style.Bold(true).
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color(m.AccentColor))
		} else {
			style = style.Foreground(lipgloss.Color(m.MutedColor))
		}
		parts = append(parts, style.Render(tab))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderSliders() string {
	var b strings.Builder
	sliderWidth := 24

	channels := []struct {
		name string
		ch   Channel
		val  int
	}{
		{"R", ChannelR, m.R},
		{"G", ChannelG, m.G},
		{"B", ChannelB, m.B},
	}

	for _, c := range channels {
		indicator := " "
		if m.Channel == c.ch {
			indicator = "▸"
		}

		filled := c.val * sliderWidth / 255
		empty := sliderWidth - filled

		var fillHex string
		switch c.ch {
		case ChannelR:
			fillHex = fmt.Sprintf("#%02x0000", c.val)
		case ChannelG:
			fillHex = fmt.Sprintf("#00%02x00", c.val)
		case ChannelB:
			fillHex = fmt.Sprintf("#0000%02x", c.val)
		}

		filledStyle := lipgloss.NewStyle().Background(lipgloss.Color(fillHex))
		emptyStyle := lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
		slider := filledStyle.Render(strings.Repeat(" ", filled)) +
			emptyStyle.Render(strings.Repeat(" ", empty))

		valStyle := lipgloss.NewStyle()
		if m.Channel == c.ch {
			valStyle = valStyle.Bold(true).Foreground(lipgloss.Color(m.AccentColor))
		}

		fmt.Fprintf(&b, "%s %s: %s %s\n", indicator, c.name, slider, valStyle.Render(fmt.Sprintf("%3d", c.val)))
	}

	return b.String()
}

func (m Model) renderHexInput() string {
	var b strings.Builder

	inputStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("#333333")).
		Padding(0, 1)
	cursorStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.AccentColor)).
		Foreground(lipgloss.Color("#000000"))

	var input strings.Builder
	for i, ch := range m.HexInput {
		if i == m.HexCursor {
			input.WriteString(cursorStyle.Render(string(ch)))
		} else {
			input.WriteRune(ch)
		}
	}
	if m.HexCursor >= len(m.HexInput) {
		input.WriteString(cursorStyle.Render(" "))
	}
	b.WriteString(inputStyle.Render(input.String()) + "\n\n")

	if IsValidHex(m.HexInput) {
		validStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b"))
		b.WriteString(validStyle.Render("✓ " + i18n.T("tui.picker.hex.valid", "Valid hex color")))
	} else {
		invalidStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
		b.WriteString(invalidStyle.Render(i18n.T("tui.picker.hex.format", "Format: #RRGGBB")))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderPalette() string {
	if m.Palette == nil || m.Palette.Count() == 0 {
		return ""
	}
	var b strings.Builder

	names := m.Palette.Names()
	selected := names[m.PaletteIndex]
	window, _ := m.Palette.Neighbors(selected, max(m.Neighbors, 1))

	navStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.MutedColor))
	b.WriteString(navStyle.Render(fmt.Sprintf("%d / %d", m.PaletteIndex+1, len(names))) + "\n\n")

	for _, name := range window {
		c, _ := m.Palette.ColorForName(name)
		hex := c.Hex()
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
		marker := "  "
		label := lipgloss.NewStyle()
		if name == selected {
			marker = "▸ "
			label = label.Bold(true).Foreground(lipgloss.Color(m.AccentColor))
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", marker, swatch, label.Render(name), navStyle.Render(hex))
	}

	c, _ := m.Palette.ColorForName(selected)
	b.WriteString("\n" + navStyle.Render(i18n.Tf("tui.picker.selected", "Selected: %s (space to apply)", c.Hex())) + "\n")

	return b.String()
}

func (m Model) getHelp() string {
	switch m.Mode {
	case ModeSliders:
		return "↑/↓: channel • h/l: ±5% • H/L: ±1 • 0-9: set • r: reset • tab: mode • enter: ok • esc: cancel"
	case ModeHex:
		return "type hex • ←/→: cursor • r: reset • tab: mode • enter: ok • esc: cancel"
	case ModePalette:
		return "↑/↓: move • [/]: page • space: apply • r: reset • tab: mode • enter: ok • esc: cancel"
	}
	return ""
}

// Color conversion utilities - exported for reuse

// HexToRGB converts a hex color string to 8-bit RGB values, falling back
// to mid gray for malformed input.
func HexToRGB(hex string) (int, int, int) {
	return rgbInts(palette.HexToRGBA(hex))
}

func rgbInts(c palette.RGBA) (int, int, int) {
	r, g, b, _ := c.Bytes()
	return int(r), int(g), int(b)
}

// RGBToHex converts RGB values to a hex color string.
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ContrastColor returns black or white depending on the luminance of the given RGB color.
func ContrastColor(r, g, b int) string {
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}

// ContrastColorHex returns black or white depending on the luminance of the given hex color.
func ContrastColorHex(hex string) string {
	r, g, b := HexToRGB(hex)
	return ContrastColor(r, g, b)
}

// IsValidHex returns true if the string is a valid 7-character hex color.
func IsValidHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < 7; i++ {
		if !isHexChar(s[i]) {
			return false
		}
	}
	return true
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func isHexChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
