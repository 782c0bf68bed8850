// Package cli provides CLI output formatting utilities.
package cli

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wethinkt/go-colorname/internal/palette"
	"github.com/wethinkt/go-colorname/internal/tui/colorpicker"
)

const (
	accentColor = "#7D56F4"
	mutedColor  = "#666666"

	// nameWidth is the column width for palette names.
	nameWidth = 22
)

// Display renders palette lookups to a writer. When not styled it writes
// plain text suitable for pipes.
type Display struct {
	w     io.Writer
	styled bool
}

// NewDisplay creates a display writing to w.
func NewDisplay(w io.Writer, styled bool) *Display {
	return &Display{w: w, styled: styled}
}

// Swatch renders a small block filled with c, or nothing in plain mode.
func (d *Display) Swatch(c palette.RGBA) string {
	if !d.styled {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
}

// Chip renders name on a background of c.
func (d *Display) Chip(name string, c palette.RGBA) string {
	if !d.styled {
		return name
	}
	hex := c.Hex()
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(colorpicker.ContrastColorHex(hex))).
		Padding(0, 1).
		Render(name)
}

func (d *Display) heading(s string) string {
	if !d.styled {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor)).Render(s)
}

func (d *Display) muted(s string) string {
	if !d.styled {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor)).Render(s)
}

// Title returns name with its first letter capitalized for headings.
func Title(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// Match prints the result of a nearest-name lookup for sample.
func (d *Display) Match(sample palette.RGBA, m palette.Match) {
	if !d.styled {
		fmt.Fprintln(d.w, m.Name)
		return
	}
	fmt.Fprintf(d.w, "%s %s  →  %s %s %s\n",
		d.Swatch(sample),
		sample.Hex(),
		d.Swatch(m.Color),
		d.heading(Title(m.Name)),
		d.muted(fmt.Sprintf("%s  Δ %.4f", m.Color.Hex(), m.Distance)),
	)
}

// Color prints the stored color for name.
func (d *Display) Color(name string, c palette.RGBA) {
	if !d.styled {
		fmt.Fprintln(d.w, c.Hex())
		return
	}
	fmt.Fprintf(d.w, "%s %s %s\n", d.Swatch(c), d.heading(Title(name)), d.muted(c.Hex()))
}

// Neighbors prints the window around center as a strip of chips. In plain
// mode it writes one name per line.
func (d *Display) Neighbors(center string, names []string, p *palette.Palette) {
	if !d.styled {
		for _, name := range names {
			fmt.Fprintln(d.w, name)
		}
		return
	}
	chips := make([]string, 0, len(names))
	for _, name := range names {
		c, _ := p.ColorForName(name)
		chip := d.Chip(name, c)
		if name == center {
			chip = lipgloss.NewStyle().Bold(true).Underline(true).Render(chip)
		}
		chips = append(chips, chip)
	}
	fmt.Fprintln(d.w, strings.Join(chips, " "))
}

// List prints every palette row in order.
func (d *Display) List(p *palette.Palette) {
	for i, e := range p.Entries() {
		if !d.styled {
			fmt.Fprintf(d.w, "%s\t%s\n", e.Name, strings.ToUpper(e.Color.Hex()))
			continue
		}
		name := ansi.Truncate(e.Name, nameWidth, "…")
		fmt.Fprintf(d.w, "%s %s %s %s\n",
			d.muted(fmt.Sprintf("%4d", i+1)),
			d.Swatch(e.Color),
			lipgloss.NewStyle().Width(nameWidth).Render(name),
			d.muted(e.Color.Hex()),
		)
	}
}
