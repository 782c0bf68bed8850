// Package palette classifies colors by name against a reference palette.
//
// A Palette is an immutable, ordered table of named colors parsed from a
// tab-separated text resource. Lookups never mutate it; reloading builds a
// new Palette. Use a Matcher for lazy, concurrency-safe access.
package palette

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// Undefined is returned by NearestName when the palette is empty.
const Undefined = "Undefined"

// Entry is a single named color.
type Entry struct {
	Name  string `json:"name"`
	Color RGBA   `json:"color"`
}

// Match is the result of a nearest-name lookup.
type Match struct {
	Name     string  `json:"name"`
	Color    RGBA    `json:"color"`
	Distance float64 `json:"distance"`
}

// Palette is an ordered set of named colors.
type Palette struct {
	names    []string        // file order, may repeat a name
	colors   map[string]RGBA // last write wins
	index    map[string]int  // first occurrence in names
	degraded []string        // rows whose hex fell back to Gray
}

// New builds a palette from entries in order.
func New(entries []Entry) *Palette {
	p := &Palette{
		colors: make(map[string]RGBA, len(entries)),
		index:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		p.add(e.Name, e.Color)
	}
	return p
}

func (p *Palette) add(name string, c RGBA) {
	if _, ok := p.index[name]; !ok {
		p.index[name] = len(p.names)
	}
	p.names = append(p.names, name)
	p.colors[name] = c
}

// Parse reads a palette resource: one "name<TAB>#RRGGBB" row per line.
// Blank lines and lines starting with '#' are skipped. A row without a tab
// aborts the parse with a *RowError; a malformed hex value falls back to
// Gray and is reported by Degraded.
func Parse(r io.Reader) (*Palette, error) {
	p := New(nil)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("line %d: %w", line, ErrUndecodable)
		}
		text := strings.TrimSuffix(string(raw), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, &RowError{Line: line, Text: text}
		}

		name := fields[0]
		c, err := ParseHex(fields[1])
		if err != nil {
			c = Gray
			p.degraded = append(p.degraded, name)
		}
		p.add(name, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	return p, nil
}

// Count returns the number of rows in the palette.
func (p *Palette) Count() int {
	return len(p.names)
}

// Degraded returns the names whose hex value was malformed.
func (p *Palette) Degraded() []string {
	return append([]string(nil), p.degraded...)
}

// Nearest returns the entry closest to c by RGB distance. Entries are
// scanned in palette order and only a strictly smaller distance replaces
// the current best, so the first of several equidistant entries wins.
func (p *Palette) Nearest(c RGBA) (Match, bool) {
	best := Match{Name: Undefined, Distance: math.MaxFloat64}
	found := false
	for _, name := range p.names {
		candidate := p.colors[name]
		if d := c.Distance(candidate); d < best.Distance {
			best = Match{Name: name, Color: candidate, Distance: d}
			found = true
		}
	}
	return best, found
}

// NearestName returns the name of the entry closest to c, or Undefined for
// an empty palette.
func (p *Palette) NearestName(c RGBA) string {
	m, _ := p.Nearest(c)
	return m.Name
}

// Neighbors returns up to count+1 names centered on name, in palette order.
// The window spans count/2 entries on each side, clamped to the palette
// bounds; a count of 1 yields just the name itself. An unknown name yields
// an empty slice.
func (p *Palette) Neighbors(name string, count int) ([]string, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	pos, ok := p.index[name]
	if !ok {
		return []string{}, nil
	}

	half := count / 2
	start := max(pos-half, 0)
	end := min(pos+half, len(p.names)-1)
	if half == 0 {
		end = pos
	}
	return append([]string(nil), p.names[start:end+1]...), nil
}

// ColorForName returns the stored color for name.
func (p *Palette) ColorForName(name string) (RGBA, bool) {
	c, ok := p.colors[name]
	return c, ok
}

// Index returns the position of the first occurrence of name.
func (p *Palette) Index(name string) (int, bool) {
	i, ok := p.index[name]
	return i, ok
}

// Names returns the palette names in order.
func (p *Palette) Names() []string {
	return append([]string(nil), p.names...)
}

// Entries returns the palette rows in order. A repeated name carries its
// final color at every position.
func (p *Palette) Entries() []Entry {
	entries := make([]Entry, len(p.names))
	for i, name := range p.names {
		entries[i] = Entry{Name: name, Color: p.colors[name]}
	}
	return entries
}
