package palette

import (
	"context"
	"sync"
)

// Matcher provides lazy, concurrency-safe access to a palette loaded from
// a Source. Every operation goes through Palette, so the first call of any
// kind triggers the load. A failed load is not cached.
type Matcher struct {
	mu      sync.RWMutex
	src     Source
	gen     uint64 // bumped by SetSource
	current *Palette
	onLoad  []func(*Palette, Source)
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// OnLoad registers fn to run after every successful load or reload.
func OnLoad(fn func(*Palette, Source)) MatcherOption {
	return func(m *Matcher) {
		m.onLoad = append(m.onLoad, fn)
	}
}

// NewMatcher returns a matcher that loads from src on first use.
func NewMatcher(src Source, opts ...MatcherOption) *Matcher {
	m := &Matcher{src: src}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var (
	defaultMatcher *Matcher
	defaultOnce    sync.Once
)

// Default returns the process-wide matcher over the bundled palette.
func Default() *Matcher {
	defaultOnce.Do(func() {
		defaultMatcher = NewMatcher(Bundled())
	})
	return defaultMatcher
}

// Palette returns the loaded palette, loading it if needed.
func (m *Matcher) Palette(ctx context.Context) (*Palette, error) {
	m.mu.RLock()
	p := m.current
	m.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return m.current, nil
	}
	p, err := Load(m.src)
	if err != nil {
		return nil, err
	}
	m.current = p
	m.notify(p)
	return p, nil
}

// Loaded reports whether a palette is currently held.
func (m *Matcher) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Reload parses the source again and swaps the result in. On failure the
// previous palette, if any, stays in place.
func (m *Matcher) Reload(ctx context.Context) (*Palette, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	src, gen := m.src, m.gen
	m.mu.RUnlock()

	p, err := Load(src)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// SetSource raced with us; its next load wins.
		return p, nil
	}
	m.current = p
	m.notify(p)
	return p, nil
}

// Source returns the source the matcher loads from.
func (m *Matcher) Source() Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.src
}

// SetSource replaces the source and drops the loaded palette.
func (m *Matcher) SetSource(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.src = src
	m.gen++
	m.current = nil
}

// notify must be called with mu held.
func (m *Matcher) notify(p *Palette) {
	for _, fn := range m.onLoad {
		fn(p, m.src)
	}
}

// Count returns the palette size.
func (m *Matcher) Count(ctx context.Context) (int, error) {
	p, err := m.Palette(ctx)
	if err != nil {
		return 0, err
	}
	return p.Count(), nil
}

// NearestName returns the name of the palette entry closest to c.
func (m *Matcher) NearestName(ctx context.Context, c RGBA) (string, error) {
	p, err := m.Palette(ctx)
	if err != nil {
		return Undefined, err
	}
	return p.NearestName(c), nil
}

// Nearest returns the palette entry closest to c.
func (m *Matcher) Nearest(ctx context.Context, c RGBA) (Match, error) {
	p, err := m.Palette(ctx)
	if err != nil {
		return Match{Name: Undefined}, err
	}
	match, _ := p.Nearest(c)
	return match, nil
}

// Neighbors returns the palette-order window around name.
func (m *Matcher) Neighbors(ctx context.Context, name string, count int) ([]string, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	p, err := m.Palette(ctx)
	if err != nil {
		return nil, err
	}
	return p.Neighbors(name, count)
}

// ColorForName returns the stored color for name.
func (m *Matcher) ColorForName(ctx context.Context, name string) (RGBA, bool, error) {
	p, err := m.Palette(ctx)
	if err != nil {
		return RGBA{}, false, err
	}
	c, ok := p.ColorForName(name)
	return c, ok, nil
}
