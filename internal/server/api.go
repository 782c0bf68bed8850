package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wethinkt/go-colorname/internal/metrics"
	"github.com/wethinkt/go-colorname/internal/palette"
)

// PaletteInfo describes the loaded palette.
type PaletteInfo struct {
	Count    int      `json:"count"`
	Source   string   `json:"source"`
	Degraded []string `json:"degraded"`
}

// ColorInfo is a single palette row.
type ColorInfo struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// NearestResponse is the result of a nearest-name lookup.
type NearestResponse struct {
	Name     string  `json:"name"`
	Hex      string  `json:"hex"`
	Distance float64 `json:"distance"`
}

// ColorResponse is the stored color for a name.
type ColorResponse struct {
	Name string       `json:"name"`
	Hex  string       `json:"hex"`
	RGBA palette.RGBA `json:"rgba"`
}

// NeighborsResponse is the palette-order window around a name.
type NeighborsResponse struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	Neighbors []string `json:"neighbors"`
}

// ReloadResponse reports the palette size after a reload.
type ReloadResponse struct {
	Count int `json:"count"`
}

// errUnknownName marks lookups of names absent from the palette.
var errUnknownName = errors.New("unknown color name")

// classify maps an error to an HTTP status, an error code and a metrics outcome.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, errUnknownName):
		return http.StatusNotFound, "not_found", metrics.OutcomeNotFound
	case errors.Is(err, palette.ErrInvalidCount),
		errors.Is(err, palette.ErrInvalidHex),
		errors.Is(err, palette.ErrInvalidColor):
		return http.StatusBadRequest, "invalid_argument", metrics.OutcomeInvalid
	case errors.Is(err, palette.ErrNotFound),
		errors.Is(err, palette.ErrMalformedRow),
		errors.Is(err, palette.ErrUndecodable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "palette_unavailable", metrics.OutcomeError
	default:
		return http.StatusInternalServerError, "internal_error", metrics.OutcomeError
	}
}

// fail writes err as an API error and records the outcome.
func fail(w http.ResponseWriter, done func(string), err error) {
	status, code, outcome := classify(err)
	if done != nil {
		done(outcome)
	}
	writeError(w, status, code, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": s.matcher.Loaded(),
	})
}

func (s *Server) handleGetPalette(w http.ResponseWriter, r *http.Request) {
	done := metrics.Track(metrics.OpCount)
	p, err := s.matcher.Palette(r.Context())
	if err != nil {
		fail(w, done, err)
		return
	}
	done(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, paletteInfo(p, s.matcher.Source()))
}

func paletteInfo(p *palette.Palette, src palette.Source) PaletteInfo {
	info := PaletteInfo{Count: p.Count(), Degraded: p.Degraded()}
	if src != nil {
		info.Source = src.String()
	}
	if info.Degraded == nil {
		info.Degraded = []string{}
	}
	return info
}

func (s *Server) handleListColors(w http.ResponseWriter, r *http.Request) {
	p, err := s.matcher.Palette(r.Context())
	if err != nil {
		fail(w, nil, err)
		return
	}
	entries := p.Entries()
	colors := make([]ColorInfo, len(entries))
	for i, e := range entries {
		colors[i] = ColorInfo{Name: e.Name, Hex: e.Color.Hex()}
	}
	writeJSON(w, http.StatusOK, colors)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	p, err := s.matcher.Reload(r.Context())
	if err != nil {
		metrics.ObserveLoadError()
		fail(w, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Count: p.Count()})
}

// sampleFromQuery reads either ?hex= or ?r=&g=&b=[&a=].
func sampleFromQuery(q url.Values) (palette.RGBA, error) {
	if hex := q.Get("hex"); hex != "" {
		return palette.ParseColor(hex)
	}
	if q.Get("r") == "" || q.Get("g") == "" || q.Get("b") == "" {
		return palette.RGBA{}, fmt.Errorf("%w: provide hex or r, g and b", palette.ErrInvalidColor)
	}
	color := q.Get("r") + "," + q.Get("g") + "," + q.Get("b")
	if a := q.Get("a"); a != "" {
		color += "," + a
	}
	return palette.ParseColor(color)
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	done := metrics.Track(metrics.OpNearest)
	sample, err := sampleFromQuery(r.URL.Query())
	if err != nil {
		fail(w, done, err)
		return
	}
	match, err := s.matcher.Nearest(r.Context(), sample)
	if err != nil {
		fail(w, done, err)
		return
	}
	done(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, NearestResponse{
		Name:     match.Name,
		Hex:      match.Color.Hex(),
		Distance: match.Distance,
	})
}

func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func (s *Server) handleGetColor(w http.ResponseWriter, r *http.Request) {
	done := metrics.Track(metrics.OpColor)
	name := nameParam(r)
	c, ok, err := s.matcher.ColorForName(r.Context(), name)
	if err != nil {
		fail(w, done, err)
		return
	}
	if !ok {
		fail(w, done, fmt.Errorf("%w: %q", errUnknownName, name))
		return
	}
	done(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, ColorResponse{Name: name, Hex: c.Hex(), RGBA: c})
}

func (s *Server) handleGetNeighbors(w http.ResponseWriter, r *http.Request) {
	done := metrics.Track(metrics.OpNeighbors)
	name := nameParam(r)

	count := s.config.NeighborCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(w, done, fmt.Errorf("%w: %q is not a number", palette.ErrInvalidCount, raw))
			return
		}
		count = n
	}

	names, err := s.matcher.Neighbors(r.Context(), name, count)
	if err != nil {
		fail(w, done, err)
		return
	}
	if len(names) == 0 {
		fail(w, done, fmt.Errorf("%w: %q", errUnknownName, name))
		return
	}
	done(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, NeighborsResponse{Name: name, Count: count, Neighbors: names})
}
