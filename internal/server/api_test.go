package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wethinkt/go-colorname/internal/palette"
)

const rgbTable = "Red\t#FF0000\nGreen\t#00FF00\nBlue\t#0000FF\n"

func newTestServer(t *testing.T, src palette.Source, token string) *Server {
	t.Helper()
	t.Setenv("COLORNAME_HOME", t.TempDir())
	return New(palette.NewMatcher(src), Config{Token: token, Quiet: true})
}

func do(t *testing.T, s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rr.Body.String())
	}
	return v
}

func TestGetPalette(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable+"Odd\tnope\n"), "")
	rr := do(t, s, "GET", "/v1/palette", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	info := decode[PaletteInfo](t, rr)
	if info.Count != 4 || info.Source != "text" {
		t.Fatalf("info = %+v", info)
	}
	if !reflect.DeepEqual(info.Degraded, []string{"Odd"}) {
		t.Fatalf("Degraded = %v", info.Degraded)
	}
}

func TestListColors(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "")
	rr := do(t, s, "GET", "/v1/palette/colors", nil)
	colors := decode[[]ColorInfo](t, rr)
	want := []ColorInfo{{"Red", "#ff0000"}, {"Green", "#00ff00"}, {"Blue", "#0000ff"}}
	if !reflect.DeepEqual(colors, want) {
		t.Fatalf("colors = %v, want %v", colors, want)
	}
}

func TestNearest(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "")

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantName string
	}{
		{"hex with hash", "hex=%23e60d0d", http.StatusOK, "Red"},
		{"bare hex", "hex=0d0de6", http.StatusOK, "Blue"},
		{"components", "r=0.1&g=0.9&b=0.2", http.StatusOK, "Green"},
		{"components with alpha", "r=0.1&g=0.2&b=0.8&a=0", http.StatusOK, "Blue"},
		{"missing sample", "", http.StatusBadRequest, ""},
		{"bad hex", "hex=%23ff", http.StatusBadRequest, ""},
		{"out of range", "r=2&g=0&b=0", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, "GET", "/v1/nearest?"+tt.query, nil)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				if e := decode[ErrorResponse](t, rr); e.Error != "invalid_argument" {
					t.Fatalf("error = %+v", e)
				}
				return
			}
			if got := decode[NearestResponse](t, rr); got.Name != tt.wantName {
				t.Fatalf("name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestGetColor(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "")

	rr := do(t, s, "GET", "/v1/colors/Green", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[ColorResponse](t, rr)
	if got.Hex != "#00ff00" || got.RGBA != (palette.RGBA{G: 1, A: 1}) {
		t.Fatalf("color = %+v", got)
	}

	rr = do(t, s, "GET", "/v1/colors/Purple", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGetNeighbors(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "")

	tests := []struct {
		target   string
		wantCode int
		want     []string
	}{
		{"/v1/colors/Green/neighbors?count=2", http.StatusOK, []string{"Red", "Green", "Blue"}},
		{"/v1/colors/Green/neighbors?count=1", http.StatusOK, []string{"Green"}},
		{"/v1/colors/Red/neighbors", http.StatusOK, []string{"Red", "Green", "Blue"}},
		{"/v1/colors/Green/neighbors?count=0", http.StatusBadRequest, nil},
		{"/v1/colors/Green/neighbors?count=-3", http.StatusBadRequest, nil},
		{"/v1/colors/Green/neighbors?count=many", http.StatusBadRequest, nil},
		{"/v1/colors/Purple/neighbors?count=2", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := do(t, s, "GET", tt.target, nil)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if tt.want == nil {
				return
			}
			if got := decode[NeighborsResponse](t, rr); !reflect.DeepEqual(got.Neighbors, tt.want) {
				t.Fatalf("neighbors = %v, want %v", got.Neighbors, tt.want)
			}
		})
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.txt")
	if err := os.WriteFile(path, []byte(rgbTable), 0644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, palette.File(path), "")

	if got := decode[PaletteInfo](t, do(t, s, "GET", "/v1/palette", nil)); got.Count != 3 {
		t.Fatalf("count = %d, want 3", got.Count)
	}
	if err := os.WriteFile(path, []byte("Black\t#000000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rr := do(t, s, "POST", "/v1/palette/reload", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := decode[ReloadResponse](t, rr); got.Count != 1 {
		t.Fatalf("reload count = %d, want 1", got.Count)
	}

	if err := os.WriteFile(path, []byte("broken row\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if rr := do(t, s, "POST", "/v1/palette/reload", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("failed reload status = %d, want 503", rr.Code)
	}
	if got := decode[PaletteInfo](t, do(t, s, "GET", "/v1/palette", nil)); got.Count != 1 {
		t.Fatalf("count after failed reload = %d, want 1", got.Count)
	}
}

func TestPaletteUnavailable(t *testing.T) {
	s := newTestServer(t, palette.File(filepath.Join(t.TempDir(), "missing.txt")), "")
	rr := do(t, s, "GET", "/v1/nearest?hex=%23000000", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Error != "palette_unavailable" {
		t.Fatalf("error = %+v", e)
	}
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "secret")

	tests := []struct {
		name     string
		target   string
		auth     string
		wantCode int
	}{
		{"missing header", "/v1/palette", "", http.StatusUnauthorized},
		{"wrong scheme", "/v1/palette", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "/v1/palette", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/v1/palette", "Bearer secret", http.StatusOK},
		{"health is public", "/v1/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.auth != "" {
				header.Set("Authorization", tt.auth)
			}
			if rr := do(t, s, "GET", tt.target, header); rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestHealthReportsLoaded(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "")
	got := decode[map[string]any](t, do(t, s, "GET", "/v1/health", nil))
	if got["status"] != "ok" || got["loaded"] != false {
		t.Fatalf("health = %v", got)
	}
	do(t, s, "GET", "/v1/palette", nil)
	got = decode[map[string]any](t, do(t, s, "GET", "/v1/health", nil))
	if got["loaded"] != true {
		t.Fatalf("health after load = %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "")
	do(t, s, "GET", "/v1/nearest?hex=%23ff0000", nil)
	rr := do(t, s, "GET", "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "colorname_palette_lookups_total") {
		t.Fatal("metrics output missing colorname_palette_lookups_total")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, palette.Text(rgbTable), "secret")
	rr := do(t, s, "OPTIONS", "/v1/palette", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRedactRequestForLogging(t *testing.T) {
	req := httptest.NewRequest("GET", "http://localhost:8791/v1/nearest?token=abc123&hex=ff0000", nil)

	redacted := redactRequestForLogging(req)
	if redacted == req {
		t.Fatal("redactRequestForLogging() should clone request when sensitive params are present")
	}
	query := redacted.URL.Query()
	if got := query.Get("token"); got != "[REDACTED]" {
		t.Fatalf("token query = %q, want [REDACTED]", got)
	}
	if got := query.Get("hex"); got != "ff0000" {
		t.Fatalf("hex query = %q, want ff0000", got)
	}

	plain := httptest.NewRequest("GET", "http://localhost:8791/v1/nearest?hex=ff0000", nil)
	if redactRequestForLogging(plain) != plain {
		t.Fatal("redactRequestForLogging() should return the original request when nothing is sensitive")
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	b, _ := GenerateToken()
	if a == b {
		t.Fatal("GenerateToken() returned the same token twice")
	}
	parts := strings.Split(a, "_")
	if len(parts) != 3 || parts[0] != "colorname" || len(parts[1]) != 8 || len(parts[2]) != 32 {
		t.Fatalf("GenerateToken() = %q, want colorname_<date>_<hex>", a)
	}
}
