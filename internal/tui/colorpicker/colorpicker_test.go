package colorpicker

import (
	"strings"
	"testing"

	"github.com/wethinkt/go-colorname/internal/palette"
)

func testPalette(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.Parse(strings.NewReader(
		"black\t#000000\nred\t#FF0000\nlime\t#00FF00\nblue\t#0000FF\nwhite\t#FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestNewTracksNearest(t *testing.T) {
	m := New(testPalette(t), "#f01010")
	if got := m.Nearest().Name; got != "red" {
		t.Fatalf("Nearest() = %q, want red", got)
	}
	if m.PaletteIndex != 1 {
		t.Fatalf("PaletteIndex = %d, want 1", m.PaletteIndex)
	}
}

func TestSliderKeysUpdateNearest(t *testing.T) {
	m := New(testPalette(t), "#000000")
	if got := m.Nearest().Name; got != "black" {
		t.Fatalf("Nearest() = %q, want black", got)
	}

	m.HandleKey("j") // green channel
	m.HandleKey("9")
	if m.G != 255 {
		t.Fatalf("G = %d, want 255", m.G)
	}
	if got := m.Nearest().Name; got != "lime" {
		t.Fatalf("Nearest() = %q, want lime", got)
	}
	if m.HexInput != "#00ff00" {
		t.Fatalf("HexInput = %q", m.HexInput)
	}

	m.HandleKey("H")
	if m.G != 254 {
		t.Fatalf("G = %d after H, want 254", m.G)
	}
	m.HandleKey("l")
	if m.G != 255 {
		t.Fatalf("G = %d after l, want clamped 255", m.G)
	}
}

func TestHexInput(t *testing.T) {
	m := New(testPalette(t), "#000000")
	m.HandleKey("tab")
	if m.Mode != ModeHex {
		t.Fatalf("Mode = %v, want ModeHex", m.Mode)
	}
	for range 6 {
		m.HandleKey("backspace")
	}
	for _, k := range []string{"0", "0", "0", "0", "f", "e"} {
		m.HandleKey(k)
	}
	if m.HexInput != "#0000fe" {
		t.Fatalf("HexInput = %q", m.HexInput)
	}
	if got := m.Nearest().Name; got != "blue" {
		t.Fatalf("Nearest() = %q, want blue", got)
	}
	if m.HandleKey("z") {
		t.Fatal("non-hex key should not be handled")
	}
}

func TestPaletteModeBrowsesAndApplies(t *testing.T) {
	m := New(testPalette(t), "#000000")
	m.HandleKey("tab")
	m.HandleKey("tab")
	if m.Mode != ModePalette {
		t.Fatalf("Mode = %v, want ModePalette", m.Mode)
	}
	m.HandleKey("down")
	m.HandleKey("down")
	m.HandleKey(" ")
	if m.Value() != "#00ff00" {
		t.Fatalf("Value() = %q after applying lime", m.Value())
	}

	m.HandleKey("]")
	m.HandleKey("]")
	if m.PaletteIndex != 4 {
		t.Fatalf("PaletteIndex = %d, want clamped to 4", m.PaletteIndex)
	}
}

func TestSimilarIsNeighborWindow(t *testing.T) {
	m := New(testPalette(t), "#00ff00")
	m.Neighbors = 2
	got := m.Similar()
	if strings.Join(got, ",") != "red,lime,blue" {
		t.Fatalf("Similar() = %v", got)
	}
}

func TestResetAndResult(t *testing.T) {
	m := New(testPalette(t), "#0000ff")
	m.HandleKey("9")
	m.HandleKey("r")
	if m.Value() != "#0000ff" {
		t.Fatalf("Value() = %q after reset", m.Value())
	}
	m.HandleKey("enter")
	if !m.Confirmed {
		t.Fatal("enter should confirm")
	}
}

func TestViewShowsNearestName(t *testing.T) {
	m := New(testPalette(t), "#fe0101")
	out := m.View()
	if !strings.Contains(out, "red") {
		t.Fatalf("View() should mention nearest name:\n%s", out)
	}
}

func TestNilPalette(t *testing.T) {
	m := New(nil, "#123456")
	if got := m.Nearest().Name; got != palette.Undefined {
		t.Fatalf("Nearest() = %q, want %q", got, palette.Undefined)
	}
	if m.HandleKey("tab"); m.Mode != ModeHex {
		t.Fatal("tab should still switch modes")
	}
}

func TestHelpers(t *testing.T) {
	if r, g, b := HexToRGB("nope"); r != 128 || g != 128 || b != 128 {
		t.Fatalf("HexToRGB(nope) = %d,%d,%d, want gray", r, g, b)
	}
	if got := RGBToHex(255, 0, 16); got != "#ff0010" {
		t.Fatalf("RGBToHex() = %q", got)
	}
	if ContrastColorHex("#ffffff") != "#000000" || ContrastColorHex("#000000") != "#ffffff" {
		t.Fatal("ContrastColorHex() picked the wrong foreground")
	}
	if !IsValidHex("#aBc123") || IsValidHex("abc123") || IsValidHex("#abc") {
		t.Fatal("IsValidHex() mismatch")
	}
}
