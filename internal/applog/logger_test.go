package applog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colorname.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Log.Close() })

	if !Log.Enabled() {
		t.Fatal("logger should be enabled after Init")
	}
	Log.Info("palette loaded", "count", 148)
	Log.Warnf("degraded rows: %d", 2)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"Logger initialized", "palette loaded", "count=148", "degraded rows: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugRequiresVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colorname.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		Log.SetVerbose(false)
		Log.Close()
	})

	Log.Debug("hidden")
	Log.SetVerbose(true)
	Log.Timed("shown")()

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written without verbose:\n%s", out)
	}
	if !strings.Contains(out, "status=completed") {
		t.Errorf("Timed() did not log completion:\n%s", out)
	}
}

func TestEmptyPathDisables(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init(\"\") error = %v", err)
	}
	if Log.Enabled() {
		t.Fatal("logger should be disabled")
	}
	Log.Error("dropped") // must not panic
}
