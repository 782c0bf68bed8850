package version

import (
	"strings"
	"testing"
)

func TestGetPrefersLdflags(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := Get(); got != "v1.2.3" {
		t.Fatalf("Get() = %q, want v1.2.3", got)
	}
	if got := String("colorname"); !strings.HasPrefix(got, "colorname version v1.2.3 (") {
		t.Fatalf("String() = %q", got)
	}
	info := GetInfo("colorname")
	if info.Name != "colorname" || info.Version != "v1.2.3" || info.GoVersion == "" {
		t.Fatalf("GetInfo() = %+v", info)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456" {
		t.Fatalf("shortRevision() = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Fatalf("shortRevision(abc) = %q", got)
	}
}
