package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newServeInstance(port int) Instance {
	return Instance{
		Type:      InstanceServe,
		PID:       os.Getpid(),
		Host:      "localhost",
		Port:      port,
		Palette:   "bundled:colors.txt",
		StartedAt: time.Now(),
	}
}

func TestRegisterAndListInstances(t *testing.T) {
	t.Setenv("COLORNAME_HOME", t.TempDir())

	if err := RegisterInstance(newServeInstance(8791)); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}

	instances, err := ListInstances()
	if err != nil {
		t.Fatalf("ListInstances failed: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	if instances[0].Type != InstanceServe {
		t.Fatalf("expected type %q, got %q", InstanceServe, instances[0].Type)
	}
	if got := instances[0].Addr(); got != "localhost:8791" {
		t.Fatalf("Addr() = %q, want localhost:8791", got)
	}
}

func TestUnregisterInstance(t *testing.T) {
	t.Setenv("COLORNAME_HOME", t.TempDir())

	if err := RegisterInstance(newServeInstance(8791)); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}
	if err := UnregisterInstance(os.Getpid()); err != nil {
		t.Fatalf("UnregisterInstance failed: %v", err)
	}

	instances, err := ListInstances()
	if err != nil {
		t.Fatalf("ListInstances failed: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("expected 0 instances after unregister, got %d", len(instances))
	}
}

func TestUnregisterWithoutFile(t *testing.T) {
	t.Setenv("COLORNAME_HOME", t.TempDir())
	if err := UnregisterInstance(os.Getpid()); err != nil {
		t.Fatalf("UnregisterInstance on empty dir failed: %v", err)
	}
}

func TestStalePIDCleanup(t *testing.T) {
	t.Setenv("COLORNAME_HOME", t.TempDir())

	stale := Instance{
		Type:      InstanceServeMCP,
		PID:       999999999,
		StartedAt: time.Now(),
	}
	if err := RegisterInstance(stale); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}

	instances, err := ListInstances()
	if err != nil {
		t.Fatalf("ListInstances failed: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("expected stale entry to be dropped, got %d", len(instances))
	}
}

func TestFindInstanceByPort(t *testing.T) {
	t.Setenv("COLORNAME_HOME", t.TempDir())

	if err := RegisterInstance(newServeInstance(8791)); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}

	found := FindInstanceByPort(8791)
	if found == nil {
		t.Fatal("expected to find instance on port 8791")
	}
	if found.PID != os.Getpid() {
		t.Fatalf("expected PID %d, got %d", os.Getpid(), found.PID)
	}
	if FindInstanceByPort(9999) != nil {
		t.Fatal("expected nil for unused port")
	}
}

func TestInstancesFileCreation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COLORNAME_HOME", dir)

	if err := RegisterInstance(newServeInstance(8791)); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}

	path := filepath.Join(dir, "instances.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("instances.json was not created at %s: %v", path, err)
	}
}
