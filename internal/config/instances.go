package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// InstanceType identifies the kind of colorname server process.
type InstanceType string

const (
	InstanceServe    InstanceType = "serve"
	InstanceServeMCP InstanceType = "serve-mcp"
)

// Instance records a running server so later invocations can detect port
// conflicts and report what is up.
type Instance struct {
	Type      InstanceType `json:"type"`
	PID       int          `json:"pid"`
	Host      string       `json:"host,omitempty"`
	Port      int          `json:"port,omitempty"`
	Palette   string       `json:"palette,omitempty"` // palette source description
	StartedAt time.Time    `json:"started_at"`
}

// Addr returns host:port for the instance.
func (i Instance) Addr() string {
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}

func instancesPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "instances.json"), nil
}

// RegisterInstance records inst, dropping entries for dead processes.
func RegisterInstance(inst Instance) error {
	path, err := instancesPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	instances, _ := readInstances(path)
	instances = liveOnly(instances)
	instances = append(instances, inst)
	return writeInstances(path, instances)
}

// UnregisterInstance removes every entry for pid.
func UnregisterInstance(pid int) error {
	path, err := instancesPath()
	if err != nil {
		return err
	}

	instances, err := readInstances(path)
	if err != nil || instances == nil {
		return err
	}
	kept := instances[:0]
	for _, inst := range instances {
		if inst.PID != pid {
			kept = append(kept, inst)
		}
	}
	return writeInstances(path, kept)
}

// ListInstances returns the live instances.
func ListInstances() ([]Instance, error) {
	path, err := instancesPath()
	if err != nil {
		return nil, err
	}

	instances, err := readInstances(path)
	if err != nil {
		return nil, err
	}
	live := liveOnly(instances)
	if len(live) != len(instances) {
		_ = writeInstances(path, live)
	}
	return live, nil
}

// FindInstanceByPort returns the live instance bound to port, or nil.
func FindInstanceByPort(port int) *Instance {
	instances, err := ListInstances()
	if err != nil {
		return nil
	}
	for i := range instances {
		if instances[i].Port == port {
			return &instances[i]
		}
	}
	return nil
}

func readInstances(path string) ([]Instance, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var instances []Instance
	if err := json.Unmarshal(data, &instances); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return instances, nil
}

// writeInstances replaces the file atomically so concurrent readers never
// see a partial list.
func writeInstances(path string, instances []Instance) error {
	if instances == nil {
		instances = []Instance{}
	}
	data, err := json.MarshalIndent(instances, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".instances-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func liveOnly(instances []Instance) []Instance {
	live := make([]Instance, 0, len(instances))
	for _, inst := range instances {
		if isProcessAlive(inst.PID) {
			live = append(live, inst)
		}
	}
	return live
}
