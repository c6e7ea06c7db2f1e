package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "-p", target)
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output missing target path:\n%s", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "download_dir") {
		t.Errorf("sample config missing download_dir:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "-p", target); err != nil {
		t.Fatalf("first config init error = %v", err)
	}
	if _, err := runCommand(t, "config", "init", "-p", target); err == nil {
		t.Fatal("second config init succeeded, want refusal")
	}
}

func TestConfigShowUsesDefaultsWhenFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	out, err := runCommand(t, "-c", missing, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "defaults were used") {
		t.Errorf("output missing defaults note:\n%s", out)
	}
	if !strings.Contains(out, "Download dir:") {
		t.Errorf("output missing resolved paths:\n%s", out)
	}
}
