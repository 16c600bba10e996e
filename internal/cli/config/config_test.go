package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != (CLIConfig{}) {
		t.Errorf("Load() = %+v, want zero config", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := "server: example:8219\ntoken: s3cret\noutput: yaml\ntimeout: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := CLIConfig{Server: "example:8219", Token: "s3cret", Output: "yaml", Timeout: 2 * time.Second}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: file:1\ntimeout: 2s\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("AUTHLINE_CLI_SERVER", "env:2")
	t.Setenv("AUTHLINE_CLI_TIMEOUT", "750ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != "env:2" {
		t.Errorf("Server = %q, want env:2", cfg.Server)
	}
	if cfg.Timeout != 750*time.Millisecond {
		t.Errorf("Timeout = %v, want 750ms", cfg.Timeout)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "cli.yaml")
	in := &CLIConfig{Server: "example:8219", Token: "s3cret", Timeout: 3 * time.Second}

	if err := Save(in, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "output") {
		t.Errorf("unset fields should be omitted:\n%s", data)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *out != *in {
		t.Errorf("round trip = %+v, want %+v", *out, *in)
	}
}

func TestSave_NoPath(t *testing.T) {
	if err := Save(&CLIConfig{}, ""); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestSanitized(t *testing.T) {
	cfg := CLIConfig{Server: "a:1", Token: "s3cret"}
	s := cfg.Sanitized()
	if s.Token == "s3cret" || s.Token == "" {
		t.Errorf("Sanitized().Token = %q", s.Token)
	}
	if cfg.Token != "s3cret" {
		t.Error("Sanitized() must not modify the receiver")
	}
	if (CLIConfig{}).Sanitized().Token != "" {
		t.Error("an empty token stays empty")
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got, want := DefaultPath(), filepath.Join(home, ".authline", "cli.yaml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
