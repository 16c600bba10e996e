package buildinfo

import (
	"runtime"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}
}

func TestGet_GoVersionFallback(t *testing.T) {
	prev := GoVersion
	t.Cleanup(func() { GoVersion = prev })

	GoVersion = ""
	if got := Get().GoVersion; got != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", got, runtime.Version())
	}

	GoVersion = "go1.24.4"
	if got := Get().GoVersion; got != "go1.24.4" {
		t.Errorf("GoVersion = %q, want injected value", got)
	}
}

func TestString(t *testing.T) {
	want := Version + " (commit: " + Commit + ", built: " + BuildTime + ")"
	if s := String(); s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}
