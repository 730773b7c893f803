package config

import (
	"os"
	"testing"
)

func TestDefaultDataDirXDG(t *testing.T) {
	original := os.Getenv("XDG_DATA_HOME")
	os.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Cleanup(func() {
		if original != "" {
			os.Setenv("XDG_DATA_HOME", original)
		} else {
			os.Unsetenv("XDG_DATA_HOME")
		}
	})

	if got := DefaultDataDir(); got != "/custom/data/replay" {
		t.Errorf("expected /custom/data/replay, got %s", got)
	}
}

func TestDefaultDataDirConsistency(t *testing.T) {
	if DefaultDataDir() == "" {
		t.Fatal("DefaultDataDir should not return empty string")
	}
	if DefaultDataDir() != DefaultDataDir() {
		t.Error("DefaultDataDir should be consistent across calls")
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Error("current directory should be a dir")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Error("missing path should not be a dir")
	}
}
