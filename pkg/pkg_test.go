package pkg

import (
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "strata"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	expected := "Layered configuration resolver"
	if Description != expected {
		t.Errorf("Expected Description to be %q, got %q", expected, Description)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file and must be a non-empty
	// dotted triple.
	v := strings.TrimSpace(Version)
	if v == "" {
		t.Fatal("Version is empty")
	}

	if parts := strings.Split(v, "."); len(parts) != 3 {
		t.Errorf("Version %q is not a dotted triple", v)
	}
}
