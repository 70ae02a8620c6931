package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "matugen"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := EnvPrefix(); got != "MATUGEN_" {
		t.Errorf("Expected EnvPrefix to be %q, got %q", "MATUGEN_", got)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if strings.ContainsAny(Version, " \n\t") {
		t.Errorf("Expected Version to be trimmed, got %q", Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	for _, a := range Author {
		if a.Name == "" || a.Email == "" {
			t.Errorf("Expected complete author info, got %+v", a)
		}
	}
}
