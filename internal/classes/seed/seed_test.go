package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	classes, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 10 {
		t.Fatalf("expected 10 classes, got %d", len(classes))
	}

	java := classes[0]
	if java.Name != "Java programming" || java.Price != 15 || java.Location != "Online" || java.Image != "../Images/Java.jpg" {
		t.Errorf("unexpected first class: %+v", java)
	}
	for _, c := range classes {
		if c.Seats != 30 {
			t.Errorf("%s: expected 30 seats, got %d", c.Name, c.Seats)
		}
		if c.ID != "" {
			t.Errorf("%s: seed records must not carry ids", c.Name)
		}
	}
}

func TestDefault_ReturnsFreshCopies(t *testing.T) {
	first, _ := Default()
	first[0].Seats = 0

	second, _ := Default()
	if second[0].Seats != 30 {
		t.Error("mutating one catalog must not affect the next")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad yaml", "classes: [", "failed to parse"},
		{"missing name", "classes:\n  - price: 3\n    seats: 1\n", "has no name"},
		{"negative seats", "classes:\n  - name: X\n    seats: -1\n", "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "classes:\n  - name: Pottery\n    price: 5\n    description: Clay\n    location: Online\n    seats: 4\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	classes, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 1 || classes[0].Name != "Pottery" || classes[0].Seats != 4 {
		t.Errorf("unexpected catalog: %+v", classes)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	if classes, err := Load(""); err != nil || len(classes) != 10 {
		t.Errorf("empty path must load the built-in catalog, got %d err=%v", len(classes), err)
	}
}
