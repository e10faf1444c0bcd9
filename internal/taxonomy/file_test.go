package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTaxonomyFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write taxonomy file: %v", err)
	}
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeTaxonomyFile(t, `version: "2025-q3"
categories:
  - Payslips
  - Bank Statements
  - "Driver's Licence"
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if reg.Version() != "2025-q3" {
		t.Errorf("Version() = %q, want %q", reg.Version(), "2025-q3")
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
	if !reg.Contains("Driver's Licence") {
		t.Error("Contains(\"Driver's Licence\") = false, want true")
	}
}

func TestLoad_DuplicateCategory(t *testing.T) {
	path := writeTaxonomyFile(t, `categories:
  - Payslips
  - Passport
  - Payslips
`)

	_, err := Load(path)
	var invalidErr *InvalidTaxonomyError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Load() error = %v, want *InvalidTaxonomyError", err)
	}
	if invalidErr.Name != "Payslips" {
		t.Errorf("duplicate name = %q, want %q", invalidErr.Name, "Payslips")
	}
}

func TestLoadWithOptions_AllowDuplicates(t *testing.T) {
	path := writeTaxonomyFile(t, `categories:
  - Payslips
  - Passport
  - Payslips
`)

	reg, err := LoadWithOptions(path, Options{AllowDuplicates: true})
	if err != nil {
		t.Fatalf("LoadWithOptions() unexpected error: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestLoad_EmptyCategories(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "no categories key", contents: `version: "1"`},
		{name: "empty list", contents: "categories: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTaxonomyFile(t, tt.contents)
			_, err := Load(path)
			if !errors.Is(err, ErrNoCategories) {
				t.Errorf("Load() error = %v, want ErrNoCategories", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeTaxonomyFile(t, "categories: [unclosed\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for malformed yaml")
	}
}
