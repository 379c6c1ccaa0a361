package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks migration filenames, version uniqueness and goose headers.
// It returns the sorted list of migration file names.
func ValidateDir(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	var names []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no migrations found in %q", dir)
	}
	slices.Sort(names)
	return names, nil
}

// ValidatePair validates both dialect directories and requires them to carry
// the same migration files.
func ValidatePair(postgresDir, sqliteDir string) error {
	pg, err := ValidateDir(postgresDir)
	if err != nil {
		return err
	}
	lite, err := ValidateDir(sqliteDir)
	if err != nil {
		return err
	}
	if !slices.Equal(pg, lite) {
		return fmt.Errorf("migration sets differ: %s has %v, %s has %v", postgresDir, pg, sqliteDir, lite)
	}
	return nil
}
