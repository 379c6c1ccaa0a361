package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

const postgresTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

const sqliteTemplate = `-- +goose Up
-- %[1]s

-- +goose Down
-- rollback %[1]s
`

// CreateSQLMigration writes a paired migration, one per dialect directory,
// sharing the same version:
//
//	<postgresDir>/<YYYYMMDDHHMMSS>_<name>.sql
//	<sqliteDir>/<YYYYMMDDHHMMSS>_<name>.sql
func CreateSQLMigration(postgresDir, sqliteDir, name string, now time.Time) ([]string, error) {
	if postgresDir == "" || sqliteDir == "" {
		return nil, fmt.Errorf("both migration dirs are required")
	}

	safe := sanitizeName(name)
	if safe == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	filename := fmt.Sprintf("%s_%s.sql", now.UTC().Format("20060102150405"), safe)
	targets := []struct {
		dir, tmpl string
	}{
		{postgresDir, postgresTemplate},
		{sqliteDir, sqliteTemplate},
	}

	paths := make([]string, 0, len(targets))
	for _, target := range targets {
		if err := os.MkdirAll(target.dir, 0o755); err != nil {
			return paths, fmt.Errorf("mkdir %q: %w", target.dir, err)
		}
		full := filepath.Join(target.dir, filename)
		if _, err := os.Stat(full); err == nil {
			return paths, fmt.Errorf("migration already exists: %s", full)
		}
		if err := os.WriteFile(full, []byte(fmt.Sprintf(target.tmpl, safe)), 0o644); err != nil {
			return paths, fmt.Errorf("write migration %q: %w", full, err)
		}
		paths = append(paths, full)
	}
	return paths, nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
