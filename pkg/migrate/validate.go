package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

type portabilityRule struct {
	pattern *regexp.Regexp
	hint    string
}

// sqliteIncompatible lists postgres-only constructs. The same files run on sqlite when
// PORTAL_USE_SQLITE is set and in repository tests.
var sqliteIncompatible = []portabilityRule{
	{regexp.MustCompile(`(?i)\bjsonb\b`), "use TEXT holding JSON"},
	{regexp.MustCompile(`(?i)\b(big|small)?serial\b`), "use UUID primary keys set by the application"},
	{regexp.MustCompile(`(?i)\bgen_random_uuid\s*\(`), "generate ids in the application"},
	{regexp.MustCompile(`(?i)\bcreate\s+extension\b`), "extensions are unavailable on sqlite"},
	{regexp.MustCompile(`(?i)\btimestamptz\b`), "use TIMESTAMP"},
	{regexp.MustCompile(`(?i)\balter\s+column\b`), "sqlite cannot alter columns; add a new column instead"},
	{regexp.MustCompile(`(?i)\bcreate\s+type\b`), "store enums as TEXT"},
}

// ValidateDir checks the migrations on disk; see ValidateFS.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateFS reports every problem in dir at once: filenames, duplicate versions, missing
// goose sections and statements the sqlite driver cannot run.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var errs error
	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := migrationFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: expected YYYYMMDDHHMMSS_name.sql", name))
			continue
		}
		if prev, ok := versions[m[1]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%s: version %s already used by %s", name, m[1], prev))
		}
		versions[m[1]] = name

		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, checkMigration(name, string(raw)))
	}
	return errs
}

func checkMigration(name, body string) error {
	var errs error
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(body, marker) {
			errs = multierr.Append(errs, fmt.Errorf("%s: missing %q", name, marker))
		}
	}

	statements := stripSQLComments(body)
	for _, rule := range sqliteIncompatible {
		if found := rule.pattern.FindString(statements); found != "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: %q is not portable to sqlite (%s)", name, found, rule.hint))
		}
	}
	return errs
}

func stripSQLComments(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
