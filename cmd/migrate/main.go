// CLI tool to run pending database migrations from db/.
// Checks the migrations table to skip already-applied files.
// Wraps each migration + record insert in a single transaction.
// Usage: go run ./cmd/migrate (from the repo root; MIGRATIONS_DIR overrides db/)
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

func main() {
	// .env is optional when DB_URL is already exported.
	_ = godotenv.Load()
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DB_URL is not set (export it or add it to .env)")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "db"
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No migration files found in %s\n", dir)
		os.Exit(1)
	}

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading applied migrations: %v\n", err)
		os.Exit(1)
	}

	pending := pendingMigrations(files, applied)
	for _, f := range pending {
		if err := applyMigration(ctx, conn, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying %s: %v\n", filepath.Base(f), err)
			os.Exit(1)
		}
		fmt.Printf("  applied: %s\n", filepath.Base(f))
	}

	if len(pending) == 0 {
		fmt.Println("No pending migrations.")
	} else {
		fmt.Printf("\n%d migration(s) applied.\n", len(pending))
	}
}

// appliedMigrations returns the filenames already recorded. A missing
// migrations table means a fresh database, not an error.
func appliedMigrations(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, "SELECT to_regclass('migrations') IS NOT NULL").Scan(&exists)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool)
	if !exists {
		return applied, nil
	}

	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

// pendingMigrations returns the files not yet applied, sorted by name. The
// date-and-sequence filename prefix makes name order the apply order.
func pendingMigrations(files []string, applied map[string]bool) []string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	var pending []string
	for _, f := range sorted {
		if applied[filepath.Base(f)] {
			fmt.Printf("  skip: %s\n", filepath.Base(f))
			continue
		}
		pending = append(pending, f)
	}
	return pending
}

// applyMigration runs one file and records it in the same transaction.
func applyMigration(ctx context.Context, conn *pgx.Conn, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	filename := filepath.Base(path)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO migrations (migration, description) VALUES ($1, $2)",
		filename, descriptionFromFilename(filename)); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit(ctx)
}

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = datePrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
