package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/salonstore-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestCatalogMigrationsContainSchemas(t *testing.T) {
	salons := readMigration(t, "create_salons_table")
	products := readMigration(t, "create_products_table")

	checks := map[string][]string{
		"salons": {
			"CREATE TABLE IF NOT EXISTS salons",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_salons_slug",
		},
		"products": {
			"CREATE TABLE IF NOT EXISTS products",
			"REFERENCES salons(id)",
			"CHECK (price_cents >= 0)",
			"CHECK (available_quantity >= 0)",
			"discount_percent <= 100",
		},
	}
	content := map[string]string{"salons": salons, "products": products}

	for table, subs := range checks {
		for _, sub := range subs {
			if !strings.Contains(content[table], sub) {
				t.Errorf("%s migration missing %q", table, sub)
			}
		}
	}
}

func TestCartLinesMigrationEnforcesInvariants(t *testing.T) {
	content := readMigration(t, "create_cart_lines_table")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_lines",
		"REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (quantity >= 1)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_user_product ON cart_lines (user_id, product_id)",
		"DROP TABLE IF EXISTS cart_lines",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}
}

func TestValidateDirRequiresGooseHeaders(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20250101000000_missing_down.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected missing down section to fail validation")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Salon Hours!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_salon_hours.sql") {
		t.Fatalf("unexpected filename %q", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("scaffolded migration should validate: %v", err)
	}
}
