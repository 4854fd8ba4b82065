package migrations

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const migrationsTable = "schema_migrations_migrate"

// DefaultSource is where the SQL files live relative to the working directory.
const DefaultSource = "migrations"

// RunMigrations applies the SQL files in dir using the postgres driver. A
// database that already has match_results but no migrate metadata table is
// baselined to the latest file first.
func RunMigrations(databaseURL, dir string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	// The driver creates its metadata table, so look before building it.
	needsBaseline := tableExists(sqlDB, "match_results") && !tableExists(sqlDB, migrationsTable)

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if needsBaseline {
		latest := findLatestMigrationVersion(dir)
		if latest > 0 {
			log.Printf("[MIGRATE] Baseline DB to version %d (existing schema present)", latest)
			if ferr := m.Force(int(latest)); ferr != nil {
				log.Printf("[MIGRATE] Force to version %d failed: %v", latest, ferr)
			}
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Printf("[MIGRATE] schema at version %d (dirty=%v)", version, dirty)
	return nil
}

func tableExists(db *sql.DB, name string) bool {
	var exists bool
	row := db.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", name)
	return row.Scan(&exists) == nil && exists
}

// findLatestMigrationVersion returns the highest numeric prefix (000001_)
// among the files in dir, or 0.
func findLatestMigrationVersion(dir string) int64 {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	re := regexp.MustCompile(`^0*([0-9]+)_`)
	var max int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		m := re.FindStringSubmatch(name)
		if len(m) < 2 {
			continue
		}
		v, _ := strconv.ParseInt(m[1], 10, 64)
		if v > max {
			max = v
		}
	}

	return max
}
