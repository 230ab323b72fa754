// dbformat drops and recreates every table. Destructive; dev and test
// databases only.
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dlcaspar/apt-journal/backend/internal/common/config"
	"github.com/dlcaspar/apt-journal/backend/internal/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dbformat: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.Reset(db, "."); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to recreate tables: %w", err)
	}

	dbName := "database"
	if err := db.QueryRow(`SELECT current_database()`).Scan(&dbName); err == nil {
		fmt.Printf("Successfully formatted %s database\n", dbName)
	}
	return nil
}
