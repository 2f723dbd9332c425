// cmd/dbtools/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/db"
)

func main() {
	var (
		dbPath         = flag.String("db", "", "Path to SQLite database")
		migrationsPath = flag.String("migrations", "", "Path to a migrations directory (default: migrations embedded in the binary)")
		command        = flag.String("command", "", "Command to run (up, down, version, steps, force)")
		arg            = flag.String("n", "", "Step count for steps, version for force")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dbPath == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	m, closeDB, err := open(*dbPath, *migrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}
	defer closeDB()

	if err := runCommand(m, *command, *arg); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
}

func open(dbPath, migrationsPath string) (*migrate.Migrate, func(), error) {
	if migrationsPath != "" {
		m, err := migrate.New("file://"+migrationsPath, "sqlite3://"+dbPath)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { m.Close() }, nil
	}

	sqlDB, err := sql.Open("sqlite3", dbPath+"?_fk=1")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return m, func() {
		m.Close()
		sqlDB.Close()
	}, nil
}

func runCommand(m *migrate.Migrate, command, arg string) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "steps":
		n, err := strconv.Atoi(arg)
		if err != nil || n == 0 {
			return fmt.Errorf("steps needs a non-zero -n, got %q", arg)
		}
		if err := m.Steps(n); err != nil {
			return err
		}
	case "force":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("force needs a version in -n, got %q", arg)
		}
		if err := m.Force(v); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Migration state")
	return nil
}
