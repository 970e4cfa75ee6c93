package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/gstbooks/backend/internal/infrastructure/config"
	"github.com/gstbooks/backend/internal/infrastructure/logger"
	"github.com/gstbooks/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		path     = flag.String("path", "migrations", "Path to migration files")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  *logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := migration.New(db, *path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("Error closing migrator", zap.Error(err))
		}
	}()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "step":
		if flag.NArg() < 2 {
			log.Fatal("step requires a count, e.g. 'step 2' or 'step -1'")
		}
		var n int
		n, err = strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal("Invalid step count", zap.String("arg", flag.Arg(1)), zap.Error(err))
		}
		err = migrator.Steps(n)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = migrator.Version()
		if err == nil {
			log.Info("Migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "force":
		if flag.NArg() < 2 {
			log.Fatal("force requires a version, e.g. 'force 3'")
		}
		var v int
		v, err = strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal("Invalid version", zap.String("arg", flag.Arg(1)), zap.Error(err))
		}
		err = migrator.Force(v)
	default:
		log.Fatal("Unknown command", zap.String("command", cmd))
	}
	if err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up             Apply all pending migrations
  down           Roll back all migrations
  step <n>       Apply n migrations (negative rolls back)
  version        Print the current migration version
  force <v>      Force the version without running migrations

Flags:
`)
	flag.PrintDefaults()
}
