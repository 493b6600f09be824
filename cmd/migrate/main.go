package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"nurcatalog/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, version, redo, reset, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	log, closer := logging.New(logging.Options{Level: os.Getenv("LOG_LEVEL")})
	defer closer.Close()

	dir := migrationsDir()
	if *command == "create" {
		if *name == "" {
			log.Fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := run(ctx, db, *command, dir); err != nil {
		log.Fatal("migration command failed", zap.String("command", *command), zap.Error(err))
	}
	log.Info("migration command finished", zap.String("command", *command), zap.String("dir", dir))
}

func run(ctx context.Context, db *sql.DB, command, dir string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, dir)
	case "down":
		return goose.DownContext(ctx, db, dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	case "version":
		return goose.VersionContext(ctx, db, dir)
	case "redo":
		return goose.RedoContext(ctx, db, dir)
	case "reset":
		return goose.ResetContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown command %q; use up, down, status, version, redo, reset, create", command)
	}
}
