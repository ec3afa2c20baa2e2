package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/mcdev12/mafia/go/internal/dbconfig"
	"github.com/mcdev12/mafia/go/internal/store"
	"github.com/rs/zerolog/log"
)

func setupDatabase(ctx context.Context) (*sql.DB, error) {
	dbConfig, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}

	database, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("user", dbConfig.User).
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("connected to database")
	return database, nil
}

// setupStore opens the configured document store. The returned close func releases
// any connection pool.
func setupStore(ctx context.Context, cfg Config) (store.DocumentStore, func(), error) {
	if cfg.StoreDriver == StoreDriverMemory {
		log.Warn().Msg("using in-memory document store, state is lost on restart")
		return store.NewMemory(), func() {}, nil
	}

	database, err := setupDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}

	pg := store.NewPostgres(database)
	if err := pg.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return pg, func() { database.Close() }, nil
}
