package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/mafia/go/internal/dbconfig"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/mcdev12/mafia/go/internal/store"
)

type seedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type seedRoom struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	GameSettings models.GameSettings `json:"gameSettings"`
}

type snapshot struct {
	Users []seedUser `json:"users"`
	Rooms []seedRoom `json:"rooms"`
}

type counts struct {
	inserted, skipped, errs int
}

func main() {
	// 1) Load the JSON snapshot
	data, err := os.ReadFile("go/internal/assets/rooms.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "db config: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, store.Schema); err != nil {
		fmt.Fprintf(os.Stderr, "ensure schema: %v\n", err)
		os.Exit(1)
	}

	// 3) Insert and count
	var users counts
	for _, u := range snap.Users {
		insert(ctx, pool, store.CollectionUsers, u.ID, map[string]any{"username": u.Username}, &users)
	}

	var rooms counts
	for _, r := range snap.Rooms {
		// Room documents carry their settings as a JSON string.
		settings, err := json.Marshal(r.GameSettings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error encoding room %s settings: %v\n", r.ID, err)
			rooms.errs++
			continue
		}
		insert(ctx, pool, store.CollectionRooms, r.ID, map[string]any{
			"status":       r.Status,
			"gameSettings": string(settings),
		}, &rooms)
	}

	// 4) Print summary
	fmt.Printf(
		"Users seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		len(snap.Users), users.inserted, users.skipped, users.errs,
	)
	fmt.Printf(
		"Rooms seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		len(snap.Rooms), rooms.inserted, rooms.skipped, rooms.errs,
	)
}

func insert(ctx context.Context, pool *pgxpool.Pool, collection, id string, data map[string]any, c *counts) {
	cmdTag, err := pool.Exec(ctx, `
        INSERT INTO documents (collection, id, data)
        VALUES ($1, $2, $3)
        ON CONFLICT (collection, id) DO NOTHING
    `, collection, id, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error inserting %s %s: %v\n", collection, id, err)
		c.errs++
		return
	}
	if cmdTag.RowsAffected() == 1 {
		c.inserted++
	} else {
		c.skipped++
	}
}
