// Command seeder populates the document store with demo tenants and content
// for local development. It is intended to be run offline, not as part of
// the main server.
//
// Flags:
//
//	--users        number of demo user accounts to create (default 20)
//	--per-tenant   entities per kind per tenant (default 5)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/promptstack/console-backend/internal/adapter/postgres"
	pgdocstore "github.com/promptstack/console-backend/internal/adapter/postgres/docstore"
	"github.com/promptstack/console-backend/internal/app"
	"github.com/promptstack/console-backend/internal/config"
	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

func main() {
	usersFlag := flag.Int("users", 20, "number of demo user accounts")
	perTenantFlag := flag.Int("per-tenant", 5, "entities per kind per tenant")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		logger.Error("migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store := pgdocstore.New(pool, schema.GroupIndexedCollections())

	if err := seed(ctx, store, *usersFlag, *perTenantFlag); err != nil {
		logger.Error("seed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete",
		slog.Int("users", *usersFlag),
		slog.Int("per_tenant", *perTenantFlag),
	)
}

func seed(ctx context.Context, store *pgdocstore.Store, users, perTenant int) error {
	now := time.Now().Unix()

	for i := 0; i < users; i++ {
		uid := uuid.NewString()
		createdAt := now - rand.Int63n(90*24*3600)

		user := map[string]any{
			"email":       fmt.Sprintf("user%03d@example.com", i),
			"displayName": fmt.Sprintf("Demo User %03d", i),
			"isAdmin":     i == 0,
			"createdAt":   createdAt,
			"lastLoginAt": now - rand.Int63n(7*24*3600),
		}
		if err := store.Put(ctx, "users", uid, user); err != nil {
			return fmt.Errorf("put user: %w", err)
		}

		for _, kind := range domain.ContentKinds() {
			loc, err := schema.Resolve(kind)
			if err != nil {
				return err
			}

			path := loc.Collection
			if loc.Style == schema.PerTenant {
				path = loc.SubPath(uid)
			}

			for j := 0; j < perTenant; j++ {
				doc := map[string]any{
					"userId":    uid,
					"title":     fmt.Sprintf("%s %03d-%02d", kind, i, j),
					"content":   fmt.Sprintf("Demo %s payload %d for tenant %s", kind, j, uid),
					"isPublic":  j%2 == 0,
					"views":     rand.Intn(5000),
					"likes":     rand.Intn(500),
					"createdAt": createdAt + rand.Int63n(30*24*3600),
					"updatedAt": now,
				}
				if err := store.Put(ctx, path, uuid.NewString(), doc); err != nil {
					return fmt.Errorf("put %s: %w", kind, err)
				}
			}
		}
	}

	return nil
}
