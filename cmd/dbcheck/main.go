package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/you/allospace/internal/config"
	"github.com/you/allospace/internal/infrastructure/database"
	"github.com/you/allospace/internal/logging"
)

// Connectivity check for a deployment's credential store and redis
func main() {
	ctx := context.Background()
	log := logging.New(false)

	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		fail("DATABASE_URL is not set")
	}

	fmt.Println("Credential Store Connection Check")
	fmt.Println("=================================")

	if cfg.UsesMongo() {
		client, err := database.ConnectWithRetry(ctx, log, cfg.DBConnectAttempts, cfg.DBRetryDelay,
			func(ctx context.Context) (*mongo.Client, error) {
				return database.OpenMongo(ctx, cfg.DatabaseURL)
			})
		if err != nil {
			fail("Failed to connect to mongodb: %v", err)
		}
		defer client.Disconnect(ctx)
		fmt.Println("✓ MongoDB connection successful")
	} else {
		db, err := database.ConnectWithRetry(ctx, log, cfg.DBConnectAttempts, cfg.DBRetryDelay,
			func(context.Context) (*gorm.DB, error) {
				return database.Open(cfg.DatabaseURL, true)
			})
		if err != nil {
			fail("Failed to connect to postgres: %v", err)
		}
		defer database.Close(db)
		fmt.Println("✓ Postgres connection successful")

		if err := database.AutoMigrate(db); err != nil {
			fail("Failed to run auto-migration: %v", err)
		}
		fmt.Println("✓ AutoMigrate completed successfully")

		for _, table := range []string{"users", "spaces", "casbin_rule"} {
			var count int64
			if err := db.Table(table).Count(&count).Error; err != nil {
				fail("Failed to query %s table: %v", table, err)
			}
			fmt.Printf("✓ %s table accessible (current count: %d)\n", table, count)
		}
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()
	if err := rdb.Ping(ctx, 3*time.Second); err != nil {
		fmt.Printf("✗ Redis unreachable at %s: %v\n", cfg.RedisAddr, err)
	} else {
		fmt.Println("✓ Redis connection successful")
	}

	fmt.Println("\nAll credential store checks passed.")
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
	os.Exit(1)
}
