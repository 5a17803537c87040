package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"drinks-service/internal/config"
	"drinks-service/internal/repository/postgres"

	"github.com/joho/godotenv"
)

const (
	envFilePath = ".env"
	schemaPath  = "scripts/schema.sql"
)

var requiredTables = []string{"drinks", "audit_events"}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database")
	fmt.Println()

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	fmt.Println("Executing schema...")
	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}

	fmt.Println("Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Verifying Tables ===")
	for _, table := range requiredTables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := db.Pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			fmt.Printf("Error checking table '%s': %v\n", table, err)
			continue
		}

		if exists {
			fmt.Printf("Table '%s' ready\n", table)
		} else {
			fmt.Printf("Table '%s' NOT created\n", table)
		}
	}

	seeded, err := postgres.NewDrinkRepository(db).Seed(ctx)
	if err != nil {
		log.Fatalf("Failed to seed drinks: %v", err)
	}
	if seeded {
		fmt.Println("Seeded demo drink")
	}

	fmt.Println()
	fmt.Println("=== Database Setup Complete ===")
	fmt.Println()
	fmt.Println("Next: Run 'go run main.go' to start the server")
}
