//go:build ignore

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	admin := flag.Bool("admin", false, "issue a token for the configured admin instead")
	username := flag.String("username", "testuser", "test account username")
	flag.Parse()

	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	if *admin {
		adminName := os.Getenv("ADMIN_USERNAME")
		if adminName == "" {
			log.Fatal("ADMIN_USERNAME not set")
		}

		printToken(users.AdminID, adminName, true)
		return
	}

	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	repo := users.NewRepository(dbPool)
	if err := repo.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize users table: %v", err) //nolint:gocritic // exit skips the deferred close
	}

	svc := users.NewService(repo, nil)

	user, err := svc.Create(ctx, users.CreateRequest{
		Username: *username,
		Password: "testpass",
		Tier:     "trial",
	})

	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		user, err = repo.FindByUsername(ctx, *username)
		if err != nil {
			log.Fatalf("Failed to load test user: %v", err)
		}
		fmt.Printf("✅ Using existing test user: %s (ID: %s)\n", user.Username, user.ID)
	case err != nil:
		log.Fatalf("Failed to create test user: %v", err)
	default:
		fmt.Printf("✅ Created test user: %s / testpass (ID: %s)\n", user.Username, user.ID)
	}

	printToken(user.ID, user.Username, false)
}

func printToken(userID, username string, isAdmin bool) {
	token, err := auth.GenerateJWT(userID, username, isAdmin)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\n🔑 Test JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}
