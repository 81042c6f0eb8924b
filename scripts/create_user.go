package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	database "github.com/kanworks/kanapi/app/db"
	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/config"
	"github.com/kanworks/kanapi/internal/api/auth"
	"github.com/kanworks/kanapi/internal/api/user"
	"github.com/kanworks/kanapi/internal/types"
)

// Admin helper: provisions a user account directly against the database,
// for bootstrapping an environment before the API has any users.
//
//	go run scripts/create_user.go -username alice -email alice@example.com -password s3cret
func main() {
	username := flag.String("username", "", "username for the new account")
	email := flag.String("email", "", "email for the new account")
	password := flag.String("password", "", "plaintext password, hashed before storage")
	fullName := flag.String("full-name", "", "optional display name")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The repository layer records query-error metrics; the default no-op
	// meter provider keeps them inert outside the server process.
	metrics.InitAppMetrics()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		log.Fatalf("Failed to generate database config: %v", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	hasher, err := auth.NewHasher(cfg.Auth.PasswordScheme)
	if err != nil {
		log.Fatalf("Invalid password scheme: %v", err)
	}

	svc := user.NewUserService(user.NewPostgresUserRepo(pool, logger), hasher, logger)

	params := types.CreateUserParams{
		Username: *username,
		Email:    *email,
		Password: *password,
	}
	if *fullName != "" {
		params.FullName = fullName
	}

	created, err := svc.CreateUser(ctx, params)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	logger.Info("User created",
		slog.String("id", created.ID),
		slog.String("username", created.Username),
		slog.String("email", created.Email),
	)
}
