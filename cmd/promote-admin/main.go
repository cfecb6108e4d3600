package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/config"
	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: promote-admin <email> [user|superadmin]")
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	role := access.RoleSuperAdmin
	if len(os.Args) == 3 {
		parsed, ok := access.ParseRole(os.Args[2])
		if !ok {
			logrus.Fatalf("Unknown role: %s", os.Args[2])
		}
		role = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		SELECT id, $1 FROM users WHERE email = $2
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`, string(role), email)
	if err != nil {
		logrus.Fatalf("Failed to update role: %v", err)
	}

	if result.RowsAffected() == 0 {
		logrus.Fatalf("No user found with email: %s", email)
	}

	logrus.WithFields(logrus.Fields{"email": email, "role": role}).Info("role updated")
}
