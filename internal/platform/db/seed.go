package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/internal/domain/auth"
	"backoffice/internal/platform/config"
)

// Seed creates the configured admin user when it does not exist yet.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		slog.Info("seed skipped, no admin credentials configured")
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	return auth.NewStore(pool).EnsureUser(ctx, email, hash, auth.RoleAdmin)
}
