// Package seed populates the store with the initial catalog and an optional
// administrator account on startup. Seeding is idempotent: nothing is
// inserted when data is already present.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopcraft/shop-api/internal/core/domain"
	"github.com/shopcraft/shop-api/internal/core/ports"
	"github.com/shopcraft/shop-api/internal/infrastructure/config"
)

// Run seeds the product catalog and, when configured, the admin account.
func Run(ctx context.Context, products ports.ProductRepository, users ports.AuthRepository, cfg config.SeedConfig, log zerolog.Logger) error {
	if err := seedProducts(ctx, products, log); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := seedAdmin(ctx, users, cfg, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func seedProducts(ctx context.Context, repo ports.ProductRepository, log zerolog.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	catalog := []*domain.Product{
		{Name: "Laptop", Description: "Some description of Laptop", Price: 1000, Stock: 10},
		{Name: "Phone", Description: "Some description of Phone", Price: 500, Stock: 8},
		{Name: "Headphones", Description: "Some description of Headphones", Price: 300, Stock: 20},
	}
	for _, p := range catalog {
		if _, err := repo.Create(ctx, p); err != nil {
			return err
		}
	}

	log.Info().Int("count", len(catalog)).Msg("seeded product catalog")
	return nil
}

func seedAdmin(ctx context.Context, repo ports.AuthRepository, cfg config.SeedConfig, log zerolog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := repo.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = repo.Create(ctx, &domain.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleAdmin},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	log.Info().Str("email", cfg.AdminEmail).Msg("seeded admin account")
	return nil
}
