package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/realio-auth/config"
	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	pginfra "github.com/oksasatya/realio-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/realio-auth/pkg/helpers"
)

// Seeds a verified demo account into the Postgres user store.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.UsePostgres() {
		log.Fatal("DB_HOST not set; nothing to seed")
	}
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()
	accounts := pginfra.NewAccountRepository(pool)

	email := "demo@realio.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	a := &entity.Account{Email: email, Password: hash, Name: "Demo User", Verified: true}
	err = accounts.Create(ctx, a)
	if errors.Is(err, repository.ErrEmailTaken) {
		existing, gErr := accounts.GetByEmail(ctx, email)
		if gErr != nil {
			log.Fatalf("failed to load existing user: %v", gErr)
		}
		existing.Password, existing.Verified = hash, true
		if uErr := accounts.Update(ctx, existing); uErr != nil {
			log.Fatalf("failed to reset demo user: %v", uErr)
		}
		a = existing
	} else if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", a.ID, email, password)
}
