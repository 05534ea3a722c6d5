package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/Vadim-3/b2-hm14/config"
	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	pginfra "github.com/Vadim-3/b2-hm14/internal/infrastructure/postgres"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

type seedContact struct {
	first, last, birthday, email, phone string
}

var contacts = []seedContact{
	{"Olena", "Koval", "1990-10-26", "olena@example.com", "0501234567"},
	{"Taras", "Shevchuk", "1985-03-09", "taras@example.com", "0679876543"},
	{"Iryna", "Bondar", "1992-12-31", "iryna@example.com", "+380631112233"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	accounts := pginfra.NewAccountRepository(pool)
	email := "demo@example.com"
	password := "password1"

	existing, err := accounts.GetByEmail(ctx, email)
	if err != nil {
		log.Fatalf("failed to look up account: %v", err)
	}
	if existing == nil {
		hash, err := helpers.HashPassword(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		avatar := helpers.GravatarURL(email)
		acc := &entity.Account{Username: "demoUser", Email: email, Password: hash, Avatar: &avatar}
		if err := accounts.Create(ctx, acc); err != nil {
			log.Fatalf("failed to seed account: %v", err)
		}
		existing = acc
	}
	if err := accounts.SetConfirmed(ctx, email); err != nil {
		log.Fatalf("failed to confirm account: %v", err)
	}
	fmt.Printf("seeded account: id=%s email=%s password=%s avatar=%s\n", existing.ID, email, password, existing.AvatarURL())

	repo := pginfra.NewContactRepository(pool)
	for _, s := range contacts {
		b, err := helpers.ParseDate(s.birthday)
		if err != nil {
			log.Fatalf("bad seed birthday: %v", err)
		}
		c, err := repo.Create(ctx, entity.ContactFields{
			FirstName:    s.first,
			LastName:     s.last,
			BirthdayDate: b,
			Email:        s.email,
			PhoneNumber:  s.phone,
		})
		if err != nil {
			log.Fatalf("failed to seed contact: %v", err)
		}
		fmt.Printf("seeded contact: id=%d %s %s\n", c.ID, c.FirstName, c.LastName)
	}
}
