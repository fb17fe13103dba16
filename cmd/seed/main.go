package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/config"
	pginfra "github.com/oksasatya/secure-users-api/internal/infrastructure/postgres"
	"github.com/oksasatya/secure-users-api/pkg/helpers"
)

type seedUser struct {
	Name, Email, Phone, Address, City, Country string
}

var sampleUsers = []seedUser{
	{"Aziz Karimov", "aziz.karimov@example.com", "+998901234567", "12 Amir Temur Avenue", "Tashkent", "Uzbekistan"},
	{"Dilnoza Yusupova", "dilnoza.yusupova@example.com", "+998911112233", "45 Registan Street, apt. 3", "Samarkand", "Uzbekistan"},
	{"Бобур Алиев", "bobur.aliev@example.com", "+998933334455", "7 Мустакиллик улица", "Бухара", "Узбекистан"},
	{"Jane Miller", "jane.miller@example.com", "+998945556677", "101 Navoi Street", "Khiva", "Uzbekistan"},
}

const sqlSeedUser = `
	INSERT INTO users (name, email, phone, address, city, country)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (email) DO NOTHING`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Minute)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	inserted := 0
	for _, u := range sampleUsers {
		tag, err := pool.Exec(ctx, sqlSeedUser, u.Name, u.Email, u.Phone, u.Address, u.City, u.Country)
		if err != nil {
			logger.WithError(err).WithField("email", u.Email).Fatal("failed to seed user")
		}
		inserted += int(tag.RowsAffected())
	}
	logger.WithFields(logrus.Fields{"inserted": inserted, "skipped": len(sampleUsers) - inserted}).Info("seed complete")
}
