// Package config assembles runtime settings from the environment, with a
// .env file picked up when present.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bankcore/internal/models"
)

// Storage backend names accepted in BANK_STORAGE.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	Addr         string   // HTTP listen address
	Storage      string   // memory | sqlite | postgres
	SQLitePath   string   // sqlite backend only
	PostgresDSN  string   // postgres backend only
	KafkaBrokers []string // empty means events are discarded
	SeedFile     string   // optional JSON file of seed accounts
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        getenv("BANK_ADDR", ":8080"),
		Storage:     getenv("BANK_STORAGE", StorageSQLite),
		SQLitePath:  getenv("BANK_SQLITE_PATH", "data/bank.db"),
		PostgresDSN: os.Getenv("BANK_POSTGRES_DSN"),
		SeedFile:    os.Getenv("BANK_SEED_FILE"),
	}
	if brokers := os.Getenv("BANK_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

// SeedAccounts returns the accounts the directory is bootstrapped with:
// either the configured seed file, or the two well-known demo users.
func (c Config) SeedAccounts() ([]models.Account, error) {
	if c.SeedFile == "" {
		return DefaultSeed(), nil
	}
	raw, err := os.ReadFile(c.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var accounts []models.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return accounts, nil
}

// DefaultSeed matches the demo's built-in users, so transfers to
// "0987654321" work out of the box.
func DefaultSeed() []models.Account {
	return []models.Account{
		{
			ID:            "1",
			AccountNumber: "1234567890",
			Username:      "testuser",
			Email:         "test@example.com",
			FullName:      "Test User",
		},
		{
			ID:            "2",
			AccountNumber: "0987654321",
			Username:      "johndoe",
			Email:         "user@bank.com",
			FullName:      "John Doe",
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
