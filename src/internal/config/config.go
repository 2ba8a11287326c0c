package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=ega_bank_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8080"
const defaultChannelID = "EgaBranchApp"
const defaultChannelKey = "EgaBranchKey001"

type Config struct {
	DatabaseDSN    string
	MigrationsDir  string
	ListenAddr     string
	ChannelID      string
	ChannelKeyHash string
}

func Load() (Config, error) {
	// A .env file is optional; system environment wins either way.
	_ = godotenv.Load()

	conn := getEnv("DATABASE_DSN", defaultConnectionString)

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = filepath.Join("src", "migrations")
	}

	keyHash := getEnv("CHANNEL_KEY_HASH", "")
	if keyHash == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(getEnv("CHANNEL_KEY", defaultChannelKey)), bcrypt.DefaultCost)
		if err != nil {
			return Config{}, fmt.Errorf("hash channel key: %w", err)
		}
		keyHash = string(hashed)
	}

	return Config{
		DatabaseDSN:    normalizeConnectionString(conn),
		MigrationsDir:  migrationsDir,
		ListenAddr:     getEnv("LISTEN_ADDR", defaultListenAddr),
		ChannelID:      getEnv("CHANNEL_ID", defaultChannelID),
		ChannelKeyHash: keyHash,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// normalizeConnectionString accepts both ADO-style ("Host=...;Port=...") and
// native libpq keyword strings and emits the latter.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
