package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pos_sales/internal/pos"
)

// Config carries the till's runtime settings. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	APIBaseURL   string
	SaleSystem   pos.SaleSystem
	HTTPTimeout  time.Duration
	EmbeddedStub bool
	Cashier      string
	PageSize     int
}

// Load reads the configuration. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	timeoutSecs, err := strconv.Atoi(getEnv("POS_HTTP_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSecs < 1 {
		timeoutSecs = 10
	}
	pageSize, err := strconv.Atoi(getEnv("POS_HISTORY_PAGE_SIZE", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	system := pos.SaleSystem(getEnv("POS_SALE_MODE", string(pos.SaleSystemRetail)))
	if !system.Valid() {
		system = pos.SaleSystemRetail
	}

	return Config{
		APIBaseURL:   getEnv("POS_API_BASE_URL", "http://localhost:3000"),
		SaleSystem:   system,
		HTTPTimeout:  time.Duration(timeoutSecs) * time.Second,
		EmbeddedStub: getEnv("POS_EMBEDDED_STUB", "") == "1",
		Cashier:      getEnv("POS_CASHIER", "cashier"),
		PageSize:     pageSize,
	}
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
