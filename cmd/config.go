package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"drones/internal/core/domain/services"
)

type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	ScenarioDir        string
	Solver             string
	Seed               int64
	SimulationSchedule string
	RenderTerminal     bool
	OrderPerPackage    bool
	RedisURL           string
	RedisChannel       string
}

// NewConfig builds a Config from a variable lookup. Unset keys fall back to
// their defaults; malformed ones are reported.
func NewConfig(getenv func(string) string, now func() time.Time) (Config, error) {
	config := Config{
		HTTPPort:           getenv("HTTP_PORT"),
		DBHost:             getenv("DB_HOST"),
		DBPort:             getenv("DB_PORT"),
		DBUser:             getenv("DB_USER"),
		DBPassword:         getenv("DB_PASSWORD"),
		DBName:             getenv("DB_NAME"),
		DBSslMode:          getenv("DB_SSLMODE"),
		ScenarioDir:        getenv("SCENARIO_DIR"),
		Solver:             strings.TrimSpace(getenv("SOLVER")),
		SimulationSchedule: strings.TrimSpace(getenv("SIMULATION_SCHEDULE")),
		RedisURL:           strings.TrimSpace(getenv("REDIS_URL")),
		RedisChannel:       strings.TrimSpace(getenv("REDIS_CHANNEL")),
	}

	if config.ScenarioDir == "" {
		config.ScenarioDir = "."
	}
	if config.DBSslMode == "" {
		config.DBSslMode = "disable"
	}
	if config.Solver == "" {
		config.Solver = services.GreedySolverName
	}

	seed := strings.TrimSpace(getenv("SEED"))
	if seed == "" {
		config.Seed = now().UnixNano()
	} else {
		parsed, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SEED: %w", err)
		}
		config.Seed = parsed
	}

	if render := strings.TrimSpace(getenv("RENDER_TERMINAL")); render != "" {
		enabled, err := strconv.ParseBool(render)
		if err != nil {
			return Config{}, fmt.Errorf("RENDER_TERMINAL: %w", err)
		}
		config.RenderTerminal = enabled
	}

	if split := strings.TrimSpace(getenv("ORDER_PER_PACKAGE")); split != "" {
		enabled, err := strconv.ParseBool(split)
		if err != nil {
			return Config{}, fmt.Errorf("ORDER_PER_PACKAGE: %w", err)
		}
		config.OrderPerPackage = enabled
	}

	return config, nil
}

// UsesPostgres reports whether runs are logged to Postgres rather than memory.
func (c Config) UsesPostgres() bool {
	return c.DBHost != ""
}

// DSN is the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
