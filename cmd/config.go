package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"shop/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const (
	defaultHTTPPort     = "8080"
	defaultPageLimit    = 100
	defaultMaxPageLimit = 1000
)

type Config struct {
	HTTPPort         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSslMode        string
	StoreDriver      string
	DefaultPageLimit int
	MaxPageLimit     int
	ProbeSchedule    string
	LogLevel         slog.Level
}

// LoadConfig reads the configuration from the environment. Variables in
// envFile are loaded first if the file exists; variables already set win.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	config := Config{
		HTTPPort:      envOr("HTTP_PORT", defaultHTTPPort),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        envOr("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBSslMode:     envOr("DB_SSLMODE", "disable"),
		StoreDriver:   envOr("STORE_DRIVER", StoreDriverPostgres),
		ProbeSchedule: os.Getenv("PROBE_SCHEDULE"),
	}

	var defLimitErr, maxLimitErr, levelErr error
	config.DefaultPageLimit, defLimitErr = envInt("DEFAULT_PAGE_LIMIT", defaultPageLimit)
	config.MaxPageLimit, maxLimitErr = envInt("MAX_PAGE_LIMIT", defaultMaxPageLimit)
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if err := config.LogLevel.UnmarshalText([]byte(level)); err != nil {
			levelErr = errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
		}
	}

	if err := errors.Join(defLimitErr, maxLimitErr, levelErr, config.Validate()); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the settings the selected store driver needs.
func (c Config) Validate() error {
	var errList []error

	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DBHost == "" {
			errList = append(errList, errs.NewValueIsRequiredError("DB_HOST"))
		}
		if c.DBUser == "" {
			errList = append(errList, errs.NewValueIsRequiredError("DB_USER"))
		}
		if c.DBName == "" {
			errList = append(errList, errs.NewValueIsRequiredError("DB_NAME"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("STORE_DRIVER",
			fmt.Errorf("%q is neither %s nor %s", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)))
	}

	if c.HTTPPort == "" {
		errList = append(errList, errs.NewValueIsRequiredError("HTTP_PORT"))
	}

	return errors.Join(errList...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return n, nil
}
