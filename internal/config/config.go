package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/studtool/c-errs/pkg/errs"
)

// Config holds application configuration values.
type Config struct {
	Env  string `validate:"required,oneof=dev prod"`
	HTTP struct {
		Addr string `validate:"required"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Render struct {
		StrictJSON bool
		Limit      int `validate:"min=0"`
	}
	Journal struct {
		Path          string        `validate:"required"`
		Retention     time.Duration `validate:"gt=0"`
		PruneSchedule string        `validate:"required"`
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var (
		c   Config
		err error
	)
	c.Env = getenv("ENV", "prod")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = getenv("LOG_FILE", "data/logs/errsd.log")
	c.Journal.Path = getenv("JOURNAL_PATH", "data/journal.db")
	c.Journal.PruneSchedule = getenv("JOURNAL_PRUNE_SCHEDULE", "@every 1h")

	if c.Render.StrictJSON, err = parseEnv("RENDER_STRICT_JSON", "false", strconv.ParseBool); err != nil {
		return Config{}, err
	}
	if c.Render.Limit, err = parseEnv("RENDER_LIMIT", "0", strconv.Atoi); err != nil {
		return Config{}, err
	}
	if c.Journal.Retention, err = parseEnv("JOURNAL_RETENTION", "720h", time.ParseDuration); err != nil {
		return Config{}, err
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// RenderOptions translates render settings into construction options.
func (c Config) RenderOptions() []errs.Option {
	var opts []errs.Option
	if c.Render.StrictJSON {
		opts = append(opts, errs.WithStrictJSON())
	}
	if c.Render.Limit > 0 {
		opts = append(opts, errs.WithRenderLimit(c.Render.Limit))
	}
	return opts
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseEnv[T any](k, def string, parse func(string) (T, error)) (T, error) {
	v, err := parse(getenv(k, def))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("invalid %s: %w", k, err)
	}
	return v, nil
}
