package env

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rym2spotify/internal/application/port/output"
)

var _ output.ConfigPort = (*EnvService)(nil)

// EnvService reads settings from the process environment after layering
// dotenv files into it.
type EnvService struct{}

// NewEnvService loads .env, then .env.$APP_ENV (default "dev") over it.
// Variables already set in the process win over .env but not over the
// APP_ENV layer.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("env: .env ignored: %v", err)
	}
	if err := godotenv.Overload(".env." + appEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("env: .env.%s ignored: %v", appEnv, err)
	}

	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := e.Get(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	return lookup(e, key, defaultValue, strconv.ParseBool)
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	return lookup(e, key, defaultValue, strconv.Atoi)
}

// GetDuration accepts Go durations ("1500ms", "30s") or plain seconds.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	return lookup(e, key, defaultValue, parseDuration)
}

// lookup falls back to def when the key is unset or does not parse.
func lookup[T any](e *EnvService, key string, def T, parse func(string) (T, error)) T {
	raw := e.Get(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("env: %s=%q is invalid, using default", key, raw)
		return def
	}
	return v
}

func parseDuration(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
