package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds the process-level overrides read from EDA_* variables. Empty
// fields leave the analysis file untouched.
type Env struct {
	RawDir         string `envconfig:"RAW_DIR"`
	ProcessedDir   string `envconfig:"PROCESSED_DIR"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	LogFormat      string `envconfig:"LOG_FORMAT"`
	StorageDSN     string `envconfig:"STORAGE_DSN"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
	DogStatsdAddr  string `envconfig:"DOGSTATSD_ADDR"`
}

// EnvPrefix is prepended to every variable name in Env.
const EnvPrefix = "EDA"

// LoadEnv reads a .env file when present and then the EDA_* variables.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("config: env: %w", err)
	}
	return env, nil
}

// Decode reads an Analysis from r. Unknown fields are rejected so typos in
// analysis files surface early.
func Decode(r io.Reader) (Analysis, error) {
	var a Analysis
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return Analysis{}, fmt.Errorf("config: decode: %w", err)
	}
	return a, nil
}

// LoadFile opens path and decodes it.
func LoadFile(path string) (Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return Analysis{}, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Apply overlays non-empty environment values onto a.
func (e Env) Apply(a Analysis) Analysis {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&a.Paths.RawDir, e.RawDir)
	set(&a.Paths.ProcessedDir, e.ProcessedDir)
	set(&a.Logging.Level, e.LogLevel)
	set(&a.Logging.Format, e.LogFormat)
	set(&a.Storage.DB.DSN, e.StorageDSN)
	return a
}

// Defaults fills unset fields with their documented defaults.
func Defaults(a Analysis) Analysis {
	if a.Paths.RawDir == "" {
		a.Paths.RawDir = "data/raw"
	}
	if a.Paths.ProcessedDir == "" {
		a.Paths.ProcessedDir = "data/processed"
	}
	if a.Storage.DB.BatchSize <= 0 {
		a.Storage.DB.BatchSize = 5000
	}
	if a.Logging.Level == "" {
		a.Logging.Level = "info"
	}
	if a.Logging.Format == "" {
		a.Logging.Format = "console"
	}
	return a
}
