package goCrypt

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/MrEthical07/goCrypt/internal"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// envConfig is the SERVICE_* environment surface.
type envConfig struct {
	PwdKey           string `env:"SERVICE_PWD_KEY"`
	TokenKey         string `env:"SERVICE_TOKEN_KEY"`
	TokenDurationSec int64  `env:"SERVICE_TOKEN_DURATION_SEC" env-default:"1800"`
	HashWorkers      int    `env:"SERVICE_HASH_WORKERS" env-default:"0"`
	AuditEnabled     bool   `env:"SERVICE_AUDIT_ENABLED" env-default:"false"`
	MetricsEnabled   bool   `env:"SERVICE_METRICS_ENABLED" env-default:"false"`
}

// LoadConfigFromEnv builds a validated Config from SERVICE_* environment
// variables. Each envFile that exists is loaded first; variables already set
// in the process environment win.
func LoadConfigFromEnv(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: load %s: %v", ErrConfigInvalid, f, err)
		}
	}

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	pwdKey, err := decodeKey("SERVICE_PWD_KEY", env.PwdKey)
	if err != nil {
		return Config{}, err
	}
	tokenKey, err := decodeKey("SERVICE_TOKEN_KEY", env.TokenKey)
	if err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	cfg.Password.Key = pwdKey
	cfg.Token.Key = tokenKey
	cfg.Token.Duration = time.Duration(env.TokenDurationSec) * time.Second
	cfg.Offload.Workers = env.HashWorkers
	cfg.Audit.Enabled = env.AuditEnabled
	cfg.Metrics.Enabled = env.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = env.MetricsEnabled

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeKey(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigMissingKey, name)
	}
	key, err := internal.DecodeKey(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigKeyNotB64u, name)
	}
	return key, nil
}
