package goCrypt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/MrEthical07/goCrypt/internal"
)

const minKeyBytes = internal.MinKeySize

// Config defines a public type used by goCrypt APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Password PasswordConfig
	Token    TokenConfig
	Offload  OffloadConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the password key and the Argon2id cost of the
// default scheme.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Key            []byte
	Memory         uint32
	Time           uint32
	Parallelism    uint8
	KeyLength      uint32
	UpgradeOnLogin bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig holds the token key and the default token lifetime.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	Key      []byte
	Duration time.Duration
}

/*
====================================
OFFLOAD CONFIG
====================================
*/

// OffloadConfig bounds concurrent hash and validate work. Zero workers
// means GOMAXPROCS.
type OffloadConfig struct {
	Workers int
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goCrypt APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goCrypt APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns every setting except the keys.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Memory:         19456,
			Time:           2,
			Parallelism:    1,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		Token: TokenConfig{
			Duration: 30 * time.Minute,
		},
		Offload: OffloadConfig{
			Workers: 0,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Password.Key = cloneBytes(cfg.Password.Key)
	out.Token.Key = cloneBytes(cfg.Token.Key)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate returns [ErrConfigMissingKey] for an absent key, [ErrConfigKeysEqual]
// when both keys match, and [ErrConfigInvalid] wrapping the first invalid
// field otherwise.
func (c *Config) Validate() error {
	// Keys
	if len(c.Password.Key) == 0 {
		return fmt.Errorf("%w: password key", ErrConfigMissingKey)
	}
	if len(c.Token.Key) == 0 {
		return fmt.Errorf("%w: token key", ErrConfigMissingKey)
	}
	if len(c.Password.Key) < minKeyBytes {
		return fmt.Errorf("%w: password key must be >= %d bytes", ErrConfigInvalid, minKeyBytes)
	}
	if len(c.Token.Key) < minKeyBytes {
		return fmt.Errorf("%w: token key must be >= %d bytes", ErrConfigInvalid, minKeyBytes)
	}
	if bytes.Equal(c.Password.Key, c.Token.Key) {
		return ErrConfigKeysEqual
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return fmt.Errorf("%w: password memory must be >= 8192 KB", ErrConfigInvalid)
	}
	if c.Password.Time < 1 {
		return fmt.Errorf("%w: password time must be >= 1", ErrConfigInvalid)
	}
	if c.Password.Parallelism < 1 {
		return fmt.Errorf("%w: password parallelism must be >= 1", ErrConfigInvalid)
	}
	if c.Password.KeyLength < 16 {
		return fmt.Errorf("%w: password key length must be >= 16", ErrConfigInvalid)
	}

	// Token
	if c.Token.Duration <= 0 {
		return fmt.Errorf("%w: token duration must be > 0", ErrConfigInvalid)
	}

	// Offload
	if c.Offload.Workers < 0 {
		return fmt.Errorf("%w: offload workers must be >= 0", ErrConfigInvalid)
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: audit buffer size must be > 0", ErrConfigInvalid)
	}

	return nil
}
