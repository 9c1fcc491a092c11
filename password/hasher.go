package password

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/MrEthical07/goCrypt/internal/offload"
)

var storedPattern = regexp.MustCompile(`^#(\w+)#(.*)`)

// Config defines the password key and execution settings of a [Hasher].
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Key is the process-wide password key. It must not be empty.
	Key []byte
	// Argon2 holds the "02" cost parameters. Zero value means DefaultArgon2Config.
	Argon2 Argon2Config
	// Workers bounds concurrent hash and validate work. Zero means GOMAXPROCS.
	Workers int
}

// Hasher runs the versioned credential pipeline.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	s01  *scheme01
	s02  *scheme02
	s03  *scheme03
	pool *offload.Pool
}

// NewHasher derives the per-scheme key state once and starts the offload
// pool. Errors are startup errors.
func NewHasher(cfg Config) (*Hasher, error) {
	if len(cfg.Key) == 0 {
		return nil, ErrEmptyKey
	}
	if cfg.Argon2 == (Argon2Config{}) {
		cfg.Argon2 = DefaultArgon2Config()
	}

	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)

	s02, err := newScheme02(key, cfg.Argon2)
	if err != nil {
		return nil, err
	}

	return &Hasher{
		s01:  &scheme01{key: key},
		s02:  s02,
		s03:  newScheme03(key),
		pool: offload.NewPool(offload.Config{Workers: cfg.Workers}),
	}, nil
}

// Hash hashes c with DefaultScheme and returns "#<DefaultScheme>#<output>".
func (h *Hasher) Hash(ctx context.Context, c ContentToHash) (string, error) {
	return h.HashWithScheme(ctx, DefaultScheme, c)
}

// HashWithScheme hashes c with the scheme registered under id.
func (h *Hasher) HashWithScheme(ctx context.Context, id string, c ContentToHash) (string, error) {
	scheme, err := h.Scheme(id)
	if err != nil {
		return "", err
	}

	out, err := offload.Run(ctx, h.pool, func() (string, error) {
		return scheme.Hash(c)
	})
	if err != nil {
		if isSpawnFailure(err) {
			return "", fmt.Errorf("%w: %w", ErrFailSpawnBlockForHash, err)
		}
		return "", err
	}

	return "#" + id + "#" + out, nil
}

// Validate checks c against stored. The status is only meaningful when the
// error is nil.
func (h *Hasher) Validate(ctx context.Context, c ContentToHash, stored string) (SchemeStatus, error) {
	id, payload, err := ParseStored(stored)
	if err != nil {
		return Outdated, err
	}

	status := Outdated
	if id == DefaultScheme {
		status = UpToDate
	}

	scheme, err := h.Scheme(id)
	if err != nil {
		return Outdated, err
	}

	_, err = offload.Run(ctx, h.pool, func() (struct{}, error) {
		return struct{}{}, scheme.Validate(c, payload)
	})
	if err != nil {
		if isSpawnFailure(err) {
			return Outdated, fmt.Errorf("%w: %w", ErrFailSpawnBlockForValidate, err)
		}
		return Outdated, err
	}

	return status, nil
}

// Close stops accepting work and waits for running work to finish.
func (h *Hasher) Close() {
	if h == nil {
		return
	}
	h.pool.Close()
}

// ParseStored splits "#<id>#<payload>" into its parts.
func ParseStored(stored string) (id, payload string, err error) {
	m := storedPattern.FindStringSubmatch(stored)
	if m == nil {
		return "", "", ErrPwdWithSchemeFailedToParse
	}
	return m[1], m[2], nil
}

func isSpawnFailure(err error) bool {
	return errors.Is(err, offload.ErrClosed) ||
		errors.Is(err, offload.ErrCancelled) ||
		errors.Is(err, offload.ErrPanicked)
}
