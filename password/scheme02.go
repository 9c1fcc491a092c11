package password

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/MrEthical07/goCrypt/internal/argon2key"
	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength         = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"
)

// maxStoredMemoryKB bounds the memory a stored "02" string may request (1 GiB).
const maxStoredMemoryKB uint32 = 1 << 20

// Argon2Config defines the cost parameters of scheme "02".
//
// Argon2Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Argon2Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultArgon2Config returns the parameters used for new "02" hashes:
// 19 MiB, two passes, one lane, 32-byte output.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      19456,
		Time:        2,
		Parallelism: 1,
		KeyLength:   32,
	}
}

var strictB64 = base64.RawStdEncoding.Strict()

type scheme02 struct {
	secret []byte
	config Argon2Config
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func newScheme02(secret []byte, cfg Argon2Config) (*scheme02, error) {
	if err := validateArgon2Config(cfg); err != nil {
		return nil, err
	}
	return &scheme02{secret: secret, config: cfg}, nil
}

func (s *scheme02) Hash(c ContentToHash) (string, error) {
	hash, err := argon2key.IDKey([]byte(c.Content), c.Salt[:], s.secret, nil, argon2key.Params{
		Memory:  s.config.Memory,
		Time:    s.config.Time,
		Threads: s.config.Parallelism,
		KeyLen:  s.config.KeyLength,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		s.config.Memory,
		s.config.Time,
		s.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(c.Salt[:]),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Validate re-derives with the parameters and salt recorded in ref. A ref
// that is not a valid PHC string counts as a mismatch.
func (s *scheme02) Validate(c ContentToHash, ref string) error {
	parsed, err := parsePHC(ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPwdValidate, err)
	}

	computed, err := argon2key.IDKey([]byte(c.Content), parsed.salt, s.secret, nil, argon2key.Params{
		Memory:  parsed.memory,
		Time:    parsed.time,
		Threads: parsed.parallelism,
		KeyLen:  uint32(len(parsed.hash)),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPwdValidate, err)
	}

	if subtle.ConstantTimeCompare(computed, parsed.hash) != 1 {
		return ErrPwdValidate
	}
	return nil
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: invalid PHC format", ErrHashFormat)
	}

	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: unsupported algorithm", ErrHashFormat)
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return nil, fmt.Errorf("%w: missing argon2 version", ErrHashFormat)
	}

	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid argon2 version", ErrHashFormat)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version", ErrHashFormat)
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := strictB64.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrHashFormat)
	}
	if len(salt) < minSaltLength {
		return nil, fmt.Errorf("%w: invalid salt length", ErrHashFormat)
	}

	hash, err := strictB64.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hash encoding", ErrHashFormat)
	}
	if uint32(len(hash)) < minKeyLength {
		return nil, fmt.Errorf("%w: invalid hash length", ErrHashFormat)
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        hash,
	}, nil
}

type parsedParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(part string) (*parsedParams, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, fmt.Errorf("%w: invalid parameter format", ErrHashFormat)
	}

	var (
		memorySet, timeSet, parallelismSet bool
		params                             parsedParams
	)

	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: invalid parameter entry", ErrHashFormat)
		}

		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v > uint64(maxStoredMemoryKB) {
				return nil, fmt.Errorf("%w: invalid memory parameter", ErrHashFormat)
			}
			params.memory = uint32(v)
			memorySet = true
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(minTimeCost) {
				return nil, fmt.Errorf("%w: invalid time parameter", ErrHashFormat)
			}
			params.time = uint32(v)
			timeSet = true
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil || v < uint64(minParallelism) {
				return nil, fmt.Errorf("%w: invalid parallelism parameter", ErrHashFormat)
			}
			params.parallelism = uint8(v)
			parallelismSet = true
		default:
			return nil, fmt.Errorf("%w: unsupported parameter", ErrHashFormat)
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return nil, fmt.Errorf("%w: missing parameters", ErrHashFormat)
	}
	// Stored strings follow the Argon2 lower bound of 8 KiB per lane. The
	// 8 MiB floor of minMemoryKB only applies to newly created hashes.
	if params.memory < 8*uint32(params.parallelism) {
		return nil, fmt.Errorf("%w: invalid memory parameter", ErrHashFormat)
	}

	return &params, nil
}

func validateArgon2Config(cfg Argon2Config) error {
	if cfg.Memory < minMemoryKB {
		return fmt.Errorf("%w: memory must be >= 8192 KB", ErrInvalidArgon2Config)
	}
	if cfg.Time < minTimeCost {
		return fmt.Errorf("%w: time must be >= 1", ErrInvalidArgon2Config)
	}
	if cfg.Parallelism < minParallelism {
		return fmt.Errorf("%w: parallelism must be >= 1", ErrInvalidArgon2Config)
	}
	if cfg.KeyLength < minKeyLength {
		return fmt.Errorf("%w: key length must be >= 16", ErrInvalidArgon2Config)
	}
	return nil
}

