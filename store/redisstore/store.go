package redisstore

import (
	"context"
	"errors"
	"fmt"

	goCrypt "github.com/MrEthical07/goCrypt"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	fieldUsername     = "username"
	fieldPasswordHash = "pwd_hash"
	fieldPasswordSalt = "pwd_salt"
	fieldTokenSalt    = "token_salt"
)

var (
	// ErrRedisUnavailable wraps Redis transport and script failures.
	ErrRedisUnavailable = errors.New("redisstore: redis unavailable")
	// ErrCorruptRecord is returned when a stored record misses a field or holds an unparsable salt.
	ErrCorruptRecord = errors.New("redisstore: corrupt user record")
)

// createUserLua inserts the username index and the record in one step.
// KEYS[1] = username key
// KEYS[2] = user key
// ARGV[1] = user id
// ARGV[2..] = field/value pairs
var createUserLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return {err='exists'}
end
redis.call('SET', KEYS[1], ARGV[1])
for i = 2, #ARGV, 2 do
  redis.call('HSET', KEYS[2], ARGV[i], ARGV[i+1])
end
return 1
`)

// setFieldLua updates one field of an existing record.
// KEYS[1] = user key
// ARGV[1] = field
// ARGV[2] = value
var setFieldLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {err='not_found'}
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// Store is a goCrypt.UserProvider backed by Redis.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

var _ goCrypt.UserProvider = (*Store)(nil)

// New returns a Store using client. An empty prefix defaults to "gcu".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "gcu"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

func (s *Store) usernameKey(username string) string {
	return s.prefix + ":username:" + username
}

// GetUserByUsername returns goCrypt.ErrUserNotFound for an unknown username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (goCrypt.UserRecord, error) {
	userID, err := s.redis.Get(ctx, s.usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return goCrypt.UserRecord{}, goCrypt.ErrUserNotFound
		}
		return goCrypt.UserRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return s.GetUserByID(ctx, userID)
}

// GetUserByID returns goCrypt.ErrUserNotFound for an unknown id.
func (s *Store) GetUserByID(ctx context.Context, userID string) (goCrypt.UserRecord, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return goCrypt.UserRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return goCrypt.UserRecord{}, goCrypt.ErrUserNotFound
	}
	return decodeRecord(userID, fields)
}

// CreateUser assigns a random id. It returns goCrypt.ErrAccountExists when
// the username is taken.
func (s *Store) CreateUser(ctx context.Context, input goCrypt.CreateUserInput) (goCrypt.UserRecord, error) {
	userID := uuid.NewString()

	err := createUserLua.Run(ctx, s.redis,
		[]string{s.usernameKey(input.Username), s.userKey(userID)},
		userID,
		fieldUsername, input.Username,
		fieldPasswordHash, input.PasswordHash,
		fieldPasswordSalt, input.PasswordSalt.String(),
		fieldTokenSalt, input.TokenSalt.String(),
	).Err()
	if err != nil {
		if err.Error() == "exists" {
			return goCrypt.UserRecord{}, goCrypt.ErrAccountExists
		}
		return goCrypt.UserRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return goCrypt.UserRecord{
		UserID:       userID,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		PasswordSalt: input.PasswordSalt,
		TokenSalt:    input.TokenSalt,
	}, nil
}

// UpdatePasswordHash replaces the stored credential string of userID.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return s.setField(ctx, userID, fieldPasswordHash, newHash)
}

// RotateTokenSalt replaces the token salt of userID.
func (s *Store) RotateTokenSalt(ctx context.Context, userID string, newSalt uuid.UUID) error {
	return s.setField(ctx, userID, fieldTokenSalt, newSalt.String())
}

func (s *Store) setField(ctx context.Context, userID, field, value string) error {
	err := setFieldLua.Run(ctx, s.redis, []string{s.userKey(userID)}, field, value).Err()
	if err != nil {
		if err.Error() == "not_found" {
			return goCrypt.ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func decodeRecord(userID string, fields map[string]string) (goCrypt.UserRecord, error) {
	username, ok := fields[fieldUsername]
	if !ok {
		return goCrypt.UserRecord{}, fmt.Errorf("%w: missing %s", ErrCorruptRecord, fieldUsername)
	}
	passwordHash, ok := fields[fieldPasswordHash]
	if !ok {
		return goCrypt.UserRecord{}, fmt.Errorf("%w: missing %s", ErrCorruptRecord, fieldPasswordHash)
	}
	passwordSalt, err := uuid.Parse(fields[fieldPasswordSalt])
	if err != nil {
		return goCrypt.UserRecord{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, fieldPasswordSalt, err)
	}
	tokenSalt, err := uuid.Parse(fields[fieldTokenSalt])
	if err != nil {
		return goCrypt.UserRecord{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, fieldTokenSalt, err)
	}

	return goCrypt.UserRecord{
		UserID:       userID,
		Username:     username,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		TokenSalt:    tokenSalt,
	}, nil
}
