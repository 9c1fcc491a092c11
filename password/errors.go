package password

import "errors"

var (
	// ErrPwdWithSchemeFailedToParse is returned when a stored credential does not match #<id>#<payload>.
	ErrPwdWithSchemeFailedToParse = errors.New("password: stored credential failed to parse")
	// ErrSchemeNotFound is returned when a scheme id is not registered.
	ErrSchemeNotFound = errors.New("password: scheme not found")
	// ErrPwdValidate is returned when the password does not match the stored credential.
	ErrPwdValidate = errors.New("password: validation failed")
	// ErrHashFormat is returned when a scheme payload cannot be decoded.
	ErrHashFormat = errors.New("password: invalid hash format")
	// ErrEmptyKey is returned when the hasher is built without a password key.
	ErrEmptyKey = errors.New("password: empty password key")
	// ErrInvalidArgon2Config is returned for unusable Argon2 parameters.
	ErrInvalidArgon2Config = errors.New("password: invalid argon2 config")
	// ErrFailSpawnBlockForHash is returned when hashing work could not be run.
	ErrFailSpawnBlockForHash = errors.New("password: failed to spawn block for hash")
	// ErrFailSpawnBlockForValidate is returned when validation work could not be run.
	ErrFailSpawnBlockForValidate = errors.New("password: failed to spawn block for validate")
)
