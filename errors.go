package goCrypt

import "errors"

var (
	// ErrConfigMissingKey is returned when a required key is absent from configuration.
	ErrConfigMissingKey = errors.New("config: missing key")
	// ErrConfigKeyNotB64u is returned when a configured key is not base64url without padding.
	ErrConfigKeyNotB64u = errors.New("config: key is not base64url")
	// ErrConfigKeysEqual is returned when the password key and the token key are identical.
	ErrConfigKeysEqual = errors.New("config: password key and token key must differ")
	// ErrConfigInvalid is returned for any other invalid configuration value.
	ErrConfigInvalid = errors.New("config: invalid")

	// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by a UserProvider for an unknown user and by Authenticate for a token whose owner is gone.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is returned by a UserProvider when the username is taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountCreationInvalid is returned for an empty username or password.
	ErrAccountCreationInvalid = errors.New("invalid account creation request")
	// ErrTokenWrongFormat is returned when a token string cannot be decoded.
	ErrTokenWrongFormat = errors.New("token wrong format")
	// ErrTokenInvalid is returned when a token's signature or expiration is not valid.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned when a correctly signed token has expired.
	ErrTokenExpired = errors.New("token expired")
	// ErrEngineNotReady is returned when the engine was not built.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUserProviderRequired is returned by Build without a UserProvider.
	ErrUserProviderRequired = errors.New("user provider required")
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
)
