package goCrypt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/goCrypt/password"
	"github.com/MrEthical07/goCrypt/token"
	"github.com/google/uuid"
)

func TestCreateUserAndLogin(t *testing.T) {
	up := newMemProvider()
	engine := newTestEngine(t, up)
	ctx := context.Background()

	created, err := engine.CreateUser(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !strings.HasPrefix(created.PasswordHash, "#"+password.DefaultScheme+"#") {
		t.Fatalf("expected default scheme hash, got %q", created.PasswordHash)
	}
	if created.PasswordSalt == created.TokenSalt {
		t.Fatal("password and token salts must differ")
	}

	res, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.UserID != created.UserID || res.Username != "alice" || res.Upgraded {
		t.Fatalf("unexpected login result %+v", res)
	}

	tok, err := token.Parse(res.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if tok.Ident != "alice" {
		t.Fatalf("unexpected token ident %q", tok.Ident)
	}
}

func TestCreateUserInvalidAndDuplicate(t *testing.T) {
	engine := newTestEngine(t, newMemProvider())
	ctx := context.Background()

	if _, err := engine.CreateUser(ctx, "", "pw"); !errors.Is(err, ErrAccountCreationInvalid) {
		t.Fatalf("expected ErrAccountCreationInvalid for empty username, got %v", err)
	}
	if _, err := engine.CreateUser(ctx, "bob", ""); !errors.Is(err, ErrAccountCreationInvalid) {
		t.Fatalf("expected ErrAccountCreationInvalid for empty password, got %v", err)
	}
	if _, err := engine.CreateUser(ctx, "bob", "pw"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := engine.CreateUser(ctx, "bob", "pw"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricAccountCreationSuccess] != 1 || snap.Counters[MetricAccountCreationDuplicate] != 1 {
		t.Fatalf("unexpected account counters %+v", snap.Counters)
	}
}

func TestLoginUnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	engine := newTestEngine(t, newMemProvider())
	ctx := context.Background()

	if _, err := engine.CreateUser(ctx, "alice", "correct-horse"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, errUnknown := engine.Login(ctx, "mallory", "correct-horse")
	_, errWrong := engine.Login(ctx, "alice", "wrong-horse")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", errUnknown, errWrong)
	}
	if got := engine.MetricsSnapshot().Counters[MetricLoginFailure]; got != 2 {
		t.Fatalf("expected 2 login failures, got %d", got)
	}
}

type failingLookupProvider struct {
	*memProvider
}

func (failingLookupProvider) GetUserByUsername(context.Context, string) (UserRecord, error) {
	return UserRecord{}, errBackend
}

func TestLoginPropagatesBackendError(t *testing.T) {
	engine := newTestEngine(t, failingLookupProvider{newMemProvider()})

	_, err := engine.Login(context.Background(), "alice", "pw")
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestLoginUpgradesOutdatedScheme(t *testing.T) {
	up := newMemProvider()
	engine := newTestEngine(t, up)
	ctx := context.Background()

	salt := uuid.New()
	old, err := engine.hasher.HashWithScheme(ctx, "01", password.ContentToHash{Content: "correct-horse", Salt: salt})
	if err != nil {
		t.Fatalf("HashWithScheme failed: %v", err)
	}
	up.put(UserRecord{
		UserID:       "u-1",
		Username:     "alice",
		PasswordHash: old,
		PasswordSalt: salt,
		TokenSalt:    uuid.New(),
	})

	res, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !res.Upgraded {
		t.Fatal("expected upgrade")
	}

	stored := up.get("u-1").PasswordHash
	id, _, err := password.ParseStored(stored)
	if err != nil || id != password.DefaultScheme {
		t.Fatalf("expected stored hash with scheme %s, got %q (%v)", password.DefaultScheme, stored, err)
	}

	status, err := engine.ValidatePassword(ctx, "correct-horse", salt, stored)
	if err != nil || status != password.UpToDate {
		t.Fatalf("expected up-to-date credential, got %v (%v)", status, err)
	}

	res, err = engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if res.Upgraded {
		t.Fatal("second login must not upgrade again")
	}
	if got := engine.MetricsSnapshot().Counters[MetricPasswordUpgraded]; got != 1 {
		t.Fatalf("expected 1 upgrade, got %d", got)
	}
}

func TestLoginUpgradeFailureDoesNotFailLogin(t *testing.T) {
	up := newMemProvider()
	up.updateErr = errBackend
	engine := newTestEngine(t, up)
	ctx := context.Background()

	salt := uuid.New()
	old, err := engine.hasher.HashWithScheme(ctx, "03", password.ContentToHash{Content: "pw", Salt: salt})
	if err != nil {
		t.Fatalf("HashWithScheme failed: %v", err)
	}
	up.put(UserRecord{UserID: "u-1", Username: "alice", PasswordHash: old, PasswordSalt: salt, TokenSalt: uuid.New()})

	res, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Upgraded {
		t.Fatal("upgrade must be reported as not done")
	}
	if up.get("u-1").PasswordHash != old {
		t.Fatal("stored hash must be unchanged")
	}
	if got := engine.MetricsSnapshot().Counters[MetricPasswordUpgradeFailed]; got != 1 {
		t.Fatalf("expected 1 failed upgrade, got %d", got)
	}
}

func TestLoginUpgradeDisabled(t *testing.T) {
	up := newMemProvider()
	cfg := testConfig()
	cfg.Password.UpgradeOnLogin = false
	engine := newTestEngine(t, up, func(b *Builder) { b.WithConfig(cfg) })
	ctx := context.Background()

	salt := uuid.New()
	old, err := engine.hasher.HashWithScheme(ctx, "01", password.ContentToHash{Content: "pw", Salt: salt})
	if err != nil {
		t.Fatalf("HashWithScheme failed: %v", err)
	}
	up.put(UserRecord{UserID: "u-1", Username: "alice", PasswordHash: old, PasswordSalt: salt, TokenSalt: uuid.New()})

	res, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Upgraded || up.updates != 0 {
		t.Fatal("upgrade must be skipped")
	}
}

func TestLoginUnreadableStoredCredential(t *testing.T) {
	up := newMemProvider()
	engine := newTestEngine(t, up)

	up.put(UserRecord{UserID: "u-1", Username: "alice", PasswordHash: "plaintext", PasswordSalt: uuid.New(), TokenSalt: uuid.New()})
	up.put(UserRecord{UserID: "u-2", Username: "bob", PasswordHash: "#99#zzz", PasswordSalt: uuid.New(), TokenSalt: uuid.New()})

	for _, name := range []string{"alice", "bob"} {
		if _, err := engine.Login(context.Background(), name, "pw"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthenticateReissuesToken(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, newMemProvider(), withClock(clock))
	ctx := context.Background()

	if _, err := engine.CreateUser(ctx, "alice", "pw"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	clock.Advance(10 * time.Minute)

	res, err := engine.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if res.Username != "alice" || res.UserID != login.UserID {
		t.Fatalf("unexpected auth result %+v", res)
	}
	if !res.ExpiresAt.After(login.ExpiresAt) {
		t.Fatalf("expected sliding expiration, got %s then %s", login.ExpiresAt, res.ExpiresAt)
	}
	if !res.ExpiresAt.Equal(clock.Now().Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiration %s", res.ExpiresAt)
	}
	if _, err := engine.Authenticate(ctx, res.Token); err != nil {
		t.Fatalf("reissued token rejected: %v", err)
	}
}

func TestAuthenticateErrors(t *testing.T) {
	clock := newFakeClock()
	up := newMemProvider()
	engine := newTestEngine(t, up, withClock(clock))
	ctx := context.Background()

	created, err := engine.CreateUser(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	tok, err := token.Parse(login.Token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tampered := tok
	tampered.SignB64u = strings.Repeat("A", len(tok.SignB64u))

	ghost := tok
	ghost.Ident = "ghost"

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "wrong format", token: "only.two", want: ErrTokenWrongFormat},
		{name: "bad base64", token: "!!!.ZQ.sig", want: ErrTokenWrongFormat},
		{name: "unknown user", token: ghost.String(), want: ErrUserNotFound},
		{name: "bad signature", token: tampered.String(), want: ErrTokenInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Authenticate(ctx, tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	clock.Advance(31 * time.Minute)
	_, err = engine.Authenticate(ctx, login.Token)
	if !errors.Is(err, ErrTokenExpired) || !errors.Is(err, token.ErrExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, ErrTokenInvalid) {
		t.Fatal("expired must not be reported as invalid")
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricTokenExpired] != 1 {
		t.Fatalf("expected 1 expired token, got %d", snap.Counters[MetricTokenExpired])
	}
	if snap.Counters[MetricAuthenticateFailure] != uint64(len(tests)+1) {
		t.Fatalf("unexpected failure count %d", snap.Counters[MetricAuthenticateFailure])
	}
	_ = created
}

func TestAuthenticateSignatureCheckedBeforeExpiration(t *testing.T) {
	clock := newFakeClock()
	up := newMemProvider()
	engine := newTestEngine(t, up, withClock(clock))
	ctx := context.Background()

	if _, err := engine.CreateUser(ctx, "alice", "pw"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	tok, _ := token.Parse(login.Token)
	tok.Exp = "not-a-date"

	_, err = engine.Authenticate(ctx, tok.String())
	if !errors.Is(err, token.ErrSignatureNotMatching) {
		t.Fatalf("expected signature error first, got %v", err)
	}
}

func TestRevokeTokens(t *testing.T) {
	up := newMemProvider()
	engine := newTestEngine(t, up)
	ctx := context.Background()

	created, err := engine.CreateUser(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.RevokeTokens(ctx, created.UserID); err != nil {
		t.Fatalf("RevokeTokens failed: %v", err)
	}
	if up.get(created.UserID).TokenSalt == created.TokenSalt {
		t.Fatal("token salt must rotate")
	}

	_, err = engine.Authenticate(ctx, login.Token)
	if !errors.Is(err, ErrTokenInvalid) || !errors.Is(err, token.ErrSignatureNotMatching) {
		t.Fatalf("expected revoked token to fail signature, got %v", err)
	}

	if err := engine.RevokeTokens(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	up := newMemProvider()
	engine := newTestEngine(t, up)
	ctx := context.Background()

	created, err := engine.CreateUser(ctx, "alice", "old-pw")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := engine.UpdatePassword(ctx, created.UserID, "new-pw"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice", "old-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must fail, got %v", err)
	}
	if _, err := engine.Login(ctx, "alice", "new-pw"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if up.get(created.UserID).PasswordSalt != created.PasswordSalt {
		t.Fatal("password salt must not change")
	}

	if err := engine.UpdatePassword(ctx, created.UserID, ""); !errors.Is(err, ErrAccountCreationInvalid) {
		t.Fatalf("expected ErrAccountCreationInvalid, got %v", err)
	}
	if err := engine.UpdatePassword(ctx, "missing", "pw"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHashPasswordAfterCloseReportsSpawnFailure(t *testing.T) {
	engine := newTestEngine(t, newMemProvider())
	engine.Close()

	_, err := engine.HashPassword(context.Background(), "pw", uuid.New())
	if !errors.Is(err, password.ErrFailSpawnBlockForHash) {
		t.Fatalf("expected ErrFailSpawnBlockForHash, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricOffloadFailure]; got != 1 {
		t.Fatalf("expected 1 offload failure, got %d", got)
	}
}

func TestValidatePasswordCancelledContext(t *testing.T) {
	engine := newTestEngine(t, newMemProvider())
	ctx := context.Background()
	salt := uuid.New()

	stored, err := engine.HashPassword(ctx, "pw", salt)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = engine.ValidatePassword(cancelled, "pw", salt, stored)
	if !errors.Is(err, password.ErrFailSpawnBlockForValidate) {
		t.Fatalf("expected ErrFailSpawnBlockForValidate, got %v", err)
	}
}

func TestNilEngine(t *testing.T) {
	var e *Engine
	if _, err := e.Login(context.Background(), "a", "b"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := e.Authenticate(context.Background(), "a.b.c"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if e.AuditDropped() != 0 {
		t.Fatal("expected zero drops")
	}
	e.Close()
}

func TestZeroEngine(t *testing.T) {
	e := &Engine{}
	ctx := context.Background()

	if _, err := e.HashPassword(ctx, "pw", uuid.New()); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := e.Login(ctx, "a", "b"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if err := e.RevokeTokens(ctx, "id"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if got := e.MetricsSnapshot(); len(got.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %v", got.Counters)
	}
	e.noteOffloadFailure(password.ErrFailSpawnBlockForHash)
	e.Close()
	e.Close()
}
