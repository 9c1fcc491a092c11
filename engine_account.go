package goCrypt

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUser draws fresh password and token salts, hashes pwd with the
// default scheme and hands the record to the UserProvider.
// CreateUser may return [ErrAccountCreationInvalid], [ErrAccountExists], a
// password pipeline error or a UserProvider failure.
func (e *Engine) CreateUser(ctx context.Context, username, pwd string) (UserRecord, error) {
	if e == nil || e.hasher == nil || e.userProvider == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	if username == "" || pwd == "" {
		reason := "empty_username"
		if username != "" {
			reason = "empty_password"
		}
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, "", username, ErrAccountCreationInvalid, func() map[string]string {
			return map[string]string{
				"reason": reason,
			}
		})
		return UserRecord{}, ErrAccountCreationInvalid
	}

	passwordSalt := uuid.New()
	stored, err := e.HashPassword(ctx, pwd, passwordSalt)
	if err != nil {
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, "", username, err, nil)
		return UserRecord{}, err
	}

	created, err := e.userProvider.CreateUser(ctx, CreateUserInput{
		Username:     username,
		PasswordHash: stored,
		PasswordSalt: passwordSalt,
		TokenSalt:    uuid.New(),
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			e.metricInc(MetricAccountCreationDuplicate)
		}
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, "", username, err, nil)
		return UserRecord{}, err
	}

	e.metricInc(MetricAccountCreationSuccess)
	e.emitAudit(ctx, auditEventAccountCreated, true, created.UserID, created.Username, nil, nil)

	return created, nil
}

// UpdatePassword replaces the stored credential of userID with a default
// scheme hash of newPassword. The password salt of the record is kept.
// Outstanding tokens stay valid; call [Engine.RevokeTokens] to end them.
func (e *Engine) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if e == nil || e.hasher == nil || e.userProvider == nil {
		return ErrEngineNotReady
	}
	if newPassword == "" {
		return ErrAccountCreationInvalid
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	stored, err := e.HashPassword(ctx, newPassword, user.PasswordSalt)
	if err != nil {
		return err
	}
	if err := e.userProvider.UpdatePasswordHash(ctx, user.UserID, stored); err != nil {
		return err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChanged, true, user.UserID, user.Username, nil, nil)
	return nil
}

// RevokeTokens rotates the token salt of userID, which invalidates the
// signature of every token issued before the call.
func (e *Engine) RevokeTokens(ctx context.Context, userID string) error {
	if e == nil || e.userProvider == nil {
		return ErrEngineNotReady
	}

	if err := e.userProvider.RotateTokenSalt(ctx, userID, uuid.New()); err != nil {
		return err
	}

	e.metricInc(MetricTokensRevoked)
	e.emitAudit(ctx, auditEventTokensRevoked, true, userID, "", nil, nil)
	e.log().Info("tokens revoked", zap.String("user_id", userID))
	return nil
}
