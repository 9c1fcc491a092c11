package goCrypt

import (
	"context"
	"errors"

	"github.com/MrEthical07/goCrypt/password"
	"go.uber.org/zap"
)

// Login returns [ErrInvalidCredentials] for both an unknown username and a
// wrong password; the precise cause is only visible in audit events and logs.
// When the stored credential was produced by an older scheme, Login re-hashes
// the password with the default scheme and stores it. A failed upgrade is
// logged and does not fail the login.
func (e *Engine) Login(ctx context.Context, username, pwd string) (*LoginResult, error) {
	if e == nil || e.hasher == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.userProvider.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", username, err, nil)
			return nil, err
		}
		return nil, e.loginFailed(ctx, "", username, err)
	}

	status, err := e.ValidatePassword(ctx, pwd, user.PasswordSalt, user.PasswordHash)
	if err != nil {
		if errors.Is(err, password.ErrFailSpawnBlockForValidate) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, username, err, nil)
			return nil, err
		}
		if !errors.Is(err, password.ErrPwdValidate) {
			// A stored credential that cannot be read is an operator problem.
			e.log().Error("stored credential unusable",
				zap.String("user_id", user.UserID),
				zap.Error(err),
			)
		}
		return nil, e.loginFailed(ctx, user.UserID, username, err)
	}

	upgraded := false
	if status == password.Outdated && e.config.Password.UpgradeOnLogin {
		upgraded = e.upgradePassword(ctx, user, pwd)
	}

	tok, exp, err := e.issue(user)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, username, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, username, nil, func() map[string]string {
		return map[string]string{
			"scheme_status": status.String(),
		}
	})

	return &LoginResult{
		UserID:    user.UserID,
		Username:  user.Username,
		Token:     tok,
		ExpiresAt: exp,
		Upgraded:  upgraded,
	}, nil
}

func (e *Engine) loginFailed(ctx context.Context, userID, username string, cause error) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, userID, username, cause, nil)
	e.log().Debug("login rejected",
		zap.String("username", username),
		zap.String("reason", string(auditErrorCode(cause))),
	)
	return ErrInvalidCredentials
}

// upgradePassword is best effort. The caller already proved the password.
func (e *Engine) upgradePassword(ctx context.Context, user UserRecord, pwd string) bool {
	oldScheme, _, _ := password.ParseStored(user.PasswordHash)

	fail := func(err error) bool {
		e.metricInc(MetricPasswordUpgradeFailed)
		e.emitAudit(ctx, auditEventPasswordUpgradeFailed, false, user.UserID, user.Username, err, nil)
		e.log().Warn("password upgrade failed",
			zap.String("user_id", user.UserID),
			zap.String("from_scheme", oldScheme),
			zap.Error(err),
		)
		return false
	}

	stored, err := e.HashPassword(ctx, pwd, user.PasswordSalt)
	if err != nil {
		return fail(err)
	}
	if err := e.userProvider.UpdatePasswordHash(ctx, user.UserID, stored); err != nil {
		return fail(err)
	}

	e.metricInc(MetricPasswordUpgraded)
	e.emitAudit(ctx, auditEventPasswordUpgraded, true, user.UserID, user.Username, nil, func() map[string]string {
		return map[string]string{
			"from_scheme": oldScheme,
			"to_scheme":   password.DefaultScheme,
		}
	})
	e.log().Info("password upgraded",
		zap.String("user_id", user.UserID),
		zap.String("from_scheme", oldScheme),
		zap.String("to_scheme", password.DefaultScheme),
	)
	return true
}
