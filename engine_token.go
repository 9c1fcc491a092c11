package goCrypt

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCrypt/token"
)

// Authenticate decodes tokenString, loads the owner named by the token and
// validates the signature against the owner's token salt before checking
// expiration. On success the result carries a freshly issued token.
// Errors are [ErrTokenWrongFormat], [ErrUserNotFound], [ErrTokenInvalid],
// [ErrTokenExpired], or a UserProvider failure.
func (e *Engine) Authenticate(ctx context.Context, tokenString string) (*AuthResult, error) {
	if e == nil || e.issuer == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	tok, err := token.Parse(tokenString)
	if err != nil {
		return nil, e.rejectToken(ctx, "", "", fmt.Errorf("%w: %w", ErrTokenWrongFormat, err))
	}

	user, err := e.userProvider.GetUserByUsername(ctx, tok.Ident)
	if err != nil {
		return nil, e.rejectToken(ctx, "", tok.Ident, err)
	}

	if err := e.issuer.Validate(tok, user.TokenSalt); err != nil {
		if errors.Is(err, token.ErrExpired) {
			e.metricInc(MetricTokenExpired)
			return nil, e.rejectToken(ctx, user.UserID, user.Username, fmt.Errorf("%w: %w", ErrTokenExpired, err))
		}
		return nil, e.rejectToken(ctx, user.UserID, user.Username, fmt.Errorf("%w: %w", ErrTokenInvalid, err))
	}

	fresh, exp, err := e.issue(user)
	if err != nil {
		return nil, e.rejectToken(ctx, user.UserID, user.Username, err)
	}

	e.metricInc(MetricAuthenticateSuccess)

	return &AuthResult{
		UserID:    user.UserID,
		Username:  user.Username,
		Token:     fresh,
		ExpiresAt: exp,
	}, nil
}

func (e *Engine) rejectToken(ctx context.Context, userID, username string, err error) error {
	e.metricInc(MetricAuthenticateFailure)
	e.emitAudit(ctx, auditEventTokenRejected, false, userID, username, err, nil)
	return err
}
