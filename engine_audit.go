package goCrypt

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goCrypt/password"
	"github.com/MrEthical07/goCrypt/token"
)

const (
	auditEventLoginSuccess          = "login_success"
	auditEventLoginFailure          = "login_failure"
	auditEventPasswordUpgraded      = "password_upgraded"
	auditEventPasswordUpgradeFailed = "password_upgrade_failed"
	auditEventTokenRejected         = "token_rejected"
	auditEventTokensRevoked         = "tokens_revoked"
	auditEventAccountCreated        = "account_created"
	auditEventAccountCreateFailure  = "account_create_failure"
	auditEventPasswordChanged       = "password_changed"
)

// AuditErrorCode is the stable error classification carried by audit events.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrPasswordMismatch   AuditErrorCode = "password_mismatch"
	auditErrStoredHashInvalid  AuditErrorCode = "stored_hash_invalid"
	auditErrSchemeNotFound     AuditErrorCode = "scheme_not_found"
	auditErrOffloadFailed      AuditErrorCode = "offload_failed"
	auditErrTokenFormat        AuditErrorCode = "token_format"
	auditErrTokenSignature     AuditErrorCode = "token_signature"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrTokenInvalid       AuditErrorCode = "token_invalid"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrInvalidRequest     AuditErrorCode = "invalid_request"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	username string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Username:  username,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

// auditErrorCode classifies the internal cause, which is more precise than
// the error returned to the caller.
func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, password.ErrPwdValidate):
		return auditErrPasswordMismatch
	case errors.Is(err, password.ErrPwdWithSchemeFailedToParse):
		return auditErrStoredHashInvalid
	case errors.Is(err, password.ErrSchemeNotFound):
		return auditErrSchemeNotFound
	case errors.Is(err, password.ErrFailSpawnBlockForHash),
		errors.Is(err, password.ErrFailSpawnBlockForValidate):
		return auditErrOffloadFailed
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, token.ErrInvalidFormat),
		errors.Is(err, token.ErrCannotDecodeIdentity),
		errors.Is(err, token.ErrCannotDecodeExpiration),
		errors.Is(err, ErrTokenWrongFormat):
		return auditErrTokenFormat
	case errors.Is(err, token.ErrSignatureNotMatching):
		return auditErrTokenSignature
	case errors.Is(err, token.ErrExpired),
		errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, token.ErrExpirationNotISO),
		errors.Is(err, ErrTokenInvalid):
		return auditErrTokenInvalid
	case errors.Is(err, ErrAccountExists):
		return auditErrDuplicate
	case errors.Is(err, ErrAccountCreationInvalid):
		return auditErrInvalidRequest
	default:
		return auditErrInternal
	}
}
