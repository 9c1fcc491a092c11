package goCrypt

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/goCrypt/internal/audit"
	"github.com/MrEthical07/goCrypt/password"
	"github.com/MrEthical07/goCrypt/token"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine defines a public type used by goCrypt APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	hasher       *password.Hasher
	issuer       *token.Issuer
	userProvider UserProvider
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
	logger       *zap.Logger
}

// Close stops the offload pool and drains the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.hasher != nil {
		e.hasher.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// log returns the engine logger, or a no-op logger for an Engine that was
// not produced by Builder.
func (e *Engine) log() *zap.Logger {
	if e == nil || e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

// AuditDropped returns the number of audit events lost to a full buffer. It
// is zero when audit is disabled.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters and histograms. A nil
// Engine or disabled metrics yield empty, non-nil maps.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, start time.Time) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, time.Since(start))
}

// HashPassword hashes content with the default scheme and returns the
// stored credential string "#<scheme>#<output>".
func (e *Engine) HashPassword(ctx context.Context, content string, salt uuid.UUID) (string, error) {
	if e == nil || e.hasher == nil {
		return "", ErrEngineNotReady
	}

	start := time.Now()
	stored, err := e.hasher.Hash(ctx, password.ContentToHash{Content: content, Salt: salt})
	e.metricObserve(MetricHashLatency, start)
	if err != nil {
		e.noteOffloadFailure(err)
		return "", err
	}
	return stored, nil
}

// ValidatePassword checks content against stored. It returns the package
// password errors unchanged so callers can tell a mismatch from a format or
// execution failure.
func (e *Engine) ValidatePassword(ctx context.Context, content string, salt uuid.UUID, stored string) (password.SchemeStatus, error) {
	if e == nil || e.hasher == nil {
		return password.Outdated, ErrEngineNotReady
	}

	start := time.Now()
	status, err := e.hasher.Validate(ctx, password.ContentToHash{Content: content, Salt: salt}, stored)
	e.metricObserve(MetricValidateLatency, start)
	if err != nil {
		e.noteOffloadFailure(err)
	}
	return status, err
}

func (e *Engine) noteOffloadFailure(err error) {
	if errors.Is(err, password.ErrFailSpawnBlockForHash) || errors.Is(err, password.ErrFailSpawnBlockForValidate) {
		e.metricInc(MetricOffloadFailure)
		e.log().Warn("password work not executed", zap.Error(err))
	}
}

func (e *Engine) issue(user UserRecord) (string, time.Time, error) {
	tok, err := e.issuer.Generate(user.Username, user.TokenSalt)
	if err != nil {
		return "", time.Time{}, err
	}
	exp, err := token.Expiration(tok)
	if err != nil {
		return "", time.Time{}, err
	}

	e.metricInc(MetricTokenIssued)
	return tok.String(), exp, nil
}
