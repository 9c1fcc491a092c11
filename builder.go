package goCrypt

import (
	internalaudit "github.com/MrEthical07/goCrypt/internal/audit"
	"github.com/MrEthical07/goCrypt/password"
	"github.com/MrEthical07/goCrypt/token"
	"go.uber.org/zap"
)

// Builder defines a public type used by goCrypt APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	userProvider UserProvider
	auditSink    AuditSink
	logger       *zap.Logger
	tokenOpts    []token.Option

	built bool
}

// New returns a Builder seeded with DefaultConfig. A Builder produces one
// Engine; it is not safe for concurrent use.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder configuration with a copy of cfg, so later
// changes to cfg's key slices do not reach the Engine.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserProvider sets the record store used by Login, Authenticate and the
// account operations. Build fails without one.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the sink of the audit dispatcher. It has no effect
// unless Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the engine logger. The default discards everything.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithTokenOptions forwards options to the token issuer.
func (b *Builder) WithTokenOptions(opts ...token.Option) *Builder {
	b.tokenOpts = append(b.tokenOpts, opts...)
	return b
}

// WithMetricsEnabled toggles counter collection. It returns b.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the hash and validate latency histograms.
// It returns b.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and starts the Engine. It returns
// [ErrBuilderUsed] on a second call, a config error from [Config.Validate],
// [ErrUserProviderRequired] without a UserProvider, or a startup error from
// the password hasher or token issuer.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userProvider == nil {
		return nil, ErrUserProviderRequired
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// -------- PASSWORD PIPELINE --------
	hasher, err := password.NewHasher(password.Config{
		Key: cfg.Password.Key,
		Argon2: password.Argon2Config{
			Memory:      cfg.Password.Memory,
			Time:        cfg.Password.Time,
			Parallelism: cfg.Password.Parallelism,
			KeyLength:   cfg.Password.KeyLength,
		},
		Workers: cfg.Offload.Workers,
	})
	if err != nil {
		return nil, err
	}

	// -------- TOKEN ISSUER --------
	issuer, err := token.NewIssuer(cfg.Token.Key, cfg.Token.Duration, b.tokenOpts...)
	if err != nil {
		hasher.Close()
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		hasher:       hasher,
		issuer:       issuer,
		userProvider: b.userProvider,
		logger:       logger.Named("gocrypt"),
		metrics:      NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	b.built = true

	engine.logger.Info("engine built",
		zap.String("default_scheme", password.DefaultScheme),
		zap.Duration("token_duration", cfg.Token.Duration),
		zap.Bool("audit", cfg.Audit.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	return engine, nil
}
