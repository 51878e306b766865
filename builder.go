package goSession

import (
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/kv"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/transport"
	"github.com/rs/zerolog"
)

// Builder assembles a [Manager].
//
// Builder instances are configured during initialization and used once; a second call
// to Build fails.
type Builder struct {
	config Config
	medium kv.Medium
	binder *transport.Binder

	authenticator Authenticator
	validator     Validator
	auditSink     AuditSink

	logger    zerolog.Logger
	hasLogger bool

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration, including the audit switch set by
// WithAuditSink. Call it first.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithMedium supplies the durable medium. Without it, Build opens the medium selected
// by Config.Storage and the Manager closes it on Close.
func (b *Builder) WithMedium(medium kv.Medium) *Builder {
	b.medium = medium
	return b
}

// WithBinder shares an existing binder, typically the one whose Client the
// Authenticator sends requests through. Without it, Build creates one.
func (b *Builder) WithBinder(binder *transport.Binder) *Builder {
	b.binder = binder
	return b
}

// WithAuthenticator sets the remote authentication collaborator. Required.
func (b *Builder) WithAuthenticator(auth Authenticator) *Builder {
	b.authenticator = auth
	return b
}

// WithValidator sets the check SignUp runs before contacting the remote API.
func (b *Builder) WithValidator(v Validator) *Builder {
	b.validator = v
	return b
}

// WithAuditSink sets the audit sink and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithLogger sets the logger. Without it, Build uses a logger that discards output.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.hasLogger = true
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the sign-in latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a Manager in the anonymous, loading
// state. Call [Manager.RestoreSession] next.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.authenticator == nil {
		return nil, errors.New("authenticator required")
	}

	// -------- MEDIUM --------
	medium := b.medium
	closeMedium := func() error { return nil }
	if medium == nil {
		opened, closer, err := OpenMedium(cfg.Storage)
		if err != nil {
			return nil, err
		}
		medium = opened
		closeMedium = closer
	}

	binder := b.binder
	if binder == nil {
		binder = transport.NewBinder()
	}

	logger := zerolog.Nop()
	if b.hasLogger {
		logger = b.logger
	}

	// -------- AUDIT --------
	var dispatcher *internalaudit.Dispatcher
	if cfg.Audit.Enabled {
		dispatcher = internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink)
	}

	m := &Manager{
		config:      cfg,
		credentials: session.NewCredentialStore(medium, cfg.Storage.TokenKey),
		profiles:    session.NewProfileStore(medium, cfg.Storage.UserKey),
		binder:      binder,
		auth:        b.authenticator,
		validator:   b.validator,
		state:       newStateCell(Snapshot{Session: AnonymousSession(), Loading: true}),
		audit:       dispatcher,
		metrics:     NewMetrics(cfg.Metrics),
		logger:      logger,
		closeMedium: closeMedium,
		now:         time.Now,
	}

	// Start anonymous regardless of what a shared binder carried.
	binder.Clear()

	b.built = true
	return m, nil
}
