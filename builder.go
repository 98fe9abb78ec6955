package goGate

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/MrEthical07/goGate/admintoken"
	internalaudit "github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/session"
)

// Builder assembles a [Coordinator]. Chain the With* methods and finish with
// Build; a Builder is single-use.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	nav      Navigator
	provider AuthProvider
	verifier VerificationService
	contacts ContactDirectory
	sink     AuditSink
	logger   *zerolog.Logger
	origin   string
	built    bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the shared session store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithNavigator sets the hosting context's navigation surface.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.nav = nav
	return b
}

// WithAuthProvider sets the session refresh source. Optional; without it,
// expiring sessions run out instead of renewing.
func (b *Builder) WithAuthProvider(p AuthProvider) *Builder {
	b.provider = p
	return b
}

// WithVerificationService sets the contact-verification oracle. Optional;
// without it the guard skips verification gating.
func (b *Builder) WithVerificationService(v VerificationService) *Builder {
	b.verifier = v
	return b
}

// WithContactDirectory sets the lookup for verification redirect contacts.
// Optional.
func (b *Builder) WithContactDirectory(d ContactDirectory) *Builder {
	b.contacts = d
	return b
}

// WithAuditSink sets the destination for audit events. Events flow only when
// the audit config is also enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithLogger sets the coordinator's logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithOrigin pins the coordinator's context identifier instead of generating
// one. Two live coordinators must never share an origin; sharing one makes
// each blind to the other's writes.
func (b *Builder) WithOrigin(origin string) *Builder {
	b.origin = origin
	return b
}

// Build validates the configuration and wires the coordinator. The returned
// coordinator is passive until [Coordinator.Start].
func (b *Builder) Build() (*Coordinator, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.nav == nil {
		return nil, errors.New("navigator required")
	}

	origin := b.origin
	if origin == "" {
		origin = uuid.NewString()
	}

	store := session.NewStore(b.redis, cfg.Session.RedisPrefix, origin)

	admin, err := admintoken.NewManager(store, cfg.AdminToken.MaxAge)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	audit := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.sink)

	var limiter *rate.Limiter
	if cfg.Sync.EnableRefreshThrottle {
		limiter = rate.New(b.redis, cfg.Session.RedisPrefix, rate.Config{
			EnableRefreshThrottle:   true,
			MaxRefreshAttempts:      cfg.Sync.MaxRefreshAttempts,
			RefreshCooldownDuration: cfg.Sync.RefreshCooldown,
		})
	}

	return &Coordinator{
		config:   cfg,
		store:    store,
		admin:    admin,
		provider: b.provider,
		verifier: b.verifier,
		contacts: b.contacts,
		nav:      b.nav,
		limiter:  limiter,
		audit:    audit,
		metrics:  NewMetrics(cfg.Metrics),
		logger:   logger,
		now:      time.Now,
	}, nil
}
