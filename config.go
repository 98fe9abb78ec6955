package goGate

import (
	"errors"
	"strings"
	"time"
)

/* ==================== SESSION ==================== */

type SessionConfig struct {
	// RedisPrefix namespaces every key and the change-event channel. Two
	// coordinators share session state iff they share a prefix.
	RedisPrefix string

	// RenewalWindow is how close to expiry a valid session must be before
	// the visibility handler asks the auth provider for a fresh record.
	RenewalWindow time.Duration
}

/* ==================== ADMIN TOKEN ==================== */

type AdminTokenConfig struct {
	// MaxAge is the admin token's sliding inactivity window. Every
	// successful validation re-issues the token, restarting the window.
	MaxAge time.Duration
}

/* ==================== SYNC ==================== */

type SyncConfig struct {
	// VisibilityGrace is the pause between a context becoming visible and
	// its session check, leaving in-flight writes from sibling contexts
	// time to land.
	VisibilityGrace time.Duration

	// EnableRefreshThrottle caps provider refresh calls per identity across
	// all contexts, so a burst of tabs waking together does not hammer the
	// auth provider.
	EnableRefreshThrottle bool

	// MaxRefreshAttempts is the refresh budget per identity per cooldown
	// window.
	MaxRefreshAttempts int

	// RefreshCooldown is the fixed throttle window.
	RefreshCooldown time.Duration
}

/* ==================== GUARD ==================== */

type GuardConfig struct {
	// SettleDelay is the short wait the guard observes on a bootstrap
	// evaluation before reading session state.
	SettleDelay time.Duration
}

/* ==================== ROUTES ==================== */

type RoutesConfig struct {
	CustomerLogin        string
	AdminLogin           string
	AdminPrefix          string
	Verification         string
	EntitlementSelection string
	Payment              string
	NeutralLanding       string

	// Public paths never trigger redirects or reactive navigation. Login
	// surfaces are implicitly public and need not be listed.
	Public []string
}

// IsPublic reports whether path is exempt from reactive navigation.
func (r RoutesConfig) IsPublic(path string) bool {
	for _, p := range r.Public {
		if p == path {
			return true
		}
	}
	return false
}

// IsLogin reports whether path is one of the two login surfaces.
func (r RoutesConfig) IsLogin(path string) bool {
	return path == r.CustomerLogin || path == r.AdminLogin
}

// InAdminArea reports whether path sits under the admin partition.
func (r RoutesConfig) InAdminArea(path string) bool {
	return strings.HasPrefix(path, r.AdminPrefix)
}

// EntitlementExempt reports whether path stays reachable without an active
// entitlement: the payment and plan-selection surfaces (so a lapsed account
// can re-subscribe) and the verification surface.
func (r RoutesConfig) EntitlementExempt(path string) bool {
	return path == r.Payment || path == r.EntitlementSelection || path == r.Verification
}

// LoginFor returns the login surface for the given identity kind.
func (r RoutesConfig) LoginFor(kind UserType) string {
	if kind == UserTypeAdmin {
		return r.AdminLogin
	}
	return r.CustomerLogin
}

/* ==================== AUDIT ==================== */

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking callers when the audit
	// buffer is saturated.
	DropIfFull bool
}

/* ==================== METRICS ==================== */

type MetricsConfig struct {
	Enabled bool
	// EnableLatencyHistograms tracks guard decision latency buckets in
	// addition to plain counters.
	EnableLatencyHistograms bool
}

/* ==================== ROOT ==================== */

type Config struct {
	Session    SessionConfig
	AdminToken AdminTokenConfig
	Sync       SyncConfig
	Guard      GuardConfig
	Routes     RoutesConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix:   "gg",
			RenewalWindow: 5 * time.Minute,
		},
		AdminToken: AdminTokenConfig{
			MaxAge: 8 * time.Hour,
		},
		Sync: SyncConfig{
			VisibilityGrace:       500 * time.Millisecond,
			EnableRefreshThrottle: true,
			MaxRefreshAttempts:    2,
			RefreshCooldown:       30 * time.Second,
		},
		Guard: GuardConfig{
			SettleDelay: 200 * time.Millisecond,
		},
		Routes: RoutesConfig{
			CustomerLogin:        "/customer/login",
			AdminLogin:           "/admin/login",
			AdminPrefix:          "/admin",
			Verification:         "/verify-otp",
			EntitlementSelection: "/subscription-plans",
			Payment:              "/payment",
			NeutralLanding:       "/",
			Public:               []string{"/"},
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(c Config) Config {
	out := c
	out.Routes.Public = append([]string(nil), c.Routes.Public...)
	return out
}

// Validate checks the configuration for values that would render the
// coordinator inert or contradictory.
func (c *Config) Validate() error {
	if c.Session.RedisPrefix == "" {
		return errors.New("session redis prefix must not be empty")
	}
	if c.Session.RenewalWindow <= 0 {
		return errors.New("session renewal window must be positive")
	}
	if c.AdminToken.MaxAge <= 0 {
		return errors.New("admin token max age must be positive")
	}
	if c.Sync.VisibilityGrace < 0 {
		return errors.New("visibility grace must not be negative")
	}
	if c.Sync.EnableRefreshThrottle {
		if c.Sync.MaxRefreshAttempts <= 0 {
			return errors.New("refresh throttle attempts must be positive when enabled")
		}
		if c.Sync.RefreshCooldown <= 0 {
			return errors.New("refresh cooldown must be positive when enabled")
		}
	}
	if c.Guard.SettleDelay < 0 {
		return errors.New("guard settle delay must not be negative")
	}

	surfaces := []string{
		c.Routes.CustomerLogin,
		c.Routes.AdminLogin,
		c.Routes.AdminPrefix,
		c.Routes.Verification,
		c.Routes.EntitlementSelection,
		c.Routes.Payment,
		c.Routes.NeutralLanding,
	}
	for _, s := range surfaces {
		if s == "" || !strings.HasPrefix(s, "/") {
			return errors.New("route surfaces must be absolute paths")
		}
	}
	if !strings.HasPrefix(c.Routes.AdminLogin, c.Routes.AdminPrefix) {
		return errors.New("admin login must sit under the admin prefix")
	}
	for _, p := range c.Routes.Public {
		if p == "" || !strings.HasPrefix(p, "/") {
			return errors.New("public paths must be absolute")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}

	return nil
}
