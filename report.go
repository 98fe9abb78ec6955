package goGate

import "time"

// Report is a static snapshot of the coordinator's configured posture:
// which collaborators are wired and which windows govern session handling.
// Values reflect configuration, not live session state.
type Report struct {
	Origin string

	RedisPrefix      string
	RenewalWindow    time.Duration
	AdminTokenMaxAge time.Duration
	VisibilityGrace  time.Duration
	SettleDelay      time.Duration

	RefreshActive         bool
	RefreshThrottleActive bool
	VerificationActive    bool
	ContactLookupActive   bool
	AuditActive           bool
	MetricsActive         bool
	LatencyHistograms     bool

	PublicPathCount int
}

// Report describes how this coordinator is wired. Useful at start-up to log
// the effective posture, and in health endpoints.
func (c *Coordinator) Report() Report {
	if c == nil {
		return Report{}
	}

	return Report{
		Origin:                c.store.Origin(),
		RedisPrefix:           c.config.Session.RedisPrefix,
		RenewalWindow:         c.config.Session.RenewalWindow,
		AdminTokenMaxAge:      c.config.AdminToken.MaxAge,
		VisibilityGrace:       c.config.Sync.VisibilityGrace,
		SettleDelay:           c.config.Guard.SettleDelay,
		RefreshActive:         c.provider != nil,
		RefreshThrottleActive: c.limiter != nil,
		VerificationActive:    c.verifier != nil,
		ContactLookupActive:   c.contacts != nil,
		AuditActive:           c.audit != nil,
		MetricsActive:         c.metrics != nil,
		LatencyHistograms:     c.metrics != nil && c.metrics.latencyHistograms,
		PublicPathCount:       len(c.config.Routes.Public),
	}
}
