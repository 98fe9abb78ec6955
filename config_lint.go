package goGate

import (
	"fmt"
	"strings"
	"time"
)

// Warning is one non-fatal configuration finding.
type Warning struct {
	Code    string
	Message string
}

// Warnings is the result of [Config.Lint].
type Warnings []Warning

// Codes returns just the warning codes, for programmatic checks.
func (ws Warnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// Lint flags configurations that validate but will likely misbehave in
// production. Unlike [Config.Validate] it never blocks Build.
func (c *Config) Lint() Warnings {
	var ws Warnings

	if c.AdminToken.MaxAge > 24*time.Hour {
		ws = append(ws, Warning{
			Code:    "admin_window_long",
			Message: fmt.Sprintf("admin token max age %s exceeds 24h; idle admin sessions stay privileged for a long time", c.AdminToken.MaxAge),
		})
	}

	if c.Session.RenewalWindow > time.Hour {
		ws = append(ws, Warning{
			Code:    "renewal_window_long",
			Message: fmt.Sprintf("renewal window %s exceeds 1h; most visibility checks will trigger a refresh", c.Session.RenewalWindow),
		})
	}

	if c.Sync.VisibilityGrace > 5*time.Second {
		ws = append(ws, Warning{
			Code:    "visibility_grace_long",
			Message: fmt.Sprintf("visibility grace %s exceeds 5s; stale sessions stay rendered that long after a context becomes visible", c.Sync.VisibilityGrace),
		})
	}

	if c.Guard.SettleDelay > 2*time.Second {
		ws = append(ws, Warning{
			Code:    "settle_delay_long",
			Message: fmt.Sprintf("guard settle delay %s exceeds 2s; every bootstrap decision blocks that long", c.Guard.SettleDelay),
		})
	}

	if !c.Sync.EnableRefreshThrottle {
		ws = append(ws, Warning{
			Code:    "refresh_throttle_disabled",
			Message: "refresh throttle is off; many contexts waking at once will each call the auth provider",
		})
	}

	for _, p := range c.Routes.Public {
		if strings.HasPrefix(p, c.Routes.AdminPrefix) {
			ws = append(ws, Warning{
				Code:    "public_admin_overlap",
				Message: fmt.Sprintf("public path %q sits under the admin prefix %q; admin reactions will skip it", p, c.Routes.AdminPrefix),
			})
		}
	}

	if c.Audit.Enabled && c.Audit.DropIfFull && c.Audit.BufferSize < 64 {
		ws = append(ws, Warning{
			Code:    "audit_buffer_small",
			Message: fmt.Sprintf("audit buffer %d with drop-if-full loses events under modest bursts", c.Audit.BufferSize),
		})
	}

	return ws
}
