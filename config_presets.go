package goGate

import "time"

// DefaultConfig returns the stock configuration: customer/admin surfaces
// under conventional paths, a five-minute renewal window, and an eight-hour
// admin inactivity window. Metrics are on, audit is off.
func DefaultConfig() Config {
	return defaultConfig()
}

// HardenedConfig returns a stricter posture for deployments where admin
// surfaces face the open internet: a one-hour admin window, a wider renewal
// window so refreshes happen earlier, and lossless audit.
func HardenedConfig() Config {
	cfg := defaultConfig()
	cfg.AdminToken.MaxAge = time.Hour
	cfg.Session.RenewalWindow = 10 * time.Minute
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	return cfg
}
