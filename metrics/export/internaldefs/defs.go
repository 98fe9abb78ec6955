package internaldefs

import (
	goGate "github.com/MrEthical07/goGate"
)

// CounterDef binds one coordinator metric ID to its stable wire name.
type CounterDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// HistogramDef binds one coordinator histogram ID to its stable wire name.
type HistogramDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Order is the exposition order.
var CounterDefs = []CounterDef{
	{ID: goGate.MetricEvaluateValid, Name: "gogate_evaluate_valid_total", Help: "Session evaluations yielding a valid verdict."},
	{ID: goGate.MetricEvaluateExpired, Name: "gogate_evaluate_expired_total", Help: "Session evaluations yielding an expired verdict."},
	{ID: goGate.MetricEvaluateMissing, Name: "gogate_evaluate_missing_total", Help: "Session evaluations finding no record."},
	{ID: goGate.MetricSessionStored, Name: "gogate_session_stored_total", Help: "Session records adopted at sign-in."},
	{ID: goGate.MetricSessionCleared, Name: "gogate_session_cleared_total", Help: "Local sign-out operations."},
	{ID: goGate.MetricRefreshTriggered, Name: "gogate_refresh_triggered_total", Help: "Session refreshes triggered near expiry."},
	{ID: goGate.MetricRefreshSuccess, Name: "gogate_refresh_success_total", Help: "Successful session refreshes."},
	{ID: goGate.MetricRefreshFailure, Name: "gogate_refresh_failure_total", Help: "Failed or denied session refreshes."},
	{ID: goGate.MetricRefreshThrottled, Name: "gogate_refresh_throttled_total", Help: "Session refreshes skipped by the cross-context throttle."},
	{ID: goGate.MetricVisibilityRuns, Name: "gogate_visibility_runs_total", Help: "Visibility checks executed."},
	{ID: goGate.MetricVisibilityDropped, Name: "gogate_visibility_dropped_total", Help: "Visibility notifications coalesced into a check already in flight."},
	{ID: goGate.MetricCrossContextSignOut, Name: "gogate_cross_context_sign_out_total", Help: "Sign-outs propagated from sibling contexts."},
	{ID: goGate.MetricCrossContextReload, Name: "gogate_cross_context_reload_total", Help: "Reloads triggered by sibling-context writes."},
	{ID: goGate.MetricAdminRedirect, Name: "gogate_admin_redirect_total", Help: "Redirects to the admin login surface."},
	{ID: goGate.MetricAdminRenewed, Name: "gogate_admin_renewed_total", Help: "Admin token validations that slid the window forward."},
	{ID: goGate.MetricAdminPurged, Name: "gogate_admin_purged_total", Help: "Admin tokens purged as malformed or aged out."},
	{ID: goGate.MetricGuardAuthorized, Name: "gogate_guard_authorized_total", Help: "Route decisions that authorized entry."},
	{ID: goGate.MetricGuardRedirectLogin, Name: "gogate_guard_redirect_login_total", Help: "Route decisions redirecting to a login surface."},
	{ID: goGate.MetricGuardWrongType, Name: "gogate_guard_wrong_type_total", Help: "Route decisions refusing a mismatched identity kind."},
	{ID: goGate.MetricGuardRedirectVerify, Name: "gogate_guard_redirect_verify_total", Help: "Route decisions redirecting to contact verification."},
	{ID: goGate.MetricGuardRedirectEntitlement, Name: "gogate_guard_redirect_entitlement_total", Help: "Route decisions redirecting to plan selection."},
	{ID: goGate.MetricReactionFailure, Name: "gogate_reaction_failure_total", Help: "Storage reactions that failed or panicked."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goGate.MetricDecideLatency, Name: "gogate_decide_latency_seconds", Help: "Route decision latency histogram."},
}

// HistogramBounds are the upper bounds of the core histogram layout, as
// Prometheus le label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with OTel-safe name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket layout.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
