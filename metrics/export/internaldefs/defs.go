package internaldefs

import (
	"strconv"

	goCrypt "github.com/MrEthical07/goCrypt"
)

// CounterDef names one goCrypt counter.
type CounterDef struct {
	ID   goCrypt.MetricID
	Name string
	Help string
}

// HistogramDef names one goCrypt latency histogram.
type HistogramDef struct {
	ID   goCrypt.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exported for dispatcher drops.
const AuditDroppedName = "gocrypt_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goCrypt.MetricLoginSuccess, Name: "gocrypt_login_success_total", Help: "Successful logins."},
	{ID: goCrypt.MetricLoginFailure, Name: "gocrypt_login_failure_total", Help: "Failed logins."},
	{ID: goCrypt.MetricPasswordUpgraded, Name: "gocrypt_password_upgraded_total", Help: "Stored credentials re-hashed with the default scheme at login."},
	{ID: goCrypt.MetricPasswordUpgradeFailed, Name: "gocrypt_password_upgrade_failed_total", Help: "Credential upgrades that failed."},
	{ID: goCrypt.MetricAuthenticateSuccess, Name: "gocrypt_authenticate_success_total", Help: "Accepted tokens."},
	{ID: goCrypt.MetricAuthenticateFailure, Name: "gocrypt_authenticate_failure_total", Help: "Rejected tokens."},
	{ID: goCrypt.MetricTokenExpired, Name: "gocrypt_token_expired_total", Help: "Correctly signed tokens rejected as expired."},
	{ID: goCrypt.MetricTokenIssued, Name: "gocrypt_token_issued_total", Help: "Issued tokens."},
	{ID: goCrypt.MetricAccountCreationSuccess, Name: "gocrypt_account_creation_success_total", Help: "Created accounts."},
	{ID: goCrypt.MetricAccountCreationDuplicate, Name: "gocrypt_account_creation_duplicate_total", Help: "Account creations rejected as duplicate."},
	{ID: goCrypt.MetricPasswordChangeSuccess, Name: "gocrypt_password_change_success_total", Help: "Password changes."},
	{ID: goCrypt.MetricTokensRevoked, Name: "gocrypt_tokens_revoked_total", Help: "Token salt rotations."},
	{ID: goCrypt.MetricOffloadFailure, Name: "gocrypt_offload_failure_total", Help: "Hash or validate work that could not be executed."},
}

// HistogramDefs lists every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: goCrypt.MetricHashLatency, Name: "gocrypt_hash_latency_seconds", Help: "Password hash latency."},
	{ID: goCrypt.MetricValidateLatency, Name: "gocrypt_validate_latency_seconds", Help: "Password validate latency."},
}

// HistogramUpperBounds are the upper bounds in seconds of the first seven
// buckets. The eighth bucket is unbounded.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBucketLabels returns the Prometheus-style "le" label of each of the
// eight buckets, ending with "+Inf".
func HistogramBucketLabels() []string {
	labels := make([]string, 0, len(HistogramUpperBounds)+1)
	for _, b := range HistogramUpperBounds {
		labels = append(labels, strconv.FormatFloat(b, 'g', -1, 64))
	}
	return append(labels, "+Inf")
}

// NormalizeBuckets copies up to eight raw bucket counts into a fixed array,
// zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
