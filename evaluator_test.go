package goGate

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goGate/session"
)

func TestEvaluateRecordNil(t *testing.T) {
	v := EvaluateRecord(nil, time.Now())
	if v.Valid || v.Identity != nil || v.ExpiresAt != 0 {
		t.Fatalf("expected zero verdict for nil record, got %+v", v)
	}
}

func TestEvaluateRecordBoundaries(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name      string
		expiresAt int64
		wantValid bool
		wantLeft  time.Duration
	}{
		{"future", now.Unix() + 600, true, 10 * time.Minute},
		{"one second left", now.Unix() + 1, true, time.Second},
		{"exactly now", now.Unix(), false, 0},
		{"past", now.Unix() - 30, false, -30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &session.Record{
				Claims:    claimsToken(t, "u1", UserTypeCustomer, false),
				ExpiresAt: tt.expiresAt,
			}
			v := EvaluateRecord(rec, now)
			if v.Valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v", v.Valid, tt.wantValid)
			}
			if v.TimeRemaining != tt.wantLeft {
				t.Fatalf("remaining = %s, want %s", v.TimeRemaining, tt.wantLeft)
			}
			if v.ExpiresAt != tt.expiresAt {
				t.Fatalf("expiresAt = %d, want %d", v.ExpiresAt, tt.expiresAt)
			}
		})
	}
}

func TestExpiringSoonWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	window := 5 * time.Minute

	tests := []struct {
		name string
		left time.Duration
		want bool
	}{
		{"well inside window", 90 * time.Second, true},
		{"exactly at window", 5 * time.Minute, true},
		{"just outside window", 5*time.Minute + time.Second, false},
		{"already expired", -time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &session.Record{
				Claims:    claimsToken(t, "u1", UserTypeCustomer, false),
				ExpiresAt: now.Add(tt.left).Unix(),
			}
			v := EvaluateRecord(rec, now)
			if got := v.ExpiringSoon(window); got != tt.want {
				t.Fatalf("ExpiringSoon = %v, want %v (remaining %s)", got, tt.want, v.TimeRemaining)
			}
		})
	}
}

func TestExpiringSoonZeroVerdict(t *testing.T) {
	var v Verdict
	if v.ExpiringSoon(5 * time.Minute) {
		t.Fatal("missing session must not be expiring soon")
	}
}

func TestEvaluateUnreadableClaimsStaysValid(t *testing.T) {
	now := time.Now()
	rec := &session.Record{
		Claims:    "garbage",
		ExpiresAt: now.Add(time.Hour).Unix(),
	}

	v := EvaluateRecord(rec, now)
	if !v.Valid {
		t.Fatal("record expiry governs validity, not claim readability")
	}
	if v.Identity != nil {
		t.Fatalf("expected nil identity for unreadable claims, got %+v", v.Identity)
	}
}

// A stale exp inside the claims blob must not override the record expiry.
func TestRecordExpiryAuthoritativeOverTokenExpiry(t *testing.T) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   "u1",
		"utype": string(UserTypeCustomer),
		"exp":   now.Add(-time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing claims: %v", err)
	}

	rec := &session.Record{Claims: raw, ExpiresAt: now.Add(time.Hour).Unix()}
	v := EvaluateRecord(rec, now)
	if !v.Valid {
		t.Fatal("expected valid verdict despite expired token claim")
	}
	if v.Identity == nil || v.Identity.ID != "u1" {
		t.Fatalf("expected decoded identity, got %+v", v.Identity)
	}
}

func BenchmarkEvaluateRecordUnreadableClaims(b *testing.B) {
	rec := &session.Record{
		Claims:    "garbage-no-decode",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	now := time.Now()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EvaluateRecord(rec, now)
	}
}
