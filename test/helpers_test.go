//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func newIntegrationStore(t *testing.T) (*session.Store, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, "gg", "itest")

	return store, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

// makeRecord mints a session record whose claims blob is a real signed JWT.
// The key is throwaway; records are judged by expiry, not signature.
func makeRecord(t *testing.T, uid string, utype goGate.UserType, ttl time.Duration) *session.Record {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   uid,
		"utype": string(utype),
		"ent":   true,
	})
	raw, err := token.SignedString([]byte("itest-key"))
	if err != nil {
		t.Fatalf("signing claims: %v", err)
	}

	return &session.Record{
		Claims:    raw,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
