//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// redisMode describes which Redis backend the compatibility suite is running against.
type redisMode struct {
	name  string
	setup func(t *testing.T) (redis.UniversalClient, func())
}

// redisModes returns the set of Redis backends to test.
// miniredis is always available.
// Real Redis standalone is used when REDIS_ADDR is set (e.g. "127.0.0.1:6379").
func redisModes(t *testing.T) []redisMode {
	t.Helper()
	modes := []redisMode{
		{
			name: "miniredis",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis: %v", err)
				}
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				return rdb, func() { _ = rdb.Close(); mr.Close() }
			},
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := rdb.Ping(ctx).Err(); err != nil {
					t.Skipf("cannot connect to Redis at %s: %v", addr, err)
				}
				// Flush the test DB to avoid state leaking between runs.
				rdb.FlushDB(context.Background())
				return rdb, func() { rdb.FlushDB(context.Background()); _ = rdb.Close() }
			},
		})
	}

	// Cluster mode: when REDIS_CLUSTER_ADDRS is set (comma-separated).
	if addrs := os.Getenv("REDIS_CLUSTER_ADDRS"); addrs != "" {
		modes = append(modes, redisMode{
			name: "cluster",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewClusterClient(&redis.ClusterOptions{Addrs: splitAddrs(addrs)})
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := rdb.Ping(ctx).Err(); err != nil {
					t.Skipf("cannot connect to Redis cluster: %v", err)
				}
				return rdb, func() { _ = rdb.Close() }
			},
		})
	}

	// Sentinel mode: when REDIS_SENTINEL_ADDRS and REDIS_SENTINEL_MASTER are set.
	if addrs := os.Getenv("REDIS_SENTINEL_ADDRS"); addrs != "" {
		master := os.Getenv("REDIS_SENTINEL_MASTER")
		if master == "" {
			master = "mymaster"
		}
		modes = append(modes, redisMode{
			name: "sentinel",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewFailoverClient(&redis.FailoverOptions{
					MasterName:    master,
					SentinelAddrs: splitAddrs(addrs),
				})
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := rdb.Ping(ctx).Err(); err != nil {
					t.Skipf("cannot connect to Redis sentinel: %v", err)
				}
				rdb.FlushDB(context.Background())
				return rdb, func() { rdb.FlushDB(context.Background()); _ = rdb.Close() }
			},
		})
	}

	return modes
}

func splitAddrs(s string) []string {
	var addrs []string
	current := ""
	flush := func() {
		for len(current) > 0 && (current[0] == ' ' || current[0] == '\t') {
			current = current[1:]
		}
		for len(current) > 0 && (current[len(current)-1] == ' ' || current[len(current)-1] == '\t') {
			current = current[:len(current)-1]
		}
		if current != "" {
			addrs = append(addrs, current)
		}
		current = ""
	}
	for _, c := range s {
		if c == ',' {
			flush()
		} else {
			current += string(c)
		}
	}
	flush()
	return addrs
}

// TestRedisCompat_SessionRoundTrip validates slot save/load/clear across backends.
func TestRedisCompat_SessionRoundTrip(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			store := session.NewStore(rdb, "gg", "compat")
			ctx := context.Background()

			rec := makeRecord(t, "u1", goGate.UserTypeCustomer, time.Hour)
			if err := store.SaveSession(ctx, "u1", rec); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := store.LoadSession(ctx, "u1")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Claims != rec.Claims || got.ExpiresAt != rec.ExpiresAt {
				t.Fatal("loaded record should match the saved one")
			}

			if err := store.ClearSession(ctx, "u1"); err != nil {
				t.Fatalf("first clear: %v", err)
			}
			if err := store.ClearSession(ctx, "u1"); err != nil {
				t.Fatalf("second clear should be idempotent: %v", err)
			}

			if _, err := store.LoadSession(ctx, "u1"); !errors.Is(err, session.ErrNoRecord) {
				t.Fatalf("expected ErrNoRecord after clear, got %v", err)
			}
		})
	}
}

// TestRedisCompat_ChangeEvents validates that storage mutations reach a
// sibling origin's watcher across backends.
func TestRedisCompat_ChangeEvents(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			ctx := context.Background()
			writer := session.NewStore(rdb, "gg", "compat-writer")
			reader := session.NewStore(rdb, "gg", "compat-reader")

			w, err := reader.Watch(ctx)
			if err != nil {
				t.Fatalf("watch: %v", err)
			}
			defer w.Close()

			if err := writer.SetCurrentIdentity(ctx, "u1"); err != nil {
				t.Fatalf("set pointer: %v", err)
			}

			select {
			case ev := <-w.Events():
				if ev.Key != session.CurrentIdentityKey {
					t.Fatalf("expected pointer event, got key %q", ev.Key)
				}
				if ev.NewValue != "u1" || ev.OldValue != "" {
					t.Fatalf("unexpected event values: %+v", ev)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for change event")
			}
		})
	}
}

// TestRedisCompat_AdminTokenLifecycle validates the admin credential key across backends.
func TestRedisCompat_AdminTokenLifecycle(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			store := session.NewStore(rdb, "gg", "compat")
			ctx := context.Background()

			if err := store.SetAdminToken(ctx, "admin-session-root-12345"); err != nil {
				t.Fatalf("set: %v", err)
			}

			raw, err := store.AdminToken(ctx)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if raw != "admin-session-root-12345" {
				t.Fatalf("unexpected token %q", raw)
			}

			if err := store.ClearAdminToken(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			raw, err = store.AdminToken(ctx)
			if err != nil {
				t.Fatalf("get after clear: %v", err)
			}
			if raw != "" {
				t.Fatalf("expected empty token after clear, got %q", raw)
			}
		})
	}
}
