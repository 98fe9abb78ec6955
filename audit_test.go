package goGate

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func auditTestCoordinator(t *testing.T, client redis.UniversalClient, sink AuditSink) *Coordinator {
	t.Helper()

	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 64

	c, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithNavigator(&fakeNavigator{path: "/dashboard"}).
		WithAuditSink(sink).
		WithOrigin("ctx-a").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func nextAuditEvent(t *testing.T, sink *ChannelAuditSink) AuditEvent {
	t.Helper()

	select {
	case ev := <-sink.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func TestAuditCapturesSessionLifecycle(t *testing.T) {
	_, client := newTestRedis(t)
	sink := NewChannelAuditSink(64)
	c := auditTestCoordinator(t, client, sink)

	ctx := context.Background()
	if _, err := c.SignIn(ctx, customerRecord(t, "u1", time.Hour)); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	ev := nextAuditEvent(t, sink)
	if ev.EventType != "session_stored" {
		t.Fatalf("expected session_stored, got %s", ev.EventType)
	}
	if ev.IdentityID != "u1" || ev.Origin != "ctx-a" || !ev.Success {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Path != "/dashboard" {
		t.Fatalf("expected path from navigator, got %q", ev.Path)
	}
	if ev.Timestamp.IsZero() {
		t.Fatal("event has no timestamp")
	}

	if err := c.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	ev = nextAuditEvent(t, sink)
	if ev.EventType != "sign_out" || ev.IdentityID != "u1" || !ev.Success {
		t.Fatalf("unexpected sign-out event %+v", ev)
	}
}

func TestAuditGuardRedirectCarriesMetadata(t *testing.T) {
	_, client := newTestRedis(t)
	sink := NewChannelAuditSink(64)
	c := auditTestCoordinator(t, client, sink)

	d := c.Decide(context.Background(), RouteRequest{
		Path:         "/dashboard",
		RequiredType: UserTypeCustomer,
	})
	if d.State != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", d.State)
	}

	ev := nextAuditEvent(t, sink)
	if ev.EventType != "guard_redirect" {
		t.Fatalf("expected guard_redirect, got %s", ev.EventType)
	}
	if ev.Metadata["from"] != "/dashboard" || ev.Metadata["to"] != "/customer/login" {
		t.Fatalf("unexpected metadata %+v", ev.Metadata)
	}
	if ev.Metadata["reason"] != "not_signed_in" || ev.Metadata["state"] != "unauthenticated" {
		t.Fatalf("unexpected metadata %+v", ev.Metadata)
	}
}

func TestAuditPathPrefersRequestContext(t *testing.T) {
	_, client := newTestRedis(t)
	sink := NewChannelAuditSink(64)
	c := auditTestCoordinator(t, client, sink)

	ctx := WithRequestPath(context.Background(), "/checkout")
	if _, err := c.SignIn(ctx, customerRecord(t, "u1", time.Hour)); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	ev := nextAuditEvent(t, sink)
	if ev.Path != "/checkout" {
		t.Fatalf("expected request-scoped path, got %q", ev.Path)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	_, client := newTestRedis(t)
	sink := NewChannelAuditSink(64)

	// Default config: audit disabled despite the attached sink.
	cfg := testConfig()
	c, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithNavigator(&fakeNavigator{path: "/dashboard"}).
		WithAuditSink(sink).
		WithOrigin("ctx-a").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(c.Close)

	ctx := context.Background()
	if _, err := c.SignIn(ctx, customerRecord(t, "u1", time.Hour)); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := c.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	select {
	case ev := <-sink.Events():
		t.Fatalf("disabled audit emitted %+v", ev)
	default:
	}
	if c.AuditDropped() != 0 {
		t.Fatal("disabled audit reported drops")
	}
}
