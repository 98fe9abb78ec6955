//go:build integration
// +build integration

package test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// cmdCounter is a go-redis Hook that counts the number of Redis round-trips
// (individual commands and pipeline calls).
type cmdCounter struct {
	commands  atomic.Int64
	pipelines atomic.Int64
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		// Each pipeline call is one network round-trip regardless of command count.
		h.pipelines.Add(1)
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) Reset() {
	h.commands.Store(0)
	h.pipelines.Store(0)
}

func (h *cmdCounter) Commands() int64  { return h.commands.Load() }
func (h *cmdCounter) Pipelines() int64 { return h.pipelines.Load() }

// newCountedStore creates a session.Store backed by miniredis with a
// cmdCounter hook installed. Reset the counter before each measured operation.
func newCountedStore(t *testing.T) (*session.Store, *redis.Client, *cmdCounter, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	counter := &cmdCounter{}
	rdb.AddHook(counter)

	// Warm the connection: go-redis may emit extra commands on first use
	// (handshake, AUTH, SELECT, CLIENT SETNAME, etc.). Issuing a PING
	// before measuring avoids counting that noise.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("warmup ping: %v", err)
	}
	counter.Reset()

	store := session.NewStore(rdb, "gg", "budget")
	return store, rdb, counter, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

// TestLoadSessionRedisBudget verifies that a slot read is exactly one Redis
// command. The guard runs this on every route decision, so the budget is the
// tightest in the module.
func TestLoadSessionRedisBudget(t *testing.T) {
	store, _, counter, cleanup := newCountedStore(t)
	defer cleanup()

	ctx := context.Background()
	rec := makeRecord(t, "u1", goGate.UserTypeCustomer, time.Hour)
	if err := store.SaveSession(ctx, "u1", rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	counter.Reset()

	if _, err := store.LoadSession(ctx, "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cmds := counter.Commands(); cmds != 1 {
		t.Errorf("LoadSession used %d Redis commands; budget is 1 (GET)", cmds)
	}
	if pipes := counter.Pipelines(); pipes != 0 {
		t.Errorf("LoadSession used %d pipelines; budget is 0", pipes)
	}
}

// TestSaveSessionRedisBudget verifies that a slot write is one read plus one
// transactional round-trip (SET + PUBLISH).
func TestSaveSessionRedisBudget(t *testing.T) {
	store, _, counter, cleanup := newCountedStore(t)
	defer cleanup()

	ctx := context.Background()
	rec := makeRecord(t, "u1", goGate.UserTypeCustomer, time.Hour)

	counter.Reset()

	if err := store.SaveSession(ctx, "u1", rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	// 1 GET + 1 tx pipeline. The pipeline carries SET and PUBLISH; go-redis
	// may count MULTI/EXEC framing as commands, so the command budget
	// carries slack while the round-trip budget does not.
	if pipes := counter.Pipelines(); pipes != 1 {
		t.Errorf("SaveSession used %d pipelines; budget is 1", pipes)
	}
	if cmds := counter.Commands(); cmds > 5 {
		t.Errorf("SaveSession used %d Redis commands; budget is ≤ 5 (GET + MULTI/SET/PUBLISH/EXEC)", cmds)
	}
	t.Logf("SaveSession: %d commands, %d pipelines", counter.Commands(), counter.Pipelines())
}

// TestClearMissingSlotRedisBudget verifies that clearing an empty slot stops
// after the read: no pipeline, no publish.
func TestClearMissingSlotRedisBudget(t *testing.T) {
	store, _, counter, cleanup := newCountedStore(t)
	defer cleanup()

	ctx := context.Background()
	counter.Reset()

	if err := store.ClearSession(ctx, "ghost"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if cmds := counter.Commands(); cmds != 1 {
		t.Errorf("no-op clear used %d Redis commands; budget is 1 (GET)", cmds)
	}
	if pipes := counter.Pipelines(); pipes != 0 {
		t.Errorf("no-op clear used %d pipelines; budget is 0", pipes)
	}
}
