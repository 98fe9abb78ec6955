package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var signingKey = []byte("loadtest-key")

func main() {
	var (
		identities  = flag.Int("identities", 100000, "number of session records to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (evaluate + decide)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gg", "session key prefix")
	)
	flag.Parse()

	if *identities <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "identities, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store := session.NewStore(client, *prefix, "loadtest-seed")

	cfg := goGate.DefaultConfig()
	cfg.Session.RedisPrefix = *prefix

	coord, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithNavigator(nopNavigator{}).
		WithOrigin("loadtest").
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "coordinator build failed: %v\n", err)
		os.Exit(1)
	}
	defer coord.Close()

	uids := make([]string, *identities)
	profiles := make([]*goGate.Identity, *identities)
	fmt.Printf("seeding %d session records...\n", *identities)
	startSeed := time.Now()
	for i := 0; i < *identities; i++ {
		uid := fmt.Sprintf("uid-%d", i)
		rec, err := buildRecord(uid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "claims mint failed: %v\n", err)
			os.Exit(1)
		}
		if err := store.SaveSession(ctx, uid, rec); err != nil {
			fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			os.Exit(1)
		}
		uids[i] = uid
		profiles[i] = &goGate.Identity{
			ID:                   uid,
			Type:                 goGate.UserTypeCustomer,
			HasActiveEntitlement: true,
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	evaluateStats := runEvaluatePhase(ctx, store, uids, *ops, *concurrency)
	decideStats := runDecidePhase(ctx, coord, profiles, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("evaluate", evaluateStats)
	printStats("decide", decideStats)
}

// runEvaluatePhase measures the raw session read path: load one record from
// storage and classify it.
func runEvaluatePhase(ctx context.Context, store *session.Store, uids []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(uids))
				t0 := time.Now()
				rec, err := store.LoadSession(ctx, uids[idx])
				verdict := goGate.EvaluateRecord(rec, time.Now())
				d := time.Since(t0)
				if err != nil || !verdict.Valid {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runDecidePhase measures the full guard path: storage lookup, claims
// decode, and the route state machine.
func runDecidePhase(ctx context.Context, coord *goGate.Coordinator, profiles []*goGate.Identity, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(profiles))
				t0 := time.Now()
				dec := coord.Decide(ctx, goGate.RouteRequest{
					Path:               "/dashboard",
					Identity:           profiles[idx],
					RequiredType:       goGate.UserTypeCustomer,
					RequireEntitlement: true,
				})
				d := time.Since(t0)
				if dec.State != goGate.StateAuthorized {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// nopNavigator satisfies the coordinator's navigator dependency; the load
// test only exercises read paths that never navigate.
type nopNavigator struct{}

func (nopNavigator) CurrentPath() string      { return "/dashboard" }
func (nopNavigator) Navigate(goGate.Redirect) {}
func (nopNavigator) Reload()                  {}

func buildRecord(uid string) (*session.Record, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   uid,
		"utype": string(goGate.UserTypeCustomer),
		"ent":   true,
	})
	raw, err := token.SignedString(signingKey)
	if err != nil {
		return nil, err
	}
	return &session.Record{
		Claims:    raw,
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}, nil
}
