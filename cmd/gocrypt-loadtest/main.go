package main

import (
	"context"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goCrypt "github.com/MrEthical07/goCrypt"
	"github.com/MrEthical07/goCrypt/internal"
	"github.com/MrEthical07/goCrypt/internal/logging"
	"github.com/MrEthical07/goCrypt/store/redisstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const loadtestPassword = "loadtest-password"

func main() {
	var (
		users       = flag.Int("users", 200, "number of users to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		loginOps    = flag.Int("login-ops", 2000, "login operations (argon2 bound)")
		authOps     = flag.Int("auth-ops", 200000, "authenticate operations")
		workers     = flag.Int("hash-workers", 0, "offload pool size; 0 means GOMAXPROCS")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gcu", "user key prefix")
		logLevel    = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *loginOps <= 0 || *authOps <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, login-ops and auth-ops must be > 0")
		os.Exit(2)
	}

	logger := logging.WithComponent(logging.New(*logLevel, "development"), "loadtest")
	defer func() { _ = logger.Sync() }()

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
			logger.Fatal("failed to start miniredis", zap.Error(err))
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

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	cfg.Offload.Workers = *workers
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := goCrypt.New().
		WithConfig(cfg).
		WithUserProvider(redisstore.New(client, *prefix)).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Fatal("engine build", zap.Error(err))
	}
	defer engine.Close()

	usernames := make([]string, *users)
	fmt.Printf("seeding %d users...\n", *users)
	startSeed := time.Now()
	for i := range usernames {
		usernames[i] = fmt.Sprintf("user-%d", i)
		if _, err := engine.CreateUser(ctx, usernames[i], loadtestPassword); err != nil {
			logger.Fatal("create user", zap.String("username", usernames[i]), zap.Error(err))
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	var tokensMu sync.Mutex
	tokens := make([]string, len(usernames))
	loginStats := runPhase(*loginOps, *concurrency, 7919, func(i int, r *mrand.Rand) error {
		idx := r.Intn(len(usernames))
		res, err := engine.Login(ctx, usernames[idx], loadtestPassword)
		if err != nil {
			return err
		}
		tokensMu.Lock()
		tokens[idx] = res.Token
		tokensMu.Unlock()
		return nil
	})

	for i, tok := range tokens {
		if tok != "" {
			continue
		}
		res, err := engine.Login(ctx, usernames[i], loadtestPassword)
		if err != nil {
			logger.Fatal("login", zap.String("username", usernames[i]), zap.Error(err))
		}
		tokens[i] = res.Token
	}

	authStats := runPhase(*authOps, *concurrency, 6151, func(_ int, r *mrand.Rand) error {
		_, err := engine.Authenticate(ctx, tokens[r.Intn(len(tokens))])
		return err
	})

	fmt.Println("---- results ----")
	printStats("login", loginStats)
	printStats("authenticate", authStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("validate latency buckets (<=5ms..>500ms): %v\n", snap.Histograms[goCrypt.MetricValidateLatency])
	fmt.Printf("offload failures: %d\n", snap.Counters[goCrypt.MetricOffloadFailure])
}

// loadConfig prefers SERVICE_* keys and falls back to throwaway random keys.
func loadConfig() (goCrypt.Config, error) {
	if os.Getenv("SERVICE_PWD_KEY") != "" || os.Getenv("SERVICE_TOKEN_KEY") != "" {
		return goCrypt.LoadConfigFromEnv()
	}

	pwdKey, err := internal.NewKey(internal.DefaultKeySize)
	if err != nil {
		return goCrypt.Config{}, err
	}
	tokenKey, err := internal.NewKey(internal.DefaultKeySize)
	if err != nil {
		return goCrypt.Config{}, err
	}

	cfg := goCrypt.DefaultConfig()
	cfg.Password.Key = pwdKey
	cfg.Token.Key = tokenKey
	return cfg, nil
}

func runPhase(ops, concurrency int, seed int64, op func(i int, r *mrand.Rand) error) phaseStats {
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
			r := mrand.New(mrand.NewSource(time.Now().UnixNano() + int64(worker)*seed))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i, r)
				d := time.Since(t0)
				if err != nil {
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
