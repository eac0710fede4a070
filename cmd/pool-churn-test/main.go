package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/codefionn/puffer/puffer-core/buffer"
	"github.com/codefionn/puffer/puffer-core/config"
	"github.com/codefionn/puffer/puffer-core/logger"
	"github.com/codefionn/puffer/puffer-core/stats"
)

var (
	iterations  = flag.Int("iterations", 100000, "Number of get/fill/put cycles")
	burst       = flag.Int("burst", 32, "Buffers held concurrently per cycle")
	payloadSize = flag.Int("payloadSize", 1024, "Bytes copied into each buffer")
	configPath  = flag.String("config", "", "Optional path to configuration file (.json or .hcl)")
	chunkSize   = flag.Int("chunkSize", 0, "Override chunk size from config")
)

type latencyRecorder struct {
	values []time.Duration
}

func (lr *latencyRecorder) add(d time.Duration) {
	lr.values = append(lr.values, d)
}

func (lr *latencyRecorder) percentile(p float64) time.Duration {
	if len(lr.values) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(lr.values))
	copy(sorted, lr.values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

func main() {
	flag.Parse()

	if *iterations < 1 {
		*iterations = 1
	}
	if *burst < 1 {
		*burst = 1
	}
	if *payloadSize < 1 {
		*payloadSize = 1
	}

	logger.SetLevel(logger.ERROR)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "test failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *chunkSize > 0 {
		cfg.ChunkSizeBytes = *chunkSize
	}
	if *payloadSize > cfg.ChunkSizeBytes {
		*payloadSize = cfg.ChunkSizeBytes
	}

	rec := stats.NewAtomicRecorder()
	pool, err := buffer.NewPool(buffer.PoolOptions{
		ChunkSize: cfg.ChunkSizeBytes,
		Prealloc:  cfg.PreallocBuffers,
		Recorder:  rec,
	})
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	payload := buildPayload(*payloadSize)
	results := latencyRecorder{}

	start := time.Now()
	for i := 0; i < *iterations; i++ {
		cycleStart := time.Now()
		if err := churnCycle(pool, payload); err != nil {
			return fmt.Errorf("cycle %d: %w", i, err)
		}
		results.add(time.Since(cycleStart))
	}
	elapsed := time.Since(start)

	snap := rec.Snapshot()
	fmt.Printf("Iterations: %d, burst: %d, payload: %d bytes, chunk: %d bytes\n",
		*iterations, *burst, *payloadSize, cfg.ChunkSizeBytes)
	fmt.Printf("Duration: %s (%.0f cycles/s)\n", elapsed, float64(*iterations)/elapsed.Seconds())
	fmt.Printf("Cycle latency p99: %s p99.9: %s\n", results.percentile(0.99), results.percentile(0.999))
	fmt.Printf("Allocations: %d, reuses: %d (%.2f%% hit rate), in use: %d\n",
		snap.Allocs, snap.Reuses, hitRate(snap), snap.InUse())
	return nil
}

// churnCycle pulls a burst of buffers, fills each through a queue, consumes
// everything and recycles the buffers. Everything runs on one goroutine,
// matching the single-owner contract of the pool.
func churnCycle(pool *buffer.Pool, payload []byte) error {
	var q buffer.Queue
	for j := 0; j < *burst; j++ {
		b, err := pool.Get()
		if err != nil {
			return err
		}
		for b.Space() >= len(payload) {
			b.CopyFrom(payload)
		}
		q.Append(b)
	}
	for !q.Empty() {
		b := q.PopHead()
		b.Skip(b.Len())
		pool.Put(b)
	}
	return nil
}

func hitRate(snap stats.Snapshot) float64 {
	total := snap.Allocs + snap.Reuses
	if total == 0 {
		return 0
	}
	return 100 * float64(snap.Reuses) / float64(total)
}

func buildPayload(size int) []byte {
	payload := make([]byte, size)
	rnd := rand.New(rand.NewSource(42))
	for i := range payload {
		payload[i] = byte('a' + rnd.Intn(26))
	}
	return payload
}
