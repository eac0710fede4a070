package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/codefionn/puffer/puffer-core/buffer"
	"github.com/codefionn/puffer/puffer-core/config"
	"github.com/codefionn/puffer/puffer-core/logger"
	"github.com/codefionn/puffer/puffer-core/stats"
)

var (
	keys       = flag.Int("keys", 16, "Number of keys per multi-get request")
	rounds     = flag.Int("rounds", 10000, "Number of requests to fan out")
	configPath = flag.String("config", "", "Optional path to configuration file (.json or .hcl)")
	verify     = flag.Bool("verify", true, "Verify framing of every produced request")
)

func main() {
	flag.Parse()

	if *keys < 2 {
		*keys = 2
	}
	if *rounds < 1 {
		*rounds = 1
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

	// Each key costs "keyNNNNNN " = 10 bytes; the whole request plus the
	// per-fragment framing has to fit in a single chunk.
	if maxKeys := (cfg.ChunkSizeBytes - 16) / 10; *keys > maxKeys {
		*keys = maxKeys
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

	start := time.Now()
	for i := 0; i < *rounds; i++ {
		if err := fanoutRound(pool); err != nil {
			return fmt.Errorf("round %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	snap := rec.Snapshot()
	totalSplits := *rounds * (*keys - 1)
	fmt.Printf("Rounds: %d, keys per request: %d (total splits %d)\n", *rounds, *keys, totalSplits)
	fmt.Printf("Duration: %s (%.0f splits/s)\n", elapsed, float64(totalSplits)/elapsed.Seconds())
	fmt.Printf("Splits: %d, bytes duplicated: %d, allocations: %d, reuses: %d\n",
		snap.Splits, snap.SplitBytes, snap.Allocs, snap.Reuses)
	return nil
}

// fanoutRound stages one multi-key get request in a queue and splits it into
// one single-key request per key, right to left, the way a memcached proxy
// fans a multi-get out to its shards.
func fanoutRound(pool *buffer.Pool) error {
	b, err := pool.Get()
	if err != nil {
		return err
	}

	offsets := writeMultiGet(b, *keys)

	var q buffer.Queue
	q.Append(b)

	var out buffer.Queue
	for i := len(offsets) - 1; i >= 1; i-- {
		nbuf, err := pool.Split(&q, offsets[i], buffer.LiteralGet, buffer.LiteralCRLF)
		if err != nil {
			return err
		}
		out.Append(nbuf)
	}

	if *verify {
		if err := verifyRequest(b.Bytes()); err != nil {
			return err
		}
	}

	// Recycle everything for the next round.
	q.Remove(b)
	b.Skip(b.Len())
	pool.Put(b)
	for !out.Empty() {
		nb := out.PopHead()
		if *verify {
			if err := verifyRequest(nb.Bytes()); err != nil {
				return err
			}
		}
		nb.Skip(nb.Len())
		pool.Put(nb)
	}
	return nil
}

// writeMultiGet fills b with "get k0 k1 ... kn\r\n" and returns the write
// offset of each key, which are the valid split positions.
func writeMultiGet(b *buffer.Buffer, n int) []int {
	offsets := make([]int, 0, n)
	b.CopyLiteral(buffer.LiteralGet)
	for i := 0; i < n; i++ {
		offsets = append(offsets, b.WritePos())
		b.CopyFrom([]byte(fmt.Sprintf("key%06d", i)))
		if i < n-1 {
			b.CopyFrom([]byte(" "))
		}
	}
	b.CopyLiteral(buffer.LiteralCRLF)
	return offsets
}

// verifyRequest checks that a produced fragment is an independently
// well-formed get request.
func verifyRequest(req []byte) error {
	if !bytes.HasPrefix(req, []byte("get ")) {
		return fmt.Errorf("fragment missing get prefix: %q", req)
	}
	if !bytes.HasSuffix(req, []byte("\r\n")) {
		return fmt.Errorf("fragment missing line terminator: %q", req)
	}
	return nil
}
