package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/slotsort"
	"github.com/hupe1980/slotsort/blobstore"
	minioblob "github.com/hupe1980/slotsort/blobstore/minio"
	"github.com/hupe1980/slotsort/fixture"
	"github.com/hupe1980/slotsort/internal/slots"
	"github.com/hupe1980/slotsort/internal/verify"
	"github.com/hupe1980/slotsort/testutil"
)

// Result is the outcome of one case.
type Result struct {
	Name       string
	Records    int
	Radix      time.Duration
	Comparator time.Duration
	Stats      slotsort.RadixStats
	Fixture    string
}

// Runner executes verification cases on one engine.
type Runner struct {
	cfg    *Config
	eng    *slotsort.Engine
	logger *slotsort.Logger
	store  blobstore.Store
}

// NewRunner builds the engine and fixture store described by cfg.
func NewRunner(cfg *Config, logger *slotsort.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []slotsort.Option{
		slotsort.WithLogger(logger),
		slotsort.WithMemoryLimit(cfg.MemoryLimit),
		slotsort.WithMaxWorkers(cfg.Workers),
		slotsort.WithIOLimit(cfg.Fixture.IOLimit),
	}
	if cfg.Heap {
		opts = append(opts, slotsort.WithHeapArenas())
	}

	store, err := openStore(cfg.Fixture)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		eng:    slotsort.New(opts...),
		logger: logger,
		store:  store,
	}, nil
}

func openStore(fc FixtureConfig) (blobstore.Store, error) {
	if m := fc.Minio; m != nil {
		client, err := minio.New(m.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(m.AccessKey, m.SecretKey, ""),
			Secure: m.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, m.Bucket, m.Prefix), nil
	}
	if fc.Dir != "" {
		return blobstore.NewLocalStore(fc.Dir), nil
	}
	return nil, nil
}

// Engine returns the runner's engine.
func (r *Runner) Engine() *slotsort.Engine { return r.eng }

// Store returns the fixture store, or nil when fixtures are disabled.
func (r *Runner) Store() blobstore.Store { return r.store }

// Run generates, sorts and verifies one case per configured record count.
// Cases run concurrently up to the configured worker count; the first
// failure cancels the rest.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(r.cfg.Records))
	limiter := r.eng.Limiter()

	g, ctx := errgroup.WithContext(ctx)
	for i, n := range r.cfg.Records {
		g.Go(func() error {
			if err := limiter.AcquireBackground(ctx); err != nil {
				return err
			}
			defer limiter.ReleaseBackground()

			name := fmt.Sprintf("%s-%d", r.cfg.Distribution, n)
			res, err := r.generated(ctx, name, n, r.cfg.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("case %s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Replay loads a saved fixture and runs the same checks on it.
func (r *Runner) Replay(ctx context.Context, name string) (Result, error) {
	if r.store == nil {
		return Result{}, errors.New("replay needs a fixture directory or minio store")
	}
	h, err := fixture.Info(ctx, r.store, name)
	if err != nil {
		return Result{}, err
	}
	if h.Width != uint8(slotsort.KeyPrefix) {
		return Result{}, fmt.Errorf("%w: fixture %s holds %d-word records", slotsort.ErrInvalidLayout, name, h.Width)
	}

	a, err := r.eng.AllocateSlotArray(int(h.Words()))
	if err != nil {
		return Result{}, err
	}
	defer a.Close()

	input, err := fixture.Load(ctx, r.store, name, a)
	if err != nil {
		return Result{}, err
	}
	res, err := r.check(ctx, name, input)
	res.Fixture = name
	return res, err
}

func (r *Runner) generated(ctx context.Context, name string, n int, seed int64) (Result, error) {
	a, err := r.eng.AllocateSlotArray(2 * n)
	if err != nil {
		return Result{}, err
	}
	defer a.Close()

	input, err := slotsort.NewKeyPrefixArray(a, n)
	if err != nil {
		return Result{}, err
	}
	keys := generate(testutil.NewRNG(seed), r.cfg.Distribution, n)
	if err := slots.Generate(input, n, testutil.Source(keys)); err != nil {
		return Result{}, err
	}

	var saved string
	if r.store != nil {
		c, err := fixture.ParseCompression(r.cfg.Fixture.Compression)
		if err != nil {
			return Result{}, err
		}
		saved, err = fixture.Save(ctx, r.store, input, n,
			fixture.WithCompression(c),
			fixture.WithIOLimiter(r.eng.Limiter()),
		)
		if err != nil {
			return Result{}, err
		}
	}

	res, err := r.check(ctx, name, input)
	res.Fixture = saved
	return res, err
}

// check sorts copies of input with both engines and verifies the radix
// output against the comparator output.
func (r *Runner) check(ctx context.Context, name string, input *slotsort.SlotArray) (Result, error) {
	n := input.Len()
	res := Result{Name: name, Records: n}
	log := r.logger.WithCase(name).WithCount(n)

	arrays := make([]*slotsort.SlotArray, 3) // primary, auxiliary, oracle
	for i := range arrays {
		a, err := r.eng.AllocateSlotArray(2 * n)
		if err != nil {
			return res, err
		}
		defer a.Close()
		if arrays[i], err = slotsort.NewKeyPrefixArray(a, n); err != nil {
			return res, err
		}
	}
	primary, aux, oracle := arrays[0], arrays[1], arrays[2]
	if err := input.CopyTo(primary, n); err != nil {
		return res, err
	}
	if err := input.CopyTo(oracle, n); err != nil {
		return res, err
	}

	opts := slotsort.RadixOptions{
		StartByte:  r.cfg.StartByte,
		EndByte:    r.cfg.EndByte,
		Descending: r.cfg.Descending,
		Signed:     r.cfg.Signed,
	}
	cmp := slotsort.ByteRange(opts.StartByte, opts.EndByte, opts.Descending, opts.Signed)

	start := time.Now()
	id, stats, err := r.eng.Radix(primary, aux, n, opts)
	if err != nil {
		return res, err
	}
	res.Radix = time.Since(start)
	res.Stats = stats

	start = time.Now()
	if err := r.eng.ComparatorSort(oracle, n, cmp); err != nil {
		return res, err
	}
	res.Comparator = time.Since(start)

	sorted := slotsort.Result(primary, aux, id)
	if err := verify.Equal(sorted, oracle, n); err != nil {
		return res, err
	}
	if err := verify.Ordered(ctx, sorted, n, cmp); err != nil {
		return res, err
	}
	if err := verify.Stable(ctx, sorted, n, cmp); err != nil {
		return res, err
	}
	if err := verify.Permutation(input, sorted, n); err != nil {
		return res, err
	}

	log.InfoContext(ctx, "case verified",
		"result", id.String(),
		"passes", stats.Passes,
		"skipped", stats.Skipped,
		"radix", res.Radix,
		"comparator", res.Comparator,
	)
	return res, nil
}

func generate(rng *testutil.RNG, dist string, n int) []uint64 {
	switch dist {
	case DistDuplicates:
		return rng.DuplicateKeys(n, 16)
	case DistZipf:
		return rng.ZipfKeys(n, 1.2, 1<<32)
	case DistSigned:
		return rng.SignedKeys(n, 1<<40)
	default:
		return rng.Keys(n)
	}
}
