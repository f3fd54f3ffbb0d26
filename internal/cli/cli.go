package cli

import (
	"fmt"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/hupe1980/slotsort"
	"github.com/hupe1980/slotsort/fixture"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a TOML configuration file; flags override its values",
	}
	recordsFlag = &cli.IntSliceFlag{
		Name:  "records",
		Usage: "Record counts, one case each (e.g. --records 1000,100000)",
	}
	startByteFlag = &cli.IntFlag{
		Name:  "start-byte",
		Usage: "Least significant key byte to sort on (0-7)",
	}
	endByteFlag = &cli.IntFlag{
		Name:  "end-byte",
		Usage: "Most significant key byte to sort on (0-7)",
		Value: 7,
	}
	descendingFlag = &cli.BoolFlag{
		Name:  "descending",
		Usage: "Sort in descending order",
	}
	signedFlag = &cli.BoolFlag{
		Name:  "signed",
		Usage: "Treat keys as two's complement",
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Random seed for generated keys",
		Value: 1,
	}
	distributionFlag = &cli.StringFlag{
		Name:  "distribution",
		Usage: "Key distribution: uniform, duplicates, zipf or signed",
		Value: DistUniform,
	}
	memoryLimitFlag = &cli.Int64Flag{
		Name:  "memory-limit",
		Usage: "Maximum bytes of live arenas (0 = unlimited)",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Cases verified concurrently",
		Value: 1,
	}
	heapFlag = &cli.BoolFlag{
		Name:  "heap",
		Usage: "Allocate arenas on the Go heap instead of anonymous mappings",
	}
	fixtureDirFlag = &cli.StringFlag{
		Name:  "fixture-dir",
		Usage: "Directory where generated inputs are saved and replayed from",
	}
	compressionFlag = &cli.StringFlag{
		Name:  "compression",
		Usage: "Fixture compression: none, lz4 or zstd",
		Value: "none",
	}
	ioLimitFlag = &cli.Int64Flag{
		Name:  "io-limit",
		Usage: "Maximum fixture write throughput in bytes per second (0 = unlimited)",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Log as JSON",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn or error",
		Value: "info",
	}
	nameFlag = &cli.StringFlag{
		Name:  "name",
		Usage: "Fixture name to replay; all fixtures when empty",
	}
)

var sortFlags = []cli.Flag{
	startByteFlag, endByteFlag, descendingFlag, signedFlag,
	memoryLimitFlag, heapFlag, fixtureDirFlag, jsonFlag, logLevelFlag,
}

// NewApp returns the slotcheck command tree.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "slotcheck",
		Usage: "Verify the radix sort engine against the comparator sort",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Generate cases, sort them with both engines and verify the output",
				Flags: append([]cli.Flag{
					configFlag, recordsFlag, seedFlag, distributionFlag,
					workersFlag, compressionFlag, ioLimitFlag,
				}, sortFlags...),
				Action: handleRun,
			},
			{
				Name:   "replay",
				Usage:  "Reload saved fixtures and repeat the checks",
				Flags:  append([]cli.Flag{configFlag, nameFlag}, sortFlags...),
				Action: handleReplay,
			},
			{
				Name:   "list",
				Usage:  "List saved fixtures",
				Flags:  []cli.Flag{configFlag, fixtureDirFlag},
				Action: handleList,
			},
		},
	}
}

// buildConfig loads --config if given and applies every explicitly set flag on top.
func buildConfig(c *cli.Context) (*Config, error) {
	cfg := DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("records") {
		cfg.Records = c.IntSlice("records")
	}
	if c.IsSet("start-byte") {
		cfg.StartByte = c.Int("start-byte")
	}
	if c.IsSet("end-byte") {
		cfg.EndByte = c.Int("end-byte")
	}
	if c.IsSet("descending") {
		cfg.Descending = c.Bool("descending")
	}
	if c.IsSet("signed") {
		cfg.Signed = c.Bool("signed")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Int64("seed")
	}
	if c.IsSet("distribution") {
		cfg.Distribution = c.String("distribution")
	}
	if c.IsSet("memory-limit") {
		cfg.MemoryLimit = c.Int64("memory-limit")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("heap") {
		cfg.Heap = c.Bool("heap")
	}
	if c.IsSet("fixture-dir") {
		cfg.Fixture.Dir = c.String("fixture-dir")
		cfg.Fixture.Minio = nil
	}
	if c.IsSet("compression") {
		cfg.Fixture.Compression = c.String("compression")
	}
	if c.IsSet("io-limit") {
		cfg.Fixture.IOLimit = c.Int64("io-limit")
	}
	if c.IsSet("json") {
		cfg.Log.JSON = c.Bool("json")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg *Config) *slotsort.Logger {
	level, _ := parseLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	if cfg.Log.JSON {
		return slotsort.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return slotsort.NewLogger(slog.NewTextHandler(w, opts))
}

func setup(c *cli.Context) (*Runner, error) {
	cfg, err := buildConfig(c)
	if err != nil {
		return nil, err
	}
	return NewRunner(cfg, newLogger(c, cfg))
}

func handleRun(c *cli.Context) error {
	r, err := setup(c)
	if err != nil {
		return err
	}

	results, err := r.Run(c.Context)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Fixture != "" {
			fmt.Fprintln(c.App.Writer, res.Fixture)
		}
	}
	return nil
}

func handleReplay(c *cli.Context) error {
	r, err := setup(c)
	if err != nil {
		return err
	}
	if r.Store() == nil {
		return fmt.Errorf("replay needs --fixture-dir or a [fixture] config section")
	}

	names := []string{c.String("name")}
	if names[0] == "" {
		if names, err = fixture.List(c.Context, r.Store()); err != nil {
			return err
		}
	}
	for _, name := range names {
		if _, err := r.Replay(c.Context, name); err != nil {
			return fmt.Errorf("fixture %s: %w", name, err)
		}
	}
	return nil
}

func handleList(c *cli.Context) error {
	r, err := setup(c)
	if err != nil {
		return err
	}
	if r.Store() == nil {
		return fmt.Errorf("list needs --fixture-dir or a [fixture] config section")
	}

	names, err := fixture.List(c.Context, r.Store())
	if err != nil {
		return err
	}
	for _, name := range names {
		h, err := fixture.Info(c.Context, r.Store(), name)
		if err != nil {
			return fmt.Errorf("fixture %s: %w", name, err)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d records\t%s\n", name, h.Records, h.Compression)
	}
	return nil
}
