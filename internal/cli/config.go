package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hupe1980/slotsort/fixture"
)

// Key distributions for generated cases.
const (
	DistUniform    = "uniform"
	DistDuplicates = "duplicates"
	DistZipf       = "zipf"
	DistSigned     = "signed"
)

// Config describes a verification run. It is read from a TOML file and
// overridden by command line flags.
type Config struct {
	Records      []int  `toml:"records"`
	StartByte    int    `toml:"startByte"`
	EndByte      int    `toml:"endByte"`
	Descending   bool   `toml:"descending"`
	Signed       bool   `toml:"signed"`
	Seed         int64  `toml:"seed"`
	Distribution string `toml:"distribution"`

	MemoryLimit int64 `toml:"memoryLimit"`
	Workers     int   `toml:"workers"`
	Heap        bool  `toml:"heap"`

	Fixture FixtureConfig `toml:"fixture"`
	Log     LogConfig     `toml:"log"`
}

// FixtureConfig selects where inputs are saved and replayed from.
// Saving is off unless Dir or Minio is set.
type FixtureConfig struct {
	Dir         string       `toml:"dir"`
	Compression string       `toml:"compression"`
	IOLimit     int64        `toml:"ioLimit"`
	Minio       *MinioConfig `toml:"minio"`
}

// MinioConfig points fixtures at an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"accessKey"`
	SecretKey string `toml:"secretKey"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Secure    bool   `toml:"secure"`
}

// LogConfig controls the run logger.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Records:      []int{1000, 100000},
		StartByte:    0,
		EndByte:      7,
		Seed:         1,
		Distribution: DistUniform,
		Workers:      1,
		Log:          LogConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks values the sort engine would otherwise reject per case.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Records) == 0 {
		errs = append(errs, errors.New("at least one record count is required"))
	}
	for _, n := range c.Records {
		if n < 0 {
			errs = append(errs, fmt.Errorf("negative record count %d", n))
		}
	}
	if c.StartByte < 0 || c.EndByte > 7 || c.StartByte > c.EndByte {
		errs = append(errs, fmt.Errorf("byte range [%d,%d] outside [0,7]", c.StartByte, c.EndByte))
	}
	switch c.Distribution {
	case DistUniform, DistDuplicates, DistZipf, DistSigned:
	default:
		errs = append(errs, fmt.Errorf("unknown distribution %q", c.Distribution))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if _, err := fixture.ParseCompression(c.Fixture.Compression); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if m := c.Fixture.Minio; m != nil && (m.Endpoint == "" || m.Bucket == "") {
		errs = append(errs, errors.New("minio fixtures need endpoint and bucket"))
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
