package ift

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pathfunc"
	"github.com/katalvlaran/foresting/pixel"
)

// Config is the file form of a run's scalar settings. Map-valued inputs
// (initial values, labels, masks, handicaps) stay in code.
//
//	sequential_label = true
//	tie_break        = "fifo"   # or "lifo"
//	max_iterations   = 0
//
//	[adjacency]
//	dims   = 2
//	radius = 1.5
//
//	[path_function]
//	bucket_size = 1.0
//	attenuation = 1.0
type Config struct {
	SequentialLabel bool               `toml:"sequential_label"`
	LabelMap        bool               `toml:"label_map"`
	TieBreak        string             `toml:"tie_break"`
	MaxIterations   int                `toml:"max_iterations"`
	Adjacency       AdjacencyConfig    `toml:"adjacency"`
	PathFunction    PathFunctionConfig `toml:"path_function"`
}

// AdjacencyConfig describes a ball adjacency.
type AdjacencyConfig struct {
	Dims   int     `toml:"dims"`
	Radius float64 `toml:"radius"`
}

// PathFunctionConfig carries the tunables shared by path functions.
// Zero values keep the pathfunc defaults.
type PathFunctionConfig struct {
	BucketSize  float64 `toml:"bucket_size"`
	Attenuation float64 `toml:"attenuation"`
}

// DefaultConfig returns a 2-D, radius-1 configuration with FIFO tie-break.
func DefaultConfig() Config {
	return Config{
		TieBreak:  "fifo",
		Adjacency: AdjacencyConfig{Dims: 2, Radius: 1},
	}
}

// LoadConfig decodes a TOML document on top of DefaultConfig.
// Unknown keys and invalid values yield ErrOptionViolation.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("ift: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown config keys %s", ErrOptionViolation, strings.Join(keys, ", "))
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfigFile reads and decodes the TOML file at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("ift: open config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// Validate checks the scalar ranges of c.
func (c Config) Validate() error {
	if _, err := c.tieBreak(); err != nil {
		return err
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations cannot be negative (%d)", ErrOptionViolation, c.MaxIterations)
	}
	if c.PathFunction.BucketSize < 0 || c.PathFunction.Attenuation < 0 {
		return fmt.Errorf("%w: path_function values cannot be negative", ErrOptionViolation)
	}

	return nil
}

func (c Config) tieBreak() (bucketqueue.TieBreak, error) {
	switch strings.ToLower(c.TieBreak) {
	case "", "fifo":
		return bucketqueue.FIFO, nil
	case "lifo":
		return bucketqueue.LIFO, nil
	default:
		return bucketqueue.FIFO, fmt.Errorf("%w: unknown tie_break %q", ErrOptionViolation, c.TieBreak)
	}
}

// Options translates c into Transform options. An invalid tie-break is
// surfaced by Transform as ErrOptionViolation.
func (c Config) Options() []Option {
	opts := []Option{WithMaxIterations(c.MaxIterations)}
	if tie, err := c.tieBreak(); err != nil {
		opts = append(opts, func(o *Options) { o.err = err })
	} else {
		opts = append(opts, WithTieBreak(tie))
	}
	if c.SequentialLabel {
		opts = append(opts, WithSequentialLabel())
	}
	if c.LabelMap {
		opts = append(opts, WithLabelMap())
	}

	return opts
}

// PathFunctionOptions translates the [path_function] table into
// pathfunc options, skipping unset values.
func (c Config) PathFunctionOptions() []pathfunc.Option {
	var opts []pathfunc.Option
	if c.PathFunction.BucketSize != 0 {
		opts = append(opts, pathfunc.WithBucketSize(c.PathFunction.BucketSize))
	}
	if c.PathFunction.Attenuation != 0 {
		opts = append(opts, pathfunc.WithAttenuation(c.PathFunction.Attenuation))
	}

	return opts
}

// BuildAdjacency builds the ball adjacency described by the [adjacency] table.
func (c Config) BuildAdjacency() (*pixel.Adjacency, error) {
	adj, err := pixel.Ball(c.Adjacency.Dims, c.Adjacency.Radius)
	if err != nil {
		return nil, fmt.Errorf("ift: adjacency: %w", err)
	}

	return adj, nil
}
