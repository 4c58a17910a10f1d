package check

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/propq/propq/faildb"
	"github.com/propq/propq/inifile"
)

// Defaults for run configuration.
const (
	DefaultMaxSuccess      = 100
	DefaultMaxSize         = 100
	DefaultMaxDiscardRatio = 5.0
	DefaultMaxShrinks      = 1000
)

// ConfigFile is the configuration file consulted by DefaultConfig.
const ConfigFile = "propq.ini"

// RunConfig controls a single run. The zero value is usable: zero fields
// fall back to the package defaults above.
type RunConfig struct {
	// MaxSuccess is the number of passing trials required.
	MaxSuccess int

	// MaxSize is the size the ramp reaches on the final trials.
	MaxSize int

	// MaxDiscardRatio is the number of discards tolerated per required
	// success before the run gives up.
	MaxDiscardRatio float64

	// Seed pins the run to an exact input sequence. Zero draws a fresh
	// seed; the report always carries the seed actually used.
	Seed int64

	// MaxShrinks bounds the number of candidates the shrink search may
	// evaluate after a failure.
	MaxShrinks int

	// SizeRamp maps a trial index to the size for that trial. It must
	// be monotone non-decreasing in the trial index. Nil selects the
	// linear default.
	SizeRamp func(trial, maxSuccess, maxSize int) int

	// Timeout aborts the run between trials when exceeded. Zero means
	// no limit.
	Timeout time.Duration

	// Logger receives trial-level events at debug level. Nil disables
	// run logging.
	Logger *slog.Logger

	// FailDB, when set, replays recorded failing seeds for the property
	// before fresh trials and records new failures after shrinking.
	FailDB *faildb.DB

	// FailDBURL is the configured failure database location. Loaded
	// from propq.ini / PROPQ_FAILDB for tooling; Run itself only uses
	// the FailDB handle.
	FailDBURL string
}

// LinearRamp is the default size curve: size grows linearly from 0 on
// the first trial to maxSize on the last required one.
func LinearRamp(trial, maxSuccess, maxSize int) int {
	if maxSuccess <= 1 {
		return maxSize
	}
	size := trial * maxSize / (maxSuccess - 1)
	if size > maxSize {
		return maxSize
	}
	return size
}

// withDefaults fills zero fields with package defaults.
func (c RunConfig) withDefaults() RunConfig {
	if c.MaxSuccess <= 0 {
		c.MaxSuccess = DefaultMaxSuccess
	}
	if c.MaxSize < 0 {
		c.MaxSize = 0
	} else if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxDiscardRatio <= 0 {
		c.MaxDiscardRatio = DefaultMaxDiscardRatio
	}
	if c.MaxShrinks <= 0 {
		c.MaxShrinks = DefaultMaxShrinks
	}
	if c.SizeRamp == nil {
		c.SizeRamp = LinearRamp
	}
	return c
}

// envOverrides are the environment knobs, prefixed PROPQ_. Pointer
// fields distinguish "unset" from an explicit zero.
type envOverrides struct {
	Seed            *int64   `envconfig:"SEED"`
	MaxSuccess      *int     `envconfig:"MAX_SUCCESS"`
	MaxSize         *int     `envconfig:"MAX_SIZE"`
	MaxDiscardRatio *float64 `envconfig:"MAX_DISCARD_RATIO"`
	MaxShrinks      *int     `envconfig:"MAX_SHRINKS"`
	FailDB          *string  `envconfig:"FAILDB"`
}

// DefaultConfig builds a RunConfig from the package defaults, a
// propq.ini [check] section when one exists in the working directory,
// and PROPQ_* environment overrides, in that precedence order.
// PROPQ_SEED in particular is how a reported failure is replayed.
func DefaultConfig() RunConfig {
	cfg := RunConfig{}.withDefaults()

	if f, err := inifile.ParseFile(ConfigFile); err == nil {
		if s := f.Section("check"); s != nil {
			cfg.MaxSuccess = s.GetInt("max_success", cfg.MaxSuccess)
			cfg.MaxSize = s.GetInt("max_size", cfg.MaxSize)
			cfg.MaxDiscardRatio = s.GetFloat("max_discard_ratio", cfg.MaxDiscardRatio)
			cfg.MaxShrinks = s.GetInt("max_shrinks", cfg.MaxShrinks)
			cfg.Seed = s.GetInt64("seed", cfg.Seed)
			if v := s.Get("faildb"); v != "" {
				cfg.FailDBURL = v
			}
		}
	}

	var env envOverrides
	if err := envconfig.Process("propq", &env); err == nil {
		if env.Seed != nil {
			cfg.Seed = *env.Seed
		}
		if env.MaxSuccess != nil {
			cfg.MaxSuccess = *env.MaxSuccess
		}
		if env.MaxSize != nil {
			cfg.MaxSize = *env.MaxSize
		}
		if env.MaxDiscardRatio != nil {
			cfg.MaxDiscardRatio = *env.MaxDiscardRatio
		}
		if env.MaxShrinks != nil {
			cfg.MaxShrinks = *env.MaxShrinks
		}
		if env.FailDB != nil {
			cfg.FailDBURL = *env.FailDB
		}
	}

	return cfg.withDefaults()
}
