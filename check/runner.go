// Package check drives property runs: it draws inputs at a ramping size,
// evaluates the property, accumulates statistics and discard counts, and
// on the first failure minimizes the counterexample before reporting.
// A run is single-threaded and fully determined by its seed.
package check

import (
	"time"

	"github.com/propq/propq/faildb"
	"github.com/propq/propq/logging"
	"github.com/propq/propq/prop"
	"github.com/propq/propq/rng"
	"github.com/propq/propq/runid"
)

// Run executes an anonymous property. Failure database integration needs
// a property name, so Run never consults cfg.FailDB.
func Run(p prop.Property, cfg RunConfig) Report {
	cfg.FailDB = nil
	return runOnce("", p, cfg.withDefaults())
}

// RunNamed executes a named property. When cfg.FailDB is set, seeds
// recorded for that name are replayed (oldest first) before any fresh
// random trials, and a new failure is recorded after shrinking.
func RunNamed(name string, p prop.Property, cfg RunConfig) Report {
	cfg = cfg.withDefaults()
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop
	}

	if cfg.FailDB != nil && name != "" {
		seeds, err := cfg.FailDB.Seeds(name)
		if err != nil {
			logger.Warn("faildb_seeds_unavailable", "property", name, "err", err)
		}
		for _, seed := range seeds {
			replayCfg := cfg
			replayCfg.Seed = seed
			rep := runOnce(name, p, replayCfg)
			if rep.Status == StatusFailed {
				rep.Replayed = true
				return rep
			}
		}
	}

	rep := runOnce(name, p, cfg)

	if rep.Status == StatusFailed && cfg.FailDB != nil && name != "" {
		_, err := cfg.FailDB.Record(faildb.Failure{
			Property:    name,
			Seed:        rep.Seed,
			Original:    rep.Original,
			Shrunk:      rep.Shrunk,
			ShrinkSteps: rep.ShrinkSteps,
		})
		if err != nil {
			logger.Warn("faildb_record_failed", "property", name, "err", err)
		}
	}
	return rep
}

// runOnce is one pass of the driver state machine:
// Idle -> Running -> {Succeeded, Failed, GaveUp}.
func runOnce(name string, p prop.Property, cfg RunConfig) Report {
	seed := cfg.Seed
	if seed == 0 {
		seed = rng.RandomSeed()
	}
	src := rng.NewSource(seed)

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop
	}

	rep := Report{
		RunID:           runid.New(),
		Property:        name,
		Status:          StatusRunning,
		Seed:            seed,
		Stats:           Statistics{},
		MaxDiscardRatio: cfg.MaxDiscardRatio,
	}

	// Discard budget for the whole run: ratio is discards tolerated per
	// required success.
	maxDiscards := int(cfg.MaxDiscardRatio * float64(cfg.MaxSuccess))

	var deadline time.Time
	if cfg.Timeout > 0 {
		deadline = time.Now().Add(cfg.Timeout)
	}

	logger.Debug("run_started", "run_id", rep.RunID, "property", name,
		"seed", seed, "max_success", cfg.MaxSuccess, "max_size", cfg.MaxSize)

	for rep.Passed < cfg.MaxSuccess {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			rep.Status = StatusGaveUp
			rep.TimedOut = true
			logger.Debug("run_timed_out", "run_id", rep.RunID, "trials", rep.TrialsRun)
			return rep
		}

		size := cfg.SizeRamp(rep.TrialsRun, cfg.MaxSuccess, cfg.MaxSize)
		res := p.Check(src.Split(), size)
		rep.TrialsRun++

		switch res.Outcome.Status {
		case prop.Pass:
			rep.Passed++
			rep.Stats.AddAll(res.Outcome.Labels)

		case prop.Discard:
			rep.Discarded++
			if rep.Discarded > maxDiscards {
				rep.Status = StatusGaveUp
				logger.Debug("run_gave_up", "run_id", rep.RunID,
					"trials", rep.TrialsRun, "discarded", rep.Discarded)
				return rep
			}

		case prop.Fail:
			rep.Status = StatusFailed
			rep.Reason = res.Outcome.Reason
			rep.Original = res.Value
			logger.Debug("trial_failed", "run_id", rep.RunID,
				"trial", rep.TrialsRun, "size", size, "value", res.Value)

			if shrunk, ok := res.Shrink(cfg.MaxShrinks); ok {
				rep.Shrunk = shrunk.Value
				rep.ShrinkSteps = shrunk.Steps
				rep.ShrinkAttempts = shrunk.Attempts
				rep.ShrinkTrail = shrunk.Trail
			} else {
				rep.Shrunk = res.Value
			}
			logger.Debug("shrink_finished", "run_id", rep.RunID,
				"shrunk", rep.Shrunk, "steps", rep.ShrinkSteps)
			return rep
		}
	}

	rep.Status = StatusSucceeded
	logger.Debug("run_succeeded", "run_id", rep.RunID,
		"trials", rep.TrialsRun, "discarded", rep.Discarded)
	return rep
}
