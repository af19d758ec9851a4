package pipeline

import (
	"context"
	"log"
	"time"
)

// #region config

// TunerConfig holds the self-tuning schedule and trigger.
type TunerConfig struct {
	Interval       time.Duration // tick period
	DrainThreshold int           // ledger length that triggers a tuning pass
}

// DefaultTunerConfig returns the nominal hourly schedule.
func DefaultTunerConfig() TunerConfig {
	return TunerConfig{
		Interval:       time.Hour,
		DrainThreshold: 50,
	}
}

// #endregion config

// #region tuner

// Tuner is the recurring self-tuning task for one pipeline instance. It runs
// independently of request flow and mutates the shared heuristic, rule set,
// and ledger through their own locks.
type Tuner struct {
	pipe   *Pipeline
	config TunerConfig
}

// NewTuner binds a tuner to a pipeline instance.
func NewTuner(pipe *Pipeline, config TunerConfig) *Tuner {
	return &Tuner{pipe: pipe, config: config}
}

// Run ticks until ctx is cancelled. Tuning never fails in a way that stops
// the loop; only cancellation ends it.
func (t *Tuner) Run(ctx context.Context) {
	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	log.Printf("[TUNER] running, interval=%s threshold=%d", t.config.Interval, t.config.DrainThreshold)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[TUNER] stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick runs one tuning pass: if the ledger has grown past the threshold,
// retune the heuristic baseline, evolve the rule set, and drain the ledger.
// Below the threshold nothing mutates.
func (t *Tuner) Tick() {
	n := t.pipe.deps.Ledger.Len()
	if n <= t.config.DrainThreshold {
		return
	}

	baseline := t.pipe.deps.Heuristic.Retune()
	ruleCount := len(t.pipe.deps.Rules.Evolve())
	drained := t.pipe.deps.Ledger.Drain()

	log.Printf("[TUNER] retuned: baseline=%.4f rules=%d drained=%d", baseline, ruleCount, len(drained))
}

// #endregion tuner
