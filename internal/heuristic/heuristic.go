package heuristic

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// #region heuristic

// Heuristic maps request content to an admission score in [0,1].
// Marker hits are pure lookups; only the baseline used for unmarked
// content is mutable, guarded by its own mutex.
type Heuristic struct {
	config Config

	mu       sync.Mutex
	baseline float64
	draw     func() float64
}

// New creates a Heuristic with the given configuration.
func New(config Config) *Heuristic {
	return &Heuristic{
		config:   config,
		baseline: config.BaselineScore,
		draw:     rand.Float64,
	}
}

// NewWithSource creates a Heuristic with an injected random draw.
// Used for deterministic retune tests.
func NewWithSource(config Config, draw func() float64) *Heuristic {
	h := New(config)
	h.draw = draw
	return h
}

// #endregion heuristic

// #region score

// Score returns the admission confidence for content. Disallowed markers
// dominate accepted markers, so mixed content scores low.
func (h *Heuristic) Score(content string) float64 {
	if h.Disallowed(content) {
		return h.config.RejectScore
	}
	if h.Accepted(content) {
		return h.config.AcceptScore
	}
	return h.Baseline()
}

// Disallowed reports whether content carries a disallowed marker.
func (h *Heuristic) Disallowed(content string) bool {
	return containsAny(content, h.config.DisallowedMarkers)
}

// Accepted reports whether content carries an accepted-asset marker.
func (h *Heuristic) Accepted(content string) bool {
	return containsAny(content, h.config.AcceptedMarkers)
}

// #endregion score

// #region baseline

// Baseline returns the current score for unmarked content.
func (h *Heuristic) Baseline() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.baseline
}

// SetBaseline replaces the baseline, clamped to [0,1]. Used by config reload.
func (h *Heuristic) SetBaseline(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.baseline = clamp(v)
}

// Retune replaces the baseline with a fresh draw in [0,1) and returns it.
// This is the entirety of adaptation for this component: a single scalar,
// no history kept across retunes.
func (h *Heuristic) Retune() float64 {
	v := clamp(h.draw())
	h.mu.Lock()
	h.baseline = v
	h.mu.Unlock()
	return v
}

// #endregion baseline

// #region helpers

func containsAny(content string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
