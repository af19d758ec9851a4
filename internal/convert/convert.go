package convert

import (
	"fmt"
	"log"
	"strings"

	"github.com/danielpatrickdp/stablegate/internal/ledger"
	"github.com/danielpatrickdp/stablegate/internal/pipeline"
)

// #region config

// Config holds the conversion allow-lists and the fixed unit value.
type Config struct {
	AllowedOrigins []string // unit provenance, e.g. mining, rewards, p2p
	AllowedTargets []string // conversion targets, e.g. USDC, USDT, fiat
	FixedUnitValue float64  // the only amount a unit converts at
}

// DefaultConfig returns the standard conversion policy.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"mining", "rewards", "p2p"},
		AllowedTargets: []string{"USDC", "USDT", "fiat"},
		FixedUnitValue: 314159,
	}
}

// #endregion config

// #region converter

// Converter is the conversion instance of the admission pipeline: the same
// single-hop machine with origin/target allow-list checks in front of the
// marker scoring. Allow-list failures take the same REJECTED transition as
// a low score.
type Converter struct {
	config Config
	pipe   *pipeline.Pipeline
	ledger *ledger.Ledger
}

// New creates a converter over a pipeline instance and its shared ledger.
func New(config Config, pipe *pipeline.Pipeline, l *ledger.Ledger) *Converter {
	return &Converter{config: config, pipe: pipe, ledger: l}
}

// Result is an accepted conversion: the sealed result plus the conversion
// descriptor.
type Result struct {
	pipeline.Result
	Converted string `json:"converted"` // "origin -> target"
}

// #endregion converter

// #region convert

// Convert admits or rejects a conversion request. Origin, target, and unit
// value are checked first; content then runs through the shared pipeline.
func (c *Converter) Convert(content, origin, target string, amount float64) (Result, error) {
	if !containsAny(origin, c.config.AllowedOrigins) {
		return Result{}, c.reject(content, fmt.Sprintf("origin %q not allowed", origin))
	}
	if !containsAny(target, c.config.AllowedTargets) {
		return Result{}, c.reject(content, fmt.Sprintf("target %q not allowed", target))
	}
	if amount != c.config.FixedUnitValue {
		return Result{}, c.reject(content, fmt.Sprintf("unit value %g, must be %g", amount, c.config.FixedUnitValue))
	}

	res, err := c.pipe.Process(content, amount)
	if err != nil {
		return Result{}, err
	}

	log.Printf("[CONVERT] %s -> %s accepted", origin, target)
	return Result{Result: res, Converted: origin + " -> " + target}, nil
}

func (c *Converter) reject(content, reason string) error {
	c.ledger.Append("rejected: " + content)
	log.Printf("[CONVERT] rejected: %s", reason)
	return fmt.Errorf("%w: %s", pipeline.ErrDisallowedContent, reason)
}

// #endregion convert

// #region helpers

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// #endregion helpers
