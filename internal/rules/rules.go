package rules

import (
	"log"
	"sync"
)

// #region constants

const (
	// LedgerRule is appended when the request ledger crosses the learn threshold.
	LedgerRule = "tighten admission baseline"
	// BreachRule is appended when the breach counter crosses its threshold.
	BreachRule = "require multi-factor review"
)

// #endregion constants

// #region set

// Set is the adaptive rule list: append-only human-readable policy strings
// plus a breach counter. Rules are never deduplicated or removed.
type Set struct {
	mu              sync.Mutex
	rules           []string
	breaches        int
	learnThreshold  int
	breachThreshold int
	breachRuleAdded bool // one breach rule per tuning epoch
}

// Config holds the growth thresholds for a rule set.
type Config struct {
	Seed            []string // initial rules
	LearnThreshold  int      // ledger length that triggers LedgerRule
	BreachThreshold int      // breach count that triggers BreachRule
}

// DefaultConfig returns the standard seed rules and thresholds.
func DefaultConfig() Config {
	return Config{
		Seed: []string{
			"admit stablecoin transfers only",
			"reject volatile asset markers",
		},
		LearnThreshold:  10,
		BreachThreshold: 25,
	}
}

// New creates a rule set from config.
func New(config Config) *Set {
	seed := make([]string, len(config.Seed))
	copy(seed, config.Seed)
	return &Set{
		rules:           seed,
		learnThreshold:  config.LearnThreshold,
		breachThreshold: config.BreachThreshold,
	}
}

// #endregion set

// #region learn

// Learn grows the rule list from the observed ledger size. One rule is
// appended per call once ledgerLen exceeds the learn threshold; each
// qualifying call appends again, duplicates included.
func (s *Set) Learn(ledgerLen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ledgerLen <= s.learnThreshold {
		return false
	}
	s.rules = append(s.rules, LedgerRule)
	return true
}

// #endregion learn

// #region breach

// ReportBreach increments the breach counter and returns the new count.
// Crossing the breach threshold appends BreachRule once per tuning epoch.
func (s *Set) ReportBreach() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breaches++
	if s.breaches > s.breachThreshold && !s.breachRuleAdded {
		s.rules = append(s.rules, BreachRule)
		s.breachRuleAdded = true
	}
	return s.breaches
}

// Breaches returns the current breach count.
func (s *Set) Breaches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breaches
}

// #endregion breach

// #region evolve

// Evolve reports the current rules and closes the tuning epoch: the breach
// counter resets to zero. It mutates nothing else; actual growth happens in
// Learn and ReportBreach.
func (s *Set) Evolve() []string {
	s.mu.Lock()
	out := make([]string, len(s.rules))
	copy(out, s.rules)
	s.breaches = 0
	s.breachRuleAdded = false
	s.mu.Unlock()

	log.Printf("[RULES] evolve: %d rules active", len(out))
	return out
}

// List returns a copy of the rules in append order.
func (s *Set) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rules))
	copy(out, s.rules)
	return out
}

// #endregion evolve
