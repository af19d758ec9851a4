package rules

import "testing"

func TestLearnBelowThresholdAddsNothing(t *testing.T) {
	s := New(DefaultConfig())
	seed := len(s.List())
	if s.Learn(10) {
		t.Fatal("Learn(10) appended a rule, threshold is exclusive")
	}
	if got := len(s.List()); got != seed {
		t.Fatalf("rule count = %d, want %d", got, seed)
	}
}

func TestLearnAboveThresholdAppendsOne(t *testing.T) {
	s := New(DefaultConfig())
	seed := len(s.List())
	if !s.Learn(11) {
		t.Fatal("Learn(11) did not append")
	}
	got := s.List()
	if len(got) != seed+1 {
		t.Fatalf("rule count = %d, want %d", len(got), seed+1)
	}
	if got[len(got)-1] != LedgerRule {
		t.Fatalf("appended %q, want %q", got[len(got)-1], LedgerRule)
	}
}

func TestLearnNeverDeduplicates(t *testing.T) {
	s := New(DefaultConfig())
	seed := len(s.List())
	s.Learn(11)
	s.Learn(12)
	s.Learn(13)
	if got := len(s.List()); got != seed+3 {
		t.Fatalf("rule count = %d, want %d", got, seed+3)
	}
}

func TestReportBreachCountsAndAppendsOnce(t *testing.T) {
	s := New(Config{LearnThreshold: 10, BreachThreshold: 3})
	for i := 1; i <= 3; i++ {
		if got := s.ReportBreach(); got != i {
			t.Fatalf("breach count = %d, want %d", got, i)
		}
	}
	if len(s.List()) != 0 {
		t.Fatal("rule appended at threshold, want strictly above")
	}
	s.ReportBreach() // 4 > 3
	got := s.List()
	if len(got) != 1 || got[0] != BreachRule {
		t.Fatalf("rules = %v, want single breach rule", got)
	}
	s.ReportBreach() // still same epoch, no second rule
	if len(s.List()) != 1 {
		t.Fatal("breach rule appended twice in one epoch")
	}
}

func TestEvolveResetsBreachEpoch(t *testing.T) {
	s := New(Config{BreachThreshold: 1})
	s.ReportBreach()
	s.ReportBreach() // crosses, appends
	before := len(s.List())

	rules := s.Evolve()
	if len(rules) != before {
		t.Fatalf("Evolve returned %d rules, want %d", len(rules), before)
	}
	if s.Breaches() != 0 {
		t.Fatalf("breaches after evolve = %d, want 0", s.Breaches())
	}

	// New epoch: the breach rule can be earned again.
	s.ReportBreach()
	s.ReportBreach()
	if got := len(s.List()); got != before+1 {
		t.Fatalf("rule count = %d, want %d after new epoch", got, before+1)
	}
}

func TestListIsCopy(t *testing.T) {
	s := New(DefaultConfig())
	got := s.List()
	got[0] = "mutated"
	if s.List()[0] == "mutated" {
		t.Fatal("List aliased internal storage")
	}
}
