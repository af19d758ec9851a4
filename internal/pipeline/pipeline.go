package pipeline

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/stablegate/internal/settle"
)

// #region pipeline

// Pipeline is the request orchestrator: admission check, accept/reject
// branch, sealing, and the adaptive bookkeeping around both. Each request
// terminates in one hop; the only shared mutable state lives in the injected
// collaborators, each guarded by its own lock. No lock is held while a
// digest is computed or a settlement row is written.
type Pipeline struct {
	config Config
	deps   Deps
}

// New creates a pipeline instance over the shared collaborators.
func New(config Config, deps Deps) *Pipeline {
	return &Pipeline{config: config, deps: deps}
}

// #endregion pipeline

// #region process

// Process admits or rejects a transfer request and seals accepted content.
// Rejections append to the ledger and return a typed error. Acceptance
// seals, records the settlement row, then lets the rule set learn from the
// ledger before the observation is appended.
func (p *Pipeline) Process(content string, amount float64) (Result, error) {
	score := p.deps.Heuristic.Score(content)
	if score < p.config.AcceptThreshold {
		return Result{Score: score}, p.reject(content, score)
	}

	token := p.deps.Sealer.Seal(content)
	id := uuid.New().String()

	if p.deps.Store != nil {
		rec := settle.Record{
			Key:      p.deps.Sealer.ContentKey(content),
			RecordID: id,
			Instance: p.config.Instance,
			Content:  content,
			Token:    token,
			Decision: "accepted",
		}
		if err := p.deps.Store.Insert(rec); err != nil {
			// Duplicate keys reach the caller untouched; nothing else has
			// mutated yet.
			return Result{Score: score}, err
		}
	}

	// Learn from the ledger as it stood when this request arrived, then
	// record the observation. The reversed order would let the observation
	// itself tip the learn threshold.
	if p.deps.Rules.Learn(p.deps.Ledger.Len()) {
		log.Printf("[PIPE] %s: rule set grew from ledger pressure", p.config.Instance)
	}
	p.deps.Ledger.Append(fmt.Sprintf("processed: %s amount=%g", content, amount))

	log.Printf("[PIPE] %s: accepted request %s score=%.2f", p.config.Instance, id, score)
	return Result{RequestID: id, Status: StatusSuccess, Score: score, Token: token}, nil
}

// #endregion process

// #region seal-ops

// SealOnly runs the admission branch and returns the sealed token without a
// settlement row. The adaptive bookkeeping is the same as Process.
func (p *Pipeline) SealOnly(content string) (string, error) {
	score := p.deps.Heuristic.Score(content)
	if score < p.config.AcceptThreshold {
		return "", p.reject(content, score)
	}
	token := p.deps.Sealer.Seal(content)
	if p.deps.Rules.Learn(p.deps.Ledger.Len()) {
		log.Printf("[PIPE] %s: rule set grew from ledger pressure", p.config.Instance)
	}
	p.deps.Ledger.Append("sealed: " + content)
	return token, nil
}

// Unseal validates the token shape and applies the disallowed-content check
// to whatever decodes. Tokens produced by Seal never decode back to their
// content; see seal.Sealer.Unseal.
func (p *Pipeline) Unseal(token string) (string, error) {
	payload, err := p.deps.Sealer.Unseal(token)
	if err != nil {
		return "", err
	}
	if p.deps.Heuristic.Disallowed(payload) {
		return "", fmt.Errorf("%w: unsealed payload", ErrDisallowedContent)
	}
	return payload, nil
}

// #endregion seal-ops

// #region sign-ops

// Sign reuses the admission check, then produces a detached signature.
func (p *Pipeline) Sign(content string) (string, error) {
	score := p.deps.Heuristic.Score(content)
	if score < p.config.AcceptThreshold {
		if p.deps.Heuristic.Disallowed(content) {
			return "", fmt.Errorf("%w: refusing to sign", ErrDisallowedContent)
		}
		return "", fmt.Errorf("%w: refusing to sign, score %.2f", ErrLowScore, score)
	}
	return p.deps.Sealer.Sign(content), nil
}

// Verify recomputes the expected signature and compares, then re-applies
// the disallowed-content check. Both must hold: a matching digest over
// disallowed content still verifies false.
func (p *Pipeline) Verify(content, signature string) bool {
	if !p.deps.Sealer.DigestMatches(content, signature) {
		return false
	}
	return !p.deps.Heuristic.Disallowed(content)
}

// #endregion sign-ops

// #region breach-rules

// ReportBreach increments the breach counter and mirrors the event into the
// settlement store when present. Store failures are logged, not surfaced:
// the counter increment already happened.
func (p *Pipeline) ReportBreach() int {
	n := p.deps.Rules.ReportBreach()
	if p.deps.Store != nil {
		if err := p.deps.Store.RecordBreach(n); err != nil {
			log.Printf("[PIPE] %s: breach event not persisted: %v", p.config.Instance, err)
		}
	}
	return n
}

// ListRules returns the current rule list in append order.
func (p *Pipeline) ListRules() []string {
	return p.deps.Rules.List()
}

// #endregion breach-rules

// #region reject

func (p *Pipeline) reject(content string, score float64) error {
	p.deps.Ledger.Append("rejected: " + content)
	log.Printf("[PIPE] %s: rejected request score=%.2f", p.config.Instance, score)
	if p.deps.Heuristic.Disallowed(content) {
		return ErrDisallowedContent
	}
	return fmt.Errorf("%w: score %.2f", ErrLowScore, score)
}

// #endregion reject
