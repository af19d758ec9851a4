package enforcer

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/stablegate/internal/ledger"
	"github.com/danielpatrickdp/stablegate/internal/pipeline"
	"github.com/danielpatrickdp/stablegate/internal/rules"
	"github.com/danielpatrickdp/stablegate/internal/seal"
	"github.com/danielpatrickdp/stablegate/internal/settle"
)

// #region config

// Config holds the transfer enforcement policy.
type Config struct {
	AllowedOrigins       []string // unit provenance: mining, rewards, p2p
	AllowedRecipients    []string // stablecoin or fiat destinations
	ContaminationMarkers []string // markers that taint a transfer outright
	FixedUnitValue       float64  // required value marker inside the transfer
	AssetMarker          string   // required asset marker inside the transfer
}

// DefaultConfig returns the standard enforcement policy.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins:       []string{"mining", "rewards", "p2p"},
		AllowedRecipients:    []string{"USDC", "USDT", "DAI", "fiat", "stablecoin"},
		ContaminationMarkers: []string{"exchange", "bursa", "external"},
		FixedUnitValue:       314159,
		AssetMarker:          "Pi",
	}
}

// #endregion config

// #region enforcer

// Enforcer is the transfer instance of the admission pipeline: the score
// step is replaced by origin/recipient allow-list checks and the sealing
// step by an idempotent settlement insert. The state machine is otherwise
// the same single hop with the same ledger and rule-set bookkeeping.
type Enforcer struct {
	config Config
	sealer *seal.Sealer
	ledger *ledger.Ledger
	rules  *rules.Set
	store  *settle.Store
}

// New creates an enforcer over the shared collaborators. store may be nil;
// without it the seen-before check is skipped.
func New(config Config, sealer *seal.Sealer, l *ledger.Ledger, r *rules.Set, store *settle.Store) *Enforcer {
	return &Enforcer{config: config, sealer: sealer, ledger: l, rules: r, store: store}
}

// #endregion enforcer

// #region enforce

// Enforce admits or rejects a transfer and records its seen-before key.
// Returns the settlement key of an accepted transfer.
func (e *Enforcer) Enforce(tx, origin, recipient string) (string, error) {
	if !containsAny(origin, e.config.AllowedOrigins) {
		return "", e.reject(tx, fmt.Sprintf("origin %q not allowed", origin))
	}
	if containsAny(tx, e.config.ContaminationMarkers) || containsAny(origin, e.config.ContaminationMarkers) {
		return "", e.reject(tx, "contaminated transfer")
	}
	if !e.carriesFixedValue(tx) {
		return "", e.reject(tx, fmt.Sprintf("unit value must be fixed at %.0f", e.config.FixedUnitValue))
	}
	if containsAny(recipient, e.config.ContaminationMarkers) || !containsAny(recipient, e.config.AllowedRecipients) {
		return "", e.reject(tx, fmt.Sprintf("recipient %q not allowed", recipient))
	}

	key := e.sealer.ContentKey(tx + "|" + origin + "|" + recipient)
	if e.store != nil {
		rec := settle.Record{
			Key:      key,
			RecordID: uuid.New().String(),
			Instance: "transfer",
			Content:  tx,
			Decision: "accepted",
		}
		if err := e.store.Insert(rec); err != nil {
			return "", err
		}
	}

	if e.rules.Learn(e.ledger.Len()) {
		log.Printf("[ENFORCE] rule set grew from ledger pressure")
	}
	e.ledger.Append("enforced: " + tx)

	log.Printf("[ENFORCE] accepted transfer %s -> %s", origin, recipient)
	return key, nil
}

func (e *Enforcer) reject(tx, reason string) error {
	e.ledger.Append("rejected: " + tx)
	log.Printf("[ENFORCE] rejected: %s", reason)
	return fmt.Errorf("%w: %s", pipeline.ErrDisallowedContent, reason)
}

// carriesFixedValue requires both the fixed value and the asset marker to
// appear in the transfer descriptor.
func (e *Enforcer) carriesFixedValue(tx string) bool {
	return strings.Contains(tx, fmt.Sprintf("%.0f", e.config.FixedUnitValue)) &&
		strings.Contains(tx, e.config.AssetMarker)
}

// #endregion enforce

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
