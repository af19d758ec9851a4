package pipeline

import (
	"github.com/danielpatrickdp/stablegate/internal/heuristic"
	"github.com/danielpatrickdp/stablegate/internal/ledger"
	"github.com/danielpatrickdp/stablegate/internal/rules"
	"github.com/danielpatrickdp/stablegate/internal/seal"
	"github.com/danielpatrickdp/stablegate/internal/settle"
)

// #region result

// Result is the success outcome of an accepted request.
type Result struct {
	RequestID string  `json:"request_id"`
	Status    string  `json:"status"`
	Score     float64 `json:"score"`
	Token     string  `json:"token"`
}

// StatusSuccess is the status of every accepted result.
const StatusSuccess = "success"

// #endregion result

// #region deps

// Deps bundles the collaborators shared by a pipeline instance. Store is
// optional; without it no durable settlement rows are written.
type Deps struct {
	Heuristic *heuristic.Heuristic
	Sealer    *seal.Sealer
	Ledger    *ledger.Ledger
	Rules     *rules.Set
	Store     *settle.Store
}

// Config holds per-instance pipeline parameters.
type Config struct {
	Instance        string  // settlement row label, e.g. "issuance"
	AcceptThreshold float64 // scores below this are rejected
}

// DefaultConfig returns the issuance instance defaults.
func DefaultConfig() Config {
	return Config{
		Instance:        "issuance",
		AcceptThreshold: 0.5,
	}
}

// #endregion deps
