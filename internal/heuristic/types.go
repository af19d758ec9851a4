package heuristic

// #region config

// Config holds the marker vocabularies and score levels for admission checks.
type Config struct {
	AcceptedMarkers   []string // content carrying any of these scores AcceptScore
	DisallowedMarkers []string // content carrying any of these scores RejectScore

	AcceptScore   float64 // strongly valid, >= 0.9
	RejectScore   float64 // strongly invalid, <= 0.1
	BaselineScore float64 // unmarked content, mutable via Retune
}

// DefaultConfig returns the standard stablecoin marker vocabulary.
func DefaultConfig() Config {
	return Config{
		AcceptedMarkers:   []string{"stablecoin", "USDC", "USDT", "DAI"},
		DisallowedMarkers: []string{"volatile", "crypto", "blockchain", "defi", "token"},
		AcceptScore:       0.95,
		RejectScore:       0.05,
		BaselineScore:     0.5,
	}
}

// #endregion config
