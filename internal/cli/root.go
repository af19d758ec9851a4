package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/stablegate/internal/config"
	"github.com/danielpatrickdp/stablegate/internal/convert"
	"github.com/danielpatrickdp/stablegate/internal/enforcer"
	"github.com/danielpatrickdp/stablegate/internal/heuristic"
	"github.com/danielpatrickdp/stablegate/internal/ledger"
	"github.com/danielpatrickdp/stablegate/internal/pipeline"
	"github.com/danielpatrickdp/stablegate/internal/rules"
	"github.com/danielpatrickdp/stablegate/internal/seal"
	"github.com/danielpatrickdp/stablegate/internal/settle"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stablegate",
	Short: "Adaptive validation and sealing gateway for stablecoin transfers",
	Long:  "Admits transfer requests by marker heuristics, seals accepted content with a keyed one-way digest, and tunes its own admission baseline from request pressure.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// #region wiring

// app is one fully wired gateway: every command builds the same graph so
// CLI invocations and the server share semantics exactly.
type app struct {
	cfg       config.Config
	store     *settle.Store
	sealer    *seal.Sealer
	heuristic *heuristic.Heuristic
	ledger    *ledger.Ledger
	rules     *rules.Set
	pipeline  *pipeline.Pipeline
	converter *convert.Converter
	enforcer  *enforcer.Enforcer
}

func buildApp(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	store, err := settle.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open settlement store: %w", err)
	}

	heurCfg := heuristic.DefaultConfig()
	heurCfg.BaselineScore = cfg.BaselineScore
	heur := heuristic.New(heurCfg)

	rulesCfg := rules.DefaultConfig()
	rulesCfg.LearnThreshold = cfg.LearnThreshold
	rulesCfg.BreachThreshold = cfg.BreachThreshold
	ruleSet := rules.New(rulesCfg)

	sealer := seal.NewSealer(cfg.Seed)
	led := ledger.New()

	pipe := pipeline.New(pipeline.Config{
		Instance:        "issuance",
		AcceptThreshold: cfg.AcceptThreshold,
	}, pipeline.Deps{
		Heuristic: heur,
		Sealer:    sealer,
		Ledger:    led,
		Rules:     ruleSet,
		Store:     store,
	})

	conv := convert.New(convert.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedTargets: cfg.AllowedTargets,
		FixedUnitValue: cfg.FixedUnitValue,
	}, pipe, led)

	enfCfg := enforcer.DefaultConfig()
	enfCfg.AllowedOrigins = cfg.AllowedOrigins
	enfCfg.AllowedRecipients = cfg.AllowedRecipients
	enfCfg.FixedUnitValue = cfg.FixedUnitValue
	enf := enforcer.New(enfCfg, sealer, led, ruleSet, store)

	return &app{
		cfg:       cfg,
		store:     store,
		sealer:    sealer,
		heuristic: heur,
		ledger:    led,
		rules:     ruleSet,
		pipeline:  pipe,
		converter: conv,
		enforcer:  enf,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: close store: %v\n", err)
	}
}

// #endregion wiring
