// =============================
// File: launchpad.go
// =============================

// Package launchpad is the pricing core of a token-launch marketplace:
// bonding-curve quotation before graduation, constant-product pricing
// after, and market-cap snapshots on top. It performs no signing, no
// transaction building and no rendering; those live in the layers
// around it.
package launchpad

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"github.com/rovshanmuradov/launchpad-engine/internal/config"
	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/rovshanmuradov/launchpad-engine/internal/graduation"
	"github.com/rovshanmuradov/launchpad-engine/internal/logger"
	"github.com/rovshanmuradov/launchpad-engine/internal/marketcap"
	"github.com/rovshanmuradov/launchpad-engine/internal/oracle"
	"github.com/rovshanmuradov/launchpad-engine/internal/quote"
	"github.com/rovshanmuradov/launchpad-engine/internal/supply"
)

// Re-exported aliases so embedding services can name the engine's types
// without reaching into internal packages.
type (
	Config           = config.Config
	CurveConfig      = curve.Config
	Price            = curve.Price
	Quote            = quote.Quote
	Direction        = quote.Direction
	Snapshot         = marketcap.Snapshot
	GraduationStatus = graduation.Status
	ChainReader      = chain.Reader
	MetadataStore    = supply.Store
	PriceFeed        = oracle.Feed
)

const (
	Buy  = quote.Buy
	Sell = quote.Sell

	StatusBonding   = graduation.StatusBonding
	StatusGraduated = graduation.StatusGraduated
)

var (
	ErrInvalidAmount       = quote.ErrInvalidAmount
	ErrInsufficientSupply  = quote.ErrInsufficientSupply
	ErrInsufficientReserve = quote.ErrInsufficientReserve
	ErrSuperseded          = quote.ErrSuperseded
	ErrOracleUnavailable   = oracle.ErrUnavailable
)

// NewCurveConfig validates price targets and derives the linear-curve
// coefficients.
func NewCurveConfig(totalSupply uint64, decimals uint8, initial, terminal Price) (*CurveConfig, error) {
	return curve.NewConfig(totalSupply, decimals, initial, terminal)
}

// Engine bundles the quotation and market-cap engines behind one wired
// instance.
type Engine struct {
	Quotes     *quote.Engine
	MarketCaps *marketcap.Engine
	Policy     *graduation.Policy
	Supply     *supply.Tracker
	Store      *supply.MemoryStore
	Logger     *zap.Logger
}

// New wires an Engine from configuration: RPC pool, graduation policy,
// supply tracker, oracle feed, optional live quote service.
func New(cfg *Config) (*Engine, error) {
	log := logger.New(cfg.DebugLogging)

	launchProgram, err := solana.PublicKeyFromBase58(cfg.LaunchProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid launch program id: %w", err)
	}
	poolProgram, err := solana.PublicKeyFromBase58(cfg.PoolProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid pool program id: %w", err)
	}

	reader := chain.NewClient(cfg.RPCList, launchProgram, poolProgram, log)
	store := supply.NewMemoryStore()
	tracker := supply.NewTracker(store, reader, log)
	policy := graduation.NewPolicy(reader, cfg.GraduationThresholdLamports, log)

	var live quote.Source
	if cfg.QuoteServiceURL != "" {
		live = quote.NewLiveService(cfg.QuoteServiceURL, log)
	}

	quotes := quote.NewEngine(policy, tracker, reader, log, quote.Options{
		Live:           live,
		CoalesceWindow: time.Duration(cfg.CoalesceWindowMs) * time.Millisecond,
	})

	var feed oracle.Feed = oracle.Static(0)
	if cfg.OracleURL != "" {
		feed = oracle.NewClient(cfg.OracleURL, cfg.OracleJSONPath, 0, log)
	}

	marketCaps := marketcap.NewEngine(policy, tracker, reader, feed, log, marketcap.Options{
		TTL:          time.Duration(cfg.MarketCapTTLMs) * time.Millisecond,
		HistoryLimit: cfg.HistoryLimit,
		Store:        store,
	})

	return &Engine{
		Quotes:     quotes,
		MarketCaps: marketCaps,
		Policy:     policy,
		Supply:     tracker,
		Store:      store,
		Logger:     log,
	}, nil
}

// LoadConfig reads and validates an engine configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.LoadConfig(path)
}
