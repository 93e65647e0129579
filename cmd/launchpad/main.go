// ====================================
// File: cmd/launchpad/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	launchpad "github.com/rovshanmuradov/launchpad-engine"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to engine config")
		mint       = flag.String("mint", "", "token mint address")
		side       = flag.String("side", "buy", "buy or sell")
		amount     = flag.Uint64("amount", 0, "lamports in (buy) or token units in (sell)")
		supply     = flag.Uint64("supply", 1_000_000_000_000_000, "total curve supply in token units")
		decimals   = flag.Uint("decimals", 6, "token decimals")
		initial    = flag.Uint64("initial-price", 28_000_000_000, "starting price, scaled lamports per whole token")
		terminal   = flag.Uint64("terminal-price", 280_000_000_000, "price at full supply, scaled lamports per whole token")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := launchpad.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	engine, err := launchpad.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wire engine: %v\n", err)
		os.Exit(1)
	}
	logger := engine.Logger
	defer logger.Sync()

	if *mint == "" {
		logger.Fatal("Mint address is required")
	}

	curveCfg, err := launchpad.NewCurveConfig(*supply, uint8(*decimals),
		launchpad.Price(*initial), launchpad.Price(*terminal))
	if err != nil {
		logger.Fatal("Invalid curve parameters", zap.Error(err))
	}

	var q *launchpad.Quote
	switch *side {
	case "buy":
		q, err = engine.Quotes.BuyQuote(ctx, *mint, *amount, curveCfg)
	case "sell":
		q, err = engine.Quotes.SellQuote(ctx, *mint, *amount, curveCfg)
	default:
		logger.Fatal("Side must be buy or sell", zap.String("side", *side))
	}
	if err != nil {
		logger.Fatal("Quote failed", zap.Error(err))
	}

	logger.Info("Quote",
		zap.String("mint", *mint),
		zap.String("side", *side),
		zap.Uint64("amount_in", q.AmountIn),
		zap.Uint64("amount_out", q.AmountOut),
		zap.Float64("pre_price_sol", q.PreTradePrice.SOL()),
		zap.Float64("post_price_sol", q.PostTradePrice.SOL()),
		zap.Int64("price_impact_bps", q.PriceImpactBps),
		zap.Bool("degraded", q.Degraded))

	snap, err := engine.MarketCaps.MarketCap(ctx, *mint, curveCfg)
	if err != nil {
		logger.Warn("Market cap unavailable", zap.Error(err))
		return
	}
	logger.Info("Market cap",
		zap.Uint64("market_cap_lamports", snap.MarketCap),
		zap.String("market_cap_usd", snap.MarketCapUSD.StringFixed(2)),
		zap.Uint64("fully_diluted_lamports", snap.FullyDiluted),
		zap.Bool("oracle_degraded", snap.OracleDegraded))
}
