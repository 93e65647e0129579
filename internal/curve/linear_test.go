package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSupply   = 1_000_000 * 1_000_000_000 // 1M tokens, 9 decimals
	testDecimals = 9
	testInitial  = Price(28_000 * PriceScale)  // 28k lamports per token
	testTerminal = Price(280_000 * PriceScale) // 10x over the curve
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := NewConfig(testSupply, testDecimals, testInitial, testTerminal)
	require.NoError(t, err)
	return cfg
}

func TestNewConfig_RejectsNegativeSlope(t *testing.T) {
	_, err := NewConfig(testSupply, testDecimals, testTerminal, testInitial)
	assert.Error(t, err, "terminal below initial must be rejected")

	_, err = NewConfig(0, testDecimals, testInitial, testTerminal)
	assert.Error(t, err, "zero supply must be rejected")

	_, err = NewConfig(testSupply, testDecimals, 0, testTerminal)
	assert.Error(t, err, "zero initial price must be rejected")
}

func TestNewConfig_AllowsFlatCurve(t *testing.T) {
	cfg, err := NewConfig(testSupply, testDecimals, testInitial, testInitial)
	require.NoError(t, err)
	assert.Equal(t, testInitial, cfg.PriceAt(0))
	assert.Equal(t, testInitial, cfg.PriceAt(testSupply/2))
}

func TestPriceAt_Monotonic(t *testing.T) {
	cfg := testConfig(t)

	points := []uint64{0, 1, 1_000, testSupply / 4, testSupply / 2, testSupply - 1, testSupply}
	prev := Price(0)
	for _, x := range points {
		p := cfg.PriceAt(x)
		assert.GreaterOrEqual(t, uint64(p), uint64(prev), "price must be non-decreasing at x=%d", x)
		prev = p
	}

	assert.Equal(t, testInitial, cfg.PriceAt(0))
	assert.Equal(t, testTerminal, cfg.PriceAt(testSupply))
}

func TestInitial(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, testInitial, cfg.Initial())
	assert.Equal(t, cfg.PriceAt(0), cfg.Initial())
}

func TestCostBetween_WholeCurve(t *testing.T) {
	cfg := testConfig(t)

	// The linear curve's total cost is the average price times supply:
	// (28k + 280k)/2 lamports per token over 1M tokens.
	cost, err := cfg.CostBetween(0, testSupply)
	require.NoError(t, err)

	expected := uint64((28_000 + 280_000) / 2 * 1_000_000)
	assert.Equal(t, expected, cost)
	t.Logf("whole-curve cost: %d lamports (%.3f SOL)", cost, float64(cost)/LamportsPerSOL)
}

func TestCostBetween_Additive(t *testing.T) {
	cfg := testConfig(t)

	mid := uint64(testSupply / 3)
	first, err := cfg.CostBetween(0, mid)
	require.NoError(t, err)
	second, err := cfg.CostBetween(mid, testSupply)
	require.NoError(t, err)
	whole, err := cfg.CostBetween(0, testSupply)
	require.NoError(t, err)

	// Segments may each lose one unit to flooring.
	assert.InDelta(t, float64(whole), float64(first+second), 2)
}

func TestCostBetween_Invalid(t *testing.T) {
	cfg := testConfig(t)

	_, err := cfg.CostBetween(10, 5)
	assert.Error(t, err)

	_, err = cfg.CostBetween(0, testSupply+1)
	assert.Error(t, err)
}

func TestTokensForSol_InvertsCost(t *testing.T) {
	cfg := testConfig(t)

	for _, sold := range []uint64{0, testSupply / 10, testSupply / 2} {
		for _, lamports := range []uint64{1_000_000, LamportsPerSOL, 5 * LamportsPerSOL} {
			d := cfg.TokensForSol(sold, lamports)
			require.Positive(t, d, "sold=%d lamports=%d", sold, lamports)

			cost, err := cfg.CostBetween(sold, sold+d)
			require.NoError(t, err)
			assert.LessOrEqual(t, cost, lamports, "solved fill must not overcharge")

			// One more unit must exceed the budget.
			over, err := cfg.CostBetween(sold, sold+d+1)
			require.NoError(t, err)
			assert.Greater(t, over, lamports, "solved fill must be maximal")
		}
	}
}

func TestTokensForSol_Deterministic(t *testing.T) {
	cfg := testConfig(t)

	first := cfg.TokensForSol(12_345, 7*LamportsPerSOL)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, cfg.TokensForSol(12_345, 7*LamportsPerSOL))
	}
}

func TestTokensForSol_ClampsAtSupply(t *testing.T) {
	cfg := testConfig(t)

	whole, err := cfg.CostBetween(0, testSupply)
	require.NoError(t, err)

	d := cfg.TokensForSol(0, whole*10)
	assert.Equal(t, uint64(testSupply), d)

	assert.Zero(t, cfg.TokensForSol(testSupply, LamportsPerSOL))
	assert.Zero(t, cfg.TokensForSol(0, 0))
}

func TestPriceDisplay(t *testing.T) {
	p := Price(28_000 * PriceScale)
	assert.InDelta(t, 28_000.0, p.Lamports(), 1e-9)
	assert.InDelta(t, 0.000028, p.SOL(), 1e-12)
}
