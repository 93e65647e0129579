package graduation

import (
	"context"
	"errors"
	"testing"

	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMint = "MintLikeBase58StringForTests11111111111111"

type fakeReader struct {
	flag     bool
	flagErr  error
	reserves chain.Reserves
	resErr   error
}

func (f *fakeReader) TokensSold(context.Context, string) (uint64, error) {
	return 0, nil
}

func (f *fakeReader) PoolReserves(context.Context, string) (chain.Reserves, error) {
	return f.reserves, f.resErr
}

func (f *fakeReader) GraduationFlag(context.Context, string) (bool, error) {
	return f.flag, f.flagErr
}

func TestStatus_ThresholdBoundary(t *testing.T) {
	cases := []struct {
		name     string
		sol      uint64
		expected Status
	}{
		{"just below 30 SOL", 29_990_000_000, StatusBonding},
		{"just above 30 SOL", 30_010_000_000, StatusGraduated},
		{"exactly at threshold", 30_000_000_000, StatusGraduated},
		{"one lamport below", 29_999_999_999, StatusBonding},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reader := &fakeReader{reserves: chain.Reserves{Sol: tc.sol, Token: 1}}
			policy := NewPolicy(reader, 0, zap.NewNop())

			status, err := policy.Status(context.Background(), testMint)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}
}

func TestStatus_ChainFlagWins(t *testing.T) {
	reader := &fakeReader{flag: true, reserves: chain.Reserves{Sol: 1, Token: 1}}
	policy := NewPolicy(reader, 0, zap.NewNop())

	status, err := policy.Status(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, StatusGraduated, status)
}

func TestStatus_OneWay(t *testing.T) {
	reader := &fakeReader{reserves: chain.Reserves{Sol: 31_000_000_000, Token: 1}}
	policy := NewPolicy(reader, 0, zap.NewNop())

	status, err := policy.Status(context.Background(), testMint)
	require.NoError(t, err)
	require.Equal(t, StatusGraduated, status)

	// Reserves dropping back below the threshold must not regress the flag.
	reader.reserves = chain.Reserves{Sol: 1_000_000_000, Token: 1}
	status, err = policy.Status(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, StatusGraduated, status, "graduation is irreversible")
}

func TestStatus_CustomThreshold(t *testing.T) {
	reader := &fakeReader{reserves: chain.Reserves{Sol: 500, Token: 1}}
	policy := NewPolicy(reader, 1_000, zap.NewNop())

	status, err := policy.Status(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, StatusBonding, status)
	assert.Equal(t, uint64(1_000), policy.Threshold())
}

func TestStatus_AllReadsFail(t *testing.T) {
	boom := errors.New("rpc down")
	reader := &fakeReader{flagErr: boom, resErr: boom}
	policy := NewPolicy(reader, 0, zap.NewNop())

	_, err := policy.Status(context.Background(), testMint)
	assert.Error(t, err)
}

func TestStatus_FlagReadFailsReservesDecide(t *testing.T) {
	reader := &fakeReader{
		flagErr:  errors.New("rpc down"),
		reserves: chain.Reserves{Sol: 31_000_000_000, Token: 1},
	}
	policy := NewPolicy(reader, 0, zap.NewNop())

	status, err := policy.Status(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, StatusGraduated, status)
}
