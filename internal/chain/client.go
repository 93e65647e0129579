// =============================
// File: internal/chain/client.go
// =============================
package chain

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const defaultReadTimeout = 5 * time.Second

// Client reads launch and pool accounts over Solana RPC. It implements
// Reader; every read carries a bounded timeout so a stalled node can
// never hang a quote.
type Client struct {
	pool          *RPCPool
	launchProgram solana.PublicKey
	poolProgram   solana.PublicKey
	timeout       time.Duration
	logger        *zap.Logger
}

// NewClient builds a Reader rotating across the given RPC endpoints.
func NewClient(endpoints []string, launchProgram, poolProgram solana.PublicKey, logger *zap.Logger) *Client {
	return &Client{
		pool:          NewRPCPool(endpoints),
		launchProgram: launchProgram,
		poolProgram:   poolProgram,
		timeout:       defaultReadTimeout,
		logger:        logger.Named("chain"),
	}
}

// TokensSold implements Reader.
func (c *Client) TokensSold(ctx context.Context, mint string) (uint64, error) {
	state, err := c.launchState(ctx, mint)
	if err != nil {
		return 0, err
	}
	return state.TokensSold(), nil
}

// GraduationFlag implements Reader.
func (c *Client) GraduationFlag(ctx context.Context, mint string) (bool, error) {
	state, err := c.launchState(ctx, mint)
	if err != nil {
		return false, err
	}
	return state.Complete, nil
}

// PoolReserves implements Reader. While the launch is bonding the curve
// vault is the reserve; after completion the pool account takes over.
func (c *Client) PoolReserves(ctx context.Context, mint string) (Reserves, error) {
	state, err := c.launchState(ctx, mint)
	if err != nil {
		return Reserves{}, err
	}
	if !state.Complete {
		return Reserves{Sol: state.RealSolReserves, Token: state.RealTokenReserves}, nil
	}
	return c.poolReserves(ctx, mint)
}

func (c *Client) launchState(ctx context.Context, mint string) (*LaunchState, error) {
	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint %s: %w", mint, err)
	}

	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), pk.Bytes()},
		c.launchProgram,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive curve address: %w", err)
	}

	data, err := c.accountData(ctx, addr)
	if err != nil {
		return nil, err
	}

	state, err := ParseLaunchState(data)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched launch state",
		zap.String("mint", mint),
		zap.Uint64("real_sol_reserves", state.RealSolReserves),
		zap.Uint64("tokens_sold", state.TokensSold()),
		zap.Bool("complete", state.Complete))

	return state, nil
}

func (c *Client) poolReserves(ctx context.Context, mint string) (Reserves, error) {
	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return Reserves{}, fmt.Errorf("invalid mint %s: %w", mint, err)
	}

	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("pool"), pk.Bytes()},
		c.poolProgram,
	)
	if err != nil {
		return Reserves{}, fmt.Errorf("failed to derive pool address: %w", err)
	}

	data, err := c.accountData(ctx, addr)
	if err != nil {
		return Reserves{}, err
	}
	if len(data) < 24 {
		return Reserves{}, fmt.Errorf("pool account too short: %d bytes", len(data))
	}

	// 8-byte discriminator, then sol and token reserves as LE u64.
	return Reserves{
		Sol:   binary.LittleEndian.Uint64(data[8:16]),
		Token: binary.LittleEndian.Uint64(data[16:24]),
	}, nil
}

func (c *Client) accountData(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	node := c.pool.Next()

	// Processed first for latency, Confirmed as the reliable fallback.
	info, err := node.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentProcessed,
	})
	if err != nil || info == nil || info.Value == nil {
		info, err = node.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
			Commitment: rpc.CommitmentConfirmed,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", addr.String(), err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("account not found at %s", addr.String())
	}
	return info.Value.Data.GetBinary(), nil
}
