// =============================
// File: internal/chain/launch_state.go
// =============================
package chain

import (
	"encoding/binary"
	"fmt"
)

// launchStateDiscriminator is the 8-byte account discriminator the
// launch program writes at the head of every curve account.
var launchStateDiscriminator = func() []byte {
	d := make([]byte, 8)
	binary.LittleEndian.PutUint64(d, 6966180631402821399)
	return d
}()

const launchStateSize = 8 + 5*8 + 1

// LaunchState is the decoded on-chain curve account for one launch.
type LaunchState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// TokensSold derives cumulative units sold from the remaining real
// token reserves.
func (s *LaunchState) TokensSold() uint64 {
	if s.RealTokenReserves > s.TokenTotalSupply {
		return 0
	}
	return s.TokenTotalSupply - s.RealTokenReserves
}

// ParseLaunchState decodes a raw curve account. Layout: 8-byte
// discriminator, five little-endian u64 fields, one completion byte.
func ParseLaunchState(data []byte) (*LaunchState, error) {
	if len(data) < launchStateSize {
		return nil, fmt.Errorf("chain: launch state too short: %d bytes", len(data))
	}
	for i := 0; i < 8; i++ {
		if data[i] != launchStateDiscriminator[i] {
			return nil, fmt.Errorf("chain: invalid launch state discriminator")
		}
	}

	return &LaunchState{
		VirtualTokenReserves: binary.LittleEndian.Uint64(data[8:16]),
		VirtualSolReserves:   binary.LittleEndian.Uint64(data[16:24]),
		RealTokenReserves:    binary.LittleEndian.Uint64(data[24:32]),
		RealSolReserves:      binary.LittleEndian.Uint64(data[32:40]),
		TokenTotalSupply:     binary.LittleEndian.Uint64(data[40:48]),
		Complete:             data[48] != 0,
	}, nil
}
