// =============================
// File: internal/chain/rpc_pool.go
// =============================
package chain

import (
	"sync"

	"github.com/gagliardetto/solana-go/rpc"
)

// RPCPool rotates reads across a set of RPC endpoints round-robin, so a
// single slow node does not serialize every quote.
type RPCPool struct {
	clients []*rpc.Client
	mu      sync.Mutex
	index   int
}

func NewRPCPool(endpoints []string) *RPCPool {
	clients := make([]*rpc.Client, 0, len(endpoints))
	for _, endpoint := range endpoints {
		clients = append(clients, rpc.New(endpoint))
	}
	return &RPCPool{clients: clients}
}

// Next returns the next client in rotation.
func (p *RPCPool) Next() *rpc.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	client := p.clients[p.index]
	p.index = (p.index + 1) % len(p.clients)
	return client
}

// Size returns the number of pooled endpoints.
func (p *RPCPool) Size() int {
	return len(p.clients)
}
