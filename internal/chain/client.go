package chain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrBlockNotFound is returned when the node has no block at the height.
var ErrBlockNotFound = errors.New("block not found")

// Client wraps go-ethereum RPC and provides the raw calls used by capture.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// GetChainID returns the chain ID.
func (c *Client) GetChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

// BlockWithTransactions calls eth_getBlockByNumber with full transaction
// objects. Fields are kept close to the wire so nothing is recomputed.
func (c *Client) BlockWithTransactions(ctx context.Context, number uint64) (*Block, error) {
	var block *Block
	err := c.rpcClient.CallContext(ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(number), true)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, ErrBlockNotFound
	}
	return block, nil
}

// BlockReceipts calls eth_getBlockReceipts.
func (c *Client) BlockReceipts(ctx context.Context, number uint64) ([]Receipt, error) {
	var receipts []Receipt
	err := c.rpcClient.CallContext(ctx, &receipts, "eth_getBlockReceipts", hexutil.EncodeUint64(number))
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

type tracerConfig struct {
	WithLog bool `json:"withLog"`
}

type traceOptions struct {
	Tracer       string       `json:"tracer"`
	TracerConfig tracerConfig `json:"tracerConfig"`
}

// TraceBlock calls debug_traceBlockByNumber with the callTracer, one entry
// per transaction. Nodes without the debug namespace return an error.
func (c *Client) TraceBlock(ctx context.Context, number uint64) ([]Trace, error) {
	var traces []Trace
	opts := traceOptions{Tracer: "callTracer", TracerConfig: tracerConfig{WithLog: true}}
	err := c.rpcClient.CallContext(ctx, &traces, "debug_traceBlockByNumber", hexutil.EncodeUint64(number), opts)
	if err != nil {
		return nil, err
	}
	return traces, nil
}
