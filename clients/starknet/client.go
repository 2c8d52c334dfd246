package starknet

import (
	"context"

	"github.com/NethermindEth/kakarot-relayer/core"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=../../mocks/mock_starknet.go -package=mocks github.com/NethermindEth/kakarot-relayer/clients/starknet Provider
type Provider interface {
	ChainID(ctx context.Context) (*felt.Felt, error)
	Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
	Call(ctx context.Context, call *FunctionCall) ([]*felt.Felt, error)
	AddInvokeTransaction(ctx context.Context, txn *core.InvokeTransaction) (*felt.Felt, error)
	TransactionReceipt(ctx context.Context, hash *felt.Felt) (*TransactionReceipt, error)
}

type BlockTag string

const (
	Latest  BlockTag = "latest"
	Pending BlockTag = "pending"
)

type FunctionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector"`
	Calldata           []*felt.Felt `json:"calldata"`
}

type FeePayment struct {
	Amount *felt.Felt `json:"amount"`
	Unit   string     `json:"unit"`
}

type TransactionReceipt struct {
	TransactionHash *felt.Felt  `json:"transaction_hash"`
	ActualFee       *FeePayment `json:"actual_fee"`
	ExecutionStatus string      `json:"execution_status"`
	FinalityStatus  string      `json:"finality_status"`
	BlockNumber     *uint64     `json:"block_number,omitempty"`
	RevertReason    string      `json:"revert_reason,omitempty"`
}

func (r *TransactionReceipt) Reverted() bool {
	return r.ExecutionStatus == "REVERTED"
}

type broadcastedInvoke struct {
	Type          string       `json:"type"`
	SenderAddress *felt.Felt   `json:"sender_address"`
	Calldata      []*felt.Felt `json:"calldata"`
	MaxFee        *felt.Felt   `json:"max_fee"`
	Version       *felt.Felt   `json:"version"`
	Signature     []*felt.Felt `json:"signature"`
	Nonce         *felt.Felt   `json:"nonce"`
}

type addInvokeResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

var _ Provider = (*Client)(nil)

// Client talks to a Starknet full node over JSON-RPC.
type Client struct {
	rpc      *rpc.Client
	blockTag BlockTag
	log      utils.SimpleLogger
}

func Dial(ctx context.Context, url string, log utils.SimpleLogger) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial starknet node %s", url)
	}
	return NewClient(c, log), nil
}

func NewClient(c *rpc.Client, log utils.SimpleLogger) *Client {
	return &Client{
		rpc:      c,
		blockTag: Pending,
		log:      log,
	}
}

// WithBlockTag sets the block nonces and calls are evaluated against.
func (c *Client) WithBlockTag(tag BlockTag) *Client {
	c.blockTag = tag
	return c
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	err := adaptError(c.rpc.CallContext(ctx, result, method, args...), method)
	if err != nil {
		c.log.Debugw("Starknet RPC call failed", "method", method, "err", err)
	}
	return err
}

func (c *Client) ChainID(ctx context.Context) (*felt.Felt, error) {
	var chainID felt.Felt
	if err := c.call(ctx, &chainID, "starknet_chainId"); err != nil {
		return nil, err
	}
	return &chainID, nil
}

// Nonce returns the nonce of a deployed account. Undeployed accounts have nonce zero.
func (c *Client) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	var nonce felt.Felt
	err := c.call(ctx, &nonce, "starknet_getNonce", c.blockTag, address)
	if IsErrorCode(err, ContractNotFound) {
		return new(felt.Felt), nil
	}
	if err != nil {
		return nil, err
	}
	return &nonce, nil
}

func (c *Client) Call(ctx context.Context, call *FunctionCall) ([]*felt.Felt, error) {
	if call.Calldata == nil {
		call.Calldata = []*felt.Felt{}
	}

	var result []*felt.Felt
	if err := c.call(ctx, &result, "starknet_call", call, c.blockTag); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) AddInvokeTransaction(ctx context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
	var resp addInvokeResponse
	err := c.call(ctx, &resp, "starknet_addInvokeTransaction", broadcastedInvoke{
		Type:          "INVOKE",
		SenderAddress: txn.SenderAddress,
		Calldata:      txn.CallData,
		MaxFee:        txn.MaxFee,
		Version:       txn.Version,
		Signature:     txn.Signature,
		Nonce:         txn.Nonce,
	})
	if err != nil {
		return nil, err
	}
	if resp.TransactionHash == nil {
		return nil, errors.New("starknet_addInvokeTransaction: empty transaction hash")
	}
	return resp.TransactionHash, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*TransactionReceipt, error) {
	var receipt TransactionReceipt
	if err := c.call(ctx, &receipt, "starknet_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return &receipt, nil
}
