package index

import (
	"context"
	"errors"

	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client answers whether an Ethereum transaction has been indexed as executed, by asking the
// read-path Ethereum JSON-RPC server for its receipt.
type Client struct {
	eth *ethclient.Client
	log utils.SimpleLogger
}

func Dial(ctx context.Context, url string, log utils.SimpleLogger) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewClient(ethclient.NewClient(c), log), nil
}

func NewClient(eth *ethclient.Client, log utils.SimpleLogger) *Client {
	return &Client{eth: eth, log: log}
}

func (c *Client) IsConfirmed(ctx context.Context, hash common.Hash) (bool, error) {
	receipt, err := c.eth.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return receipt.BlockNumber != nil, nil
}

func (c *Client) Close() {
	c.eth.Close()
}
