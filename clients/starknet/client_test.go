package starknet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NethermindEth/kakarot-relayer/clients/starknet"
	"github.com/NethermindEth/kakarot-relayer/core"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type handlerFunc func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError)

func newTestClient(t *testing.T, handle handlerFunc) *starknet.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		result, rpcErr := handle(t, req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	client, err := starknet.Dial(context.Background(), srv.URL, utils.NewNopZapLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestChainID(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "starknet_chainId", method)
		return "0x534e5f5345504f4c4941", nil
	})

	chainID, err := client.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, new(felt.Felt).SetBytes([]byte("SN_SEPOLIA")), chainID)
}

func TestNonce(t *testing.T) {
	deployed := utils.HexToFelt(t, "0x1")
	client := newTestClient(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "starknet_getNonce", method)
		require.Len(t, params, 2)
		assert.JSONEq(t, `"pending"`, string(params[0]))

		var address felt.Felt
		require.NoError(t, json.Unmarshal(params[1], &address))
		if address.Equal(deployed) {
			return "0x2a", nil
		}
		return nil, &rpcError{Code: 20, Message: "Contract not found"}
	})

	t.Run("deployed", func(t *testing.T) {
		nonce, err := client.Nonce(context.Background(), deployed)
		require.NoError(t, err)
		assert.Equal(t, felt.NewFromUint64(42), nonce)
	})

	t.Run("not deployed", func(t *testing.T) {
		nonce, err := client.Nonce(context.Background(), utils.HexToFelt(t, "0x2"))
		require.NoError(t, err)
		assert.True(t, nonce.IsZero())
	})
}

func TestAddInvokeTransaction(t *testing.T) {
	txn := &core.InvokeTransaction{
		SenderAddress: utils.HexToFelt(t, "0xabc"),
		CallData:      []*felt.Felt{felt.NewFromUint64(1)},
		MaxFee:        felt.NewFromUint64(99),
		Version:       felt.NewFromUint64(1),
		Signature:     []*felt.Felt{felt.NewFromUint64(7), felt.NewFromUint64(8)},
		Nonce:         felt.NewFromUint64(3),
	}

	t.Run("accepted", func(t *testing.T) {
		client := newTestClient(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
			assert.Equal(t, "starknet_addInvokeTransaction", method)
			require.Len(t, params, 1)
			assert.JSONEq(t, `{
				"type": "INVOKE",
				"sender_address": "0xabc",
				"calldata": ["0x1"],
				"max_fee": "0x63",
				"version": "0x1",
				"signature": ["0x7", "0x8"],
				"nonce": "0x3"
			}`, string(params[0]))
			return map[string]string{"transaction_hash": "0xbeef"}, nil
		})

		hash, err := client.AddInvokeTransaction(context.Background(), txn)
		require.NoError(t, err)
		assert.Equal(t, felt.NewFromUint64(0xbeef), hash)
	})

	t.Run("invalid nonce", func(t *testing.T) {
		client := newTestClient(t, func(t *testing.T, _ string, _ []json.RawMessage) (any, *rpcError) {
			return nil, &rpcError{Code: 52, Message: "Invalid transaction nonce", Data: "expected 4"}
		})

		_, err := client.AddInvokeTransaction(context.Background(), txn)
		require.Error(t, err)
		assert.True(t, starknet.IsErrorCode(err, starknet.InvalidTransactionNonce))
		assert.False(t, starknet.IsErrorCode(err, starknet.ValidationFailure))

		var snErr *starknet.Error
		require.ErrorAs(t, err, &snErr)
		assert.Equal(t, "expected 4", snErr.Data)
	})
}

func TestTransactionReceipt(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "starknet_getTransactionReceipt", method)
		return map[string]any{
			"transaction_hash": "0xbeef",
			"actual_fee":       map[string]string{"amount": "0x10", "unit": "WEI"},
			"execution_status": "REVERTED",
			"finality_status":  "ACCEPTED_ON_L2",
			"block_number":     12,
			"revert_reason":    "out of gas",
		}, nil
	})

	receipt, err := client.TransactionReceipt(context.Background(), felt.NewFromUint64(0xbeef))
	require.NoError(t, err)
	assert.True(t, receipt.Reverted())
	assert.Equal(t, felt.NewFromUint64(0x10), receipt.ActualFee.Amount)
	require.NotNil(t, receipt.BlockNumber)
	assert.Equal(t, uint64(12), *receipt.BlockNumber)
}

func TestBalanceOf(t *testing.T) {
	token := utils.HexToFelt(t, "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7")
	account := utils.HexToFelt(t, "0x7a11")

	client := newTestClient(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "starknet_call", method)
		require.Len(t, params, 2)

		var call starknet.FunctionCall
		require.NoError(t, json.Unmarshal(params[0], &call))
		assert.Equal(t, token, call.ContractAddress)
		assert.Equal(t, crypto.Selector("balanceOf"), call.EntryPointSelector)
		assert.Equal(t, []*felt.Felt{account}, call.Calldata)
		return []string{"0x5", "0x1"}, nil
	})

	balance, err := starknet.BalanceOf(context.Background(), client, token, account)
	require.NoError(t, err)
	want := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	want.AddUint64(want, 5)
	assert.Equal(t, want, balance)
}
