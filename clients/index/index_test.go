package index_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NethermindEth/kakarot-relayer/clients/index"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	confirmed = common.HexToHash("0xc0")
	failing   = common.HexToHash("0xee")
)

func newIndexServer(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params []common.Hash   `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch req.Params[0] {
		case confirmed:
			resp["result"] = map[string]any{
				"type":              "0x2",
				"status":            "0x1",
				"cumulativeGasUsed": "0x5208",
				"logsBloom":         "0x" + common.Bytes2Hex(make([]byte, 256)),
				"logs":              []any{},
				"transactionHash":   confirmed.Hex(),
				"contractAddress":   nil,
				"gasUsed":           "0x5208",
				"effectiveGasPrice": "0x1",
				"blockHash":         common.HexToHash("0xb1").Hex(),
				"blockNumber":       "0x10",
				"transactionIndex":  "0x0",
			}
		case failing:
			resp["error"] = map[string]any{"code": -32000, "message": "database unavailable"}
		default:
			resp["result"] = nil
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestIsConfirmed(t *testing.T) {
	client, err := index.Dial(context.Background(), newIndexServer(t), utils.NewNopZapLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	t.Run("confirmed", func(t *testing.T) {
		ok, err := client.IsConfirmed(context.Background(), confirmed)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown", func(t *testing.T) {
		ok, err := client.IsConfirmed(context.Background(), common.HexToHash("0x01"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("lookup failure", func(t *testing.T) {
		_, err := client.IsConfirmed(context.Background(), failing)
		assert.ErrorContains(t, err, "database unavailable")
	})
}
