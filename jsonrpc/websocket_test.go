package jsonrpc_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsocket(t *testing.T) {
	listener := new(countingEndpointListener)
	ws := jsonrpc.NewWebsocket(newTestServer(t), utils.NewNopZapLogger()).WithListener(listener)
	srv := httptest.NewServer(ws)
	t.Cleanup(srv.Close)
	ctx := context.Background()

	conn, resp, err := websocket.Dial(ctx, srv.URL, nil) //nolint:bodyclose // websocket package closes resp.Body for us.
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	for _, id := range []string{"1", "2"} {
		msg := `{"jsonrpc":"2.0","method":"eth_chainId","id":` + id + `}`
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(msg)))

		_, got, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, `{"jsonrpc":"2.0","result":"0x4b4b5254","id":`+id+`}`, string(got))
	}
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	payloads, _ := listener.counts()
	assert.Equal(t, 2, payloads)

	t.Run("plain HTTP is not upgraded", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, http.NoBody)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.NotEqual(t, http.StatusSwitchingProtocols, resp.StatusCode)

		// the handshake response is written before the rejection is reported
		assert.Eventually(t, func() bool {
			_, rejected := listener.counts()
			return len(rejected) == 1 && rejected[0] == jsonrpc.RejectUpgrade
		}, time.Second, 10*time.Millisecond)
	})
}
