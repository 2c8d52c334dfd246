package node

import (
	"testing"
	"time"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/NethermindEth/kakarot-relayer/relayer"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	originalRegisterer, originalGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer, prometheus.DefaultGatherer = originalRegisterer, originalGatherer
	})
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer, prometheus.DefaultGatherer = reg, reg
	return reg
}

func TestMakeRelayerMetrics(t *testing.T) {
	reg := useRegistry(t)

	listener := makeRelayerMetrics()
	listener.OnRelay(relayer.OutcomeSuccess, time.Second)
	listener.OnRelay(relayer.OutcomeSuccess, time.Second)
	listener.OnRelay(relayer.OutcomeNonceConflict, time.Second)
	listener.OnInFlight(1)
	listener.OnInFlight(1)
	listener.OnInFlight(-1)
	listener.OnBalance(new(felt.Felt).SetUint64(0xabc), uint256.NewInt(42))

	count, err := testutil.GatherAndCount(reg, "relayer_relays")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	metrics, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range metrics {
		for _, m := range family.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[family.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				for _, label := range m.GetLabel() {
					values[family.GetName()+"/"+label.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), values["relayer_in_flight"])
	assert.Equal(t, float64(42), values["relayer_balance"])
	assert.Equal(t, float64(2), values["relayer_relays/"+relayer.OutcomeSuccess])
	assert.Equal(t, float64(1), values["relayer_relays/"+relayer.OutcomeNonceConflict])
}

func TestMakePendingMetrics(t *testing.T) {
	reg := useRegistry(t)

	listener := makePendingMetrics()
	listener.OnSweep(3, time.Millisecond)
	listener.OnSweep(2, time.Millisecond)

	metrics, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range metrics {
		if family.GetName() == "pending_unresolved" {
			assert.Equal(t, float64(2), family.GetMetric()[0].GetGauge().GetValue())
			return
		}
	}
	t.Fatal("pending_unresolved not registered")
}

func TestMakeRPCMetrics(t *testing.T) {
	reg := useRegistry(t)

	listener := makeRPCMetrics()
	listener.OnRequest("eth_chainId")
	listener.OnRequestHandled("eth_chainId", time.Millisecond)
	listener.OnRequestFailed("eth_sendRawTransaction", jsonrpc.InvalidParams)

	count, err := testutil.GatherAndCount(reg, "rpc_server_failed_requests")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = testutil.GatherAndCount(reg, "rpc_server_requests")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMakeEndpointMetrics(t *testing.T) {
	reg := useRegistry(t)

	listener := makeEndpointMetrics("http")
	listener.OnPayload()
	listener.OnPayload()
	listener.OnRejected(jsonrpc.RejectNotFound)
	listener.OnRejected(jsonrpc.RejectMethodNotAllowed)
	listener.OnRejected(jsonrpc.RejectNotFound)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			key := family.GetName()
			for _, label := range m.GetLabel() {
				key += "/" + label.GetValue()
			}
			values[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), values["rpc_http_requests"])
	assert.Equal(t, float64(2), values["rpc_http_rejected/"+jsonrpc.RejectNotFound])
	assert.Equal(t, float64(1), values["rpc_http_rejected/"+jsonrpc.RejectMethodNotAllowed])
}
