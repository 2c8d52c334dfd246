package node

import (
	"math/big"
	"strconv"
	"time"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/metrics"
	"github.com/NethermindEth/kakarot-relayer/pending"
	"github.com/NethermindEth/kakarot-relayer/relayer"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

// makeEndpointMetrics counts the payloads and rejections of the "http" or "ws" endpoint.
func makeEndpointMetrics(subsystem string) jsonrpc.EndpointListener {
	payloads := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: subsystem,
		Name:      "requests",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: subsystem,
		Name:      "rejected",
	}, []string{"reason"})
	metrics.MustRegister(payloads, rejected)

	return &jsonrpc.SelectiveEndpointListener{
		OnPayloadCb: payloads.Inc,
		OnRejectedCb: func(reason string) {
			rejected.WithLabelValues(reason).Inc()
		},
	}
}

func makeRPCMetrics() jsonrpc.EventListener {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: "server",
		Name:      "requests",
	}, []string{"method"})
	failedRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: "server",
		Name:      "failed_requests",
	}, []string{"method", "error_code"})
	requestLatencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rpc",
		Subsystem: "server",
		Name:      "requests_latency",
	}, []string{"method"})
	metrics.MustRegister(requests, failedRequests, requestLatencies)

	return &jsonrpc.SelectiveListener{
		OnRequestCb: func(method string) {
			requests.WithLabelValues(method).Inc()
		},
		OnRequestHandledCb: func(method string, took time.Duration) {
			requestLatencies.WithLabelValues(method).Observe(took.Seconds())
		},
		OnRequestFailedCb: func(method string, code int) {
			failedRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
		},
	}
}

func makeRelayerMetrics() relayer.EventListener {
	relays := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relayer",
		Name:      "relays",
	}, []string{"outcome"})
	relayLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "relayer",
		Name:      "relay_latency",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "relayer",
		Name:      "in_flight",
	})
	balances := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "relayer",
		Name:      "balance",
	}, []string{"address"})
	metrics.MustRegister(relays, relayLatency, inFlight, balances)

	return &relayer.SelectiveListener{
		OnRelayCb: func(outcome string, took time.Duration) {
			relays.WithLabelValues(outcome).Inc()
			relayLatency.Observe(took.Seconds())
		},
		OnInFlightCb: func(delta int) {
			inFlight.Add(float64(delta))
		},
		OnBalanceCb: func(address *felt.Felt, balance *uint256.Int) {
			f, _ := new(big.Float).SetInt(balance.ToBig()).Float64()
			balances.WithLabelValues(address.String()).Set(f)
		},
	}
}

func makePendingMetrics() pending.EventListener {
	unresolved := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pending",
		Name:      "unresolved",
	})
	sweepLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pending",
		Name:      "sweep_latency",
	})
	metrics.MustRegister(unresolved, sweepLatency)

	return &pending.SelectiveListener{
		OnSweepCb: func(count int, took time.Duration) {
			unresolved.Set(float64(count))
			sweepLatency.Observe(took.Seconds())
		},
	}
}

func makeMempoolMetrics(pool *mempool.Pool) {
	metrics.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "mempool",
		Name:      "transactions",
	}, func() float64 {
		return float64(pool.Len())
	}))
}
