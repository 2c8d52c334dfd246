package jsonrpc_test

import (
	"sync"
	"time"
)

type failedCall struct {
	method string
	code   int
}

type CountingEventListener struct {
	OnRequestLogs         []string
	OnRequestHandledCalls []string
	OnRequestFailedCalls  []failedCall
}

func (l *CountingEventListener) OnRequest(method string) {
	l.OnRequestLogs = append(l.OnRequestLogs, method)
}

func (l *CountingEventListener) OnRequestHandled(method string, _ time.Duration) {
	l.OnRequestHandledCalls = append(l.OnRequestHandledCalls, method)
}

func (l *CountingEventListener) OnRequestFailed(method string, code int) {
	l.OnRequestFailedCalls = append(l.OnRequestFailedCalls, failedCall{method: method, code: code})
}

// countingEndpointListener is called from the handler goroutines of httptest servers.
type countingEndpointListener struct {
	mu       sync.Mutex
	payloads int
	rejected []string
}

func (l *countingEndpointListener) OnPayload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payloads++
}

func (l *countingEndpointListener) OnRejected(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejected = append(l.rejected, reason)
}

func (l *countingEndpointListener) counts() (int, []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.payloads, append([]string(nil), l.rejected...)
}
