package jsonrpc

import "time"

// Reasons an endpoint turns a request away before it reaches the server.
const (
	RejectNotFound         = "not_found"
	RejectMethodNotAllowed = "method_not_allowed"
	RejectUpgrade          = "upgrade"
	RejectAbnormalClose    = "abnormal_close"
)

// EndpointListener observes the traffic of the HTTP or websocket endpoint.
type EndpointListener interface {
	OnPayload()
	OnRejected(reason string)
}

// EventListener observes the calls dispatched by the server.
type EventListener interface {
	OnRequest(method string)
	OnRequestHandled(method string, took time.Duration)
	OnRequestFailed(method string, code int)
}

type SelectiveEndpointListener struct {
	OnPayloadCb  func()
	OnRejectedCb func(reason string)
}

func (l *SelectiveEndpointListener) OnPayload() {
	if l.OnPayloadCb != nil {
		l.OnPayloadCb()
	}
}

func (l *SelectiveEndpointListener) OnRejected(reason string) {
	if l.OnRejectedCb != nil {
		l.OnRejectedCb(reason)
	}
}

type SelectiveListener struct {
	OnRequestCb        func(method string)
	OnRequestHandledCb func(method string, took time.Duration)
	OnRequestFailedCb  func(method string, code int)
}

func (l *SelectiveListener) OnRequest(method string) {
	if l.OnRequestCb != nil {
		l.OnRequestCb(method)
	}
}

func (l *SelectiveListener) OnRequestHandled(method string, took time.Duration) {
	if l.OnRequestHandledCb != nil {
		l.OnRequestHandledCb(method, took)
	}
}

func (l *SelectiveListener) OnRequestFailed(method string, code int) {
	if l.OnRequestFailedCb != nil {
		l.OnRequestFailedCb(method, code)
	}
}
