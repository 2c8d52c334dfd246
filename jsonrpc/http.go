package jsonrpc

import (
	"net/http"

	"github.com/NethermindEth/kakarot-relayer/utils"
)

const MaxRequestBodySize = 10 * 1024 * 1024 // 10MB

type HTTP struct {
	rpc *Server
	log utils.SimpleLogger

	listener EndpointListener
}

func NewHTTP(rpc *Server, log utils.SimpleLogger) *HTTP {
	h := &HTTP{
		rpc:      rpc,
		log:      log,
		listener: &SelectiveEndpointListener{},
	}
	return h
}

// WithListener registers an EndpointListener
func (h *HTTP) WithListener(listener EndpointListener) *HTTP {
	h.listener = listener
	return h
}

// ServeHTTP processes an incoming HTTP request
func (h *HTTP) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	switch {
	case req.Method == http.MethodGet && req.URL.Path == "/":
		writer.WriteHeader(http.StatusOK)
		return
	case req.Method == http.MethodGet:
		h.listener.OnRejected(RejectNotFound)
		writer.WriteHeader(http.StatusNotFound)
		return
	case req.Method != http.MethodPost:
		h.listener.OnRejected(RejectMethodNotAllowed)
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	req.Body = http.MaxBytesReader(writer, req.Body, MaxRequestBodySize)
	h.listener.OnPayload()
	resp, err := h.rpc.HandleReader(req.Context(), req.Body)
	writer.Header().Set("Content-Type", "application/json")
	if err != nil {
		h.log.Errorw("Handler failure", "err", err)
		writer.WriteHeader(http.StatusInternalServerError)
	}
	if resp != nil {
		_, err = writer.Write(resp)
		if err != nil {
			h.log.Warnw("Failed writing response", "err", err)
		}
	}
}
