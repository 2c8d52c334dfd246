package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Enabled is set by the node when the metrics service is configured.
var Enabled = false

// MustRegister registers collectors with the default registry. Collectors that
// are already registered are kept, so components may be constructed more than once
// in the same process.
func MustRegister(cs ...prometheus.Collector) {
	for _, c := range cs {
		if err := prometheus.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}
