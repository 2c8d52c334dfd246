package service

import "context"

type Service interface {
	// Run starts the service and blocks until the context is canceled or a fatal error occurs.
	Run(ctx context.Context) error
}
