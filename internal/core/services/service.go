package services

import "context"

// Service is a single use case. Cross-cutting steps such as authentication
// wrap it as decorators with the same signature.
type Service[T any, S any] interface {
	Run(ctx context.Context, input T) (S, error)
}
