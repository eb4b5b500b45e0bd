// Package application hosts the use cases that orchestrate domain
// operations across repositories and collaborators.
package application

import "context"

// UseCase is the common shape of a command-style application operation.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}
