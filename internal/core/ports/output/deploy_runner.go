package ports

import (
	"context"

	"herd-api/internal/core/domain"
)

// DeployRunner hands deploy events to whatever runs releases. The build
// hooks treat a nil runner as "dispatch disabled".
type DeployRunner interface {
	Dispatch(ctx context.Context, event domain.DeployEvent) error
	Close() error
}
