package ports

import (
	"context"

	"github.com/dinerops/pizzametrics/internal/domain"
)

// Publisher ships one rendered batch to the metrics backend.
type Publisher interface {
	Push(ctx context.Context, metrics []domain.Metric) error
}
