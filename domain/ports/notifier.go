package ports

import (
	"context"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

// Notifier publishes the summary of a device run
type Notifier interface {
	Notify(ctx context.Context, summary entities.RunSummary) error
}

// Prober tells whether a device answers before a run is attempted
type Prober interface {
	Reachable(ctx context.Context, host string) (bool, error)
}
