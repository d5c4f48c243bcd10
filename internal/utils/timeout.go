package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds journal reads and writes. Kept well below the
// catalog gateway timeout so a slow database never dominates a checkout.
const DefaultDBTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
