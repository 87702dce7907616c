// Package hosted contains the thin query client for the hosted Postgres
// backend: one repository per table, simple equality/ordering predicates, no
// joins, no transactions. Every call is wrapped with a fixed timeout so a
// stalled backend degrades like any other failure.
package hosted

import (
	"context"
	"time"
)

const opTimeout = 30 * time.Second

func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
