package inbound

import (
	"context"

	"github.com/jonny/ci-notify/internal/domain/model"
)

// RunContextSource supplies the context of the CI run being reported.
type RunContextSource interface {
	RunContext(ctx context.Context) (model.RunContext, error)
}
