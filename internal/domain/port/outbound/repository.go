package outbound

import (
	"context"
	"time"

	"github.com/jonny/ci-notify/internal/domain/model"
)

type PageRequest struct {
	Page int
	Size int
	Desc bool
}

type PageResult[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	Size       int
}

type DeliveryFilter struct {
	Repository string
	RunID      string
	Delivered  *bool
	Since      *time.Time
}

// DeliveryRepository stores delivery attempts.
type DeliveryRepository interface {
	Record(ctx context.Context, rec model.DeliveryRecord) error
	List(ctx context.Context, filter DeliveryFilter, page PageRequest) (PageResult[model.DeliveryRecord], error)
}
