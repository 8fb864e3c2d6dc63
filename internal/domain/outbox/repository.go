package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Append creates a new outbox event. Must be called inside the same
	// transaction as the business mutation the event describes.
	Append(ctx context.Context, event *Event) error

	// GetUnpublished returns unpublished events, oldest first, up to limit.
	GetUnpublished(ctx context.Context, limit int) ([]*Event, error)

	// MarkPublished sets published_at for an event. The transition happens
	// at most once; already-published rows are left untouched.
	MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
}
