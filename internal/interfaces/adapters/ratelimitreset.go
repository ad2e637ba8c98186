package adapters

import (
	"context"

	"karnex/internal/shared/logger"
)

type windowResetter interface {
	Reset(ctx context.Context, clientKey string) error
}

type resetPublisher interface {
	PublishReset(ctx context.Context, clientKey string) error
}

// BroadcastResetter clears a window locally, then tells the other instances
// to do the same. Broadcast failures are logged, the local reset stands.
type BroadcastResetter struct {
	local     windowResetter
	publisher resetPublisher
	logger    logger.Interface
}

func NewBroadcastResetter(local windowResetter, publisher resetPublisher, logger logger.Interface) *BroadcastResetter {
	return &BroadcastResetter{
		local:     local,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *BroadcastResetter) Reset(ctx context.Context, clientKey string) error {
	if err := r.local.Reset(ctx, clientKey); err != nil {
		return err
	}
	if err := r.publisher.PublishReset(ctx, clientKey); err != nil {
		r.logger.Warnw("failed to broadcast rate limit reset", "client_key", clientKey, "error", err)
	}
	return nil
}

// ApplyRemoteReset is the subscription handler for resets from other instances.
func (r *BroadcastResetter) ApplyRemoteReset(clientKey string) {
	if err := r.local.Reset(context.Background(), clientKey); err != nil {
		r.logger.Warnw("failed to apply remote rate limit reset", "client_key", clientKey, "error", err)
		return
	}
	r.logger.Debugw("remote rate limit reset applied", "client_key", clientKey)
}
