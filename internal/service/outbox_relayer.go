package service

import (
	"context"
	"strconv"
	"time"

	"commune/internal/model"
	"commune/internal/pkg"

	"github.com/rs/zerolog"
)

type OutboxStore interface {
	ListPending(ctx context.Context, batchSize int) ([]model.FollowerOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

// Sender delivers one follower event to the downstream channel.
type Sender func(ctx context.Context, ev *model.FollowerOutbox) error

// OutboxRelayer drains pending follower events on a ticker. Delivery is a
// fire-and-forget side channel; a failed send is marked for retry and never
// affects the request that produced the event.
type OutboxRelayer struct {
	repo      OutboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	log := zerolog.Ctx(ctx)
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Warn().Err(err).Msg("outbox_query_failed")
		return
	}
	for i := range rows {
		ev := rows[i]
		if err := r.sender(ctx, &ev); err != nil {
			log.Warn().Err(err).Uint64("outbox_id", ev.ID).Msg("outbox_send_failed")
			_ = r.repo.MarkFailed(ctx, ev.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ev.ID)
	}
}

// KafkaSender keys each event by community id so all events for one community
// land in the same partition.
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ev *model.FollowerOutbox) error {
		key := strconv.FormatUint(ev.CommunityID, 10)
		return producer.Send(ctx, key, []byte(ev.Payload))
	}
}

// LogSender is the fallback when no broker is configured.
func LogSender(ctx context.Context, ev *model.FollowerOutbox) error {
	zerolog.Ctx(ctx).Info().
		Str("event_type", ev.EventType).
		Uint64("user_id", ev.UserID).
		Uint64("community_id", ev.CommunityID).
		Msg("outbox_event")
	return nil
}
