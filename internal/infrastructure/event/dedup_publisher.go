package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DedupStats is a snapshot of DeduplicatingPublisher counters
type DedupStats struct {
	Published  int64 `json:"published"`
	Duplicates int64 `json:"duplicates"`
	StoreFails int64 `json:"store_failures"`
}

// DeduplicatingPublisher forwards events to the next publisher, dropping
// any shared.DeduplicatedEvent whose key was already published within the
// TTL. Events without a deduplication key always pass through.
type DeduplicatingPublisher struct {
	next   shared.EventPublisher
	store  shared.IdempotencyStore
	ttl    time.Duration
	logger *zap.Logger

	published  atomic.Int64
	duplicates atomic.Int64
	storeFails atomic.Int64
}

var _ shared.EventPublisher = (*DeduplicatingPublisher)(nil)

// NewDeduplicatingPublisher wraps next. A non-positive ttl uses
// shared.DefaultIdempotencyTTL.
func NewDeduplicatingPublisher(next shared.EventPublisher, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *DeduplicatingPublisher {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	return &DeduplicatingPublisher{next: next, store: store, ttl: ttl, logger: logger}
}

// Publish filters duplicates and forwards the rest in order. When the
// store is unavailable the event is forwarded anyway; a duplicate
// delivery is preferred to a lost one. Keys claimed by a call whose
// forward fails are released so a retry is delivered.
func (p *DeduplicatingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	forward := make([]shared.DomainEvent, 0, len(events))
	var claimed []string
	for _, ev := range events {
		d, ok := ev.(shared.DeduplicatedEvent)
		if !ok {
			forward = append(forward, ev)
			continue
		}

		key := d.DeduplicationKey()
		isNew, err := p.store.MarkProcessed(ctx, key, p.ttl)
		switch {
		case err != nil:
			p.storeFails.Add(1)
			p.logger.Warn("idempotency store unavailable, publishing anyway",
				zap.String("dedup_key", key),
				zap.String("event_type", ev.EventType()),
				zap.Error(err),
			)
		case !isNew:
			p.duplicates.Add(1)
			p.logger.Debug("duplicate event dropped",
				zap.String("dedup_key", key),
				zap.String("event_type", ev.EventType()),
			)
			continue
		default:
			claimed = append(claimed, key)
		}
		forward = append(forward, ev)
	}

	if len(forward) == 0 {
		return nil
	}
	if err := p.next.Publish(ctx, forward...); err != nil {
		p.release(ctx, claimed)
		return err
	}
	p.published.Add(int64(len(forward)))
	return nil
}

func (p *DeduplicatingPublisher) release(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := p.store.Unmark(context.WithoutCancel(ctx), key); err != nil {
			p.logger.Warn("failed to release dedup key after publish error",
				zap.String("dedup_key", key),
				zap.Error(err),
			)
		}
	}
}

// Stats returns the current counters
func (p *DeduplicatingPublisher) Stats() DedupStats {
	return DedupStats{
		Published:  p.published.Load(),
		Duplicates: p.duplicates.Load(),
		StoreFails: p.storeFails.Load(),
	}
}
