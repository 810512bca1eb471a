package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/service"
	pkgkafka "github.com/vistaluz/catalog-search/pkg/kafka"
)

// Kafka topics for catalog events consumed by the search service.
var (
	TopicSnapshotPublished = pkgkafka.Topic("snapshot", "published")
	TopicProductCreated    = pkgkafka.Topic("product", "created")
	TopicProductUpdated    = pkgkafka.Topic("product", "updated")
	TopicProductDeleted    = pkgkafka.Topic("product", "deleted")
)

// Topics lists every topic this consumer subscribes to.
func Topics() []string {
	return []string{
		TopicSnapshotPublished,
		TopicProductCreated,
		TopicProductUpdated,
		TopicProductDeleted,
	}
}

// SnapshotEventData is the payload of a catalog.snapshot.published event:
// the complete catalog in one message.
type SnapshotEventData struct {
	Products []domain.Product `json:"products"`
}

// Consumer applies catalog events to the in-memory search catalog.
type Consumer struct {
	searchService *service.SearchService
	logger        *slog.Logger
}

// NewConsumer creates a new event consumer for the search service.
func NewConsumer(searchService *service.SearchService, logger *slog.Logger) *Consumer {
	return &Consumer{
		searchService: searchService,
		logger:        logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicSnapshotPublished:
		return c.handleSnapshotPublished(ctx, event)
	case TopicProductCreated, TopicProductUpdated, TopicProductDeleted:
		return c.handleProductChanged(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleSnapshotPublished replaces the whole catalog with the snapshot
// carried in the event.
func (c *Consumer) handleSnapshotPublished(ctx context.Context, event *pkgkafka.Event) error {
	var data SnapshotEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal snapshot.published data: %w", err)
	}

	c.searchService.ApplySnapshot(ctx, data.Products)

	c.logger.InfoContext(ctx, "applied catalog snapshot from event",
		slog.String("event_id", event.EventID),
		slog.Int("count", len(data.Products)),
	)

	return nil
}

// handleProductChanged refetches the full catalog. The product service
// does not publish deltas the search views could apply incrementally, so
// any single-product change means the current snapshot is stale.
func (c *Consumer) handleProductChanged(ctx context.Context, event *pkgkafka.Event) error {
	if err := c.searchService.Reindex(ctx); err != nil {
		return fmt.Errorf("reindex after %s: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "refetched catalog after product change",
		slog.String("event_type", event.EventType),
		slog.String("event_id", event.EventID),
	)

	return nil
}
