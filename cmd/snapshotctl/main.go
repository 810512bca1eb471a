// snapshotctl publishes a catalog snapshot to Kafka from a JSON file.
// It exists for operators seeding a fresh environment and for local
// development against a running search service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/event"
	"github.com/vistaluz/catalog-search/pkg/kafka"
	"github.com/vistaluz/catalog-search/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	var (
		file    = flag.String("file", "", "path to a JSON file holding the catalog snapshot (required)")
		brokers = flag.String("brokers", "localhost:9092", "comma-separated Kafka broker addresses")
		timeout = flag.Duration("timeout", 30*time.Second, "publish timeout")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	products, err := loadSnapshot(*file)
	if err != nil {
		return err
	}

	log := logger.New("snapshotctl", "info")

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(strings.Split(*brokers, ",")), log)
	defer producer.Close()

	evt, err := kafka.NewEvent(
		event.TopicSnapshotPublished,
		"catalog",
		"catalog",
		"snapshotctl",
		event.SnapshotEventData{Products: products},
	)
	if err != nil {
		return fmt.Errorf("build snapshot event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := producer.Publish(ctx, event.TopicSnapshotPublished, evt); err != nil {
		return err
	}

	log.Info("snapshot published",
		slog.String("file", *file),
		slog.Int("count", len(products)),
		slog.String("event_id", evt.EventID),
	)
	return nil
}

// loadSnapshot accepts either a bare JSON array of products or an object
// wrapping them under "products".
func loadSnapshot(path string) ([]domain.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []domain.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("parse snapshot file: %w", err)
		}
		return products, nil
	}

	var wrapped struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("parse snapshot file: %w", err)
	}
	return wrapped.Products, nil
}
