package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads receipt events back from Kafka and records them into a
// history repository. Redelivered events are skipped.
type Consumer struct {
	sink   checkout.ReceiptRecorder
	reader *kafka.Reader
	log    *zap.Logger
}

func NewConsumer(sink checkout.ReceiptRecorder, topic, groupID string, log *zap.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{sink: sink, reader: reader, log: log}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.log.Error("error reading receipt event", zap.Error(err))
			continue
		}
		if err := c.handle(ctx, m.Value); err != nil {
			c.log.Error("failed to record receipt event",
				zap.Int64("offset", m.Offset),
				zap.String("key", string(m.Key)),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var event ReceiptEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("parse receipt event: %w", err)
	}
	if event.EventType != receiptEventType {
		c.log.Debug("skipping event", zap.String("event_type", event.EventType))
		return nil
	}
	if event.Receipt.OrderID == "" {
		return fmt.Errorf("receipt event without order id")
	}

	if err := c.sink.Record(ctx, event.Receipt); err != nil {
		if errors.Is(err, ErrDuplicateReceipt) {
			c.log.Info("receipt already recorded, skipping", zap.String("order_id", event.Receipt.OrderID))
			return nil
		}
		return err
	}
	c.log.Info("receipt recorded from event", zap.String("order_id", event.Receipt.OrderID))
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
