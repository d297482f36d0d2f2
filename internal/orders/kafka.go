package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const receiptEventType = "receipt.recorded"

// ReceiptEvent is the payload published for every completed checkout.
type ReceiptEvent struct {
	EventType string         `json:"event_type"`
	Receipt   domain.Receipt `json:"receipt"`
}

// KafkaPublisher publishes receipts keyed by order id.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(topic string, log *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Record(ctx context.Context, receipt domain.Receipt) error {
	payload, err := json.Marshal(ReceiptEvent{EventType: receiptEventType, Receipt: receipt})
	if err != nil {
		return fmt.Errorf("failed to marshal receipt event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(receipt.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(receiptEventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: publish receipt %s: %w", domain.ErrExternal, receipt.OrderID, err)
	}
	p.log.Debug("receipt published", zap.String("order_id", receipt.OrderID), zap.String("topic", p.writer.Topic))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
