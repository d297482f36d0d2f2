package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newTestConsumer skips the reader; handle does not touch it.
func newTestConsumer(t *testing.T, repo *MemoryRepository) *Consumer {
	return &Consumer{sink: repo, log: zaptest.NewLogger(t)}
}

func TestConsumer_Handle(t *testing.T) {
	repo := NewMemoryRepository()
	c := newTestConsumer(t, repo)
	ctx := context.Background()

	payload, err := json.Marshal(ReceiptEvent{EventType: receiptEventType, Receipt: newTestReceipt("order_1", "1")})
	require.NoError(t, err)

	require.NoError(t, c.handle(ctx, payload))
	require.NoError(t, c.handle(ctx, payload), "redelivery is skipped")

	got, err := repo.ListByUser(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Total.Equal(newTestReceipt("order_1", "1").Total))
}

func TestConsumer_HandleRejectsBadEvents(t *testing.T) {
	repo := NewMemoryRepository()
	c := newTestConsumer(t, repo)
	ctx := context.Background()

	assert.Error(t, c.handle(ctx, []byte("{not json")))

	noID, err := json.Marshal(ReceiptEvent{EventType: receiptEventType})
	require.NoError(t, err)
	assert.Error(t, c.handle(ctx, noID))

	other, err := json.Marshal(ReceiptEvent{EventType: "something.else", Receipt: newTestReceipt("order_9", "1")})
	require.NoError(t, err)
	assert.NoError(t, c.handle(ctx, other))

	got, err := repo.ListByUser(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	brokerAddr := setupKafka(t)
	const topic = "storefront.receipts.roundtrip"
	createTopic(t, brokerAddr, topic)

	log := zaptest.NewLogger(t)
	pub := NewKafkaPublisher(topic, log, brokerAddr)
	defer pub.Close()

	repo := NewMemoryRepository()
	consumer := NewConsumer(repo, topic, "storefront-orders-test", log, brokerAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Run(ctx)
	}()

	require.NoError(t, pub.Record(ctx, newTestReceipt("order_7", "2")))

	require.Eventually(t, func() bool {
		got, _ := repo.ListByUser(context.Background(), "2")
		return len(got) == 1
	}, 45*time.Second, 100*time.Millisecond)

	cancel()
	<-done
	require.NoError(t, consumer.Close())
}
