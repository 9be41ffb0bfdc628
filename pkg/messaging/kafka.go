package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer keeps one async writer per topic. Writes never block the
// request path; delivery errors are logged from the completion callback.
type KafkaProducer struct {
	brokers []string
	logger  *slog.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaProducer(brokers []string, logger *slog.Logger) *KafkaProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaProducer{
		brokers: brokers,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

func (kp *KafkaProducer) writer(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kp.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				kp.logger.Error("kafka delivery failed", "topic", topic, "messages", len(messages), "error", err)
			}
		},
	}
	kp.writers[topic] = writer
	return writer
}

// Publish encodes value as JSON and queues it under key. Messages sharing a
// key land on the same partition.
func (kp *KafkaProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return kp.writer(topic).WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	})
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil {
			kp.logger.Error("closing kafka writer", "topic", topic, "error", err)
		}
	}
}

// NopPublisher drops every event. Used when KAFKA_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }

// CartEvent is published on every cart mutation.
type CartEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	FoodItemID  string `json:"food_item_id,omitempty"`
	CartEntryID string `json:"cart_entry_id"`
	Quantity    int    `json:"quantity"`
}

const (
	CartItemAdded     = "item_added"
	CartItemIncreased = "item_increased"
	CartItemDecreased = "item_decreased"
	CartItemRemoved   = "item_removed"
	CartItemDeleted   = "item_deleted"
)
