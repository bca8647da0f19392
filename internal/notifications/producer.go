package notifications

import (
	"context"
	"fmt"
	"time"

	"bookfair/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes notifications to the Kafka pipeline.
type Producer interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// ProducerConfig contains configuration for the Kafka notification producer
type ProducerConfig struct {
	Brokers         []string
	Topic           string
	RetryMax        int
	Timeout         time.Duration
	RequiredAcks    sarama.RequiredAcks
	Compression     sarama.CompressionCodec
	Idempotent      bool
	MaxMessageBytes int
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:         []string{"localhost:9092"},
		Topic:           "reservation-notifications",
		RetryMax:        3,
		Timeout:         10 * time.Second,
		RequiredAcks:    sarama.WaitForAll,
		Compression:     sarama.CompressionSnappy,
		Idempotent:      true,
		MaxMessageBytes: 1000000,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	log      *logger.Logger
}

// NewKafkaProducer creates a new Kafka notification producer
func NewKafkaProducer(config *ProducerConfig, log *logger.Logger) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.Compression
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.Idempotent
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.Idempotent {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner routes by recipient so per-recipient ordering holds
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka notification producer created", "topic", config.Topic)

	return &kafkaProducer{
		producer: producer,
		config:   config,
		log:      log,
	}, nil
}

// Publish publishes a single notification to Kafka
func (kp *kafkaProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	kp.log.InfoWithContext(ctx, "Notification published", map[string]interface{}{
		"topic":     kp.config.Topic,
		"partition": partition,
		"offset":    offset,
		"type":      notification.Type,
		"recipient": notification.RecipientEmail,
	})

	return nil
}

// createHeaders creates Kafka headers for notifications
func (kp *kafkaProducer) createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		{Key: []byte("reservation_id"), Value: []byte(notification.ReservationID.String())},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (kp *kafkaProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		kp.log.Info("Kafka notification producer closed")
	}
	return nil
}

// HealthCheck validates the producer configuration
func (kp *kafkaProducer) HealthCheck(ctx context.Context) error {
	if kp.producer == nil {
		return fmt.Errorf("producer is nil")
	}
	if kp.config.Topic == "" {
		return fmt.Errorf("notification topic not configured")
	}
	return nil
}
