package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// NotificationProducer interface defines the contract for publishing notifications
type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *BookingNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	TimeoutMs         int
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "booking-notifications",
		RetryMax:          3,
		TimeoutMs:         10000,             // 10 seconds
		RequiredAcks:      sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000, // 1MB
	}
}

// KafkaNotificationProducer handles publishing notifications to Kafka
type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaNotificationProducer creates a new Kafka notification producer
func NewKafkaNotificationProducer(config *KafkaProducerConfig) (NotificationProducer, error) {
	saramaConfig := sarama.NewConfig()

	// Producer configuration
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Enable idempotent producer
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Use hash partitioner so all messages of one booking land on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	// Create the producer
	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	kafkaProducer := &KafkaNotificationProducer{
		producer: producer,
		config:   config,
	}

	log.Printf("📤 Kafka notification producer created successfully")
	return kafkaProducer, nil
}

// PublishNotification publishes a single notification to Kafka
func (knp *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *BookingNotification) error {
	// Update notification status
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	// Serialize notification to JSON
	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// Create Kafka message
	message := &sarama.ProducerMessage{
		Topic:     knp.config.NotificationTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   knp.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	// Send message
	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("📤 Notification published to Kafka - Topic: %s, Partition: %d, Offset: %d, Type: %s, Booking: %s",
		knp.config.NotificationTopic, partition, offset, notification.Type, notification.BookingID)

	return nil
}

// createHeaders creates Kafka headers for notifications
func (knp *KafkaNotificationProducer) createHeaders(notification *BookingNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("booking_id"), Value: []byte(notification.BookingID)},
		{Key: []byte("showtime_id"), Value: []byte(notification.ShowtimeID)},
		{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("producer"), Value: []byte("tickethub-notifications")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (knp *KafkaNotificationProducer) Close() error {
	if knp.producer != nil {
		err := knp.producer.Close()
		if err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka notification producer closed")
	}
	return nil
}

// HealthCheck performs a health check on the Kafka producer
func (knp *KafkaNotificationProducer) HealthCheck(ctx context.Context) error {
	if knp.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}

	if knp.config.NotificationTopic == "" {
		return fmt.Errorf("health check failed - notification topic not configured")
	}

	// Validate message construction end to end without sending
	testNotification := NewBookingConfirmation("health-check@test.com", "")
	testNotification.BookingID = "health-check"

	messageBytes, err := testNotification.ToJSON()
	if err != nil {
		return fmt.Errorf("health check failed - JSON marshaling error: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:   knp.config.NotificationTopic,
		Key:     sarama.StringEncoder("health-check"),
		Value:   sarama.ByteEncoder(messageBytes),
		Headers: knp.createHeaders(testNotification),
	}
	if len(message.Headers) == 0 {
		return fmt.Errorf("health check failed - headers not created properly")
	}

	return nil
}
