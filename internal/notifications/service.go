package notifications

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
)

type NotificationService interface {
	SendNotification(ctx context.Context, notification *BookingNotification) error
	SendBookingConfirmation(ctx context.Context, booking BookingDetails) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

// BookingDetails is the confirmation payload handed over by the booking
// service once payment has been captured.
type BookingDetails struct {
	BookingID   string
	ShowtimeID  string
	Email       string
	Phone       string
	MovieTitle  string
	TheaterName string
	ShowDate    string
	ShowTime    string
	Seats       []string
	TotalAmount float64
}

type ServiceConfig struct {
	Environment        string
	KafkaBrokers       []string
	NotificationTopic  string
	ConsumerGroupID    string
	NumConsumerWorkers int
}

func NewServiceConfigFromEnv() *ServiceConfig {
	return &ServiceConfig{
		Environment:        getEnvString("GIN_MODE", "development"),
		KafkaBrokers:       strings.Split(getEnvString("KAFKA_BROKERS", "localhost:9092"), ","),
		NotificationTopic:  getEnvString("NOTIFICATION_TOPIC", "booking-notifications"),
		ConsumerGroupID:    getEnvString("CONSUMER_GROUP_ID", "tickethub-notification-workers"),
		NumConsumerWorkers: getEnvInt("NUM_CONSUMER_WORKERS", 3),
	}
}

type EmailNotificationService struct {
	config       *ServiceConfig
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService

	// State
	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEmailNotificationService(config *ServiceConfig) (NotificationService, error) {
	if config == nil {
		config = NewServiceConfigFromEnv()
	}

	emailService := NewMockEmailService()

	// Create producer
	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = config.KafkaBrokers
	producerConfig.NotificationTopic = config.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	// Create consumer
	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = config.KafkaBrokers
	consumerConfig.Topics = []string{config.NotificationTopic}
	consumerConfig.GroupID = config.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	log.Printf("📧 Booking notification service initialized (topic: %s)", config.NotificationTopic)

	return &EmailNotificationService{
		config:       config,
		producer:     producer,
		consumer:     consumer,
		emailService: emailService,
		isRunning:    false,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (ens *EmailNotificationService) Start(ctx context.Context) error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if ens.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting Booking Notification Service...")

	err := ens.consumer.StartConsumers(ens.ctx, ens.config.NumConsumerWorkers)
	if err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	ens.isRunning = true
	log.Printf("✅ Booking Notification Service started successfully")

	return nil
}

func (ens *EmailNotificationService) Stop() error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if !ens.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("🛑 Stopping Booking Notification Service...")

	ens.cancel()

	if err := ens.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := ens.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	ens.isRunning = false
	log.Printf("✅ Booking Notification Service stopped")

	return nil
}

func (ens *EmailNotificationService) SendNotification(ctx context.Context, notification *BookingNotification) error {
	return ens.producer.PublishNotification(ctx, notification)
}

func (ens *EmailNotificationService) SendBookingConfirmation(ctx context.Context, booking BookingDetails) error {
	notification := NewBookingConfirmation(booking.Email, booking.Phone)
	notification.BookingID = booking.BookingID
	notification.ShowtimeID = booking.ShowtimeID
	notification.MovieTitle = booking.MovieTitle
	notification.TheaterName = booking.TheaterName
	notification.ShowDate = booking.ShowDate
	notification.ShowTime = booking.ShowTime
	notification.Seats = booking.Seats
	notification.TotalAmount = booking.TotalAmount

	return ens.producer.PublishNotification(ctx, notification)
}

func (ens *EmailNotificationService) HealthCheck(ctx context.Context) error {
	ens.mu.RLock()
	isRunning := ens.isRunning
	ens.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := ens.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := ens.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}

// Helper functions for environment variables
func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}
