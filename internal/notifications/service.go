package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookfair/internal/reservations"
	"bookfair/internal/shared/config"
	"bookfair/pkg/logger"

	"github.com/google/uuid"
)

// Service is the outbound notification pipeline. It satisfies
// reservations.ConfirmationSender so the reservation service can hand
// confirmation emails straight to it.
type Service interface {
	SendReservationConfirmation(ctx context.Context, email reservations.ConfirmationEmail) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type service struct {
	producer Producer
	consumer Consumer
	workers  int
	log      *logger.Logger

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewService wires the Kafka producer, the consumer workers and the SMTP
// delivery together from application configuration.
func NewService(cfg *config.Config, log *logger.Logger) (Service, error) {
	var emailService EmailService
	if cfg.SMTP.Host == "" || cfg.SMTP.Username == "" {
		log.Warn("SMTP not configured, confirmation emails will be logged only")
		emailService = NewNoopEmailService(log)
	} else {
		smtpService, err := NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.FromEmail,
			FromName:  cfg.SMTP.FromName,
			UseTLS:    true,
		}, log)
		if err != nil {
			return nil, err
		}
		emailService = smtpService
	}

	producerConfig := DefaultProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.NotificationTopic

	producer, err := NewKafkaProducer(producerConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

	consumer, err := NewKafkaConsumer(consumerConfig, emailService, log)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &service{
		producer: producer,
		consumer: consumer,
		workers:  cfg.Kafka.ConsumerWorkers,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SendReservationConfirmation publishes a confirmation email to the
// notification topic. Delivery happens asynchronously in the workers.
func (s *service) SendReservationConfirmation(ctx context.Context, email reservations.ConfirmationEmail) error {
	notification := buildConfirmationNotification(email)
	return s.producer.Publish(ctx, notification)
}

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	if err := s.consumer.Start(s.ctx, s.workers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	s.isRunning = true
	s.log.Info("Notification service started", "workers", s.workers)
	return nil
}

func (s *service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	s.cancel()

	if err := s.consumer.Stop(); err != nil {
		s.log.Error("Error stopping consumer", "error", err)
	}
	if err := s.producer.Close(); err != nil {
		s.log.Error("Error closing producer", "error", err)
	}

	s.isRunning = false
	s.log.Info("Notification service stopped")
	return nil
}

func (s *service) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	isRunning := s.isRunning
	s.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := s.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}
	if err := s.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}
	return nil
}

// buildConfirmationNotification maps the reservation payload onto the
// wire format consumed by the email workers.
func buildConfirmationNotification(email reservations.ConfirmationEmail) *EmailNotification {
	now := time.Now()

	stallLines := make([]StallLine, 0, len(email.Stalls))
	for _, stall := range email.Stalls {
		stallLines = append(stallLines, StallLine{
			StallNumber: stall.StallNumber,
			StallName:   stall.StallName,
			Size:        stall.Size,
			Location:    stall.Location,
			Price:       stall.Price,
		})
	}

	return &EmailNotification{
		ID:              uuid.New(),
		Type:            NotificationTypeReservationConfirmed,
		RecipientEmail:  email.RecipientEmail,
		RecipientName:   email.RecipientName,
		BusinessName:    email.BusinessName,
		Subject:         fmt.Sprintf("Reservation Confirmed - %s", email.ReservationDate.Format("January 2, 2006")),
		ReservationID:   email.ReservationID,
		ReservationDate: email.ReservationDate,
		TotalAmount:     email.TotalAmount,
		Stalls:          stallLines,
		ConfirmedAt:     email.ConfirmedAt,
		Status:          NotificationStatusPending,
		MaxRetries:      3,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
