package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeReservationConfirmed NotificationType = "RESERVATION_CONFIRMED"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusQueued   NotificationStatus = "QUEUED"
	NotificationStatusSending  NotificationStatus = "SENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusRetrying NotificationStatus = "RETRYING"
)

// StallLine is one reserved stall as it appears in the email body.
// Values come from the reservation snapshot, not the live stall row.
type StallLine struct {
	StallNumber string  `json:"stall_number"`
	StallName   string  `json:"stall_name"`
	Size        string  `json:"size"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
}

// EmailNotification is the message published to Kafka and delivered by
// the email workers.
type EmailNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	BusinessName   string `json:"business_name,omitempty"`

	Subject string `json:"subject"`

	ReservationID   uuid.UUID   `json:"reservation_id"`
	ReservationDate time.Time   `json:"reservation_date"`
	TotalAmount     float64     `json:"total_amount"`
	Stalls          []StallLine `json:"stalls"`
	ConfirmedAt     time.Time   `json:"confirmed_at"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// GetPartitionKey keeps all messages for one recipient on the same
// partition so they are delivered in order.
func (en *EmailNotification) GetPartitionKey() string {
	return en.RecipientEmail
}

func (en *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(en)
}

func (en *EmailNotification) MarkSent() {
	now := time.Now()
	en.Status = NotificationStatusSent
	en.SentAt = &now
	en.UpdatedAt = now
}

func (en *EmailNotification) MarkFailed(err error) {
	now := time.Now()
	en.Status = NotificationStatusFailed
	en.UpdatedAt = now

	errorStr := err.Error()
	en.LastError = &errorStr
}

func (en *EmailNotification) ShouldRetry() bool {
	return en.RetryCount < en.MaxRetries && en.Status == NotificationStatusFailed
}
