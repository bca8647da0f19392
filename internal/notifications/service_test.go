package notifications

import (
	"errors"
	"testing"
	"time"

	"bookfair/internal/reservations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfirmationNotification(t *testing.T) {
	reservationID := uuid.New()
	reservationDate := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	confirmedAt := time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC)

	notification := buildConfirmationNotification(reservations.ConfirmationEmail{
		ReservationID:   reservationID,
		RecipientEmail:  "jane@example.com",
		RecipientName:   "Jane Johnson",
		BusinessName:    "Johnson Press",
		ReservationDate: reservationDate,
		TotalAmount:     450,
		Stalls: []reservations.ReservationStallResponse{
			{StallNumber: "ST-001", StallName: "Stall 1", Size: "SMALL", Location: "A1", Price: 150},
			{StallNumber: "ST-002", StallName: "Stall 2", Size: "LARGE", Location: "B1", Price: 300},
		},
		ConfirmedAt: confirmedAt,
	})

	assert.NotEqual(t, uuid.Nil, notification.ID)
	assert.Equal(t, NotificationTypeReservationConfirmed, notification.Type)
	assert.Equal(t, "jane@example.com", notification.RecipientEmail)
	assert.Equal(t, "Reservation Confirmed - October 1, 2026", notification.Subject)
	assert.Equal(t, reservationID, notification.ReservationID)
	assert.Equal(t, 450.0, notification.TotalAmount)
	assert.Equal(t, confirmedAt, notification.ConfirmedAt)
	assert.Equal(t, NotificationStatusPending, notification.Status)
	assert.Equal(t, 3, notification.MaxRetries)

	require.Len(t, notification.Stalls, 2)
	assert.Equal(t, StallLine{
		StallNumber: "ST-001",
		StallName:   "Stall 1",
		Size:        "SMALL",
		Location:    "A1",
		Price:       150,
	}, notification.Stalls[0])
}

func TestEmailNotification_PartitionKey(t *testing.T) {
	notification := &EmailNotification{RecipientEmail: "jane@example.com"}
	assert.Equal(t, "jane@example.com", notification.GetPartitionKey())
}

func TestEmailNotification_Lifecycle(t *testing.T) {
	notification := &EmailNotification{
		Status:     NotificationStatusPending,
		MaxRetries: 3,
	}

	notification.MarkFailed(errors.New("smtp timeout"))
	assert.Equal(t, NotificationStatusFailed, notification.Status)
	require.NotNil(t, notification.LastError)
	assert.Equal(t, "smtp timeout", *notification.LastError)
	assert.True(t, notification.ShouldRetry())

	notification.RetryCount = 3
	assert.False(t, notification.ShouldRetry())

	notification.MarkSent()
	assert.Equal(t, NotificationStatusSent, notification.Status)
	require.NotNil(t, notification.SentAt)
	assert.False(t, notification.ShouldRetry())
}
