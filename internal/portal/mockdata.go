package portal

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bookfair/internal/reservations"
	"bookfair/internal/stalls"

	"github.com/google/uuid"
)

// mockSeed fixes the synthetic dataset so repeated reads during one
// degraded session are stable and the UI does not flicker.
const mockSeed = 20250901

const (
	mockUserCount        = 20
	mockStallCount       = 30
	mockReservationCount = 50
)

var (
	mockFirstNames = []string{
		"John", "Jane", "Mike", "Sarah", "David", "Emily", "Chris", "Amy",
		"Tom", "Lisa", "Robert", "Maria", "James", "Jessica", "William", "Ashley",
	}
	mockLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Thomas", "Taylor",
	}
	mockBusinessNames = []string{
		"Tech Solutions Inc", "Global Trading Co", "Digital Services Ltd", "Business Partners LLC",
		"Innovation Hub", "Commercial Ventures", "Enterprise Solutions", "Trade Center",
	}
	mockLocations = []string{
		"A1", "A2", "A3", "B1", "B2", "B3", "C1", "C2", "C3", "D1", "D2", "D3",
	}
	mockDescriptions = []string{
		"Prime location near entrance",
		"Corner stall with extra visibility",
		"Central location with high traffic",
		"Quiet area for focused business",
		"Near food court and amenities",
	}
)

// mockDataset is the synthetic fallback data, generated once from the
// fixed seed and owned by the resolver that built it.
type mockDataset struct {
	users        []reservations.ReservationUserResponse
	stalls       []stalls.StallResponse
	reservations []reservations.ReservationResponse
}

func newMockDataset() *mockDataset {
	rng := rand.New(rand.NewSource(mockSeed))
	now := time.Now().UTC().Truncate(time.Hour)

	users := generateMockUsers(rng)
	stallList := generateMockStalls(rng, now)
	reservationList := generateMockReservations(rng, now, users, stallList)

	return &mockDataset{
		users:        users,
		stalls:       stallList,
		reservations: reservationList,
	}
}

func (m *mockDataset) stallByID(id uuid.UUID) (stalls.StallResponse, bool) {
	for _, stall := range m.stalls {
		if stall.ID == id {
			return stall, true
		}
	}
	return stalls.StallResponse{}, false
}

func (m *mockDataset) reservationByID(id uuid.UUID) (*reservations.ReservationResponse, bool) {
	for i := range m.reservations {
		if m.reservations[i].ID == id {
			return &m.reservations[i], true
		}
	}
	return nil, false
}

func mockUUID(rng *rand.Rand) uuid.UUID {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// rand.Rand.Read never fails
		panic(err)
	}
	return id
}

func generateMockUsers(rng *rand.Rand) []reservations.ReservationUserResponse {
	users := make([]reservations.ReservationUserResponse, 0, mockUserCount)
	for i := 0; i < mockUserCount; i++ {
		firstName := mockFirstNames[rng.Intn(len(mockFirstNames))]
		lastName := mockLastNames[rng.Intn(len(mockLastNames))]

		var businessName string
		if rng.Float64() > 0.5 {
			businessName = mockBusinessNames[rng.Intn(len(mockBusinessNames))]
		}

		users = append(users, reservations.ReservationUserResponse{
			ID:           mockUUID(rng),
			FirstName:    firstName,
			LastName:     lastName,
			BusinessName: businessName,
			Email:        fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(firstName), strings.ToLower(lastName), i+1),
		})
	}
	return users
}

func generateMockStalls(rng *rand.Rand, now time.Time) []stalls.StallResponse {
	sizes := []stalls.Size{stalls.SizeSmall, stalls.SizeMedium, stalls.SizeLarge}

	list := make([]stalls.StallResponse, 0, mockStallCount)
	for i := 0; i < mockStallCount; i++ {
		size := sizes[rng.Intn(len(sizes))]

		basePrice := 100.0
		switch size {
		case stalls.SizeMedium:
			basePrice = 200.0
		case stalls.SizeLarge:
			basePrice = 300.0
		}

		// Roughly 60% of the synthetic catalog is available
		available := rng.Float64() > 0.4
		status := stalls.StatusAvailable
		if !available {
			status = stalls.StatusReserved
		}

		list = append(list, stalls.StallResponse{
			ID:          mockUUID(rng),
			StallNumber: fmt.Sprintf("ST-%03d", i+1),
			StallName:   fmt.Sprintf("Stall %d", i+1),
			Size:        size,
			Location:    fmt.Sprintf("%s%d", mockLocations[i%len(mockLocations)], i/len(mockLocations)+1),
			Description: mockDescriptions[rng.Intn(len(mockDescriptions))],
			Price:       basePrice + float64(rng.Intn(100)),
			Status:      status,
			IsAvailable: available,
			CreatedAt:   now.AddDate(0, 0, -rng.Intn(180)),
			UpdatedAt:   now,
		})
	}
	return list
}

func generateMockReservations(rng *rand.Rand, now time.Time, users []reservations.ReservationUserResponse, stallList []stalls.StallResponse) []reservations.ReservationResponse {
	statuses := []reservations.Status{
		reservations.StatusPending,
		reservations.StatusConfirmed,
		reservations.StatusCancelled,
	}

	list := make([]reservations.ReservationResponse, 0, mockReservationCount)
	for i := 0; i < mockReservationCount; i++ {
		user := users[rng.Intn(len(users))]
		status := statuses[rng.Intn(len(statuses))]
		stallCount := rng.Intn(3) + 1

		var total float64
		snapshots := make([]reservations.ReservationStallResponse, 0, stallCount)
		for j := 0; j < stallCount; j++ {
			stall := stallList[rng.Intn(len(stallList))]
			total += stall.Price
			snapshots = append(snapshots, reservations.ReservationStallResponse{
				StallID:     stall.ID,
				StallNumber: stall.StallNumber,
				StallName:   stall.StallName,
				Size:        string(stall.Size),
				Location:    stall.Location,
				Price:       stall.Price,
			})
		}

		createdAt := now.AddDate(0, 0, -rng.Intn(30))
		reservation := reservations.ReservationResponse{
			ID:              mockUUID(rng),
			UserID:          user.ID,
			User:            &user,
			ReservationDate: now.AddDate(0, 0, rng.Intn(90)),
			Status:          status,
			TotalAmount:     total,
			Stalls:          snapshots,
			CreatedAt:       createdAt,
		}

		switch status {
		case reservations.StatusConfirmed:
			confirmedAt := createdAt.Add(time.Duration(rng.Intn(24)) * time.Hour)
			reservation.ConfirmedAt = &confirmedAt
		case reservations.StatusCancelled:
			cancelledAt := createdAt.Add(time.Duration(rng.Intn(7*24)) * time.Hour)
			reservation.CancelledAt = &cancelledAt
		}

		list = append(list, reservation)
	}
	return list
}
