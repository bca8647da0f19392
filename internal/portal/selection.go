package portal

import (
	"encoding/json"

	"bookfair/internal/stalls"

	"github.com/google/uuid"
)

// DefaultMaxSelection caps how many stalls one booking attempt may hold.
const DefaultMaxSelection = 3

// SelectionSet holds the stalls a vendor has picked for one in-progress
// booking attempt. Members are ordered, distinct, capped at the maximum,
// and must be available at the moment they are added. The server
// re-validates availability when the reservation is created.
type SelectionSet struct {
	maxSelection int
	stalls       []stalls.StallResponse
}

func NewSelectionSet(maxSelection int) *SelectionSet {
	if maxSelection <= 0 {
		maxSelection = DefaultMaxSelection
	}
	return &SelectionSet{maxSelection: maxSelection}
}

// Add appends a stall to the selection. Re-adding an already selected
// stall is a no-op, not an error; the caller decides whether a second
// click means toggle.
func (s *SelectionSet) Add(stall stalls.StallResponse) error {
	if s.Contains(stall.ID) {
		return nil
	}
	if len(s.stalls) >= s.maxSelection {
		return ErrSelectionLimit
	}
	if !stall.IsAvailable {
		return ErrStallNotAvailable
	}
	s.stalls = append(s.stalls, stall)
	return nil
}

// Remove drops a stall from the selection. Removing an absent stall is
// a no-op.
func (s *SelectionSet) Remove(stallID uuid.UUID) {
	for i, stall := range s.stalls {
		if stall.ID == stallID {
			s.stalls = append(s.stalls[:i], s.stalls[i+1:]...)
			return
		}
	}
}

func (s *SelectionSet) Contains(stallID uuid.UUID) bool {
	for _, stall := range s.stalls {
		if stall.ID == stallID {
			return true
		}
	}
	return false
}

func (s *SelectionSet) Size() int {
	return len(s.stalls)
}

func (s *SelectionSet) IsEmpty() bool {
	return len(s.stalls) == 0
}

func (s *SelectionSet) MaxSelection() int {
	return s.maxSelection
}

// Total sums the member prices. Pure function of the current members.
func (s *SelectionSet) Total() float64 {
	var total float64
	for _, stall := range s.stalls {
		total += stall.Price
	}
	return total
}

// Stalls returns a copy of the members in selection order.
func (s *SelectionSet) Stalls() []stalls.StallResponse {
	out := make([]stalls.StallResponse, len(s.stalls))
	copy(out, s.stalls)
	return out
}

// StallIDs returns the member identifiers in selection order.
func (s *SelectionSet) StallIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.stalls))
	for _, stall := range s.stalls {
		ids = append(ids, stall.ID)
	}
	return ids
}

// Clear empties the selection, keeping the configured maximum.
func (s *SelectionSet) Clear() {
	s.stalls = nil
}

type selectionSetJSON struct {
	MaxSelection int                    `json:"max_selection"`
	Stalls       []stalls.StallResponse `json:"stalls"`
}

// MarshalJSON lets a selection survive a page navigation via the
// session store.
func (s *SelectionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectionSetJSON{
		MaxSelection: s.maxSelection,
		Stalls:       s.stalls,
	})
}

func (s *SelectionSet) UnmarshalJSON(data []byte) error {
	var raw selectionSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.MaxSelection <= 0 {
		raw.MaxSelection = DefaultMaxSelection
	}
	s.maxSelection = raw.MaxSelection
	s.stalls = raw.Stalls
	return nil
}
