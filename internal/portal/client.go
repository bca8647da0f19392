package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookfair/internal/reservations"
	"bookfair/internal/stalls"

	"github.com/google/uuid"
)

// Client talks to the reservation API. Transport failures are returned
// untouched so the resolver can classify them; API-level failures are
// mapped back to the reservation sentinels via the error code payload.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the given API base, e.g.
// "http://localhost:8080/api/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken sets the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// apiEnvelope mirrors the server's response wrapper with the payload
// left raw so each call can decode its own type.
type apiEnvelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

func (c *Client) ListStalls(ctx context.Context, status, size string) ([]stalls.StallResponse, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if size != "" {
		query.Set("size", size)
	}

	path := "/stalls"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list []stalls.StallResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) ListAvailableStalls(ctx context.Context) ([]stalls.StallResponse, error) {
	var list []stalls.StallResponse
	if err := c.doJSON(ctx, http.MethodGet, "/stalls/available", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetStallReservation returns the reservation holding a stall, or nil
// when the stall is free. "No reservation" is data, not an error.
func (c *Client) GetStallReservation(ctx context.Context, stallID uuid.UUID) (*stalls.StallReservationSummary, error) {
	var summary *stalls.StallReservationSummary
	if err := c.doJSON(ctx, http.MethodGet, "/stalls/"+stallID.String()+"/reservation", nil, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (c *Client) CreateReservation(ctx context.Context, reservationDate time.Time, stallIDs []uuid.UUID) (*reservations.ReservationResponse, error) {
	ids := make([]string, 0, len(stallIDs))
	for _, id := range stallIDs {
		ids = append(ids, id.String())
	}

	req := reservations.CreateReservationRequest{
		StallIDs:        ids,
		ReservationDate: reservationDate.Format("2006-01-02"),
	}

	var created reservations.ReservationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/reservations", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetReservation(ctx context.Context, id uuid.UUID) (*reservations.ReservationResponse, error) {
	var reservation reservations.ReservationResponse
	if err := c.doJSON(ctx, http.MethodGet, "/reservations/"+id.String(), nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *Client) ListUserReservations(ctx context.Context) ([]reservations.ReservationResponse, error) {
	var list []reservations.ReservationResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/reservations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListReservations is the staff listing with filters and pagination.
func (c *Client) ListReservations(ctx context.Context, query reservations.ReservationListQuery) (*reservations.ReservationListResponse, error) {
	values := url.Values{}
	if query.Status != "" {
		values.Set("status", query.Status)
	}
	if query.UserID != "" {
		values.Set("user_id", query.UserID)
	}
	if query.DateFrom != "" {
		values.Set("date_from", query.DateFrom)
	}
	if query.DateTo != "" {
		values.Set("date_to", query.DateTo)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/reservations"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list reservations.ReservationListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ConfirmReservation(ctx context.Context, id uuid.UUID) (*reservations.ReservationResponse, error) {
	var confirmed reservations.ReservationResponse
	if err := c.doJSON(ctx, http.MethodPut, "/reservations/"+id.String()+"/confirm", nil, &confirmed); err != nil {
		return nil, err
	}
	return &confirmed, nil
}

func (c *Client) CancelReservation(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/reservations/"+id.String(), nil, nil)
}

func (c *Client) ResendConfirmationEmail(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodPost, "/reservations/"+id.String()+"/resend-email", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport error, left as-is for connectivity classification
		return err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if envelope.Status != "success" {
		return c.apiError(resp.StatusCode, &envelope)
	}

	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response payload: %w", err)
		}
	}
	return nil
}

// apiError resolves the machine-readable code in the error payload back
// to a reservation sentinel, falling back to a generic service error.
func (c *Client) apiError(statusCode int, envelope *apiEnvelope) error {
	if len(envelope.Errors) > 0 {
		var payload struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(envelope.Errors, &payload) == nil && payload.Code != "" {
			if sentinel := reservations.FromErrorCode(payload.Code); sentinel != nil {
				return sentinel
			}
		}
	}
	return &ServiceError{
		StatusCode: statusCode,
		Message:    envelope.Message,
	}
}
