package parking

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/smartpark/parking-portal/internal/models"
)

// CreateReservation books a spot for the requested window.
func (c *Client) CreateReservation(ctx context.Context, req models.CreateReservationRequest) (models.Reservation, error) {
	var reservation models.Reservation
	if err := c.post(ctx, "/reservations", nil, req, &reservation); err != nil {
		return models.Reservation{}, err
	}
	return reservation, nil
}

// UserReservations lists every reservation owned by email.
func (c *Client) UserReservations(ctx context.Context, email string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	query := url.Values{"email": {email}}
	if err := c.get(ctx, "/reservations", query, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// ActiveReservations lists email's upcoming and in-progress reservations.
func (c *Client) ActiveReservations(ctx context.Context, email string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	query := url.Values{"email": {email}}
	if err := c.get(ctx, "/reservations/active", query, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// Reservation fetches one reservation; ownership is validated remotely.
func (c *Client) Reservation(ctx context.Context, id int, email string) (models.Reservation, error) {
	var reservation models.Reservation
	query := url.Values{"email": {email}}
	if err := c.get(ctx, fmt.Sprintf("/reservations/%d", id), query, &reservation); err != nil {
		return models.Reservation{}, err
	}
	return reservation, nil
}

// CancelReservation cancels a reservation the user owns.
func (c *Client) CancelReservation(ctx context.Context, id int, email string) error {
	query := url.Values{"email": {email}}
	return c.delete(ctx, fmt.Sprintf("/reservations/%d", id), query, nil)
}

// CheckIn converts a reservation into an active ticket on arrival.
func (c *Client) CheckIn(ctx context.Context, id int, email string) (models.Reservation, error) {
	var reservation models.Reservation
	query := url.Values{"email": {email}}
	path := fmt.Sprintf("/reservations/%d/check-in", id)
	if err := c.post(ctx, path, query, nil, &reservation); err != nil {
		return models.Reservation{}, err
	}
	return reservation, nil
}

// AvailableSlots returns the free windows for a spot on a date (YYYY-MM-DD).
func (c *Client) AvailableSlots(ctx context.Context, spotID int, date string) ([]models.TimeSlot, error) {
	var out struct {
		AvailableSlots []models.TimeSlot `json:"availableSlots"`
	}
	query := url.Values{
		"spotId": {strconv.Itoa(spotID)},
		"date":   {date},
	}
	if err := c.get(ctx, "/reservations/slots", query, &out); err != nil {
		return nil, err
	}
	return out.AvailableSlots, nil
}

// CheckSlotAvailability asks whether one concrete window is free.
func (c *Client) CheckSlotAvailability(ctx context.Context, spotID int, startTime, endTime string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	query := url.Values{
		"spotId":    {strconv.Itoa(spotID)},
		"startTime": {startTime},
		"endTime":   {endTime},
	}
	if err := c.get(ctx, "/reservations/check-availability", query, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// BlockedSpots returns the spot ids on a level currently held by reservations.
func (c *Client) BlockedSpots(ctx context.Context, levelID int) ([]int, error) {
	var blocked []int
	query := url.Values{"levelId": {strconv.Itoa(levelID)}}
	if err := c.get(ctx, "/reservations/blocked-spots", query, &blocked); err != nil {
		return nil, err
	}
	return blocked, nil
}

// AllReservations lists every reservation in the system.
func (c *Client) AllReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := c.get(ctx, "/reservations/admin/all", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}
