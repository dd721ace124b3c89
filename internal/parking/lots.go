package parking

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/smartpark/parking-portal/internal/models"
)

// Levels lists all parking levels without spot detail.
func (c *Client) Levels(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := c.get(ctx, "/parking/levels", nil, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

// LevelsWithDetails lists levels with per-spot detail and occupancy counters.
func (c *Client) LevelsWithDetails(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := c.get(ctx, "/parking/levels/details", nil, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

// AllSpotsForLevel returns every spot on a level, occupied or not.
func (c *Client) AllSpotsForLevel(ctx context.Context, levelID int) ([]models.Spot, error) {
	var spots []models.Spot
	path := fmt.Sprintf("/parking/levels/%d/spots/all", levelID)
	if err := c.get(ctx, path, nil, &spots); err != nil {
		return nil, err
	}
	return spots, nil
}

// SpotsByLevel returns available spots on a level, filtered to accessible
// spots when requested.
func (c *Client) SpotsByLevel(ctx context.Context, levelID int, accessible bool) ([]models.Spot, error) {
	var spots []models.Spot
	query := url.Values{"isDisabled": {strconv.FormatBool(accessible)}}
	path := fmt.Sprintf("/parking/spots/%d", levelID)
	if err := c.get(ctx, path, query, &spots); err != nil {
		return nil, err
	}
	return spots, nil
}

// Stats returns lot-wide occupancy stats visible to all users.
func (c *Client) Stats(ctx context.Context) (models.ParkingStats, error) {
	var stats models.ParkingStats
	if err := c.get(ctx, "/parking/stats", nil, &stats); err != nil {
		return models.ParkingStats{}, err
	}
	return stats, nil
}

// AdminStats returns the detailed per-level stats for administrators.
func (c *Client) AdminStats(ctx context.Context) (models.ParkingStats, error) {
	var stats models.ParkingStats
	if err := c.get(ctx, "/parking/admin/stats", nil, &stats); err != nil {
		return models.ParkingStats{}, err
	}
	return stats, nil
}

// CreateLevelWithSpots creates a level and its spots atomically.
func (c *Client) CreateLevelWithSpots(ctx context.Context, req models.CreateLevelRequest) (models.Level, error) {
	var level models.Level
	if err := c.post(ctx, "/parking/levels/create", nil, req, &level); err != nil {
		return models.Level{}, err
	}
	return level, nil
}

// AddSpotToLevel appends one spot to an existing level.
func (c *Client) AddSpotToLevel(ctx context.Context, levelID int, req models.SpotRequest) (models.Spot, error) {
	var spot models.Spot
	path := fmt.Sprintf("/parking/levels/%d/spots", levelID)
	if err := c.post(ctx, path, nil, req, &spot); err != nil {
		return models.Spot{}, err
	}
	return spot, nil
}

// EnableSpot puts a disabled spot back in service.
func (c *Client) EnableSpot(ctx context.Context, spotID int) (models.Spot, error) {
	var spot models.Spot
	path := fmt.Sprintf("/parking/admin/spots/%d/enable", spotID)
	if err := c.put(ctx, path, nil, nil, &spot); err != nil {
		return models.Spot{}, err
	}
	return spot, nil
}

// DisableSpot takes a spot out of service.
func (c *Client) DisableSpot(ctx context.Context, spotID int) (models.Spot, error) {
	var spot models.Spot
	path := fmt.Sprintf("/parking/admin/spots/%d/disable", spotID)
	if err := c.put(ctx, path, nil, nil, &spot); err != nil {
		return models.Spot{}, err
	}
	return spot, nil
}

// VehicleEntry allocates a spot and opens a ticket at the gate.
func (c *Client) VehicleEntry(ctx context.Context, levelID int, vehicleNumber string, accessible bool) (models.Ticket, error) {
	var ticket models.Ticket
	query := url.Values{
		"levelId":       {strconv.Itoa(levelID)},
		"vehicleNumber": {vehicleNumber},
		"isDisabled":    {strconv.FormatBool(accessible)},
	}
	if err := c.post(ctx, "/parking/entry", query, nil, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// VehicleExit closes a ticket, computing the fee and releasing the spot.
func (c *Client) VehicleExit(ctx context.Context, ticketID int) (models.Ticket, error) {
	var ticket models.Ticket
	query := url.Values{"ticketId": {strconv.Itoa(ticketID)}}
	if err := c.put(ctx, "/parking/exit", query, nil, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}
