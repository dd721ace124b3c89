package parking

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smartpark/parking-portal/internal/models"
)

// RegisterVehicle saves a new vehicle record.
func (c *Client) RegisterVehicle(ctx context.Context, vehicle models.Vehicle) (models.Vehicle, error) {
	var saved models.Vehicle
	if err := c.post(ctx, "/vehicle/save", nil, vehicle, &saved); err != nil {
		return models.Vehicle{}, err
	}
	return saved, nil
}

// Vehicles lists every registered vehicle.
func (c *Client) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := c.get(ctx, "/vehicle/all", nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// VehicleByPlate looks a vehicle up by license plate.
func (c *Client) VehicleByPlate(ctx context.Context, licensePlate string) (models.Vehicle, error) {
	var vehicle models.Vehicle
	path := "/vehicle/" + url.PathEscape(licensePlate)
	if err := c.get(ctx, path, nil, &vehicle); err != nil {
		return models.Vehicle{}, err
	}
	return vehicle, nil
}

// DeleteVehicle removes a vehicle record.
func (c *Client) DeleteVehicle(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/vehicle/%d", id), nil, nil)
}
