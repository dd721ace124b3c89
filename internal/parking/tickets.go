package parking

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smartpark/parking-portal/internal/models"
)

// CreateUserTicket opens a ticket on behalf of a signed-in user.
func (c *Client) CreateUserTicket(ctx context.Context, req models.CreateTicketRequest) (models.Ticket, error) {
	var ticket models.Ticket
	if err := c.post(ctx, "/ticketing/user/create", nil, req, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// UserTickets lists every ticket owned by email.
func (c *Client) UserTickets(ctx context.Context, email string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	query := url.Values{"email": {email}}
	if err := c.get(ctx, "/ticketing/user/tickets", query, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// UserActiveTickets lists the open tickets owned by email.
func (c *Client) UserActiveTickets(ctx context.Context, email string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	query := url.Values{"email": {email}}
	if err := c.get(ctx, "/ticketing/user/tickets/active", query, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// UserTicket fetches one ticket; the remote service validates ownership.
func (c *Client) UserTicket(ctx context.Context, ticketID int, email string) (models.Ticket, error) {
	var ticket models.Ticket
	query := url.Values{"email": {email}}
	path := fmt.Sprintf("/ticketing/user/tickets/%d", ticketID)
	if err := c.get(ctx, path, query, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// ExitUserVehicle closes the user's own ticket.
func (c *Client) ExitUserVehicle(ctx context.Context, ticketID int, email string) (models.Ticket, error) {
	var ticket models.Ticket
	query := url.Values{"email": {email}}
	path := fmt.Sprintf("/ticketing/user/exit/%d", ticketID)
	if err := c.put(ctx, path, query, nil, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// AllTickets lists every ticket in the system.
func (c *Client) AllTickets(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := c.get(ctx, "/ticketing/admin/tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// AllActiveTickets lists every open ticket in the system.
func (c *Client) AllActiveTickets(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := c.get(ctx, "/ticketing/admin/tickets/active", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// SystemStats returns ticketing-wide statistics.
func (c *Client) SystemStats(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	if err := c.get(ctx, "/ticketing/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// AdminTicket fetches any ticket by id.
func (c *Client) AdminTicket(ctx context.Context, ticketID int) (models.Ticket, error) {
	var ticket models.Ticket
	path := fmt.Sprintf("/ticketing/admin/tickets/%d", ticketID)
	if err := c.get(ctx, path, nil, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// AdminExit closes any ticket regardless of owner.
func (c *Client) AdminExit(ctx context.Context, ticketID int) (models.Ticket, error) {
	var ticket models.Ticket
	path := fmt.Sprintf("/ticketing/admin/exit/%d", ticketID)
	if err := c.put(ctx, path, nil, nil, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}
