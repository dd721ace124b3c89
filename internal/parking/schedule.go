package parking

import (
	"fmt"
	"time"

	"github.com/smartpark/parking-portal/internal/models"
)

// Booking hours for the reservation wizard: half-hour starts from 06:00 up to
// and including 21:30.
const (
	bookingOpenHour  = 6
	bookingCloseHour = 22
	slotStepMinutes  = 30
)

// MaxAdvanceDays bounds how far ahead a reservation can start.
const MaxAdvanceDays = 3

// TimeOptions returns the selectable start times as "HH:MM" strings.
func TimeOptions() []string {
	var options []string
	for h := bookingOpenHour; h < bookingCloseHour; h++ {
		for m := 0; m < 60; m += slotStepMinutes {
			options = append(options, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return options
}

// SlotWindow resolves a date ("YYYY-MM-DD"), start ("HH:MM") and duration into
// the concrete start and end instants of the candidate slot.
func SlotWindow(date, start string, duration time.Duration) (time.Time, time.Time, error) {
	begin, err := time.Parse("2006-01-02T15:04", date+"T"+start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse slot start: %w", err)
	}
	return begin, begin.Add(duration), nil
}

// EndTime computes the "HH:MM" end of a slot starting at start on date and
// lasting duration. Windows crossing midnight keep wall-clock form.
func EndTime(date, start string, duration time.Duration) (string, error) {
	_, end, err := SlotWindow(date, start, duration)
	if err != nil {
		return "", err
	}
	return end.Format("15:04"), nil
}

// SlotAvailable reports whether the candidate slot fits entirely inside one
// of the free windows. With no slot data at all the spot is assumed free; the
// remote service re-validates on creation.
func SlotAvailable(free []models.TimeSlot, date, start string, duration time.Duration) bool {
	if len(free) == 0 {
		return true
	}
	begin, end, err := SlotWindow(date, start, duration)
	if err != nil {
		return false
	}
	for _, window := range free {
		if !begin.Before(window.Start) && !end.After(window.End) {
			return true
		}
	}
	return false
}

// DateBounds returns the earliest and latest reservation dates as
// "YYYY-MM-DD": today through today+MaxAdvanceDays.
func DateBounds(now time.Time) (min, max string) {
	return now.Format("2006-01-02"), now.AddDate(0, 0, MaxAdvanceDays).Format("2006-01-02")
}

// AvailableSpots drops occupied and out-of-service spots.
func AvailableSpots(spots []models.Spot) []models.Spot {
	var available []models.Spot
	for _, spot := range spots {
		if spot.Available() {
			available = append(available, spot)
		}
	}
	return available
}

// UnblockedSpots additionally drops spots held by reservations.
func UnblockedSpots(spots []models.Spot, blockedIDs []int) []models.Spot {
	blocked := make(map[int]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}
	var open []models.Spot
	for _, spot := range spots {
		if _, held := blocked[spot.ID]; !held {
			open = append(open, spot)
		}
	}
	return open
}
