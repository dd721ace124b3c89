package models

import "time"

// Spot lifecycle states as reported by the parking-lot service.
const (
	SpotAvailable = "AVAILABLE"
	SpotOccupied  = "OCCUPIED"
	SpotDisabled  = "DISABLED"
)

// Spot categories.
const (
	SpotTypeCar         = "CAR"
	SpotTypeBike        = "BIKE"
	SpotTypeEV          = "EV"
	SpotTypeHandicapped = "HANDICAPPED"
)

// Ticket lifecycle states.
const (
	TicketActive = "ACTIVE"
	TicketClosed = "CLOSED"
)

// Reservation lifecycle states.
const (
	ReservationCreated   = "CREATED"
	ReservationActive    = "ACTIVE"
	ReservationCompleted = "COMPLETED"
	ReservationExpired   = "EXPIRED"
	ReservationCancelled = "CANCELLED"
)

// Spot is a single parking spot on a level.
type Spot struct {
	ID         int    `json:"id"`
	SpotCode   string `json:"spotCode,omitempty"`
	SpotType   string `json:"spotType,omitempty"`
	Status     string `json:"status,omitempty"`
	IsOccupied bool   `json:"isOccupied"`
	IsDisabled bool   `json:"isDisabled"`
	LevelID    int    `json:"levelId,omitempty"`
}

// Available reports whether the spot can take a vehicle right now.
func (s Spot) Available() bool {
	return s.Status == SpotAvailable || (!s.IsOccupied && !s.IsDisabled)
}

// Level is a parking level, optionally carrying per-spot detail and occupancy
// counters from the details endpoint.
type Level struct {
	ID                  int     `json:"id"`
	LevelNumber         string  `json:"levelNumber"`
	Name                string  `json:"name,omitempty"`
	TotalSpots          int     `json:"totalSpots,omitempty"`
	AvailableSpots      int     `json:"availableSpots,omitempty"`
	OccupiedSpots       int     `json:"occupiedSpots,omitempty"`
	OccupancyPercentage float64 `json:"occupancyPercentage,omitempty"`
	Spots               []Spot  `json:"spots,omitempty"`
}

// CreateLevelRequest creates a level together with its spots in one call.
type CreateLevelRequest struct {
	LevelNumber      string        `json:"levelNumber"`
	Name             string        `json:"name,omitempty"`
	TotalSpots       int           `json:"totalSpots,omitempty"`
	CarSpots         int           `json:"carSpots,omitempty"`
	BikeSpots        int           `json:"bikeSpots,omitempty"`
	EVSpots          int           `json:"evSpots,omitempty"`
	HandicappedSpots int           `json:"handicappedSpots,omitempty"`
	Spots            []SpotRequest `json:"spots,omitempty"`
}

// SpotRequest adds one spot to a level.
type SpotRequest struct {
	SpotCode   string `json:"spotCode,omitempty"`
	SpotType   string `json:"spotType"`
	IsDisabled bool   `json:"isDisabled,omitempty"`
}

// Ticket is an entry/exit record for a parked vehicle.
type Ticket struct {
	ID            int        `json:"id"`
	UserID        string     `json:"userId,omitempty"`
	UserEmail     string     `json:"userEmail,omitempty"`
	VehicleNumber string     `json:"vehicleNumber"`
	SpotID        int        `json:"spotId"`
	LevelID       int        `json:"levelId"`
	EntryTime     *time.Time `json:"entryTime,omitempty"`
	ExitTime      *time.Time `json:"exitTime,omitempty"`
	Status        string     `json:"status"`
	Fee           *float64   `json:"fee,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// CreateTicketRequest opens a ticket on behalf of a signed-in user.
type CreateTicketRequest struct {
	UserID        string `json:"userId"`
	UserEmail     string `json:"userEmail"`
	VehicleNumber string `json:"vehicleNumber"`
	SpotID        int    `json:"spotId"`
	LevelID       int    `json:"levelId"`
}

// Reservation is an advance booking of a spot for a time window.
type Reservation struct {
	ID                int        `json:"id"`
	UserID            string     `json:"userId,omitempty"`
	UserEmail         string     `json:"userEmail,omitempty"`
	VehicleNumber     string     `json:"vehicleNumber"`
	SpotID            int        `json:"spotId"`
	SpotCode          string     `json:"spotCode,omitempty"`
	LevelID           int        `json:"levelId"`
	LevelName         string     `json:"levelName,omitempty"`
	StartTime         time.Time  `json:"startTime"`
	EndTime           time.Time  `json:"endTime"`
	Status            string     `json:"status"`
	TicketID          *int       `json:"ticketId,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	CanCheckIn        bool       `json:"canCheckIn,omitempty"`
	CanCancel         bool       `json:"canCancel,omitempty"`
	MinutesUntilStart int64      `json:"minutesUntilStart,omitempty"`
	Message           string     `json:"message,omitempty"`
}

// CreateReservationRequest books a spot for a concrete window. Times use the
// remote API's local-datetime format, e.g. "2026-01-02T09:30:00".
type CreateReservationRequest struct {
	UserID        string `json:"userId"`
	UserEmail     string `json:"userEmail"`
	VehicleNumber string `json:"vehicleNumber"`
	SpotID        int    `json:"spotId"`
	LevelID       int    `json:"levelId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
}

// TimeSlot is a free window reported by the availability endpoint.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Vehicle is a registered vehicle record.
type Vehicle struct {
	ID           int    `json:"id"`
	LicensePlate string `json:"licensePlate"`
	Type         string `json:"type"`
	OwnerName    string `json:"ownerName,omitempty"`
}

// ParkingStats summarizes lot occupancy, with per-level breakdown on the admin
// variant.
type ParkingStats struct {
	TotalSpots          int          `json:"totalSpots"`
	AvailableSpots      int          `json:"availableSpots"`
	OccupiedSpots       int          `json:"occupiedSpots"`
	DisabledSpots       int          `json:"disabledSpots,omitempty"`
	OccupancyPercentage float64      `json:"occupancyPercentage,omitempty"`
	LevelStats          []LevelStats `json:"levelStats,omitempty"`
}

// LevelStats is the per-level slice of the admin stats response.
type LevelStats struct {
	LevelID             int     `json:"levelId"`
	LevelName           string  `json:"levelName,omitempty"`
	LevelNumber         string  `json:"levelNumber,omitempty"`
	TotalSpots          int64   `json:"totalSpots"`
	AvailableSpots      int64   `json:"availableSpots"`
	OccupiedSpots       int64   `json:"occupiedSpots"`
	DisabledSpots       int64   `json:"disabledSpots"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
}

// PaymentRequest creates a payment order for a ticket.
type PaymentRequest struct {
	TicketID int     `json:"ticketId"`
	Amount   float64 `json:"amount"`
}

// PaymentVerification carries the gateway callback fields; the portal relays
// them untouched, the remote service owns correctness.
type PaymentVerification struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
	TicketID  int    `json:"ticketId,omitempty"`
}

// Payment is the remote payment service's order response.
type Payment struct {
	ID       string  `json:"id,omitempty"`
	OrderID  string  `json:"orderId,omitempty"`
	TicketID int     `json:"ticketId,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Status   string  `json:"status,omitempty"`
	Message  string  `json:"message,omitempty"`
}
