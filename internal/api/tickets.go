package api

import (
	"context"
	"fmt"

	"transrural/internal/domain"
)

// SeatState is the per-departure occupancy snapshot: authoritative on the
// server, stale here the moment it arrives.
type SeatState struct {
	DepartureID domain.ID       `json:"salida_id"`
	Capacity    int             `json:"capacidad"`
	Occupied    []int           `json:"asientos_ocupados"`
	Tickets     []domain.Ticket `json:"pasajes"`
}

// OccupiedSet returns the occupied seats as a lookup set.
func (s SeatState) OccupiedSet() map[int]bool {
	set := make(map[int]bool, len(s.Occupied))
	for _, n := range s.Occupied {
		set[n] = true
	}
	return set
}

// SellRequest is the passenger data submitted in the sale step.
type SellRequest struct {
	Name  string `json:"nombre"`
	DNI   string `json:"dni"`
	Phone string `json:"telefono,omitempty"`
	Seat  int    `json:"asiento"`
}

// ReserveRequest creates a zero-fare driver reservation.
type ReserveRequest struct {
	Name     string    `json:"nombre"`
	DNI      string    `json:"dni"`
	Phone    string    `json:"telefono,omitempty"`
	Seat     int       `json:"asiento"`
	DriverID domain.ID `json:"conductor_id"`
}

// SaleResult is the server acknowledgment of a sold or reserved seat.
type SaleResult struct {
	Success   bool      `json:"success"`
	TicketID  domain.ID `json:"pasaje_id"`
	Seat      int       `json:"asiento"`
	Price     float64   `json:"precio"`
	Available int       `json:"capacidad_disponible"`
}

// SeatAvailability is the free-seat list the driver reservation prompt
// offers; a trimmed-down view of SeatState.
type SeatAvailability struct {
	DepartureID domain.ID `json:"salida_id"`
	Capacity    int       `json:"capacidad"`
	Free        []int     `json:"asientos_libres"`
}

// DriverSeatAvailability fetches the free seats a driver may reserve.
func (c *Client) DriverSeatAvailability(ctx context.Context, id domain.ID) (SeatAvailability, error) {
	var out SeatAvailability
	err := c.get(ctx, fmt.Sprintf("/api/salida/%d/asientos-conductor/", id), &out)
	return out, err
}

// DepartureSeats fetches the occupancy and ticket list for one departure.
func (c *Client) DepartureSeats(ctx context.Context, id domain.ID) (SeatState, error) {
	var out SeatState
	err := c.get(ctx, fmt.Sprintf("/api/salida/%d/pasajes/", id), &out)
	return out, err
}

// Sell submits a paid ticket sale. The seat may have been taken since the
// last occupancy fetch; a ConflictError here is a normal outcome.
func (c *Client) Sell(ctx context.Context, id domain.ID, in SellRequest) (SaleResult, error) {
	var out SaleResult
	err := c.post(ctx, fmt.Sprintf("/api/salida/%d/vender/", id), in, &out)
	return out, err
}

// ReserveSeatAsDriver books a seat at zero fare on behalf of the driver.
func (c *Client) ReserveSeatAsDriver(ctx context.Context, id domain.ID, in ReserveRequest) (SaleResult, error) {
	var out SaleResult
	err := c.post(ctx, fmt.Sprintf("/api/salida/%d/reservar-conductor/", id), in, &out)
	return out, err
}

// CheckIn marks a passenger as boarded.
func (c *Client) CheckIn(ctx context.Context, ticketID domain.ID) error {
	return c.put(ctx, fmt.Sprintf("/api/pasaje/%d/check-in/", ticketID), nil, nil)
}
