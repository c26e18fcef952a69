package api

import (
	"context"
	"fmt"
	"time"

	"transrural/internal/domain"
)

// DepartureInput creates a new scheduled departure.
type DepartureInput struct {
	RouteID   domain.ID `json:"ruta_id"`
	VehicleID domain.ID `json:"vehiculo_id"`
	DriverID  domain.ID `json:"conductor_id"`
	When      time.Time `json:"fecha_hora"`
}

// TodayDepartures lists every departure scheduled for the current day.
func (c *Client) TodayDepartures(ctx context.Context) ([]domain.Departure, error) {
	var out []domain.Departure
	err := c.get(ctx, "/api/salidas-hoy/", &out)
	return out, err
}

// Departures lists all departures regardless of date.
func (c *Client) Departures(ctx context.Context) ([]domain.Departure, error) {
	var out []domain.Departure
	err := c.get(ctx, "/api/salidas/", &out)
	return out, err
}

// AvailableDepartures lists departures the server still considers sellable.
// Callers re-filter with domain.Sellable: the local clock may have moved
// past the server's snapshot.
func (c *Client) AvailableDepartures(ctx context.Context) ([]domain.Departure, error) {
	var out []domain.Departure
	err := c.get(ctx, "/api/salidas-disponibles/", &out)
	return out, err
}

func (c *Client) CreateDeparture(ctx context.Context, in DepartureInput) (domain.Departure, error) {
	var out domain.Departure
	err := c.post(ctx, "/api/salidas/crear/", in, &out)
	return out, err
}

func (c *Client) CancelDeparture(ctx context.Context, id domain.ID) error {
	return c.put(ctx, fmt.Sprintf("/api/salidas/%d/cancelar/", id), nil, nil)
}

// MarkDeparted transitions a scheduled departure to in-progress.
func (c *Client) MarkDeparted(ctx context.Context, id domain.ID) (domain.Departure, error) {
	var out domain.Departure
	err := c.put(ctx, fmt.Sprintf("/api/salidas/%d/marcar-salida/", id), nil, &out)
	return out, err
}

// MarkArrived transitions an in-progress departure to completed.
func (c *Client) MarkArrived(ctx context.Context, id domain.ID) (domain.Departure, error) {
	var out domain.Departure
	err := c.put(ctx, fmt.Sprintf("/api/salidas/%d/marcar-llegada/", id), nil, &out)
	return out, err
}
