// Package trip drives a single departure through the driver's day: open
// it, board passengers, hand over parcels, mark departure and arrival.
package trip

import (
	"context"
	"fmt"
	"time"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/utils"
)

// Workflow holds the driver's working copy of one departure. Every
// mutation goes to the server first and the local copy is refetched, so
// the screen never shows state the server has not confirmed.
type Workflow struct {
	client *api.Client
	driver domain.User
	now    func() time.Time

	departure domain.Departure
	tickets   []domain.Ticket
	parcels   []domain.Parcel
	loaded    bool
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func NewWorkflow(client *api.Client, driver domain.User, opts ...Option) *Workflow {
	w := &Workflow{client: client, driver: driver, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// TodayTrips lists today's departures assigned to this driver, in
// schedule order.
func (w *Workflow) TodayTrips(ctx context.Context) ([]domain.Departure, error) {
	all, err := w.client.TodayDepartures(ctx)
	if err != nil {
		return nil, err
	}
	mine := []domain.Departure{}
	for _, d := range all {
		if d.Driver.ID == w.driver.ID {
			mine = append(mine, d)
		}
	}
	return mine, nil
}

// Open loads a departure with its full passenger and parcel detail.
func (w *Workflow) Open(ctx context.Context, id domain.ID) error {
	m, err := w.client.Manifest(ctx, id)
	if err != nil {
		return err
	}
	w.departure = m.Departure
	w.tickets = m.Tickets
	w.parcels = m.Parcels
	w.loaded = true
	return nil
}

// Refresh refetches the open departure.
func (w *Workflow) Refresh(ctx context.Context) error {
	if !w.loaded {
		return domain.ValidationError{Msg: "ninguna salida abierta"}
	}
	return w.Open(ctx, w.departure.ID)
}

func (w *Workflow) Departure() domain.Departure { return w.departure }
func (w *Workflow) Tickets() []domain.Ticket    { return w.tickets }
func (w *Workflow) Parcels() []domain.Parcel    { return w.parcels }

// Status derives the display status of the open departure at this instant.
func (w *Workflow) Status() domain.StatusInfo {
	return domain.DeriveStatus(w.departure, w.now())
}

// BoardedCount returns boarded tickets over total tickets.
func (w *Workflow) BoardedCount() (boarded, total int) {
	for _, t := range w.tickets {
		total++
		if t.Boarded() {
			boarded++
		}
	}
	return boarded, total
}

// PendingParcels counts parcels not yet delivered.
func (w *Workflow) PendingParcels() int {
	n := 0
	for _, p := range w.parcels {
		if !p.Delivered() {
			n++
		}
	}
	return n
}

// MarkDeparted starts the trip. Guarded locally so the driver gets an
// immediate message; the server enforces the same rule authoritatively.
func (w *Workflow) MarkDeparted(ctx context.Context) error {
	if w.departure.Lifecycle != domain.LifecycleScheduled {
		return domain.ConflictError{
			Resource: "salida",
			Msg:      fmt.Sprintf("no se puede iniciar una salida %s", w.departure.Lifecycle),
		}
	}
	if _, err := w.client.MarkDeparted(ctx, w.departure.ID); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

// MarkArrived completes the trip.
func (w *Workflow) MarkArrived(ctx context.Context) error {
	if w.departure.Lifecycle != domain.LifecycleInProgress {
		return domain.ConflictError{
			Resource: "salida",
			Msg:      fmt.Sprintf("no se puede completar una salida %s", w.departure.Lifecycle),
		}
	}
	if _, err := w.client.MarkArrived(ctx, w.departure.ID); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

// CheckIn boards a passenger. Boarding an already boarded ticket is a
// no-op on the server, so a double key press is harmless.
func (w *Workflow) CheckIn(ctx context.Context, ticketID domain.ID) error {
	if err := w.client.CheckIn(ctx, ticketID); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

// DeliverParcel marks a parcel handed over at the destination.
func (w *Workflow) DeliverParcel(ctx context.Context, parcelID domain.ID) error {
	if err := w.client.DeliverParcel(ctx, parcelID); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

// FreeSeats lists the seats still open for a driver reservation.
func (w *Workflow) FreeSeats(ctx context.Context) ([]int, error) {
	avail, err := w.client.DriverSeatAvailability(ctx, w.departure.ID)
	if err != nil {
		return nil, err
	}
	return avail.Free, nil
}

// ReserveSeat books a zero-fare seat on the passenger's behalf, typically
// a relief driver or an escort. The passenger's identity is recorded like
// a regular sale; seat races surface as ConflictError.
func (w *Workflow) ReserveSeat(ctx context.Context, name, dni, phone string, seat int) error {
	name = utils.NormalizeName(name)
	if len([]rune(name)) < 3 {
		return domain.ValidationError{Field: "nombre", Msg: "debe tener al menos 3 caracteres"}
	}
	if !utils.ValidDNI(dni) {
		return domain.ValidationError{Field: "dni", Msg: "debe tener 8 dígitos"}
	}
	if !utils.ValidPhone(phone) {
		return domain.ValidationError{Field: "teléfono", Msg: "máximo 9 dígitos"}
	}
	_, err := w.client.ReserveSeatAsDriver(ctx, w.departure.ID, api.ReserveRequest{
		Name:     name,
		DNI:      dni,
		Phone:    phone,
		Seat:     seat,
		DriverID: w.driver.ID,
	})
	if err != nil {
		return err
	}
	return w.Refresh(ctx)
}
