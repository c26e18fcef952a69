// Package sale implements the four-step ticket sale flow: pick a
// departure, pick a seat, enter the passenger and payment, confirm. All
// state is in-memory and thrown away when the operator leaves the flow.
package sale

import (
	"context"
	"fmt"
	"time"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/utils"
)

// Step is the wizard position. The flow is strictly linear; Back moves one
// step, never further.
type Step int

const (
	StepSelectDeparture Step = iota
	StepSelectSeat
	StepEnterPassenger
	StepConfirmation
)

// Form is the raw operator input of the passenger step.
type Form struct {
	Name     string
	DNI      string
	Phone    string
	Received string
}

// Receipt is the confirmation-step summary, the content of the printed
// ticket.
type Receipt struct {
	TicketID  domain.ID
	Departure domain.Departure
	Seat      int
	Name      string
	DNI       string
	Phone     string
	Fare      float64
	Received  float64
	Change    float64
}

type Wizard struct {
	client *api.Client
	now    func() time.Time

	step       Step
	departures []domain.Departure
	departure  *domain.Departure
	seats      api.SeatState
	occupied   map[int]bool
	seat       int
	receipt    *Receipt
}

type Option func(*Wizard)

// WithClock overrides the wizard's clock; tests pin "now".
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func NewWizard(client *api.Client, opts ...Option) *Wizard {
	w := &Wizard{client: client, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Step() Step { return w.step }

// LoadDepartures fetches the sellable list for step one. Full departures
// and departures past their sellable window are filtered out entirely.
func (w *Wizard) LoadDepartures(ctx context.Context) error {
	all, err := w.client.AvailableDepartures(ctx)
	if err != nil {
		return err
	}
	now := w.now()
	sellable := []domain.Departure{}
	for _, d := range all {
		if domain.Sellable(d, now) {
			sellable = append(sellable, d)
		}
	}
	w.departures = sellable
	return nil
}

// Departures returns the step-one list.
func (w *Wizard) Departures() []domain.Departure { return w.departures }

// ChooseDeparture locks in a departure and fetches its occupied-seat set,
// advancing to seat selection.
func (w *Wizard) ChooseDeparture(ctx context.Context, id domain.ID) error {
	if w.step != StepSelectDeparture {
		return domain.ValidationError{Msg: "fuera de secuencia"}
	}
	var chosen *domain.Departure
	for i := range w.departures {
		if w.departures[i].ID == id {
			chosen = &w.departures[i]
			break
		}
	}
	if chosen == nil {
		return domain.NotFoundError{Resource: "salida"}
	}

	seats, err := w.client.DepartureSeats(ctx, id)
	if err != nil {
		return err
	}

	w.departure = chosen
	w.seats = seats
	w.occupied = seats.OccupiedSet()
	w.seat = 0
	w.step = StepSelectSeat
	return nil
}

// Departure returns the selected departure once one is chosen.
func (w *Wizard) Departure() (domain.Departure, bool) {
	if w.departure == nil {
		return domain.Departure{}, false
	}
	return *w.departure, true
}

// Capacity is the seat count of the chosen departure's vehicle.
func (w *Wizard) Capacity() int { return w.seats.Capacity }

// SeatOccupied reports whether a seat was occupied as of the last fetch.
// The server may disagree by submit time; that race resolves at Submit.
func (w *Wizard) SeatOccupied(n int) bool { return w.occupied[n] }

// SelectedSeat returns the current selection, zero when none.
func (w *Wizard) SelectedSeat() int { return w.seat }

// SelectSeat picks exactly one free seat.
func (w *Wizard) SelectSeat(n int) error {
	if w.step != StepSelectSeat {
		return domain.ValidationError{Msg: "fuera de secuencia"}
	}
	if n < 1 || n > w.seats.Capacity {
		return domain.ValidationError{
			Field: "asiento",
			Msg:   fmt.Sprintf("debe estar entre 1 y %d", w.seats.Capacity),
		}
	}
	if w.occupied[n] {
		return domain.ValidationError{Field: "asiento", Msg: fmt.Sprintf("el asiento %d está ocupado", n)}
	}
	w.seat = n
	return nil
}

// ConfirmSeat advances to the passenger step; it requires a selection.
func (w *Wizard) ConfirmSeat() error {
	if w.step != StepSelectSeat {
		return domain.ValidationError{Msg: "fuera de secuencia"}
	}
	if w.seat == 0 {
		return domain.ValidationError{Field: "asiento", Msg: "selecciona un asiento"}
	}
	w.step = StepEnterPassenger
	return nil
}

// Back moves one step towards departure selection. Leaving the seat step
// clears the seat and departure; leaving the passenger step keeps them.
func (w *Wizard) Back() {
	switch w.step {
	case StepSelectSeat:
		w.departure = nil
		w.seat = 0
		w.occupied = nil
		w.seats = api.SeatState{}
		w.step = StepSelectDeparture
	case StepEnterPassenger:
		w.step = StepSelectSeat
	}
}

// ChangeDue previews change for the entered amount; negative means the
// payment is short and Submit will reject it.
func (w *Wizard) ChangeDue(form Form) float64 {
	received, err := utils.ParseAmount(form.Received)
	if err != nil || w.departure == nil {
		return 0
	}
	return utils.RoundCents(received - w.departure.Route.Fare)
}

// validate applies the client-side rules; everything here fails before any
// request leaves the process.
func (w *Wizard) validate(form Form) (name string, received float64, err error) {
	name = utils.NormalizeName(form.Name)
	if len([]rune(name)) < 3 {
		return "", 0, domain.ValidationError{Field: "nombre", Msg: "debe tener al menos 3 caracteres"}
	}
	if !utils.ValidDNI(form.DNI) {
		return "", 0, domain.ValidationError{Field: "dni", Msg: "debe tener 8 dígitos"}
	}
	if !utils.ValidPhone(form.Phone) {
		return "", 0, domain.ValidationError{Field: "teléfono", Msg: "máximo 9 dígitos"}
	}
	received, perr := utils.ParseAmount(form.Received)
	if perr != nil {
		return "", 0, domain.ValidationError{Field: "monto", Msg: "monto recibido inválido"}
	}
	fare := w.departure.Route.Fare
	if received < fare {
		return "", 0, domain.ValidationError{
			Field: "monto",
			Msg:   fmt.Sprintf("el monto recibido debe ser al menos %s", utils.FormatSoles(fare)),
		}
	}
	return name, received, nil
}

// Submit validates and sells. On a server rejection — most commonly the
// seat was sold by another operator after our occupancy fetch — the wizard
// stays on the passenger step so the operator can correct and retry.
// Success is only ever declared on the server's response.
func (w *Wizard) Submit(ctx context.Context, form Form) error {
	if w.step != StepEnterPassenger {
		return domain.ValidationError{Msg: "fuera de secuencia"}
	}
	name, received, err := w.validate(form)
	if err != nil {
		return err
	}

	res, err := w.client.Sell(ctx, w.departure.ID, api.SellRequest{
		Name:  name,
		DNI:   form.DNI,
		Phone: form.Phone,
		Seat:  w.seat,
	})
	if err != nil {
		return err
	}

	w.receipt = &Receipt{
		TicketID:  res.TicketID,
		Departure: *w.departure,
		Seat:      res.Seat,
		Name:      name,
		DNI:       form.DNI,
		Phone:     form.Phone,
		Fare:      res.Price,
		Received:  received,
		Change:    utils.RoundCents(received - res.Price),
	}
	w.step = StepConfirmation
	return nil
}

// Receipt returns the confirmation summary after a successful sale.
func (w *Wizard) Receipt() (Receipt, bool) {
	if w.receipt == nil {
		return Receipt{}, false
	}
	return *w.receipt, true
}

// NewSale discards everything and reloads the departure list, including
// the occupancy the finished sale just changed.
func (w *Wizard) NewSale(ctx context.Context) error {
	w.departure = nil
	w.seat = 0
	w.occupied = nil
	w.seats = api.SeatState{}
	w.receipt = nil
	w.step = StepSelectDeparture
	return w.LoadDepartures(ctx)
}
