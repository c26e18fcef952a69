package sale_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/fakeapi"
	"transrural/internal/sale"
	"transrural/pkg/logger"
)

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

type fixture struct {
	wizard    *sale.Wizard
	store     *fakeapi.Store
	departure domain.Departure
	close     func()
}

// newFixture seeds one sellable departure: fare 15, capacity 12, seats
// 1-3 already sold.
func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := fakeapi.NewStore()
	driver := store.AddAccount("jmamani", "conductor1", "Juan Mamani", domain.RoleDriver, "")
	route := store.AddRoute(domain.Route{
		Name: "Valle Sagrado", Origin: "Cusco", Destination: "Urubamba",
		Fare: 15, ParcelRateKG: 2.5, Active: true,
	})
	vehicle := store.AddVehicle(domain.Vehicle{
		Plate: "X2U-483", Capacity: 12, DriverID: driver.ID, Status: domain.VehicleActive,
	})
	dep, err := store.AddDeparture(route.ID, vehicle.ID, driver.ID, testNow.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("AddDeparture: %v", err)
	}
	for seat := 1; seat <= 3; seat++ {
		if _, _, err := store.Sell(dep.ID, "PASAJERO PREVIO", "11111111", "", seat); err != nil {
			t.Fatalf("seed sell seat %d: %v", seat, err)
		}
	}

	srv := fakeapi.NewServer(store, logger.Nop(), fakeapi.WithClock(func() time.Time { return testNow }))
	ts := httptest.NewServer(srv.Router())

	client := api.New(ts.URL, 5*time.Second, logger.Nop())
	w := sale.NewWizard(client, sale.WithClock(func() time.Time { return testNow }))
	return fixture{wizard: w, store: store, departure: dep, close: ts.Close}
}

// advance walks the fixture wizard to the passenger step on the given seat.
func (f fixture) advance(t *testing.T, seat int) {
	t.Helper()
	ctx := context.Background()
	if err := f.wizard.LoadDepartures(ctx); err != nil {
		t.Fatalf("LoadDepartures: %v", err)
	}
	if err := f.wizard.ChooseDeparture(ctx, f.departure.ID); err != nil {
		t.Fatalf("ChooseDeparture: %v", err)
	}
	if err := f.wizard.SelectSeat(seat); err != nil {
		t.Fatalf("SelectSeat(%d): %v", seat, err)
	}
	if err := f.wizard.ConfirmSeat(); err != nil {
		t.Fatalf("ConfirmSeat: %v", err)
	}
}

func TestLoadDeparturesFiltersSoldOut(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	for seat := 4; seat <= 12; seat++ {
		if _, _, err := f.store.Sell(f.departure.ID, "RELLENO", "22222222", "", seat); err != nil {
			t.Fatalf("fill seat %d: %v", seat, err)
		}
	}

	if err := f.wizard.LoadDepartures(context.Background()); err != nil {
		t.Fatalf("LoadDepartures: %v", err)
	}
	if got := len(f.wizard.Departures()); got != 0 {
		t.Fatalf("expected a full departure to be hidden, got %d departures", got)
	}
}

func TestSeatSelection(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.wizard.LoadDepartures(ctx); err != nil {
		t.Fatalf("LoadDepartures: %v", err)
	}
	if got := len(f.wizard.Departures()); got != 1 {
		t.Fatalf("expected 1 sellable departure, got %d", got)
	}
	if err := f.wizard.ChooseDeparture(ctx, f.departure.ID); err != nil {
		t.Fatalf("ChooseDeparture: %v", err)
	}

	if got := f.wizard.Capacity(); got != 12 {
		t.Fatalf("capacity = %d, want 12", got)
	}
	for _, seat := range []int{1, 2, 3} {
		if !f.wizard.SeatOccupied(seat) {
			t.Fatalf("seat %d should be occupied", seat)
		}
	}

	if err := f.wizard.SelectSeat(2); !domain.IsValidation(err) {
		t.Fatalf("selecting an occupied seat: got %v, want validation error", err)
	}
	if err := f.wizard.SelectSeat(13); !domain.IsValidation(err) {
		t.Fatalf("selecting seat 13 of 12: got %v, want validation error", err)
	}
	if err := f.wizard.SelectSeat(4); err != nil {
		t.Fatalf("SelectSeat(4): %v", err)
	}
	if got := f.wizard.SelectedSeat(); got != 4 {
		t.Fatalf("selected seat = %d, want 4", got)
	}
	if err := f.wizard.ConfirmSeat(); err != nil {
		t.Fatalf("ConfirmSeat: %v", err)
	}
	if f.wizard.Step() != sale.StepEnterPassenger {
		t.Fatalf("step = %v, want StepEnterPassenger", f.wizard.Step())
	}
}

func TestSubmitRejectsShortPayment(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.advance(t, 4)

	err := f.wizard.Submit(context.Background(), sale.Form{
		Name: "Ana Torres", DNI: "45678901", Received: "10",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("short payment: got %v, want validation error", err)
	}
	if f.wizard.Step() != sale.StepEnterPassenger {
		t.Fatalf("step after rejection = %v, want StepEnterPassenger", f.wizard.Step())
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name string
		form sale.Form
	}{
		{"short name", sale.Form{Name: "Al", DNI: "45678901", Received: "20"}},
		{"bad dni", sale.Form{Name: "Ana Torres", DNI: "123", Received: "20"}},
		{"long phone", sale.Form{Name: "Ana Torres", DNI: "45678901", Phone: "1234567890", Received: "20"}},
		{"bad amount", sale.Form{Name: "Ana Torres", DNI: "45678901", Received: "veinte"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			defer f.close()
			f.advance(t, 4)

			if err := f.wizard.Submit(context.Background(), tc.form); !domain.IsValidation(err) {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.advance(t, 4)

	err := f.wizard.Submit(context.Background(), sale.Form{
		Name: "  ana   torres ", DNI: "45678901", Phone: "987654321", Received: "20",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.wizard.Step() != sale.StepConfirmation {
		t.Fatalf("step = %v, want StepConfirmation", f.wizard.Step())
	}

	r, ok := f.wizard.Receipt()
	if !ok {
		t.Fatal("no receipt after successful sale")
	}
	if r.Name != "ANA TORRES" {
		t.Fatalf("receipt name = %q, want %q", r.Name, "ANA TORRES")
	}
	if r.Seat != 4 {
		t.Fatalf("receipt seat = %d, want 4", r.Seat)
	}
	if r.Fare != 15 || r.Received != 20 || r.Change != 5 {
		t.Fatalf("receipt money = fare %v received %v change %v, want 15/20/5", r.Fare, r.Received, r.Change)
	}
	if r.TicketID == 0 {
		t.Fatal("receipt has no ticket id")
	}
}

func TestSubmitSeatConflictStaysOnPassengerStep(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.advance(t, 4)

	// Another operator takes seat 4 between our occupancy fetch and submit.
	if _, _, err := f.store.Sell(f.departure.ID, "OTRO OPERADOR", "33333333", "", 4); err != nil {
		t.Fatalf("competing sell: %v", err)
	}

	err := f.wizard.Submit(context.Background(), sale.Form{
		Name: "Ana Torres", DNI: "45678901", Received: "20",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict error", err)
	}
	if f.wizard.Step() != sale.StepEnterPassenger {
		t.Fatalf("step after conflict = %v, want StepEnterPassenger", f.wizard.Step())
	}
	if _, ok := f.wizard.Receipt(); ok {
		t.Fatal("conflict must not produce a receipt")
	}
}

func TestBackClearsSelection(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.wizard.LoadDepartures(ctx); err != nil {
		t.Fatalf("LoadDepartures: %v", err)
	}
	if err := f.wizard.ChooseDeparture(ctx, f.departure.ID); err != nil {
		t.Fatalf("ChooseDeparture: %v", err)
	}
	if err := f.wizard.SelectSeat(5); err != nil {
		t.Fatalf("SelectSeat: %v", err)
	}

	f.wizard.Back()
	if f.wizard.Step() != sale.StepSelectDeparture {
		t.Fatalf("step = %v, want StepSelectDeparture", f.wizard.Step())
	}
	if _, ok := f.wizard.Departure(); ok {
		t.Fatal("departure selection should be cleared on back")
	}
	if f.wizard.SelectedSeat() != 0 {
		t.Fatal("seat selection should be cleared on back")
	}
}

func TestNewSaleReloadsOccupancy(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()
	f.advance(t, 4)

	if err := f.wizard.Submit(ctx, sale.Form{Name: "Ana Torres", DNI: "45678901", Received: "15"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := f.wizard.NewSale(ctx); err != nil {
		t.Fatalf("NewSale: %v", err)
	}
	if f.wizard.Step() != sale.StepSelectDeparture {
		t.Fatalf("step = %v, want StepSelectDeparture", f.wizard.Step())
	}
	if err := f.wizard.ChooseDeparture(ctx, f.departure.ID); err != nil {
		t.Fatalf("ChooseDeparture: %v", err)
	}
	if !f.wizard.SeatOccupied(4) {
		t.Fatal("seat 4 should be occupied after the previous sale")
	}
}
