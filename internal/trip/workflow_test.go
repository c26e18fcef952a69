package trip_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/fakeapi"
	"transrural/internal/trip"
	"transrural/pkg/logger"
)

var testNow = time.Date(2026, 3, 10, 7, 0, 0, 0, time.Local)

type fixture struct {
	workflow  *trip.Workflow
	store     *fakeapi.Store
	driver    domain.User
	departure domain.Departure
	ticket    domain.Ticket
	parcel    domain.Parcel
	close     func()
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := fakeapi.NewStore()
	driver := store.AddAccount("jmamani", "conductor1", "Juan Mamani", domain.RoleDriver, "")
	other := store.AddAccount("rhuaman", "conductor2", "Rosa Huamán", domain.RoleDriver, "")
	route := store.AddRoute(domain.Route{
		Name: "Valle Sagrado", Origin: "Cusco", Destination: "Urubamba",
		Fare: 15, ParcelRateKG: 2.5, Active: true,
	})
	vehicle := store.AddVehicle(domain.Vehicle{
		Plate: "X2U-483", Capacity: 12, DriverID: driver.ID, Status: domain.VehicleActive,
	})
	dep, err := store.AddDeparture(route.ID, vehicle.ID, driver.ID, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("AddDeparture: %v", err)
	}
	// A second trip today for the other driver; TodayTrips must hide it.
	if _, err := store.AddDeparture(route.ID, vehicle.ID, other.ID, testNow.Add(3*time.Hour)); err != nil {
		t.Fatalf("AddDeparture: %v", err)
	}

	ticket, _, err := store.Sell(dep.ID, "Ana Torres", "45678901", "", 5)
	if err != nil {
		t.Fatalf("seed sell: %v", err)
	}
	parcel, err := store.CreateParcel(dep.ID, domain.Parcel{
		Description: "Caja de mercadería", RecipientName: "Luis Ccoa", WeightKG: 4,
	})
	if err != nil {
		t.Fatalf("seed parcel: %v", err)
	}

	srv := fakeapi.NewServer(store, logger.Nop(), fakeapi.WithClock(func() time.Time { return testNow }))
	ts := httptest.NewServer(srv.Router())

	client := api.New(ts.URL, 5*time.Second, logger.Nop())
	w := trip.NewWorkflow(client, driver, trip.WithClock(func() time.Time { return testNow }))
	return fixture{
		workflow: w, store: store, driver: driver,
		departure: dep, ticket: ticket, parcel: parcel, close: ts.Close,
	}
}

func TestTodayTripsFiltersByDriver(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	trips, err := f.workflow.TodayTrips(context.Background())
	if err != nil {
		t.Fatalf("TodayTrips: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(trips))
	}
	if trips[0].ID != f.departure.ID {
		t.Fatalf("got departure %d, want %d", trips[0].ID, f.departure.ID)
	}
}

func TestOpenLoadsDetail(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	if err := f.workflow.Open(context.Background(), f.departure.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := f.workflow.Departure().ID; got != f.departure.ID {
		t.Fatalf("departure id = %d, want %d", got, f.departure.ID)
	}
	if got := len(f.workflow.Tickets()); got != 1 {
		t.Fatalf("tickets = %d, want 1", got)
	}
	if got := len(f.workflow.Parcels()); got != 1 {
		t.Fatalf("parcels = %d, want 1", got)
	}
	if got := f.workflow.Status().Code; got != domain.StatusPending {
		t.Fatalf("status = %s, want %s", got, domain.StatusPending)
	}
}

func TestTripLifecycle(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.workflow.Open(ctx, f.departure.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Arrival before departure is out of order.
	if err := f.workflow.MarkArrived(ctx); !domain.IsConflict(err) {
		t.Fatalf("arrive before depart: got %v, want conflict", err)
	}

	if err := f.workflow.MarkDeparted(ctx); err != nil {
		t.Fatalf("MarkDeparted: %v", err)
	}
	if got := f.workflow.Departure().Lifecycle; got != domain.LifecycleInProgress {
		t.Fatalf("lifecycle = %s, want %s", got, domain.LifecycleInProgress)
	}
	if got := f.workflow.Status().Code; got != domain.StatusInProgress {
		t.Fatalf("status = %s, want %s", got, domain.StatusInProgress)
	}

	// Departing twice is rejected locally.
	if err := f.workflow.MarkDeparted(ctx); !domain.IsConflict(err) {
		t.Fatalf("double depart: got %v, want conflict", err)
	}

	if err := f.workflow.MarkArrived(ctx); err != nil {
		t.Fatalf("MarkArrived: %v", err)
	}
	if got := f.workflow.Departure().Lifecycle; got != domain.LifecycleCompleted {
		t.Fatalf("lifecycle = %s, want %s", got, domain.LifecycleCompleted)
	}
}

func TestCheckInIsIdempotent(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.workflow.Open(ctx, f.departure.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if boarded, total := f.workflow.BoardedCount(); boarded != 0 || total != 1 {
		t.Fatalf("boarded/total = %d/%d, want 0/1", boarded, total)
	}

	for i := 0; i < 2; i++ {
		if err := f.workflow.CheckIn(ctx, f.ticket.ID); err != nil {
			t.Fatalf("CheckIn pass %d: %v", i+1, err)
		}
	}
	if boarded, total := f.workflow.BoardedCount(); boarded != 1 || total != 1 {
		t.Fatalf("boarded/total = %d/%d, want 1/1", boarded, total)
	}
}

func TestDeliverParcel(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.workflow.Open(ctx, f.departure.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := f.workflow.PendingParcels(); got != 1 {
		t.Fatalf("pending parcels = %d, want 1", got)
	}
	if err := f.workflow.DeliverParcel(ctx, f.parcel.ID); err != nil {
		t.Fatalf("DeliverParcel: %v", err)
	}
	if got := f.workflow.PendingParcels(); got != 0 {
		t.Fatalf("pending parcels = %d, want 0", got)
	}
}

func TestReserveSeat(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.workflow.Open(ctx, f.departure.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	free, err := f.workflow.FreeSeats(ctx)
	if err != nil {
		t.Fatalf("FreeSeats: %v", err)
	}
	// Seat 5 holds the seeded passenger; 11 of 12 remain.
	if len(free) != 11 {
		t.Fatalf("free seats = %d, want 11", len(free))
	}
	for _, n := range free {
		if n == 5 {
			t.Fatal("seat 5 is occupied but listed free")
		}
	}

	if err := f.workflow.ReserveSeat(ctx, "  pedro   flores ", "87654321", "955123456", 1); err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}

	var reservation *domain.Ticket
	tickets := f.workflow.Tickets()
	for i := range tickets {
		if tickets[i].DriverReservation() {
			reservation = &tickets[i]
		}
	}
	if reservation == nil {
		t.Fatal("no driver reservation in ticket list")
	}
	if reservation.Price != 0 {
		t.Fatalf("reservation price = %v, want 0", reservation.Price)
	}
	// The ticket names the passenger who rides, not the driver who booked.
	if reservation.Name != "PEDRO FLORES" {
		t.Fatalf("reservation name = %q, want %q", reservation.Name, "PEDRO FLORES")
	}
	if reservation.DNI != "87654321" {
		t.Fatalf("reservation dni = %q, want %q", reservation.DNI, "87654321")
	}

	// The occupied seat now collides.
	if err := f.workflow.ReserveSeat(ctx, "Elena Paz", "11223344", "", 5); !domain.IsConflict(err) {
		t.Fatalf("reserving an occupied seat: got %v, want conflict", err)
	}
}

func TestReserveSeatValidatesPassenger(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := f.workflow.Open(ctx, f.departure.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}

	cases := []struct {
		label string
		name  string
		dni   string
		phone string
	}{
		{"short name", "Al", "87654321", ""},
		{"bad dni", "Pedro Flores", "123", ""},
		{"long phone", "Pedro Flores", "87654321", "9876543210"},
	}
	for _, tc := range cases {
		if err := f.workflow.ReserveSeat(ctx, tc.name, tc.dni, tc.phone, 1); !domain.IsValidation(err) {
			t.Fatalf("%s: got %v, want validation error", tc.label, err)
		}
	}
}
