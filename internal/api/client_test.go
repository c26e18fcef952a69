package api_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/fakeapi"
	"transrural/pkg/logger"
)

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

func newTestClient(t *testing.T) (*api.Client, *fakeapi.Store, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := fakeapi.NewStore()
	store.AddAccount("admin", "admin123", "María Quispe", domain.RoleAdmin, "")
	driver := store.AddAccount("jmamani", "conductor1", "Juan Mamani", domain.RoleDriver, "")
	route := store.AddRoute(domain.Route{
		Name: "Valle Sagrado", Origin: "Cusco", Destination: "Urubamba",
		Fare: 15, ParcelRateKG: 2.5, Active: true,
	})
	vehicle := store.AddVehicle(domain.Vehicle{
		Plate: "X2U-483", Capacity: 12, DriverID: driver.ID, Status: domain.VehicleActive,
	})
	if _, err := store.AddDeparture(route.ID, vehicle.ID, driver.ID, testNow.Add(2*time.Hour)); err != nil {
		t.Fatalf("AddDeparture: %v", err)
	}

	srv := fakeapi.NewServer(store, logger.Nop(), fakeapi.WithClock(func() time.Time { return testNow }))
	ts := httptest.NewServer(srv.Router())
	return api.New(ts.URL, 5*time.Second, logger.Nop()), store, ts.Close
}

func TestLogin(t *testing.T) {
	client, _, closeFn := newTestClient(t)
	defer closeFn()
	ctx := context.Background()

	res, err := client.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success || res.Token == "" {
		t.Fatalf("unexpected login result: %+v", res)
	}
	if res.User.Role != domain.RoleAdmin || !res.User.IsAdmin() {
		t.Fatalf("user role = %q, want admin", res.User.Role)
	}

	if _, err := client.Login(ctx, "admin", "wrong"); !domain.IsAuth(err) {
		t.Fatalf("bad password: got %v, want auth error", err)
	}
	if _, err := client.Login(ctx, "nobody", "x"); !domain.IsAuth(err) {
		t.Fatalf("unknown user: got %v, want auth error", err)
	}
}

func TestErrorMapping(t *testing.T) {
	client, store, closeFn := newTestClient(t)
	defer closeFn()
	ctx := context.Background()

	// 404 → not found
	if _, err := client.DepartureSeats(ctx, 9999); !domain.IsNotFound(err) {
		t.Fatalf("missing departure: got %v, want not found", err)
	}

	deps, err := client.AvailableDepartures(ctx)
	if err != nil || len(deps) != 1 {
		t.Fatalf("AvailableDepartures = %v, %v", deps, err)
	}
	id := deps[0].ID

	// 400 → validation
	if _, err := client.Sell(ctx, id, api.SellRequest{Name: "Ana", DNI: "", Seat: 1}); !domain.IsValidation(err) {
		t.Fatalf("missing dni: got %v, want validation error", err)
	}

	// 409 → conflict
	if _, _, err := store.Sell(id, "OCUPANTE", "11111111", "", 1); err != nil {
		t.Fatalf("seed sell: %v", err)
	}
	if _, err := client.Sell(ctx, id, api.SellRequest{Name: "Ana Torres", DNI: "45678901", Seat: 1}); !domain.IsConflict(err) {
		t.Fatalf("occupied seat: got %v, want conflict error", err)
	}
}

func TestTransportFailure(t *testing.T) {
	client, _, closeFn := newTestClient(t)
	closeFn() // server gone before the call

	_, err := client.TodayDepartures(context.Background())
	if !domain.IsUnavailable(err) {
		t.Fatalf("got %v, want unavailable error", err)
	}
}

func TestManifestEndpoint(t *testing.T) {
	client, store, closeFn := newTestClient(t)
	defer closeFn()
	ctx := context.Background()

	deps, err := client.AvailableDepartures(ctx)
	if err != nil || len(deps) != 1 {
		t.Fatalf("AvailableDepartures = %v, %v", deps, err)
	}
	id := deps[0].ID

	if _, _, err := store.Sell(id, "Ana Torres", "45678901", "", 2); err != nil {
		t.Fatalf("seed sell: %v", err)
	}
	if _, err := store.CreateParcel(id, domain.Parcel{
		Description: "Caja", RecipientName: "Luis Ccoa", WeightKG: 4,
	}); err != nil {
		t.Fatalf("seed parcel: %v", err)
	}

	m, err := client.Manifest(ctx, id)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if m.Departure.ID != id {
		t.Fatalf("manifest departure = %d, want %d", m.Departure.ID, id)
	}
	if len(m.Tickets) != 1 || len(m.Parcels) != 1 {
		t.Fatalf("manifest tickets/parcels = %d/%d, want 1/1", len(m.Tickets), len(m.Parcels))
	}
	// parcel price = 4 kg × S/2.50
	if m.Parcels[0].Price != 10 {
		t.Fatalf("parcel price = %v, want 10", m.Parcels[0].Price)
	}
}
