package manifest

import (
	"testing"
	"time"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/sale"
)

func testManifestData() api.ManifestData {
	when := time.Date(2026, 3, 10, 6, 30, 0, 0, time.Local)
	return api.ManifestData{
		Departure: domain.Departure{
			ID:        7,
			When:      when,
			Lifecycle: domain.LifecycleScheduled,
			Route: domain.Route{
				Name: "Valle Sagrado", Origin: "Cusco", Destination: "Urubamba",
				Fare: 15, ParcelRateKG: 2.5,
			},
			Vehicle: domain.Vehicle{Plate: "X2U-483", Make: "Toyota", Model: "Hiace", Capacity: 12},
			Driver:  domain.DriverRef{ID: 2, Name: "Juan Mamani"},
		},
		Tickets: []domain.Ticket{
			{ID: 10, Seat: 1, Name: "ANA TORRES", DNI: "45678901", Price: 15, Status: domain.TicketBoarded, Kind: domain.TicketSold},
			{ID: 11, Seat: 2, Name: "LUIS CCOA", DNI: "41234567", Price: 15, Status: domain.TicketPaid, Kind: domain.TicketSold},
			{ID: 12, Seat: 3, Name: "JUAN MAMANI", DNI: "00000000", Price: 0, Status: domain.TicketPaid, Kind: domain.TicketDriverReservation},
		},
		Parcels: []domain.Parcel{
			{ID: 20, Description: "Caja", RecipientName: "Rosa Huamán", WeightKG: 4, Price: 10, Status: domain.ParcelSent},
			{ID: 21, Description: "Sobre", RecipientName: "Pedro Inca", WeightKG: 0.5, Price: 1.25, Status: domain.ParcelDelivered},
		},
	}
}

func TestBuildTotals(t *testing.T) {
	m := Build(testManifestData())

	if m.SoldSeats != 2 {
		t.Fatalf("sold seats = %d, want 2", m.SoldSeats)
	}
	if m.ReservedSeats != 1 {
		t.Fatalf("reserved seats = %d, want 1", m.ReservedSeats)
	}
	if m.FareTotal != 30 {
		t.Fatalf("fare total = %v, want 30", m.FareTotal)
	}
	if m.ParcelTotal != 11.25 {
		t.Fatalf("parcel total = %v, want 11.25", m.ParcelTotal)
	}
	if m.GrandTotal != 41.25 {
		t.Fatalf("grand total = %v, want 41.25", m.GrandTotal)
	}
	if m.RouteLine != "Cusco → Urubamba" {
		t.Fatalf("route line = %q", m.RouteLine)
	}
	if m.Schedule != "10/03/2026 06:30" {
		t.Fatalf("schedule = %q", m.Schedule)
	}
}

func TestBuildSettlement(t *testing.T) {
	s := BuildSettlement(testManifestData())

	if s.SoldSeats != 2 {
		t.Fatalf("sold seats = %d, want 2", s.SoldSeats)
	}
	if s.BoardedSeats != 1 {
		t.Fatalf("boarded seats = %d, want 1", s.BoardedSeats)
	}
	if s.ParcelCount != 2 {
		t.Fatalf("parcel count = %d, want 2", s.ParcelCount)
	}
	if s.GrandTotal != 41.25 {
		t.Fatalf("grand total = %v, want 41.25", s.GrandTotal)
	}
}

func TestRenderPDFs(t *testing.T) {
	data := testManifestData()

	pdf, name, err := RenderPDF(Build(data))
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("RenderPDF returned empty data")
	}
	if name != "manifiesto_7_2026-03-10.pdf" {
		t.Fatalf("manifest filename = %q", name)
	}

	slip, name, err := RenderSettlementPDF(BuildSettlement(data))
	if err != nil {
		t.Fatalf("RenderSettlementPDF returned error: %v", err)
	}
	if len(slip) == 0 || name != "liquidacion_7_2026-03-10.pdf" {
		t.Fatalf("settlement pdf len=%d filename=%q", len(slip), name)
	}

	receipt, name, err := RenderReceiptPDF(sale.Receipt{
		TicketID:  10,
		Departure: data.Departure,
		Seat:      1,
		Name:      "ANA TORRES",
		DNI:       "45678901",
		Fare:      15,
		Received:  20,
		Change:    5,
	})
	if err != nil {
		t.Fatalf("RenderReceiptPDF returned error: %v", err)
	}
	if len(receipt) == 0 || name != "boleta_10.pdf" {
		t.Fatalf("receipt pdf len=%d filename=%q", len(receipt), name)
	}
}
