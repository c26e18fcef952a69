// Package manifest turns trip data into the printed documents the office
// works with: the boarding manifest, the sale receipt and the driver
// settlement slip. Building the document model and rendering the PDF are
// separate so totals can be tested without parsing PDF output.
package manifest

import (
	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/utils"
)

// PassengerRow is one line of the manifest passenger table.
type PassengerRow struct {
	Seat    int
	Name    string
	DNI     string
	Phone   string
	Price   float64
	Boarded bool
	Driver  bool
}

// ParcelRow is one line of the manifest parcel table.
type ParcelRow struct {
	Description string
	Recipient   string
	WeightKG    float64
	Price       float64
	Delivered   bool
}

// Manifest is the full document model for one departure.
type Manifest struct {
	DepartureID domain.ID
	RouteName   string
	RouteLine   string
	Schedule    string
	Plate       string
	VehicleDesc string
	DriverName  string
	Capacity    int

	Passengers []PassengerRow
	Parcels    []ParcelRow

	SoldSeats     int
	ReservedSeats int
	FareTotal     float64
	ParcelTotal   float64
	GrandTotal    float64
}

// Build assembles the manifest model. Driver reservations occupy seats but
// contribute nothing to revenue.
func Build(m api.ManifestData) Manifest {
	d := m.Departure
	out := Manifest{
		DepartureID: d.ID,
		RouteName:   d.Route.Name,
		RouteLine:   d.Route.Display(),
		Schedule:    utils.FormatSchedule(d.When),
		Plate:       d.Vehicle.Plate,
		VehicleDesc: d.Vehicle.Make + " " + d.Vehicle.Model,
		DriverName:  d.Driver.Name,
		Capacity:    d.Vehicle.Capacity,
	}

	for _, t := range m.Tickets {
		row := PassengerRow{
			Seat:    t.Seat,
			Name:    t.Name,
			DNI:     t.DNI,
			Phone:   t.Phone,
			Price:   t.Price,
			Boarded: t.Boarded(),
			Driver:  t.DriverReservation(),
		}
		out.Passengers = append(out.Passengers, row)
		if row.Driver {
			out.ReservedSeats++
			continue
		}
		out.SoldSeats++
		out.FareTotal += t.Price
	}

	for _, p := range m.Parcels {
		out.Parcels = append(out.Parcels, ParcelRow{
			Description: p.Description,
			Recipient:   p.RecipientName,
			WeightKG:    p.WeightKG,
			Price:       p.Price,
			Delivered:   p.Delivered(),
		})
		out.ParcelTotal += p.Price
	}

	out.FareTotal = utils.RoundCents(out.FareTotal)
	out.ParcelTotal = utils.RoundCents(out.ParcelTotal)
	out.GrandTotal = utils.RoundCents(out.FareTotal + out.ParcelTotal)
	return out
}

// Settlement is the driver's end-of-trip cash slip, signed by driver and
// dispatcher.
type Settlement struct {
	DepartureID domain.ID
	RouteLine   string
	Schedule    string
	DriverName  string
	Plate       string

	SoldSeats    int
	BoardedSeats int
	FareTotal    float64
	ParcelCount  int
	ParcelTotal  float64
	GrandTotal   float64
}

// BuildSettlement reduces a manifest to the settlement figures.
func BuildSettlement(m api.ManifestData) Settlement {
	doc := Build(m)
	out := Settlement{
		DepartureID: doc.DepartureID,
		RouteLine:   doc.RouteLine,
		Schedule:    doc.Schedule,
		DriverName:  doc.DriverName,
		Plate:       doc.Plate,
		SoldSeats:   doc.SoldSeats,
		FareTotal:   doc.FareTotal,
		ParcelCount: len(doc.Parcels),
		ParcelTotal: doc.ParcelTotal,
		GrandTotal:  doc.GrandTotal,
	}
	for _, p := range doc.Passengers {
		if p.Boarded && !p.Driver {
			out.BoardedSeats++
		}
	}
	return out
}
