package manifest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"transrural/internal/sale"
	"transrural/internal/utils"
)

// RenderPDF writes the boarding manifest as A4 portrait and returns the
// bytes plus a suggested filename.
func RenderPDF(m Manifest) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Manifiesto de Viaje", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRANSRURAL - MANIFIESTO DE VIAJE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		fmt.Sprintf("Salida N° %d", m.DepartureID),
		fmt.Sprintf("Ruta       : %s (%s)", safe(m.RouteName, "-"), safe(m.RouteLine, "-")),
		fmt.Sprintf("Fecha/Hora : %s", safe(m.Schedule, "-")),
		fmt.Sprintf("Vehículo   : %s %s", safe(m.Plate, "-"), safe(m.VehicleDesc, "")),
		fmt.Sprintf("Conductor  : %s", safe(m.DriverName, "-")),
		fmt.Sprintf("Ocupación  : %d de %d asientos", len(m.Passengers), m.Capacity),
	}
	for _, line := range header {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Pasajeros")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	passengerRow(pdf, "AS.", "NOMBRE", "DNI", "ESTADO", "PRECIO")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range m.Passengers {
		status := "vendido"
		if p.Driver {
			status = "reserva"
		} else if p.Boarded {
			status = "abordado"
		}
		passengerRow(pdf,
			fmt.Sprintf("%d", p.Seat),
			safe(p.Name, "-"),
			safe(p.DNI, "-"),
			status,
			utils.FormatSoles(p.Price),
		)
	}
	if len(m.Passengers) == 0 {
		pdf.Cell(0, 6, "Sin pasajeros registrados.")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Encomiendas")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for i, p := range m.Parcels {
		status := "enviada"
		if p.Delivered {
			status = "entregada"
		}
		line := fmt.Sprintf("%d) %s - para %s - %.1f kg - %s - %s",
			i+1, safe(p.Description, "-"), safe(p.Recipient, "-"),
			p.WeightKG, utils.FormatSoles(p.Price), status,
		)
		pdf.MultiCell(0, 6, line, "", "", false)
	}
	if len(m.Parcels) == 0 {
		pdf.Cell(0, 6, "Sin encomiendas registradas.")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	totals := []string{
		fmt.Sprintf("Pasajes vendidos   : %d (%s)", m.SoldSeats, utils.FormatSoles(m.FareTotal)),
		fmt.Sprintf("Encomiendas        : %d (%s)", len(m.Parcels), utils.FormatSoles(m.ParcelTotal)),
		fmt.Sprintf("Total recaudado    : %s", utils.FormatSoles(m.GrandTotal)),
	}
	for _, line := range totals {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	signatureBlock(pdf, "Conductor", "Despachador")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("manifiesto_%d_%s.pdf", m.DepartureID, dateFromSchedule(m.Schedule))
	return buf.Bytes(), filename, nil
}

// RenderReceiptPDF prints the boleta handed to the passenger after a sale.
func RenderReceiptPDF(r sale.Receipt) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boleta de Venta", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRANSRURAL - BOLETA DE VENTA")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Pasaje N°   : %d", r.TicketID),
		fmt.Sprintf("Pasajero    : %s", safe(r.Name, "-")),
		fmt.Sprintf("DNI         : %s", safe(r.DNI, "-")),
		fmt.Sprintf("Ruta        : %s", r.Departure.Route.Display()),
		fmt.Sprintf("Fecha/Hora  : %s", utils.FormatSchedule(r.Departure.When)),
		fmt.Sprintf("Asiento     : %d", r.Seat),
		fmt.Sprintf("Precio      : %s", utils.FormatSoles(r.Fare)),
		fmt.Sprintf("Recibido    : %s", utils.FormatSoles(r.Received)),
		fmt.Sprintf("Vuelto      : %s", utils.FormatSoles(r.Change)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Presente esta boleta al abordar. Válida para un pasajero y un asiento.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("boleta_%d.pdf", r.TicketID)
	return buf.Bytes(), filename, nil
}

// RenderSettlementPDF prints the driver's cash settlement slip.
func RenderSettlementPDF(s Settlement) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Liquidación de Viaje", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRANSRURAL - LIQUIDACIÓN DE VIAJE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Salida N°    : %d", s.DepartureID),
		fmt.Sprintf("Ruta         : %s", safe(s.RouteLine, "-")),
		fmt.Sprintf("Fecha/Hora   : %s", safe(s.Schedule, "-")),
		fmt.Sprintf("Conductor    : %s", safe(s.DriverName, "-")),
		fmt.Sprintf("Vehículo     : %s", safe(s.Plate, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Resumen")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	summary := []string{
		fmt.Sprintf("Pasajes vendidos  : %d", s.SoldSeats),
		fmt.Sprintf("Pasajeros a bordo : %d", s.BoardedSeats),
		fmt.Sprintf("Ingreso pasajes   : %s", utils.FormatSoles(s.FareTotal)),
		fmt.Sprintf("Encomiendas       : %d", s.ParcelCount),
		fmt.Sprintf("Ingreso encomiendas: %s", utils.FormatSoles(s.ParcelTotal)),
	}
	for _, line := range summary {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Total a entregar: "+utils.FormatSoles(s.GrandTotal))
	pdf.Ln(10)

	signatureBlock(pdf, "Conductor", "Cajero")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("liquidacion_%d_%s.pdf", s.DepartureID, dateFromSchedule(s.Schedule))
	return buf.Bytes(), filename, nil
}

func passengerRow(pdf *gofpdf.Fpdf, seat, name, dni, status, price string) {
	pdf.CellFormat(14, 6, seat, "1", 0, "C", false, 0, "")
	pdf.CellFormat(74, 6, name, "1", 0, "L", false, 0, "")
	pdf.CellFormat(28, 6, dni, "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, status, "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, price, "1", 1, "R", false, 0, "")
}

func signatureBlock(pdf *gofpdf.Fpdf, left, right string) {
	pdf.Ln(18)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(85, 6, "_______________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, "_______________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(85, 6, left, "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, right, "", 1, "C", false, 0, "")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

// dateFromSchedule extracts dd/mm/yyyy from the display schedule and flips
// it to yyyy-mm-dd for filenames.
func dateFromSchedule(schedule string) string {
	t, err := utils.ParseSchedule(schedule)
	if err != nil {
		return "sin-fecha"
	}
	return utils.FormatDate(t)
}
