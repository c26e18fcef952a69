package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/manifest"
	"transrural/internal/trip"
	"transrural/internal/utils"
)

type driverScreen int

const (
	driverTripList driverScreen = iota
	driverTripDetail
	driverReservePrompt
)

// driverPane selects which detail table the cursor lives in.
type driverPane int

const (
	paneTickets driverPane = iota
	paneParcels
)

type driverModel struct {
	workflow *trip.Workflow
	client   *api.Client
	docsDir  string

	screen driverScreen
	trips  []domain.Departure
	cursor int

	pane         driverPane
	ticketCursor int
	parcelCursor int

	reserveForm form
	freeSeats   []int
	busy        bool
	errLine     string
	notice      string
}

func newDriverModel(workflow *trip.Workflow, client *api.Client, docsDir string) driverModel {
	return driverModel{workflow: workflow, client: client, docsDir: docsDir}
}

type driverTripsMsg struct{ trips []domain.Departure }

type freeSeatsMsg struct{ seats []int }

func (m driverModel) Init() tea.Cmd {
	workflow := m.workflow
	return func() tea.Msg {
		trips, err := workflow.TodayTrips(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return driverTripsMsg{trips: trips}
	}
}

func (m driverModel) openTrip() (driverModel, tea.Cmd) {
	if len(m.trips) == 0 {
		return m, nil
	}
	id := m.trips[m.cursor].ID
	workflow := m.workflow
	m.busy = true
	return m, func() tea.Msg {
		if err := workflow.Open(context.Background(), id); err != nil {
			return errMsg{err: err}
		}
		return refreshedMsg{}
	}
}

// mutate runs one workflow mutation and refreshes the detail view.
func (m driverModel) mutate(op func(context.Context) error) (driverModel, tea.Cmd) {
	m.busy = true
	return m, func() tea.Msg {
		if err := op(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return refreshedMsg{}
	}
}

func (m driverModel) exportPDF(settlement bool) tea.Cmd {
	id := m.workflow.Departure().ID
	client := m.client
	dir := m.docsDir
	return func() tea.Msg {
		data, err := client.Manifest(context.Background(), id)
		if err != nil {
			return errMsg{err: err}
		}
		var raw []byte
		var name string
		if settlement {
			raw, name, err = manifest.RenderSettlementPDF(manifest.BuildSettlement(data))
		} else {
			raw, name, err = manifest.RenderPDF(manifest.Build(data))
		}
		if err != nil {
			return errMsg{err: err}
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return errMsg{err: err}
		}
		return pdfSavedMsg{path: path}
	}
}

func (m driverModel) Update(msg tea.Msg) (driverModel, tea.Cmd) {
	switch msg := msg.(type) {
	case driverTripsMsg:
		m.busy = false
		m.errLine = ""
		m.trips = msg.trips
		if m.cursor >= len(m.trips) {
			m.cursor = 0
		}
		return m, nil

	case refreshedMsg:
		m.busy = false
		m.errLine = ""
		if m.screen == driverTripList || m.screen == driverReservePrompt {
			m.screen = driverTripDetail
		}
		m.clampCursors()
		return m, nil

	case freeSeatsMsg:
		m.busy = false
		m.errLine = ""
		m.freeSeats = msg.seats
		m.screen = driverReservePrompt
		m.reserveForm = newForm("Reservar asiento (sin costo)",
			"Nombre del pasajero", "DNI", "Teléfono (opcional)", "Asiento")
		return m, nil

	case pdfSavedMsg:
		m.notice = "Documento guardado en " + msg.path
		return m, nil

	case errMsg:
		m.busy = false
		m.errLine = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *driverModel) clampCursors() {
	if n := len(m.workflow.Tickets()); m.ticketCursor >= n && n > 0 {
		m.ticketCursor = n - 1
	} else if n == 0 {
		m.ticketCursor = 0
	}
	if n := len(m.workflow.Parcels()); m.parcelCursor >= n && n > 0 {
		m.parcelCursor = n - 1
	} else if n == 0 {
		m.parcelCursor = 0
	}
}

func (m driverModel) handleKey(msg tea.KeyMsg) (driverModel, tea.Cmd) {
	switch m.screen {
	case driverTripList:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.trips)-1 {
				m.cursor++
			}
		case "r":
			return m, m.Init()
		case "enter":
			return m.openTrip()
		}
		return m, nil

	case driverTripDetail:
		switch msg.String() {
		case "esc":
			m.screen = driverTripList
			m.notice = ""
			m.errLine = ""
			return m, m.Init()
		case "tab":
			if m.pane == paneTickets {
				m.pane = paneParcels
			} else {
				m.pane = paneTickets
			}
		case "up", "k":
			if m.pane == paneTickets && m.ticketCursor > 0 {
				m.ticketCursor--
			} else if m.pane == paneParcels && m.parcelCursor > 0 {
				m.parcelCursor--
			}
		case "down", "j":
			if m.pane == paneTickets && m.ticketCursor < len(m.workflow.Tickets())-1 {
				m.ticketCursor++
			} else if m.pane == paneParcels && m.parcelCursor < len(m.workflow.Parcels())-1 {
				m.parcelCursor++
			}
		case "r":
			return m.mutate(m.workflow.Refresh)
		case "enter":
			if m.pane == paneTickets {
				tickets := m.workflow.Tickets()
				if len(tickets) == 0 {
					return m, nil
				}
				id := tickets[m.ticketCursor].ID
				return m.mutate(func(ctx context.Context) error { return m.workflow.CheckIn(ctx, id) })
			}
			parcels := m.workflow.Parcels()
			if len(parcels) == 0 {
				return m, nil
			}
			id := parcels[m.parcelCursor].ID
			return m.mutate(func(ctx context.Context) error { return m.workflow.DeliverParcel(ctx, id) })
		case "s":
			return m.mutate(m.workflow.MarkDeparted)
		case "a":
			return m.mutate(m.workflow.MarkArrived)
		case "b":
			workflow := m.workflow
			m.busy = true
			return m, func() tea.Msg {
				seats, err := workflow.FreeSeats(context.Background())
				if err != nil {
					return errMsg{err: err}
				}
				return freeSeatsMsg{seats: seats}
			}
		case "m":
			return m, m.exportPDF(false)
		case "q":
			return m, m.exportPDF(true)
		}
		return m, nil

	case driverReservePrompt:
		var cmd tea.Cmd
		m.reserveForm, cmd = m.reserveForm.Update(msg)
		if m.reserveForm.cancelled {
			m.screen = driverTripDetail
			return m, nil
		}
		if m.reserveForm.done {
			m.reserveForm.done = false
			v := m.reserveForm.Values()
			seat, err := strconv.Atoi(v[3])
			if err != nil || seat < 1 {
				m.errLine = "asiento inválido"
				return m, nil
			}
			return m.mutate(func(ctx context.Context) error {
				return m.workflow.ReserveSeat(ctx, v[0], v[1], v[2], seat)
			})
		}
		return m, cmd
	}
	return m, nil
}

func (m driverModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TransRural · Mis Viajes"))
	b.WriteString("\n\n")

	switch m.screen {
	case driverTripList:
		if len(m.trips) == 0 {
			b.WriteString(dimStyle.Render("No tienes salidas programadas para hoy."))
			b.WriteString("\n")
		}
		now := time.Now()
		for i, d := range m.trips {
			line := departureLine(d, domain.DeriveStatus(d, now))
			if i == m.cursor {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ mover · enter abrir · r actualizar · ctrl+l cerrar sesión"))

	case driverTripDetail, driverReservePrompt:
		b.WriteString(m.detailView())
		if m.screen == driverReservePrompt {
			b.WriteString("\n\n" + m.reserveForm.View())
			b.WriteString("\n" + dimStyle.Render("libres: "+seatList(m.freeSeats)))
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + okStyle.Render(m.notice))
	}
	if m.errLine != "" {
		b.WriteString("\n" + errorStyle.Render(m.errLine))
	}
	return b.String()
}

func seatList(seats []int) string {
	if len(seats) == 0 {
		return "ninguno"
	}
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

func (m driverModel) detailView() string {
	d := m.workflow.Departure()
	var b strings.Builder

	info := m.workflow.Status()
	boarded, total := m.workflow.BoardedCount()
	head := []string{
		fmt.Sprintf("%s · %s", d.Route.Display(), utils.FormatSchedule(d.When)),
		fmt.Sprintf("Vehículo %s · %s", d.Vehicle.Plate, statusBadge(info)),
		fmt.Sprintf("Abordados %d/%d · Encomiendas pendientes %d", boarded, total, m.workflow.PendingParcels()),
	}
	b.WriteString(boxStyle.Render(strings.Join(head, "\n")))
	b.WriteString("\n\n")

	ticketsHeader := "Pasajeros"
	if m.pane == paneTickets {
		ticketsHeader = selectedStyle.Render(ticketsHeader)
	}
	b.WriteString(headerStyle.Render(ticketsHeader) + "\n")
	tickets := m.workflow.Tickets()
	if len(tickets) == 0 {
		b.WriteString(dimStyle.Render("  sin pasajeros") + "\n")
	}
	for i, t := range tickets {
		mark := "  "
		if m.pane == paneTickets && i == m.ticketCursor {
			mark = "▸ "
		}
		state := "⬜ pagado"
		if t.Boarded() {
			state = "✅ abordado"
		}
		kind := ""
		if t.DriverReservation() {
			kind = dimStyle.Render(" (reserva)")
		}
		line := fmt.Sprintf("%sAs.%2d  %-30s %s%s", mark, t.Seat, t.Name, state, kind)
		if m.pane == paneTickets && i == m.ticketCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	parcelsHeader := "Encomiendas"
	if m.pane == paneParcels {
		parcelsHeader = selectedStyle.Render(parcelsHeader)
	}
	b.WriteString("\n" + headerStyle.Render(parcelsHeader) + "\n")
	parcels := m.workflow.Parcels()
	if len(parcels) == 0 {
		b.WriteString(dimStyle.Render("  sin encomiendas") + "\n")
	}
	for i, p := range parcels {
		mark := "  "
		if m.pane == paneParcels && i == m.parcelCursor {
			mark = "▸ "
		}
		state := "📦 enviada"
		if p.Delivered() {
			state = "✅ entregada"
		}
		line := fmt.Sprintf("%s%-24s para %-20s %.1fkg %s %s",
			mark, p.Description, p.RecipientName, p.WeightKG, utils.FormatSoles(p.Price), state)
		if m.pane == paneParcels && i == m.parcelCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(helpStyle.Render(
		"enter check-in/entregar · tab cambiar panel · s marcar salida · a marcar llegada\n" +
			"b reservar asiento · m manifiesto PDF · q liquidación PDF · r actualizar · esc volver"))
	return b.String()
}
