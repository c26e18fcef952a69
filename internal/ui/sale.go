package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"transrural/internal/domain"
	"transrural/internal/manifest"
	"transrural/internal/sale"
	"transrural/internal/utils"
)

const seatsPerRow = 4

// saleModel renders the four wizard steps. The wizard owns all sale state;
// this model only holds cursors and the passenger form.
type saleModel struct {
	wizard  *sale.Wizard
	docsDir string

	cursor   int
	seat     int
	passForm form
	busy     bool
	errLine  string
	notice   string
}

func newSaleModel(wizard *sale.Wizard, docsDir string) saleModel {
	return saleModel{wizard: wizard, docsDir: docsDir, seat: 1}
}

func (m saleModel) Init() tea.Cmd {
	wizard := m.wizard
	return func() tea.Msg {
		if err := wizard.NewSale(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return refreshedMsg{}
	}
}

func newPassengerForm() form {
	return newForm("Datos del pasajero",
		"Nombre completo", "DNI (8 dígitos)", "Teléfono (opcional)", "Monto recibido (S/)")
}

// firstFreeSeat returns the lowest free seat so the cursor never starts on
// an occupied one.
func (m saleModel) firstFreeSeat() int {
	for n := 1; n <= m.wizard.Capacity(); n++ {
		if !m.wizard.SeatOccupied(n) {
			return n
		}
	}
	return 1
}

func (m saleModel) chooseDeparture() (saleModel, tea.Cmd) {
	list := m.wizard.Departures()
	if len(list) == 0 {
		return m, nil
	}
	id := list[m.cursor].ID
	wizard := m.wizard
	m.busy = true
	return m, func() tea.Msg {
		if err := wizard.ChooseDeparture(context.Background(), id); err != nil {
			return errMsg{err: err}
		}
		return refreshedMsg{}
	}
}

func (m saleModel) submitSale() (saleModel, tea.Cmd) {
	values := m.passForm.Values()
	f := sale.Form{Name: values[0], DNI: values[1], Phone: values[2], Received: values[3]}
	wizard := m.wizard
	m.busy = true
	return m, func() tea.Msg {
		if err := wizard.Submit(context.Background(), f); err != nil {
			return errMsg{err: err}
		}
		return refreshedMsg{}
	}
}

func (m saleModel) saveReceipt() tea.Cmd {
	receipt, ok := m.wizard.Receipt()
	if !ok {
		return nil
	}
	dir := m.docsDir
	return func() tea.Msg {
		raw, name, err := manifest.RenderReceiptPDF(receipt)
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

func (m saleModel) Update(msg tea.Msg) (saleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		// On a seat conflict the wizard stays on the passenger step; the
		// operator steps back by hand to pick another seat.
		m.busy = false
		m.errLine = msg.err.Error()
		return m, nil

	case refreshedMsg:
		m.busy = false
		m.errLine = ""
		switch m.wizard.Step() {
		case sale.StepSelectDeparture:
			m.cursor = 0
		case sale.StepSelectSeat:
			m.seat = m.firstFreeSeat()
		case sale.StepConfirmation:
			m.notice = "Venta registrada"
		}
		return m, nil

	case pdfSavedMsg:
		m.notice = "Boleta guardada en " + msg.path
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.wizard.Step() == sale.StepEnterPassenger {
		var cmd tea.Cmd
		m.passForm, cmd = m.passForm.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m saleModel) handleKey(msg tea.KeyMsg) (saleModel, tea.Cmd) {
	switch m.wizard.Step() {
	case sale.StepSelectDeparture:
		list := m.wizard.Departures()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(list)-1 {
				m.cursor++
			}
		case "r":
			return m, m.Init()
		case "enter":
			return m.chooseDeparture()
		}
		return m, nil

	case sale.StepSelectSeat:
		capacity := m.wizard.Capacity()
		move := func(delta int) {
			next := m.seat + delta
			if next >= 1 && next <= capacity {
				m.seat = next
			}
		}
		switch msg.String() {
		case "left", "h":
			move(-1)
		case "right", "l":
			move(1)
		case "up", "k":
			move(-seatsPerRow)
		case "down", "j":
			move(seatsPerRow)
		case "esc":
			m.wizard.Back()
			m.cursor = 0
		case "enter":
			if err := m.wizard.SelectSeat(m.seat); err != nil {
				m.errLine = err.Error()
				return m, nil
			}
			if err := m.wizard.ConfirmSeat(); err != nil {
				m.errLine = err.Error()
				return m, nil
			}
			m.errLine = ""
			m.passForm = newPassengerForm()
		}
		return m, nil

	case sale.StepEnterPassenger:
		var cmd tea.Cmd
		m.passForm, cmd = m.passForm.Update(msg)
		if m.passForm.cancelled {
			m.wizard.Back()
			m.errLine = ""
			return m, nil
		}
		if m.passForm.done {
			m.passForm.done = false
			return m.submitSale()
		}
		return m, cmd

	case sale.StepConfirmation:
		switch msg.String() {
		case "n":
			m.notice = ""
			return m, m.Init()
		case "b":
			return m, m.saveReceipt()
		}
		return m, nil
	}
	return m, nil
}

func (m saleModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Venta de Pasajes"))
	b.WriteString("\n\n")

	switch m.wizard.Step() {
	case sale.StepSelectDeparture:
		b.WriteString(headerStyle.Render("1/4 · Selecciona la salida"))
		b.WriteString("\n\n")
		list := m.wizard.Departures()
		if len(list) == 0 {
			b.WriteString(dimStyle.Render("No hay salidas con asientos disponibles."))
			b.WriteString("\n")
		}
		now := time.Now()
		for i, d := range list {
			line := departureLine(d, domain.DeriveStatus(d, now))
			if i == m.cursor {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ mover · enter elegir · r actualizar · esc menú"))

	case sale.StepSelectSeat:
		d, _ := m.wizard.Departure()
		b.WriteString(headerStyle.Render("2/4 · Selecciona el asiento"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s · %s", d.Route.Display(), utils.FormatSchedule(d.When), d.Vehicle.Plate)))
		b.WriteString("\n\n")
		b.WriteString(m.seatMap())
		b.WriteString("\n" + helpStyle.Render("flechas mover · enter confirmar asiento · esc volver"))

	case sale.StepEnterPassenger:
		d, _ := m.wizard.Departure()
		b.WriteString(headerStyle.Render(fmt.Sprintf("3/4 · Pasajero · asiento %d", m.wizard.SelectedSeat())))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Tarifa: %s", utils.FormatSoles(d.Route.Fare))))
		b.WriteString("\n\n")
		b.WriteString(m.passForm.View())

	case sale.StepConfirmation:
		receipt, _ := m.wizard.Receipt()
		b.WriteString(headerStyle.Render("4/4 · Venta confirmada"))
		b.WriteString("\n\n")
		lines := []string{
			fmt.Sprintf("Pasaje N°  : %d", receipt.TicketID),
			fmt.Sprintf("Pasajero   : %s (DNI %s)", receipt.Name, receipt.DNI),
			fmt.Sprintf("Ruta       : %s", receipt.Departure.Route.Display()),
			fmt.Sprintf("Salida     : %s", utils.FormatSchedule(receipt.Departure.When)),
			fmt.Sprintf("Asiento    : %d", receipt.Seat),
			fmt.Sprintf("Precio     : %s", utils.FormatSoles(receipt.Fare)),
			fmt.Sprintf("Recibido   : %s", utils.FormatSoles(receipt.Received)),
			fmt.Sprintf("Vuelto     : %s", okStyle.Render(utils.FormatSoles(receipt.Change))),
		}
		b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n" + helpStyle.Render("n nueva venta · b guardar boleta PDF · esc menú"))
	}

	if m.notice != "" {
		b.WriteString("\n" + okStyle.Render(m.notice))
	}
	if m.errLine != "" {
		b.WriteString("\n" + errorStyle.Render(m.errLine))
	}
	return b.String()
}

// seatMap draws the vehicle seats in rows of four with the cursor and
// occupancy states.
func (m saleModel) seatMap() string {
	capacity := m.wizard.Capacity()
	var rows []string
	var row []string
	for n := 1; n <= capacity; n++ {
		label := fmt.Sprintf("%2d", n)
		var cell string
		switch {
		case n == m.seat:
			cell = seatPickedStyle.Render(label)
		case m.wizard.SeatOccupied(n):
			cell = seatTakenStyle.Render("██")
		default:
			cell = seatFreeStyle.Render(label)
		}
		row = append(row, cell)
		if len(row) == seatsPerRow {
			rows = append(rows, joinRow(row))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, joinRow(row))
	}
	return strings.Join(rows, "\n")
}
