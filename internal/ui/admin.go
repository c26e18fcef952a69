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
	"transrural/internal/utils"
)

type adminScreen int

const (
	adminMenu adminScreen = iota
	adminDepartures
	adminDepartureForm
	adminParcelForm
	adminRoutes
	adminRouteForm
	adminVehicles
	adminVehicleForm
	adminDrivers
	adminDriverForm
)

var adminMenuItems = []string{
	"Vender pasaje",
	"Salidas de hoy",
	"Todas las salidas",
	"Programar salida",
	"Registrar encomienda",
	"Rutas",
	"Vehículos",
	"Conductores",
}

type adminModel struct {
	client  *api.Client
	docsDir string

	screen     adminScreen
	menuCursor int

	todayOnly  bool
	departures []domain.Departure
	depCursor  int
	// parcelTarget is set while the parcel form is open.
	parcelTarget domain.ID

	routes       []domain.Route
	routeCursor  int
	editRouteID  domain.ID
	vehicles     []domain.Vehicle
	vehCursor    int
	editVehID    domain.ID
	drivers      []domain.User
	drvCursor    int
	editDriverID domain.ID

	activeForm form
	busy       bool
	errLine    string
	notice     string
	// pendingNotice becomes notice only once the mutation's reload lands.
	pendingNotice string
}

func newAdminModel(client *api.Client, docsDir string) adminModel {
	return adminModel{client: client, docsDir: docsDir}
}

func (m adminModel) Init() tea.Cmd { return nil }

type adminDeparturesMsg struct{ list []domain.Departure }
type adminRoutesMsg struct{ list []domain.Route }
type adminVehiclesMsg struct{ list []domain.Vehicle }
type adminDriversMsg struct{ list []domain.User }

func (m adminModel) loadDepartures(todayOnly bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var list []domain.Departure
		var err error
		if todayOnly {
			list, err = client.TodayDepartures(context.Background())
		} else {
			list, err = client.Departures(context.Background())
		}
		if err != nil {
			return errMsg{err: err}
		}
		return adminDeparturesMsg{list: list}
	}
}

func (m adminModel) loadRoutes() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		list, err := client.Routes(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return adminRoutesMsg{list: list}
	}
}

func (m adminModel) loadVehicles() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		list, err := client.Vehicles(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return adminVehiclesMsg{list: list}
	}
}

func (m adminModel) loadDrivers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		list, err := client.Drivers(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return adminDriversMsg{list: list}
	}
}

// finishLoad settles a completed list fetch; a notice queued by a
// mutation is shown only now, so it never renders next to a failure.
func (m *adminModel) finishLoad() {
	m.busy = false
	m.errLine = ""
	if m.pendingNotice != "" {
		m.notice = m.pendingNotice
		m.pendingNotice = ""
	}
}

// run executes a mutation and reloads the given list afterwards.
func (m adminModel) run(op func(context.Context) error, reload tea.Cmd) (adminModel, tea.Cmd) {
	m.busy = true
	return m, func() tea.Msg {
		if err := op(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return reload()
	}
}

func (m adminModel) exportManifest(id domain.ID) tea.Cmd {
	client := m.client
	dir := m.docsDir
	return func() tea.Msg {
		data, err := client.Manifest(context.Background(), id)
		if err != nil {
			return errMsg{err: err}
		}
		raw, name, err := manifest.RenderPDF(manifest.Build(data))
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

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminDeparturesMsg:
		m.finishLoad()
		m.departures = msg.list
		if m.depCursor >= len(m.departures) {
			m.depCursor = 0
		}
		if m.screen == adminDepartureForm || m.screen == adminParcelForm {
			m.screen = adminDepartures
		}
		return m, nil
	case adminRoutesMsg:
		m.finishLoad()
		m.routes = msg.list
		if m.routeCursor >= len(m.routes) {
			m.routeCursor = 0
		}
		m.screen = adminRoutes
		return m, nil
	case adminVehiclesMsg:
		m.finishLoad()
		m.vehicles = msg.list
		if m.vehCursor >= len(m.vehicles) {
			m.vehCursor = 0
		}
		m.screen = adminVehicles
		return m, nil
	case adminDriversMsg:
		m.finishLoad()
		m.drivers = msg.list
		if m.drvCursor >= len(m.drivers) {
			m.drvCursor = 0
		}
		m.screen = adminDrivers
		return m, nil
	case pdfSavedMsg:
		m.notice = "Documento guardado en " + msg.path
		return m, nil
	case errMsg:
		m.busy = false
		m.errLine = msg.err.Error()
		m.pendingNotice = ""
		return m, nil
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch m.screen {
	case adminMenu:
		return m.handleMenuKey(msg)
	case adminDepartures:
		return m.handleDeparturesKey(msg)
	case adminRoutes:
		return m.handleRoutesKey(msg)
	case adminVehicles:
		return m.handleVehiclesKey(msg)
	case adminDrivers:
		return m.handleDriversKey(msg)
	case adminDepartureForm, adminParcelForm, adminRouteForm, adminVehicleForm, adminDriverForm:
		return m.handleFormKey(msg)
	}
	return m, nil
}

func (m adminModel) handleMenuKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(adminMenuItems)-1 {
			m.menuCursor++
		}
	case "enter":
		m.errLine = ""
		m.notice = ""
		switch m.menuCursor {
		case 0:
			return m, func() tea.Msg { return openSaleMsg{} }
		case 1:
			m.todayOnly = true
			m.screen = adminDepartures
			m.busy = true
			return m, m.loadDepartures(true)
		case 2:
			m.todayOnly = false
			m.screen = adminDepartures
			m.busy = true
			return m, m.loadDepartures(false)
		case 3:
			m.screen = adminDepartureForm
			m.activeForm = newForm("Programar salida",
				"ID de ruta", "ID de vehículo", "ID de conductor", "Fecha y hora (dd/mm/aaaa hh:mm)")
			return m, nil
		case 4:
			m.todayOnly = true
			m.screen = adminDepartures
			m.busy = true
			m.notice = "Elige la salida y presiona p para registrar la encomienda"
			return m, m.loadDepartures(true)
		case 5:
			m.busy = true
			return m, m.loadRoutes()
		case 6:
			m.busy = true
			return m, m.loadVehicles()
		case 7:
			m.busy = true
			return m, m.loadDrivers()
		}
	}
	return m, nil
}

func (m adminModel) handleDeparturesKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = adminMenu
		m.notice = ""
		m.errLine = ""
	case "up", "k":
		if m.depCursor > 0 {
			m.depCursor--
		}
	case "down", "j":
		if m.depCursor < len(m.departures)-1 {
			m.depCursor++
		}
	case "r":
		m.busy = true
		return m, m.loadDepartures(m.todayOnly)
	case "c":
		if len(m.departures) == 0 {
			return m, nil
		}
		id := m.departures[m.depCursor].ID
		return m.run(func(ctx context.Context) error {
			return m.client.CancelDeparture(ctx, id)
		}, m.loadDepartures(m.todayOnly))
	case "m":
		if len(m.departures) == 0 {
			return m, nil
		}
		return m, m.exportManifest(m.departures[m.depCursor].ID)
	case "p":
		if len(m.departures) == 0 {
			return m, nil
		}
		m.parcelTarget = m.departures[m.depCursor].ID
		m.screen = adminParcelForm
		m.activeForm = newForm("Registrar encomienda",
			"Descripción", "Remitente", "Teléfono remitente", "Destinatario", "Teléfono destinatario", "Peso (kg)")
		m.notice = ""
	}
	return m, nil
}

func (m adminModel) handleRoutesKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = adminMenu
		m.errLine = ""
	case "up", "k":
		if m.routeCursor > 0 {
			m.routeCursor--
		}
	case "down", "j":
		if m.routeCursor < len(m.routes)-1 {
			m.routeCursor++
		}
	case "n":
		m.editRouteID = 0
		m.screen = adminRouteForm
		m.activeForm = newForm("Nueva ruta",
			"Nombre", "Origen", "Destino", "Distancia (km)", "Duración (min)", "Tarifa (S/)", "Tarifa encomienda por kg (S/)")
	case "e":
		if len(m.routes) == 0 {
			return m, nil
		}
		r := m.routes[m.routeCursor]
		m.editRouteID = r.ID
		m.screen = adminRouteForm
		m.activeForm = newForm("Editar ruta",
			"Nombre", "Origen", "Destino", "Distancia (km)", "Duración (min)", "Tarifa (S/)", "Tarifa encomienda por kg (S/)").
			withValues(r.Name, r.Origin, r.Destination,
				strconv.FormatFloat(r.DistanceKM, 'f', -1, 64),
				strconv.Itoa(r.DurationMin),
				strconv.FormatFloat(r.Fare, 'f', -1, 64),
				strconv.FormatFloat(r.ParcelRateKG, 'f', -1, 64))
	case "t":
		if len(m.routes) == 0 {
			return m, nil
		}
		id := m.routes[m.routeCursor].ID
		return m.run(func(ctx context.Context) error {
			return m.client.ToggleRoute(ctx, id)
		}, m.loadRoutes())
	case "x":
		if len(m.routes) == 0 {
			return m, nil
		}
		id := m.routes[m.routeCursor].ID
		return m.run(func(ctx context.Context) error {
			return m.client.DeleteRoute(ctx, id)
		}, m.loadRoutes())
	}
	return m, nil
}

func (m adminModel) handleVehiclesKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = adminMenu
		m.errLine = ""
	case "up", "k":
		if m.vehCursor > 0 {
			m.vehCursor--
		}
	case "down", "j":
		if m.vehCursor < len(m.vehicles)-1 {
			m.vehCursor++
		}
	case "n":
		m.editVehID = 0
		m.screen = adminVehicleForm
		m.activeForm = newForm("Nuevo vehículo",
			"Placa", "Marca", "Modelo", "Año", "Capacidad", "ID de conductor (opcional)")
	case "e":
		if len(m.vehicles) == 0 {
			return m, nil
		}
		v := m.vehicles[m.vehCursor]
		m.editVehID = v.ID
		m.screen = adminVehicleForm
		m.activeForm = newForm("Editar vehículo",
			"Placa", "Marca", "Modelo", "Año", "Capacidad", "ID de conductor (opcional)").
			withValues(v.Plate, v.Make, v.Model, strconv.Itoa(v.Year),
				strconv.Itoa(v.Capacity), formatOptionalID(v.DriverID))
	case "x":
		if len(m.vehicles) == 0 {
			return m, nil
		}
		id := m.vehicles[m.vehCursor].ID
		return m.run(func(ctx context.Context) error {
			return m.client.DeleteVehicle(ctx, id)
		}, m.loadVehicles())
	}
	return m, nil
}

func (m adminModel) handleDriversKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = adminMenu
		m.errLine = ""
	case "up", "k":
		if m.drvCursor > 0 {
			m.drvCursor--
		}
	case "down", "j":
		if m.drvCursor < len(m.drivers)-1 {
			m.drvCursor++
		}
	case "n":
		m.editDriverID = 0
		m.screen = adminDriverForm
		m.activeForm = newForm("Registrar conductor",
			"Usuario", "Contraseña", "Nombre completo", "Teléfono")
	case "e":
		if len(m.drivers) == 0 {
			return m, nil
		}
		d := m.drivers[m.drvCursor]
		m.editDriverID = d.ID
		m.screen = adminDriverForm
		m.activeForm = newForm("Editar conductor", "Nombre completo", "Teléfono").
			withValues(d.Name, "")
	case "t":
		if len(m.drivers) == 0 {
			return m, nil
		}
		id := m.drivers[m.drvCursor].ID
		return m.run(func(ctx context.Context) error {
			return m.client.ToggleDriver(ctx, id)
		}, m.loadDrivers())
	}
	return m, nil
}

func (m adminModel) handleFormKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	var cmd tea.Cmd
	m.activeForm, cmd = m.activeForm.Update(msg)
	if m.activeForm.cancelled {
		switch m.screen {
		case adminDepartureForm:
			m.screen = adminMenu
		case adminParcelForm:
			m.screen = adminDepartures
		case adminRouteForm:
			m.screen = adminRoutes
		case adminVehicleForm:
			m.screen = adminVehicles
		case adminDriverForm:
			m.screen = adminDrivers
		}
		return m, nil
	}
	if m.activeForm.done {
		m.activeForm.done = false
		return m.submitForm()
	}
	return m, cmd
}

func (m adminModel) submitForm() (adminModel, tea.Cmd) {
	v := m.activeForm.Values()
	switch m.screen {
	case adminDepartureForm:
		routeID, err1 := parseID(v[0])
		vehicleID, err2 := parseID(v[1])
		driverID, err3 := parseID(v[2])
		when, err4 := utils.ParseSchedule(v[3])
		if err1 != nil || err2 != nil || err3 != nil {
			m.errLine = "los IDs deben ser números"
			return m, nil
		}
		if err4 != nil {
			m.errLine = "fecha inválida, usa dd/mm/aaaa hh:mm"
			return m, nil
		}
		in := api.DepartureInput{RouteID: routeID, VehicleID: vehicleID, DriverID: driverID, When: when}
		m.todayOnly = false
		m.pendingNotice = "Salida programada"
		return m.run(func(ctx context.Context) error {
			_, err := m.client.CreateDeparture(ctx, in)
			return err
		}, m.loadDepartures(false))

	case adminParcelForm:
		weight, err := utils.ParseAmount(v[5])
		if err != nil || weight <= 0 {
			m.errLine = "peso inválido"
			return m, nil
		}
		in := api.ParcelInput{
			Description:    v[0],
			SenderName:     v[1],
			SenderPhone:    v[2],
			RecipientName:  v[3],
			RecipientPhone: v[4],
			WeightKG:       weight,
		}
		target := m.parcelTarget
		m.pendingNotice = "Encomienda registrada"
		return m.run(func(ctx context.Context) error {
			_, err := m.client.CreateParcel(ctx, target, in)
			return err
		}, m.loadDepartures(m.todayOnly))

	case adminRouteForm:
		distance, err1 := utils.ParseAmount(v[3])
		duration, err2 := strconv.Atoi(v[4])
		fare, err3 := utils.ParseAmount(v[5])
		rate, err4 := utils.ParseAmount(v[6])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			m.errLine = "valores numéricos inválidos"
			return m, nil
		}
		in := api.RouteInput{
			Name: v[0], Origin: v[1], Destination: v[2],
			DistanceKM: distance, DurationMin: duration, Fare: fare, ParcelRateKG: rate,
		}
		id := m.editRouteID
		return m.run(func(ctx context.Context) error {
			if id != 0 {
				_, err := m.client.UpdateRoute(ctx, id, in)
				return err
			}
			_, err := m.client.CreateRoute(ctx, in)
			return err
		}, m.loadRoutes())

	case adminVehicleForm:
		year, err1 := strconv.Atoi(v[3])
		capacity, err2 := strconv.Atoi(v[4])
		if err1 != nil || err2 != nil || capacity <= 0 {
			m.errLine = "año y capacidad deben ser números (capacidad > 0)"
			return m, nil
		}
		var driverID domain.ID
		if v[5] != "" {
			id, err := parseID(v[5])
			if err != nil {
				m.errLine = "ID de conductor inválido"
				return m, nil
			}
			driverID = id
		}
		in := api.VehicleInput{
			Plate: v[0], Make: v[1], Model: v[2],
			Year: year, Capacity: capacity, DriverID: driverID,
		}
		id := m.editVehID
		return m.run(func(ctx context.Context) error {
			if id != 0 {
				_, err := m.client.UpdateVehicle(ctx, id, in)
				return err
			}
			_, err := m.client.CreateVehicle(ctx, in)
			return err
		}, m.loadVehicles())

	case adminDriverForm:
		id := m.editDriverID
		if id != 0 {
			upd := api.DriverInput{Name: v[0], Phone: v[1]}
			return m.run(func(ctx context.Context) error {
				_, err := m.client.UpdateDriver(ctx, id, upd)
				return err
			}, m.loadDrivers())
		}
		in := api.DriverInput{Username: v[0], Password: v[1], Name: v[2], Phone: v[3]}
		return m.run(func(ctx context.Context) error {
			_, err := m.client.RegisterDriver(ctx, in)
			return err
		}, m.loadDrivers())
	}
	return m, nil
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TransRural · Administración"))
	b.WriteString("\n\n")

	switch m.screen {
	case adminMenu:
		for i, item := range adminMenuItems {
			if i == m.menuCursor {
				b.WriteString(selectedStyle.Render("▸ "+item) + "\n")
			} else {
				b.WriteString("  " + item + "\n")
			}
		}
		b.WriteString(helpStyle.Render("↑/↓ mover · enter abrir · ctrl+l cerrar sesión · ctrl+c salir"))

	case adminDepartures:
		title := "Todas las salidas"
		if m.todayOnly {
			title = "Salidas de hoy"
		}
		b.WriteString(headerStyle.Render(title) + "\n\n")
		if len(m.departures) == 0 {
			b.WriteString(dimStyle.Render("sin salidas") + "\n")
		}
		now := time.Now()
		for i, d := range m.departures {
			line := fmt.Sprintf("#%-3d %s", d.ID, departureLine(d, domain.DeriveStatus(d, now)))
			if i == m.depCursor {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ mover · c cancelar salida · m manifiesto PDF · p encomienda · r actualizar · esc menú"))

	case adminRoutes:
		b.WriteString(headerStyle.Render("Rutas") + "\n\n")
		if len(m.routes) == 0 {
			b.WriteString(dimStyle.Render("sin rutas") + "\n")
		}
		for i, r := range m.routes {
			state := okStyle.Render("activa")
			if !r.Active {
				state = dimStyle.Render("inactiva")
			}
			line := fmt.Sprintf("#%-3d %-16s %-28s %s  %s/kg  %s",
				r.ID, r.Name, r.Display(), utils.FormatSoles(r.Fare), utils.FormatSoles(r.ParcelRateKG), state)
			if i == m.routeCursor {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("n nueva · e editar · t activar/desactivar · x eliminar · esc menú"))

	case adminVehicles:
		b.WriteString(headerStyle.Render("Vehículos") + "\n\n")
		if len(m.vehicles) == 0 {
			b.WriteString(dimStyle.Render("sin vehículos") + "\n")
		}
		for i, v := range m.vehicles {
			line := fmt.Sprintf("#%-3d %-8s %s %s %d · %d asientos · %s · %s",
				v.ID, v.Plate, v.Make, v.Model, v.Year, v.Capacity, v.Status, v.Driver)
			if i == m.vehCursor {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("n nuevo · e editar · x eliminar · esc menú"))

	case adminDrivers:
		b.WriteString(headerStyle.Render("Conductores") + "\n\n")
		if len(m.drivers) == 0 {
			b.WriteString(dimStyle.Render("sin conductores") + "\n")
		}
		for i, d := range m.drivers {
			line := fmt.Sprintf("#%-3d %-14s %s", d.ID, d.Username, d.Name)
			if i == m.drvCursor {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("n registrar · e editar · t activar/desactivar · esc menú"))

	case adminDepartureForm, adminParcelForm, adminRouteForm, adminVehicleForm, adminDriverForm:
		b.WriteString(m.activeForm.View())
	}

	if m.busy {
		b.WriteString("\n" + dimStyle.Render("cargando..."))
	}
	if m.notice != "" {
		b.WriteString("\n" + okStyle.Render(m.notice))
	}
	if m.errLine != "" {
		b.WriteString("\n" + errorStyle.Render(m.errLine))
	}
	return b.String()
}

func parseID(s string) (domain.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return domain.ID(n), nil
}

func formatOptionalID(id domain.ID) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(int64(id), 10)
}
