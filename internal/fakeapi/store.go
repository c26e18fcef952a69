// Package fakeapi is an in-memory stand-in for the real TransRural backend.
// It exists so the console can be developed and tested without the remote
// API: cmd/transrural-fake serves it over HTTP, package tests mount it on
// httptest. It holds the authoritative seat state the client must never
// assume it can predict.
package fakeapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"transrural/internal/domain"
	"transrural/internal/utils"
)

type account struct {
	user   domain.User
	hash   []byte
	phone  string
	active bool
}

// Store keeps all entities behind one mutex. Request volume is a handful of
// operators; contention is not a concern.
type Store struct {
	mu sync.Mutex

	accounts   map[domain.ID]*account
	routes     map[domain.ID]*domain.Route
	vehicles   map[domain.ID]*domain.Vehicle
	departures map[domain.ID]*domain.Departure
	tickets    map[domain.ID]*domain.Ticket
	parcels    map[domain.ID]*domain.Parcel

	nextID domain.ID
}

func NewStore() *Store {
	return &Store{
		accounts:   map[domain.ID]*account{},
		routes:     map[domain.ID]*domain.Route{},
		vehicles:   map[domain.ID]*domain.Vehicle{},
		departures: map[domain.ID]*domain.Departure{},
		tickets:    map[domain.ID]*domain.Ticket{},
		parcels:    map[domain.ID]*domain.Parcel{},
		nextID:     1,
	}
}

func (s *Store) id() domain.ID {
	id := s.nextID
	s.nextID++
	return id
}

// AddAccount registers a login. Used by Seed and by tests that need a
// specific fixture.
func (s *Store) AddAccount(username, password, name, role, phone string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := domain.User{ID: s.id(), Username: username, Name: name, Role: role}
	s.accounts[u.ID] = &account{user: u, hash: hash, phone: phone, active: true}
	return u
}

func (s *Store) AddRoute(r domain.Route) domain.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	s.routes[r.ID] = &r
	return r
}

func (s *Store) AddVehicle(v domain.Vehicle) domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.id()
	s.vehicles[v.ID] = &v
	return v
}

// AddDeparture schedules a trip against existing route/vehicle/driver rows.
func (s *Store) AddDeparture(routeID, vehicleID, driverID domain.ID, when time.Time) (domain.Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addDepartureLocked(routeID, vehicleID, driverID, when)
}

func (s *Store) addDepartureLocked(routeID, vehicleID, driverID domain.ID, when time.Time) (domain.Departure, error) {
	route, ok := s.routes[routeID]
	if !ok {
		return domain.Departure{}, domain.NotFoundError{Resource: "ruta"}
	}
	vehicle, ok := s.vehicles[vehicleID]
	if !ok {
		return domain.Departure{}, domain.NotFoundError{Resource: "vehículo"}
	}
	acc, ok := s.accounts[driverID]
	if !ok || acc.user.Role != domain.RoleDriver {
		return domain.Departure{}, domain.NotFoundError{Resource: "conductor"}
	}

	d := domain.Departure{
		ID:        s.id(),
		When:      when,
		Lifecycle: domain.LifecycleScheduled,
		Route:     *route,
		Vehicle:   *vehicle,
		Driver:    domain.DriverRef{ID: acc.user.ID, Name: acc.user.Name},
	}
	s.departures[d.ID] = &d
	return d, nil
}

// Authenticate checks credentials and returns the user record.
func (s *Store) Authenticate(username, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.user.Username != username {
			continue
		}
		if !acc.active {
			break
		}
		if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
			break
		}
		return acc.user, nil
	}
	return domain.User{}, domain.AuthError{Msg: "credenciales inválidas"}
}

func (s *Store) departureView(d *domain.Departure) domain.Departure {
	out := *d
	if r, ok := s.routes[d.Route.ID]; ok {
		out.Route = *r
	}
	if v, ok := s.vehicles[d.Vehicle.ID]; ok {
		out.Vehicle = *v
	}
	out.Occupied = 0
	out.Parcels = 0
	for _, t := range s.tickets {
		if t.DepartureID == d.ID {
			out.Occupied++
		}
	}
	for _, p := range s.parcels {
		if p.DepartureID == d.ID {
			out.Parcels++
		}
	}
	return out
}

type departureFilter func(domain.Departure) bool

func (s *Store) listDepartures(keep departureFilter) []domain.Departure {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Departure{}
	for _, d := range s.departures {
		view := s.departureView(d)
		if keep == nil || keep(view) {
			out = append(out, view)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].When.Before(out[j].When) })
	return out
}

// Departures returns all departures, oldest first.
func (s *Store) Departures() []domain.Departure {
	return s.listDepartures(nil)
}

// TodayDepartures returns departures on the same local day as now.
func (s *Store) TodayDepartures(now time.Time) []domain.Departure {
	y, m, d := now.Local().Date()
	return s.listDepartures(func(dep domain.Departure) bool {
		dy, dm, dd := dep.When.Local().Date()
		return dy == y && dm == m && dd == d
	})
}

// AvailableDepartures returns departures still sellable at now.
func (s *Store) AvailableDepartures(now time.Time) []domain.Departure {
	return s.listDepartures(func(dep domain.Departure) bool {
		return domain.Sellable(dep, now)
	})
}

// Departure returns the current view of a single departure.
func (s *Store) Departure(id domain.ID) (domain.Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departures[id]
	if !ok {
		return domain.Departure{}, domain.NotFoundError{Resource: "salida"}
	}
	return s.departureView(d), nil
}

// Transition applies a lifecycle change, enforcing monotonicity.
func (s *Store) Transition(id domain.ID, to domain.Lifecycle) (domain.Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departures[id]
	if !ok {
		return domain.Departure{}, domain.NotFoundError{Resource: "salida"}
	}
	if !domain.CanTransition(d.Lifecycle, to) {
		return domain.Departure{}, domain.ConflictError{
			Resource: "salida",
			Msg:      fmt.Sprintf("transición %s → %s no permitida", d.Lifecycle, to),
		}
	}
	d.Lifecycle = to
	return s.departureView(d), nil
}

// SeatState returns capacity, occupied seats and tickets for a departure.
func (s *Store) SeatState(id domain.ID) (capacity int, occupied []int, tickets []domain.Ticket, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departures[id]
	if !ok {
		return 0, nil, nil, domain.NotFoundError{Resource: "salida"}
	}
	capacity = s.vehicles[d.Vehicle.ID].Capacity
	for _, t := range s.tickets {
		if t.DepartureID == id {
			occupied = append(occupied, t.Seat)
			tickets = append(tickets, *t)
		}
	}
	sort.Ints(occupied)
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].Seat < tickets[j].Seat })
	return capacity, occupied, tickets, nil
}

// Sell creates a paid ticket. Seat uniqueness per departure is enforced
// here and only here; clients always race against it.
func (s *Store) Sell(id domain.ID, name, dni, phone string, seat int) (domain.Ticket, int, error) {
	return s.createTicket(id, name, dni, phone, seat, domain.TicketSold)
}

// Reserve creates a zero-fare driver reservation on a free seat.
func (s *Store) Reserve(id domain.ID, name, dni, phone string, seat int) (domain.Ticket, int, error) {
	return s.createTicket(id, name, dni, phone, seat, domain.TicketDriverReservation)
}

func (s *Store) createTicket(id domain.ID, name, dni, phone string, seat int, kind string) (domain.Ticket, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departures[id]
	if !ok {
		return domain.Ticket{}, 0, domain.NotFoundError{Resource: "salida"}
	}
	if name = strings.TrimSpace(name); name == "" {
		return domain.Ticket{}, 0, domain.ValidationError{Field: "nombre", Msg: "es requerido"}
	}
	if dni = strings.TrimSpace(dni); dni == "" {
		return domain.Ticket{}, 0, domain.ValidationError{Field: "dni", Msg: "es requerido"}
	}

	capacity := s.vehicles[d.Vehicle.ID].Capacity
	if seat < 1 || seat > capacity {
		return domain.Ticket{}, 0, domain.ValidationError{
			Field: "asiento",
			Msg:   fmt.Sprintf("debe estar entre 1 y %d", capacity),
		}
	}

	occupied := 0
	for _, t := range s.tickets {
		if t.DepartureID != id {
			continue
		}
		occupied++
		if t.Seat == seat {
			return domain.Ticket{}, 0, domain.ConflictError{
				Resource: "asiento",
				Msg:      fmt.Sprintf("el asiento %d ya está ocupado", seat),
			}
		}
	}
	if occupied >= capacity {
		return domain.Ticket{}, 0, domain.ConflictError{Resource: "salida", Msg: "no hay cupos disponibles"}
	}

	price := s.routes[d.Route.ID].Fare
	if kind == domain.TicketDriverReservation {
		price = 0
	}

	t := domain.Ticket{
		ID:          s.id(),
		DepartureID: id,
		Name:        utils.NormalizeName(name),
		DNI:         dni,
		Phone:       strings.TrimSpace(phone),
		Seat:        seat,
		Price:       price,
		Status:      domain.TicketPaid,
		Kind:        kind,
	}
	s.tickets[t.ID] = &t
	return t, capacity - occupied - 1, nil
}

// CheckIn marks a ticket boarded. Re-checking an already boarded ticket is
// accepted and changes nothing.
func (s *Store) CheckIn(ticketID domain.ID) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[ticketID]
	if !ok {
		return domain.Ticket{}, domain.NotFoundError{Resource: "pasaje"}
	}
	t.Status = domain.TicketBoarded
	return *t, nil
}

// Parcels returns parcels for a departure, newest first.
func (s *Store) Parcels(id domain.ID) ([]domain.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.departures[id]; !ok {
		return nil, domain.NotFoundError{Resource: "salida"}
	}
	out := []domain.Parcel{}
	for _, p := range s.parcels {
		if p.DepartureID == id {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// CreateParcel prices the parcel from its weight and the route rate.
func (s *Store) CreateParcel(id domain.ID, in domain.Parcel) (domain.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departures[id]
	if !ok {
		return domain.Parcel{}, domain.NotFoundError{Resource: "salida"}
	}
	if in.WeightKG <= 0 {
		return domain.Parcel{}, domain.ValidationError{Field: "peso_kg", Msg: "debe ser mayor a cero"}
	}
	if strings.TrimSpace(in.RecipientName) == "" {
		return domain.Parcel{}, domain.ValidationError{Field: "destinatario_nombre", Msg: "es requerido"}
	}

	in.ID = s.id()
	in.DepartureID = id
	in.Price = utils.RoundCents(in.WeightKG * s.routes[d.Route.ID].ParcelRateKG)
	in.Status = domain.ParcelSent
	in.SentAt = utils.FormatSchedule(time.Now())
	s.parcels[in.ID] = &in
	return in, nil
}

// DeliverParcel marks a parcel delivered; repeat calls are accepted.
func (s *Store) DeliverParcel(parcelID domain.ID) (domain.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parcels[parcelID]
	if !ok {
		return domain.Parcel{}, domain.NotFoundError{Resource: "encomienda"}
	}
	p.Status = domain.ParcelDelivered
	return *p, nil
}

// Catalog accessors used by the CRUD handlers.

func (s *Store) RoutesList() []domain.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Route{}
	for _, r := range s.routes {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) UpdateRoute(id domain.ID, upd domain.Route) (domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[id]
	if !ok {
		return domain.Route{}, domain.NotFoundError{Resource: "ruta"}
	}
	upd.ID = id
	upd.Active = r.Active
	*r = upd
	return *r, nil
}

func (s *Store) ToggleRoute(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[id]
	if !ok {
		return domain.NotFoundError{Resource: "ruta"}
	}
	r.Active = !r.Active
	return nil
}

func (s *Store) DeleteRoute(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[id]; !ok {
		return domain.NotFoundError{Resource: "ruta"}
	}
	delete(s.routes, id)
	return nil
}

func (s *Store) VehiclesList() []domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Vehicle{}
	for _, v := range s.vehicles {
		view := *v
		if acc, ok := s.accounts[v.DriverID]; ok {
			view.Driver = acc.user.Name
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out
}

func (s *Store) UpdateVehicle(id domain.ID, upd domain.Vehicle) (domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return domain.Vehicle{}, domain.NotFoundError{Resource: "vehículo"}
	}
	upd.ID = id
	if upd.Status == "" {
		upd.Status = v.Status
	}
	*v = upd
	return *v, nil
}

func (s *Store) DeleteVehicle(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[id]; !ok {
		return domain.NotFoundError{Resource: "vehículo"}
	}
	delete(s.vehicles, id)
	return nil
}

func (s *Store) DriversList() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, acc := range s.accounts {
		if acc.user.Role == domain.RoleDriver && acc.active {
			out = append(out, acc.user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) UpdateDriver(id domain.ID, name, phone string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok || acc.user.Role != domain.RoleDriver {
		return domain.User{}, domain.NotFoundError{Resource: "conductor"}
	}
	if strings.TrimSpace(name) != "" {
		acc.user.Name = name
	}
	acc.phone = phone
	return acc.user, nil
}

func (s *Store) ToggleDriver(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok || acc.user.Role != domain.RoleDriver {
		return domain.NotFoundError{Resource: "conductor"}
	}
	acc.active = !acc.active
	return nil
}

// Seed loads the demo fixture served by cmd/transrural-fake.
func (s *Store) Seed(now time.Time) {
	s.AddAccount("admin", "admin123", "María Quispe", domain.RoleAdmin, "")
	d1 := s.AddAccount("jmamani", "conductor1", "Juan Mamani", domain.RoleDriver, "987654321")
	d2 := s.AddAccount("rhuaman", "conductor2", "Rosa Huamán", domain.RoleDriver, "912345678")

	r1 := s.AddRoute(domain.Route{
		Name: "Valle Sagrado", Origin: "Cusco", Destination: "Urubamba",
		DistanceKM: 57, DurationMin: 80, Fare: 15, ParcelRateKG: 2.5, Active: true,
	})
	r2 := s.AddRoute(domain.Route{
		Name: "Ruta Sur", Origin: "Cusco", Destination: "Sicuani",
		DistanceKM: 138, DurationMin: 150, Fare: 25, ParcelRateKG: 3, Active: true,
	})

	v1 := s.AddVehicle(domain.Vehicle{
		Plate: "X2U-483", Make: "Toyota", Model: "Hiace", Year: 2019,
		Capacity: 12, DriverID: d1.ID, Status: domain.VehicleActive,
	})
	v2 := s.AddVehicle(domain.Vehicle{
		Plate: "F5T-109", Make: "Mercedes-Benz", Model: "Sprinter", Year: 2021,
		Capacity: 16, DriverID: d2.ID, Status: domain.VehicleActive,
	})

	morning := time.Date(now.Year(), now.Month(), now.Day(), 6, 30, 0, 0, time.Local)
	_, _ = s.AddDeparture(r1.ID, v1.ID, d1.ID, morning)
	_, _ = s.AddDeparture(r2.ID, v2.ID, d2.ID, morning.Add(2*time.Hour))
	_, _ = s.AddDeparture(r1.ID, v1.ID, d1.ID, morning.Add(9*time.Hour))
}
