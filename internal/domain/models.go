package domain

import "time"

// ID is used across domain entities.
type ID int64

// Role values returned by the login endpoint.
const (
	RoleAdmin  = "admin"
	RoleDriver = "conductor"
)

// User is the authenticated operator or driver.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Name     string `json:"nombre"`
	Role     string `json:"tipo"`
	Email    string `json:"email,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Route is a named origin-destination path with fixed pricing.
type Route struct {
	ID             ID      `json:"id"`
	Name           string  `json:"nombre"`
	Origin         string  `json:"origen"`
	Destination    string  `json:"destino"`
	DistanceKM     float64 `json:"distancia_km"`
	DurationMin    int     `json:"tiempo_estimado_min"`
	Fare           float64 `json:"precio_pasaje"`
	ParcelRateKG   float64 `json:"precio_encomienda_kg"`
	Active         bool    `json:"activa"`
}

// Display renders the route the way every screen shows it.
func (r Route) Display() string {
	return r.Origin + " → " + r.Destination
}

// Vehicle operational status values.
const (
	VehicleActive      = "activo"
	VehicleMaintenance = "mantenimiento"
	VehicleInactive    = "inactivo"
)

type Vehicle struct {
	ID       ID     `json:"id"`
	Plate    string `json:"placa"`
	Make     string `json:"marca"`
	Model    string `json:"modelo"`
	Year     int    `json:"anio"`
	Capacity int    `json:"capacidad"`
	DriverID ID     `json:"conductor_id,omitempty"`
	Driver   string `json:"conductor,omitempty"`
	Status   string `json:"estado"`
}

// DriverRef is the compact driver shape embedded in a departure.
type DriverRef struct {
	ID   ID     `json:"id"`
	Name string `json:"nombre"`
}

// Departure is one scheduled trip of a route by a vehicle/driver pair.
// This is the canonical shape; the old API returned several divergent ones
// and every consumer here sticks to this single struct.
type Departure struct {
	ID        ID        `json:"id"`
	When      time.Time `json:"fecha_hora"`
	Lifecycle Lifecycle `json:"estado"`
	Route     Route     `json:"ruta"`
	Vehicle   Vehicle   `json:"vehiculo"`
	Driver    DriverRef `json:"conductor"`
	Occupied  int       `json:"ocupados"`
	Parcels   int       `json:"encomiendas"`
}

// Available reports remaining seats. Occupied never exceeds capacity on the
// server side; a negative result here means the payload is inconsistent and
// callers treat it as zero.
func (d Departure) Available() int {
	n := d.Vehicle.Capacity - d.Occupied
	if n < 0 {
		return 0
	}
	return n
}

func (d Departure) Full() bool { return d.Available() == 0 }

// Ticket boarding/origin states.
const (
	TicketPaid    = "pagado"
	TicketBoarded = "abordado"

	TicketSold              = "vendido"
	TicketDriverReservation = "reserva_conductor"
)

// Ticket is a seat assignment on a departure, paid or driver-reserved.
type Ticket struct {
	ID          ID      `json:"id"`
	DepartureID ID      `json:"salida_id"`
	Name        string  `json:"nombre"`
	DNI         string  `json:"dni"`
	Phone       string  `json:"telefono,omitempty"`
	Seat        int     `json:"asiento"`
	Price       float64 `json:"precio"`
	Status      string  `json:"estado"`
	Kind        string  `json:"tipo"`
}

func (t Ticket) Boarded() bool           { return t.Status == TicketBoarded }
func (t Ticket) DriverReservation() bool { return t.Kind == TicketDriverReservation }

// Parcel delivery states.
const (
	ParcelSent      = "enviada"
	ParcelDelivered = "entregada"
)

type Parcel struct {
	ID             ID      `json:"id"`
	DepartureID    ID      `json:"salida_id"`
	Description    string  `json:"descripcion"`
	SenderName     string  `json:"remitente_nombre"`
	SenderPhone    string  `json:"remitente_telefono"`
	RecipientName  string  `json:"destinatario_nombre"`
	RecipientPhone string  `json:"destinatario_telefono"`
	WeightKG       float64 `json:"peso_kg"`
	Price          float64 `json:"precio"`
	Status         string  `json:"estado"`
	SentAt         string  `json:"fecha_envio,omitempty"`
}

func (p Parcel) Delivered() bool { return p.Status == ParcelDelivered }
