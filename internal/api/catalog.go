package api

import (
	"context"
	"fmt"

	"transrural/internal/domain"
)

// RouteInput carries the editable fields of a route.
type RouteInput struct {
	Name         string  `json:"nombre"`
	Origin       string  `json:"origen"`
	Destination  string  `json:"destino"`
	DistanceKM   float64 `json:"distancia_km"`
	DurationMin  int     `json:"tiempo_estimado_min"`
	Fare         float64 `json:"precio_pasaje"`
	ParcelRateKG float64 `json:"precio_encomienda_kg"`
}

// VehicleInput carries the editable fields of a vehicle.
type VehicleInput struct {
	Plate    string    `json:"placa"`
	Make     string    `json:"marca"`
	Model    string    `json:"modelo"`
	Year     int       `json:"anio"`
	Capacity int       `json:"capacidad"`
	DriverID domain.ID `json:"conductor_id,omitempty"`
	Status   string    `json:"estado,omitempty"`
}

// DriverInput registers or updates a driver account.
type DriverInput struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Name     string `json:"nombre"`
	Phone    string `json:"telefono,omitempty"`
}

func (c *Client) Routes(ctx context.Context) ([]domain.Route, error) {
	var out []domain.Route
	err := c.get(ctx, "/api/rutas/", &out)
	return out, err
}

func (c *Client) CreateRoute(ctx context.Context, in RouteInput) (domain.Route, error) {
	var out domain.Route
	err := c.post(ctx, "/api/rutas/crear/", in, &out)
	return out, err
}

func (c *Client) UpdateRoute(ctx context.Context, id domain.ID, in RouteInput) (domain.Route, error) {
	var out domain.Route
	err := c.put(ctx, fmt.Sprintf("/api/rutas/%d/actualizar/", id), in, &out)
	return out, err
}

// ToggleRoute flips the active flag.
func (c *Client) ToggleRoute(ctx context.Context, id domain.ID) error {
	return c.put(ctx, fmt.Sprintf("/api/rutas/%d/toggle-estado/", id), nil, nil)
}

func (c *Client) DeleteRoute(ctx context.Context, id domain.ID) error {
	return c.delete(ctx, fmt.Sprintf("/api/rutas/%d/eliminar/", id))
}

func (c *Client) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := c.get(ctx, "/api/vehiculos/", &out)
	return out, err
}

func (c *Client) CreateVehicle(ctx context.Context, in VehicleInput) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.post(ctx, "/api/vehiculos/crear/", in, &out)
	return out, err
}

func (c *Client) UpdateVehicle(ctx context.Context, id domain.ID, in VehicleInput) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.put(ctx, fmt.Sprintf("/api/vehiculos/%d/actualizar/", id), in, &out)
	return out, err
}

func (c *Client) DeleteVehicle(ctx context.Context, id domain.ID) error {
	return c.delete(ctx, fmt.Sprintf("/api/vehiculos/%d/eliminar/", id))
}

func (c *Client) Drivers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.get(ctx, "/api/conductores/lista/", &out)
	return out, err
}

func (c *Client) RegisterDriver(ctx context.Context, in DriverInput) (domain.User, error) {
	var out domain.User
	err := c.post(ctx, "/api/conductores/registrar/", in, &out)
	return out, err
}

func (c *Client) UpdateDriver(ctx context.Context, id domain.ID, in DriverInput) (domain.User, error) {
	var out domain.User
	err := c.put(ctx, fmt.Sprintf("/api/conductores/%d/actualizar/", id), in, &out)
	return out, err
}

// ToggleDriver flips the active flag on a driver account.
func (c *Client) ToggleDriver(ctx context.Context, id domain.ID) error {
	return c.put(ctx, fmt.Sprintf("/api/conductores/%d/toggle-estado/", id), nil, nil)
}
