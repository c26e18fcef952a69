package fakeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transrural/internal/api"
	"transrural/internal/domain"
)

// GET /api/rutas/
func (s *Server) routes(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.RoutesList())
}

// POST /api/rutas/crear/
func (s *Server) createRoute(c *gin.Context) {
	var req api.RouteInput
	if !bindJSONOrError(c, &req) {
		return
	}
	route := s.store.AddRoute(domain.Route{
		Name:         req.Name,
		Origin:       req.Origin,
		Destination:  req.Destination,
		DistanceKM:   req.DistanceKM,
		DurationMin:  req.DurationMin,
		Fare:         req.Fare,
		ParcelRateKG: req.ParcelRateKG,
		Active:       true,
	})
	c.JSON(http.StatusCreated, route)
}

// PUT /api/rutas/:id/actualizar/
func (s *Server) updateRoute(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req api.RouteInput
	if !bindJSONOrError(c, &req) {
		return
	}
	route, err := s.store.UpdateRoute(id, domain.Route{
		Name:         req.Name,
		Origin:       req.Origin,
		Destination:  req.Destination,
		DistanceKM:   req.DistanceKM,
		DurationMin:  req.DurationMin,
		Fare:         req.Fare,
		ParcelRateKG: req.ParcelRateKG,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// PUT /api/rutas/:id/toggle-estado/
func (s *Server) toggleRoute(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.ToggleRoute(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/rutas/:id/eliminar/
func (s *Server) deleteRoute(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteRoute(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/vehiculos/
func (s *Server) vehicles(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.VehiclesList())
}

// POST /api/vehiculos/crear/
func (s *Server) createVehicle(c *gin.Context) {
	var req api.VehicleInput
	if !bindJSONOrError(c, &req) {
		return
	}
	if req.Capacity <= 0 {
		respondError(c, http.StatusBadRequest, "capacidad debe ser mayor a cero")
		return
	}
	status := req.Status
	if status == "" {
		status = domain.VehicleActive
	}
	vehicle := s.store.AddVehicle(domain.Vehicle{
		Plate:    req.Plate,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Capacity: req.Capacity,
		DriverID: req.DriverID,
		Status:   status,
	})
	c.JSON(http.StatusCreated, vehicle)
}

// PUT /api/vehiculos/:id/actualizar/
func (s *Server) updateVehicle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req api.VehicleInput
	if !bindJSONOrError(c, &req) {
		return
	}
	vehicle, err := s.store.UpdateVehicle(id, domain.Vehicle{
		Plate:    req.Plate,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Capacity: req.Capacity,
		DriverID: req.DriverID,
		Status:   req.Status,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// DELETE /api/vehiculos/:id/eliminar/
func (s *Server) deleteVehicle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteVehicle(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/conductores/lista/
func (s *Server) drivers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.DriversList())
}

// POST /api/conductores/registrar/
func (s *Server) registerDriver(c *gin.Context) {
	var req api.DriverInput
	if !bindJSONOrError(c, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.Name == "" {
		respondError(c, http.StatusBadRequest, "username, password y nombre son requeridos")
		return
	}
	user := s.store.AddAccount(req.Username, req.Password, req.Name, domain.RoleDriver, req.Phone)
	c.JSON(http.StatusCreated, user)
}

// PUT /api/conductores/:id/actualizar/
func (s *Server) updateDriver(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req api.DriverInput
	if !bindJSONOrError(c, &req) {
		return
	}
	user, err := s.store.UpdateDriver(id, req.Name, req.Phone)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/conductores/:id/toggle-estado/
func (s *Server) toggleDriver(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.ToggleDriver(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
