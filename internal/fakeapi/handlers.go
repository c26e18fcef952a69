package fakeapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"transrural/internal/api"
	"transrural/internal/domain"
)

func paramID(c *gin.Context, name string) (domain.ID, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		respondError(c, http.StatusBadRequest, "id inválido")
		return 0, false
	}
	return domain.ID(n), true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/login/
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "username y password son requeridos")
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(user.ID),
		"role":    user.Role,
		"exp":     s.now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo crear el token")
		return
	}

	c.JSON(http.StatusOK, api.LoginResult{Success: true, User: user, Token: signed})
}

// GET /api/salidas-hoy/
func (s *Server) todayDepartures(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.TodayDepartures(s.now()))
}

// GET /api/salidas/
func (s *Server) departures(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Departures())
}

// GET /api/salidas-disponibles/
func (s *Server) availableDepartures(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.AvailableDepartures(s.now()))
}

// POST /api/salidas/crear/
func (s *Server) createDeparture(c *gin.Context) {
	var req api.DepartureInput
	if !bindJSONOrError(c, &req) {
		return
	}
	dep, err := s.store.AddDeparture(req.RouteID, req.VehicleID, req.DriverID, req.When)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dep)
}

func (s *Server) transition(to domain.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		dep, err := s.store.Transition(id, to)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, dep)
	}
}

// GET /api/salida/:id/pasajes/
func (s *Server) departureSeats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	capacity, occupied, tickets, err := s.store.SeatState(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if occupied == nil {
		occupied = []int{}
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	c.JSON(http.StatusOK, api.SeatState{
		DepartureID: id,
		Capacity:    capacity,
		Occupied:    occupied,
		Tickets:     tickets,
	})
}

// GET /api/salida/:id/asientos-conductor/
func (s *Server) driverSeats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	capacity, occupied, _, err := s.store.SeatState(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	taken := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		taken[n] = true
	}
	free := []int{}
	for n := 1; n <= capacity; n++ {
		if !taken[n] {
			free = append(free, n)
		}
	}
	c.JSON(http.StatusOK, api.SeatAvailability{
		DepartureID: id,
		Capacity:    capacity,
		Free:        free,
	})
}

// POST /api/salida/:id/vender/
func (s *Server) sell(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req api.SellRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	ticket, available, err := s.store.Sell(id, req.Name, req.DNI, req.Phone, req.Seat)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.SaleResult{
		Success:   true,
		TicketID:  ticket.ID,
		Seat:      ticket.Seat,
		Price:     ticket.Price,
		Available: available,
	})
}

// POST /api/salida/:id/reservar-conductor/
func (s *Server) reserve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req api.ReserveRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	ticket, available, err := s.store.Reserve(id, req.Name, req.DNI, req.Phone, req.Seat)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.SaleResult{
		Success:   true,
		TicketID:  ticket.ID,
		Seat:      ticket.Seat,
		Price:     ticket.Price,
		Available: available,
	})
}

// PUT /api/pasaje/:id/check-in/
func (s *Server) checkIn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ticket, err := s.store.CheckIn(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pasaje": ticket})
}

// GET /api/salida/:id/encomiendas/
func (s *Server) parcels(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := s.store.Parcels(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/salida/:id/encomienda/
func (s *Server) createParcel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req api.ParcelInput
	if !bindJSONOrError(c, &req) {
		return
	}
	parcel, err := s.store.CreateParcel(id, domain.Parcel{
		Description:    req.Description,
		SenderName:     req.SenderName,
		SenderPhone:    req.SenderPhone,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		WeightKG:       req.WeightKG,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, parcel)
}

// PUT /api/encomienda/:id/entregar/
func (s *Server) deliverParcel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	parcel, err := s.store.DeliverParcel(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "encomienda": parcel})
}

// GET /api/salida/:id/manifiesto/
func (s *Server) manifest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	dep, err := s.store.Departure(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	_, _, tickets, err := s.store.SeatState(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	parcels, err := s.store.Parcels(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ManifestData{Departure: dep, Tickets: tickets, Parcels: parcels})
}
