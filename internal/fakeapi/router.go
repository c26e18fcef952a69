package fakeapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"transrural/internal/domain"
	"transrural/pkg/logger"
)

// Server wires the store into a gin engine.
type Server struct {
	store     *Store
	log       logger.ILogger
	jwtSecret []byte
	now       func() time.Time
}

// Option tweaks a Server. Tests use WithClock for deterministic "today".
type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithJWTSecret(secret []byte) Option {
	return func(s *Server) { s.jwtSecret = secret }
}

func NewServer(store *Store, log logger.ILogger, opts ...Option) *Server {
	s := &Server{
		store:     store,
		log:       log,
		jwtSecret: []byte("transrural-fake-secret"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with the full endpoint surface.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(s.log), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"}
	r.Use(cors.New(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "ruta no encontrada: "+c.Request.URL.Path)
	})

	api := r.Group("/api")
	{
		api.POST("/login/", s.login)

		api.GET("/salidas-hoy/", s.todayDepartures)
		api.GET("/salidas/", s.departures)
		api.GET("/salidas-disponibles/", s.availableDepartures)
		api.POST("/salidas/crear/", s.createDeparture)
		api.PUT("/salidas/:id/cancelar/", s.transition(domain.LifecycleCancelled))
		api.PUT("/salidas/:id/marcar-salida/", s.transition(domain.LifecycleInProgress))
		api.PUT("/salidas/:id/marcar-llegada/", s.transition(domain.LifecycleCompleted))

		api.GET("/salida/:id/pasajes/", s.departureSeats)
		api.GET("/salida/:id/asientos-conductor/", s.driverSeats)
		api.POST("/salida/:id/vender/", s.sell)
		api.POST("/salida/:id/reservar-conductor/", s.reserve)
		api.GET("/salida/:id/encomiendas/", s.parcels)
		api.POST("/salida/:id/encomienda/", s.createParcel)
		api.GET("/salida/:id/manifiesto/", s.manifest)

		api.PUT("/pasaje/:id/check-in/", s.checkIn)
		api.PUT("/encomienda/:id/entregar/", s.deliverParcel)

		api.GET("/rutas/", s.routes)
		api.POST("/rutas/crear/", s.createRoute)
		api.PUT("/rutas/:id/actualizar/", s.updateRoute)
		api.PUT("/rutas/:id/toggle-estado/", s.toggleRoute)
		api.DELETE("/rutas/:id/eliminar/", s.deleteRoute)

		api.GET("/vehiculos/", s.vehicles)
		api.POST("/vehiculos/crear/", s.createVehicle)
		api.PUT("/vehiculos/:id/actualizar/", s.updateVehicle)
		api.DELETE("/vehiculos/:id/eliminar/", s.deleteVehicle)

		api.GET("/conductores/lista/", s.drivers)
		api.POST("/conductores/registrar/", s.registerDriver)
		api.PUT("/conductores/:id/actualizar/", s.updateDriver)
		api.PUT("/conductores/:id/toggle-estado/", s.toggleDriver)
	}

	return r
}
