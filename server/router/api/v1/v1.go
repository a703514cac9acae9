package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aparatus/aparatus/internal/profile"
	"github.com/aparatus/aparatus/plugin/ai"
	"github.com/aparatus/aparatus/server/auth"
	apmiddleware "github.com/aparatus/aparatus/server/middleware"
	"github.com/aparatus/aparatus/server/service/availability"
	"github.com/aparatus/aparatus/server/service/booking"
	"github.com/aparatus/aparatus/store"
)

// APIV1Service wires the REST and chat endpoints.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	Authenticator       *auth.Authenticator
	BookingService      *booking.Service
	AvailabilityService *availability.Service
	LLMService          ai.LLMService

	rateLimiter *apmiddleware.RateLimiter
	logger      *slog.Logger
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, llm ai.LLMService, logger *slog.Logger) *APIV1Service {
	return &APIV1Service{
		Profile:             profile,
		Store:               store,
		Authenticator:       auth.NewAuthenticator(store, profile.Secret),
		BookingService:      booking.NewService(store),
		AvailabilityService: availability.NewService(store),
		LLMService:          llm,
		// One chat request per 2s per key, small burst for retries.
		rateLimiter: apmiddleware.NewRateLimiter(2*time.Second, 5),
		logger:      logger,
	}
}

// Register attaches all routes to the echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.Use(middleware.CORS())

	group.POST("/auth/signin", s.SignIn)
	group.GET("/barbershops", s.ListBarbershops)
	group.GET("/barbershops/:uid", s.GetBarbershop)
	group.GET("/barbershops/:uid/slots", s.GetAvailableSlots)
	group.GET("/bookings", s.ListBookings)
	group.POST("/bookings/:uid/cancel", s.CancelBooking)
	group.POST("/chat", s.Chat)
}
