package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/internal/profile"
	"github.com/aparatus/aparatus/plugin/ai"
	"github.com/aparatus/aparatus/server/auth"
	apiv1 "github.com/aparatus/aparatus/server/router/api/v1"
	"github.com/aparatus/aparatus/store"
)

// Server is the aparatus HTTP server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewServer builds the server: LLM provider, routes and demo account.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.Debug = true
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomiddleware.Recover())

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
	}

	var llm ai.LLMService
	if profile.IsAIEnabled() {
		provider, err := ai.NewProvider(&ai.Config{
			BaseURL:   profile.AIBaseURL,
			APIKey:    profile.AIAPIKey,
			ChatModel: profile.AIModel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create model provider")
		}
		llm = provider
	} else {
		slog.Warn("AI is not configured, the chat endpoint will be unavailable; set APARATUS_AI_API_KEY")
	}

	apiV1Service := apiv1.NewAPIV1Service(profile, store, llm, slog.Default())
	apiV1Service.Register(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "Service ready.")
	})

	if profile.Mode == "demo" {
		if err := s.ensureDemoUser(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to create demo user")
		}
	}

	return s, nil
}

// Start begins serving; it returns once the listener stops.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	return s.echoServer.Start(address)
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}

// ensureDemoUser creates the demo sign-in account once.
func (s *Server) ensureDemoUser(ctx context.Context) error {
	email := "demo@aparatus.ai"
	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := auth.HashPassword("demo123")
	if err != nil {
		return err
	}
	_, err = s.Store.CreateUser(ctx, &store.User{
		UID:          shortuuid.New(),
		Email:        email,
		Nickname:     "Demo",
		PasswordHash: passwordHash,
	})
	if err != nil {
		return err
	}
	slog.Info("demo user created", "email", email)
	return nil
}
