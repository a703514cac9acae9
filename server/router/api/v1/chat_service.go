package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aparatus/aparatus/plugin/ai"
	"github.com/aparatus/aparatus/plugin/ai/agent"
	"github.com/aparatus/aparatus/plugin/ai/agent/tools"
	aperrors "github.com/aparatus/aparatus/server/internal/errors"
	"github.com/aparatus/aparatus/internal/observability"
	"github.com/aparatus/aparatus/store"
)

const (
	chatStepBudget      = 10
	chatToolTimeout     = 15 * time.Second
	historyContextLimit = 5
)

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat runs one turn of the booking assistant and streams the result as
// server-sent events: token, tool_call, tool_result, done and error.
func (s *APIV1Service) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	// An invalid or expired token degrades to an anonymous session rather
	// than failing the chat. Booking creation stays guarded inside the tool.
	user, err := s.Authenticator.Authenticate(ctx, c.Request().Header.Get("Authorization"))
	if err != nil {
		user = nil
	}

	if !s.rateLimiter.Allow(rateLimitKey(user, c.RealIP())) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, slow down")
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	history := toConversation(req.Messages)
	if len(history) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "messages are required")
	}

	if s.LLMService == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "assistant is not configured")
	}

	var userID int32
	if user != nil {
		userID = user.ID
	}
	reqCtx := observability.NewRequestContext(s.logger, userID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	session := s.resolveSession(c, user, reqCtx)

	loop := agent.NewAgent(s.LLMService, agent.Config{
		Name:         "booking-assistant",
		SystemPrompt: agent.BuildSystemPrompt(session, time.Now()),
		StepBudget:   chatStepBudget,
		ToolTimeout:  chatToolTimeout,
	}, tools.NewAll(tools.Deps{
		Session:      session,
		Booking:      s.BookingService,
		Availability: s.AvailabilityService,
	}))

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	callback := func(eventType string, data string) error {
		switch eventType {
		case agent.EventToken:
			return writeSSE(resp, "token", jsonPayload("text", data))
		case agent.EventToolUse:
			return writeSSE(resp, "tool_call", data)
		case agent.EventToolResult:
			return writeSSE(resp, "tool_result", data)
		case agent.EventAnswer:
			return writeSSE(resp, "done", jsonPayload("text", data))
		}
		return nil
	}

	if _, err := loop.RunWithCallback(ctx, history, callback); err != nil {
		reqCtx.Error("assistant run failed", err,
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		_ = writeSSE(resp, "error", jsonPayload("message", userFacingError(err)))
		return nil
	}

	reqCtx.Info("assistant run completed",
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return nil
}

// resolveSession builds the request-scoped session context: identity plus up
// to five recent bookings for personalization. History lookup failures
// degrade to an empty history, they never fail the chat.
func (s *APIV1Service) resolveSession(c echo.Context, user *store.User, reqCtx *observability.RequestContext) *agent.SessionContext {
	session := &agent.SessionContext{}
	if user == nil {
		return session
	}

	session.UserID = user.ID
	session.DisplayName = user.Nickname
	session.Email = user.Email

	details, err := s.BookingService.ListRecentBookings(c.Request().Context(), user.ID, historyContextLimit)
	if err != nil {
		reqCtx.Warn("failed to load booking history, continuing without it",
			slog.String("error", err.Error()))
		return session
	}
	for _, detail := range details {
		if detail.Service == nil || detail.Barbershop == nil {
			continue
		}
		session.RecentBookings = append(session.RecentBookings, fmt.Sprintf("%s na %s em %s",
			detail.Service.Name,
			detail.Barbershop.Name,
			time.Unix(detail.Booking.DateTs, 0).Format("02/01/2006")))
		if len(session.RecentBookings) >= historyContextLimit {
			break
		}
	}
	return session
}

// toConversation keeps only the user/assistant turns from the request body.
func toConversation(messages []chatMessage) []ai.Message {
	history := []ai.Message{}
	for _, msg := range messages {
		if msg.Role != ai.RoleUser && msg.Role != ai.RoleAssistant {
			continue
		}
		if msg.Content == "" {
			continue
		}
		history = append(history, ai.Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}

// userFacingError maps loop failures to a localized apology, distinguishing
// "temporarily unavailable" from "try again". Raw transport errors never
// reach the client.
func userFacingError(err error) string {
	if errors.Is(err, ai.ErrUnavailable) {
		return "Desculpe, o assistente está temporariamente indisponível. 😔 Tente novamente em alguns minutos."
	}
	switch aperrors.GetCodeFromError(err, aperrors.ErrCodeAssistantFailed) {
	case aperrors.ErrCodeLLMUnavailable, aperrors.ErrCodeServiceUnavailable:
		return "Desculpe, o assistente está temporariamente indisponível. 😔 Tente novamente em alguns minutos."
	default:
		return "Desculpe, algo deu errado por aqui. 😔 Pode tentar novamente?"
	}
}

func rateLimitKey(user *store.User, remoteIP string) string {
	if user != nil {
		return user.UID
	}
	return remoteIP
}

func writeSSE(resp *echo.Response, event, data string) error {
	if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	resp.Flush()
	return nil
}

func jsonPayload(key, value string) string {
	buf, _ := json.Marshal(map[string]string{key: value})
	return string(buf)
}
