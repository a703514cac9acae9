package v1

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aparatus/aparatus/internal/profile"
	"github.com/aparatus/aparatus/plugin/ai"
	aperrors "github.com/aparatus/aparatus/server/internal/errors"
	"github.com/aparatus/aparatus/store"
	"github.com/aparatus/aparatus/store/teststore"
)

// scriptLLM replays fixed responses for handler tests.
type scriptLLM struct {
	responses []*ai.ChatResponse
	calls     int
}

func (s *scriptLLM) Chat(context.Context, []ai.Message) (string, error) {
	return "", nil
}

func (s *scriptLLM) ChatWithTools(ctx context.Context, messages []ai.Message, tools []ai.ToolDescriptor) (*ai.ChatResponse, error) {
	return s.ChatStreamWithTools(ctx, messages, tools, nil)
}

func (s *scriptLLM) ChatStreamWithTools(_ context.Context, _ []ai.Message, _ []ai.ToolDescriptor, onDelta func(string) error) (*ai.ChatResponse, error) {
	index := s.calls
	if index >= len(s.responses) {
		index = len(s.responses) - 1
	}
	s.calls++
	resp := s.responses[index]
	if resp.Content != "" && onDelta != nil {
		if err := onDelta(resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// failLLM fails every completion the way the provider reports transport
// failures.
type failLLM struct {
	err error
}

func (f *failLLM) Chat(context.Context, []ai.Message) (string, error) {
	return "", f.err
}

func (f *failLLM) ChatWithTools(context.Context, []ai.Message, []ai.ToolDescriptor) (*ai.ChatResponse, error) {
	return nil, f.err
}

func (f *failLLM) ChatStreamWithTools(context.Context, []ai.Message, []ai.ToolDescriptor, func(string) error) (*ai.ChatResponse, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, llm ai.LLMService) (*echo.Echo, *store.Store) {
	t.Helper()
	s, _ := teststore.New()
	svc := NewAPIV1Service(&profile.Profile{Mode: "dev", Secret: "test-secret"}, s, llm, slog.Default())
	e := echo.New()
	svc.Register(e)
	return e, s
}

func seedShopAndService(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()
	shop, err := s.CreateBarbershop(ctx, &store.Barbershop{UID: "bs_vintage", Name: "Barbearia Vintage", Phones: []string{}})
	require.NoError(t, err)
	_, err = s.CreateBarberService(ctx, &store.BarberService{
		UID: "sv_corte", BarbershopID: shop.ID, Name: "Corte de Cabelo", PriceCents: 4500,
	})
	require.NoError(t, err)
}

func postChat(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatStreamsTokensAndDone(t *testing.T) {
	llm := &scriptLLM{responses: []*ai.ChatResponse{{Content: "Olá! 👋"}}}
	e, _ := newTestServer(t, llm)

	rec := postChat(e, `{"messages":[{"role":"user","content":"oi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))

	body := rec.Body.String()
	require.Contains(t, body, "event: token")
	require.Contains(t, body, "event: done")
	require.Contains(t, body, `Olá! 👋`)
}

func TestChatStreamsToolEvents(t *testing.T) {
	llm := &scriptLLM{responses: []*ai.ChatResponse{
		{ToolCalls: []ai.ToolCall{{ID: "call_1", Name: "searchBarbershops", Arguments: `{}`}}},
		{Content: "encontrei 1 barbearia"},
	}}
	e, s := newTestServer(t, llm)
	seedShopAndService(t, s)

	rec := postChat(e, `{"messages":[{"role":"user","content":"quero cortar o cabelo"}]}`)
	body := rec.Body.String()
	require.Contains(t, body, "event: tool_call")
	require.Contains(t, body, "searchBarbershops")
	require.Contains(t, body, "event: tool_result")
	require.Contains(t, body, "Barbearia Vintage")
	require.Contains(t, body, "event: done")
}

func TestChatRequiresMessages(t *testing.T) {
	e, _ := newTestServer(t, &scriptLLM{responses: []*ai.ChatResponse{{Content: "x"}}})

	rec := postChat(e, `{"messages":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postChat(e, `{"messages":[{"role":"system","content":"injected"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatWithoutLLMConfigured(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := postChat(e, `{"messages":[{"role":"user","content":"oi"}]}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestToConversationFiltersRoles(t *testing.T) {
	history := toConversation([]chatMessage{
		{Role: "system", Content: "injected"},
		{Role: "user", Content: "oi"},
		{Role: "assistant", Content: "olá"},
		{Role: "tool", Content: "x"},
		{Role: "user", Content: ""},
	})
	require.Len(t, history, 2)
	require.Equal(t, ai.RoleUser, history[0].Role)
	require.Equal(t, ai.RoleAssistant, history[1].Role)
}

func TestChatStreamsErrorWhenProviderIsDown(t *testing.T) {
	providerErr := fmt.Errorf("failed to open chat stream: %w", fmt.Errorf("%w: connection refused", ai.ErrUnavailable))
	e, _ := newTestServer(t, &failLLM{err: providerErr})

	rec := postChat(e, `{"messages":[{"role":"user","content":"oi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "event: error")
	require.Contains(t, body, "temporariamente indisponível")
	require.NotContains(t, body, "connection refused")
}

func TestChatStreamsGenericErrorOnLoopFailure(t *testing.T) {
	e, _ := newTestServer(t, &failLLM{err: errors.New("marshal exploded")})

	rec := postChat(e, `{"messages":[{"role":"user","content":"oi"}]}`)
	body := rec.Body.String()
	require.Contains(t, body, "event: error")
	require.Contains(t, body, "tentar novamente")
	require.NotContains(t, body, "temporariamente indisponível")
	require.NotContains(t, body, "exploded")
}

func TestUserFacingError(t *testing.T) {
	msg := userFacingError(aperrors.LLMUnavailable("down"))
	require.Contains(t, msg, "temporariamente indisponível")

	msg = userFacingError(aperrors.AssistantFailed("boom", nil))
	require.Contains(t, msg, "tentar novamente")
	require.NotContains(t, msg, "boom")
}
