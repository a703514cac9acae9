package tools

import (
	"context"
)

// CheckUserAuthenticationTool reports whether the session belongs to a
// signed-in user. Authentication state lives in the session context, so this
// never touches the store.
type CheckUserAuthenticationTool struct {
	deps Deps
}

func NewCheckUserAuthenticationTool(deps Deps) *CheckUserAuthenticationTool {
	return &CheckUserAuthenticationTool{deps: deps}
}

func (t *CheckUserAuthenticationTool) Name() string {
	return "checkUserAuthentication"
}

func (t *CheckUserAuthenticationTool) Description() string {
	return "Verifica se o usuário está autenticado e retorna informações básicas."
}

func (t *CheckUserAuthenticationTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *CheckUserAuthenticationTool) Run(ctx context.Context, input string) (string, error) {
	if !t.deps.Session.IsAuthenticated() {
		return marshal(struct {
			IsAuthenticated bool   `json:"isAuthenticated"`
			Message         string `json:"message"`
		}{
			IsAuthenticated: false,
			Message:         "Usuário não está logado. Para criar agendamentos, é necessário fazer login.",
		})
	}

	return marshal(struct {
		IsAuthenticated bool `json:"isAuthenticated"`
		User            struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}{
		IsAuthenticated: true,
		User: struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}{
			Name:  t.deps.Session.DisplayName,
			Email: t.deps.Session.Email,
		},
	})
}
