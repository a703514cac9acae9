package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignIn verifies credentials and returns a bearer token.
func (s *APIV1Service) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := s.Authenticator.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.Authenticator.GenerateAccessToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusOK, signInResponse{
		Token: token,
		User:  userView{Name: user.Nickname, Email: user.Email},
	})
}
