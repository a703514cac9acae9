package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/aparatus/aparatus/store"
)

const (
	// Issuer is the issuer of the access token.
	Issuer = "aparatus"
	// AccessTokenDuration is the lifetime of the access token.
	AccessTokenDuration = 7 * 24 * time.Hour
)

var signingMethod = jwt.SigningMethodHS256

// ClaimsMessage is the claims carried by an access token.
type ClaimsMessage struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator resolves bearer tokens to users. A missing or empty token
// is not an error: it resolves to a nil user (anonymous).
type Authenticator struct {
	store  *store.Store
	secret []byte
}

func NewAuthenticator(s *store.Store, secret string) *Authenticator {
	return &Authenticator{store: s, secret: []byte(secret)}
}

// GenerateAccessToken signs a token for the given user.
func (a *Authenticator) GenerateAccessToken(user *store.User) (string, error) {
	now := time.Now()
	claims := &ClaimsMessage{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
		},
	}
	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return token, nil
}

// Authenticate resolves an Authorization header value to a user.
// Returns (nil, nil) for anonymous requests: no header or no bearer token.
// Returns an error only for present-but-invalid tokens.
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) (*store.User, error) {
	token := extractBearerToken(authHeader)
	if token == "" {
		return nil, nil
	}

	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != signingMethod.Alg() {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}

	user, err := a.store.GetUser(ctx, &store.FindUser{UID: &claims.Subject})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// SignIn verifies credentials and returns the matching user.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*store.User, error) {
	user, err := a.store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

func extractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
