// Package auth authenticates the single portfolio administrator and manages
// JWT sessions with server-side revocation.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the session cookie set at login.
const CookieName = "folio_session"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrRevoked            = errors.New("session revoked")
)

// Session describes an authenticated administrator.
type Session struct {
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Settings configures an Authenticator.
type Settings struct {
	AdminEmail   string
	PasswordHash string // bcrypt
	JWTSecret    string
	SessionTTL   time.Duration
}

// Authenticator checks credentials and issues, verifies and revokes tokens.
type Authenticator struct {
	settings Settings
	revoker  Revoker
	now      func() time.Time
}

func New(s Settings, revoker Revoker) *Authenticator {
	return &Authenticator{settings: s, revoker: revoker, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (a *Authenticator) TTL() time.Duration { return a.settings.SessionTTL }

// Login checks the credentials and returns a signed HS256 token.
func (a *Authenticator) Login(email, password string) (string, Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", Session{}, ErrMissingCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(a.settings.AdminEmail))) == 1
	// The hash is always compared so timing does not reveal the email.
	pwErr := bcrypt.CompareHashAndPassword([]byte(a.settings.PasswordHash), []byte(password))
	if !emailOK || pwErr != nil {
		return "", Session{}, ErrInvalidCredentials
	}

	now := a.now()
	sess := Session{
		Email:     a.settings.AdminEmail,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(a.settings.SessionTTL).Truncate(time.Second),
	}
	claims := jwt.StandardClaims{
		Subject:   sess.Email,
		Id:        sess.TokenID,
		IssuedAt:  now.Unix(),
		ExpiresAt: sess.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.settings.JWTSecret))
	if err != nil {
		return "", Session{}, fmt.Errorf("signing token: %w", err)
	}
	return token, sess, nil
}

// parse validates signature and expiry.
func (a *Authenticator) parse(token string) (Session, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.settings.JWTSecret), nil
	})
	if err != nil || !parsed.Valid || claims.Id == "" || claims.Subject == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{Email: claims.Subject, TokenID: claims.Id, ExpiresAt: time.Unix(claims.ExpiresAt, 0)}, nil
}

// Verify returns the session of a valid, non-revoked token.
func (a *Authenticator) Verify(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidToken
	}
	sess, err := a.parse(token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := a.revoker.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		return Session{}, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return Session{}, ErrRevoked
	}
	return sess, nil
}

// Logout revokes token until it would have expired. Invalid tokens are ignored.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	sess, err := a.parse(token)
	if err != nil {
		return nil
	}
	return a.revoker.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

// TokenFromRequest reads the session cookie, then the bearer token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// HashPassword returns the bcrypt hash to store in the configuration.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrMissingCredentials
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}
