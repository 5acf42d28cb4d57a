// Package session owns the bearer credential of the inscription client and
// exposes the authenticated request primitive every other component builds
// on. The token is written on sign-in, cleared on sign-out, and read-only
// everywhere else.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/logging"
)

// connectivityMessage is shown when the backend is unreachable or answers
// with an unreadable body.
const connectivityMessage = "Erreur de connexion au serveur"

// Session holds the current bearer token and performs HTTP requests against
// the backend. Token writes happen-before all subsequent authenticated
// requests (guarded by mu).
type Session struct {
	baseURL string
	client  *http.Client
	log     logging.Logger

	mu    sync.RWMutex
	token string
	user  json.RawMessage
}

// New builds a Session against baseURL. Every request carries the given
// timeout as its deadline, so a stalled call cannot block its caller forever.
func New(baseURL string, timeout time.Duration, log logging.Logger) *Session {
	return &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type loginResponse struct {
	Message     string          `json:"message"`
	Token       string          `json:"token"`
	Utilisateur json.RawMessage `json:"utilisateur"`
}

// SignIn posts the credentials to /api/login. On success the token is stored
// and the session becomes authenticated. On a non-2xx reply the server's
// message is returned as *common.ServerError; transport failures yield a
// generic connectivity message.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn(ctx, "login request failed", "error", err)
		return fmt.Errorf("%s: %w", connectivityMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ReadServerError(resp)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("%s: %w", connectivityMessage, err)
	}

	s.mu.Lock()
	s.token = lr.Token
	s.user = lr.Utilisateur
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "email", email)
	return nil
}

// SignOut clears the token. It has no network side effect.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// Authenticated reports whether a token is currently held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns the raw utilisateur payload from the last successful sign-in.
func (s *Session) User() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// NewRequest builds an HTTP request against the backend. path must start
// with "/".
func (s *Session) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
}

// Do performs an authenticated request. With no token held it fails
// immediately with common.ErrAuthRequired, without any network I/O; a held
// token whose expiry has already passed fails the same way with
// common.ErrSessionExpired. Otherwise the bearer header is attached and the
// request performed unmodified.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return nil, common.ErrAuthRequired
	}
	if tokenExpired(token) {
		return nil, common.ErrSessionExpired
	}

	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	return s.client.Do(req)
}

// Send performs an unauthenticated request with the session's HTTP client,
// so pre-login calls (sign-up) share the same timeout policy.
func (s *Session) Send(req *http.Request) (*http.Response, error) {
	return s.client.Do(req)
}

// tokenExpired decodes the token as a JWT without verifying its signature
// and checks the exp claim. Opaque (non-JWT) tokens and tokens without exp
// are treated as valid; the server remains the authority.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// ReadServerError extracts the {message} body of a non-2xx response. When the
// body carries no usable message, a generic connectivity message is used so
// the user never sees a bare status code.
func ReadServerError(resp *http.Response) *common.ServerError {
	var payload struct {
		Message string `json:"message"`
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		payload.Message = connectivityMessage
	}

	return &common.ServerError{StatusCode: resp.StatusCode, Message: payload.Message}
}
