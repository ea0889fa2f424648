// Package oauth owns the access token used against the remote tabular
// mirror. The interactive consent flow happens outside this process; the
// session only knows how to hold a granted token, silently refresh it,
// and drop it when the remote store answers 401/403.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	// ErrSessionExpired means the silent refresh failed and the caller
	// must go through the interactive login again.
	ErrSessionExpired = errors.New("session expired")
	// ErrInteractiveRequired means there is no prior session at all, so
	// a silent refresh is not even worth attempting.
	ErrInteractiveRequired = errors.New("interactive login required")
)

// State follows the token lifecycle. Expiry is not tracked by the clock;
// the session only reacts to 401/403 via Invalidate.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateRequesting      State = "requesting"
	StateGranted         State = "granted"
	StateExpired         State = "expired"
)

// Config carries the token endpoint credentials for silent refresh.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Session holds the access token for the mirror. Safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	cfg   Config
	http  *http.Client
	state State
	token string
}

func NewSession(cfg Config) *Session {
	return &Session{
		cfg:   cfg,
		http:  &http.Client{Timeout: 15 * time.Second},
		state: StateUnauthenticated,
	}
}

// Grant installs a token obtained interactively outside this process.
func (s *Session) Grant(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.state = StateGranted
}

// Invalidate drops the token after the remote store rejected it.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.state = StateExpired
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// EnsureToken returns the current token, attempting one silent refresh
// when the session had been granted before (or a refresh token is
// configured) but no live token is held. A failed refresh surfaces as
// ErrSessionExpired rather than retrying forever.
func (s *Session) EnsureToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == StateGranted && s.token != "" {
		t := s.token
		s.mu.Unlock()
		return t, nil
	}

	if s.cfg.RefreshToken == "" || s.cfg.TokenURL == "" {
		if s.state == StateExpired {
			s.mu.Unlock()
			return "", ErrSessionExpired
		}
		s.mu.Unlock()
		return "", ErrInteractiveRequired
	}

	s.state = StateRequesting
	s.mu.Unlock()

	token, err := s.refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateExpired
		s.token = ""
		log.Printf("oauth silent refresh failed: %v", err)
		return "", ErrSessionExpired
	}
	s.token = token
	s.state = StateGranted
	return token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *Session) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.cfg.RefreshToken)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}
	return tr.AccessToken, nil
}
