package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/data-publish-agent/internal/adapter"
	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

// authService is the concrete implementation of AuthService.
// It keeps the session obtained by Login and renews it through the
// refresh token, never resending the password.
type authService struct {
	// adapter talks to the login service.
	adapter adapter.AuthAdapter

	// renewBefore is how long before expiry Token renews proactively.
	renewBefore time.Duration

	now func() time.Time

	// mu guards session. Readers take the read lock; only a renewal or a
	// login replaces the session.
	mu      sync.RWMutex
	session models.Session

	// renewals collapses concurrent renewals of the same stale token.
	renewals singleflight.Group

	logger *logger.Logger
}

// NewAuthService constructs an AuthService over the given login adapter.
// The service holds no session until Login succeeds.
func NewAuthService(authAdapter adapter.AuthAdapter, cfg config.AgentSync, logger *logger.Logger) AuthService {
	return &authService{
		adapter:     authAdapter,
		renewBefore: cfg.RenewBefore,
		now:         time.Now,
		logger:      logger,
	}
}

// Login exchanges creds for a session and stores it. Empty credentials are
// rejected with [adapter.ErrAuth] without contacting the server.
func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	log := logger.FromContext(ctx)

	if creds.UserID == "" || creds.Password == "" {
		return fmt.Errorf("%w: %w", adapter.ErrAuth, ErrInvalidCredentials)
	}

	session, err := a.adapter.Login(ctx, creds)
	if err != nil {
		log.Err(err).Str("func", "authService.Login").Str("user_id", creds.UserID).Msg("login failed")
		return fmt.Errorf("login: %w", err)
	}

	a.setSession(session)
	log.Info().
		Str("user_id", session.UserID).
		Time("expires_at", session.ExpiresAt).
		Msg("logged in")

	return nil
}

// Token returns the current ID token. When the token expires within
// renewBefore it is renewed first; if that renewal fails while the token is
// still valid, the current token is returned.
func (a *authService) Token(ctx context.Context) (string, error) {
	session := a.currentSession()
	if session.IDToken == "" {
		return "", ErrNoSession
	}

	now := a.now()
	if !session.IsExpired(now, a.renewBefore) {
		return session.IDToken, nil
	}

	token, err := a.Refresh(ctx, session.IDToken)
	if err == nil {
		return token, nil
	}
	if !session.IsExpired(now, 0) {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "authService.Token").
			Time("expires_at", session.ExpiresAt).
			Msg("proactive renewal failed, using current token")
		return session.IDToken, nil
	}

	return "", err
}

// Refresh renews the session after staleToken was rejected.
func (a *authService) Refresh(ctx context.Context, staleToken string) (string, error) {
	session := a.currentSession()
	if session.IDToken == "" {
		return "", ErrNoSession
	}
	if session.IDToken != staleToken {
		return session.IDToken, nil
	}

	v, err, shared := a.renewals.Do(staleToken, func() (any, error) {
		// a renewal that finished between the check above and Do
		current := a.currentSession()
		if current.IDToken != staleToken {
			return current.IDToken, nil
		}

		renewed, err := a.adapter.Renew(ctx, current)
		if err != nil {
			return "", err
		}

		a.setSession(renewed)
		return renewed.IDToken, nil
	})

	log := logger.FromContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "authService.Refresh").Msg("session renewal failed")
		return "", sessionExpired(ctx, err)
	}

	log.Debug().Bool("shared", shared).Msg("session renewed")
	return v.(string), nil
}

func (a *authService) currentSession() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *authService) setSession(session models.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = session
}
