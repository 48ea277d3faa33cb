package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/internal/utils"
	"github.com/MKhiriev/data-publish-agent/models"
)

const defaultPageSize = 100

// HTTPAdapter implements [AuthAdapter] and [DataPublishAdapter] over the
// REST API of the gateway.
type HTTPAdapter struct {
	login *utils.HTTPClient
	data  *utils.HTTPClient

	// pageSize overrides the collection page size when positive.
	pageSize int
	now      func() time.Time

	logger *logger.Logger
}

// NewHTTPAdapter constructs an [HTTPAdapter] for the login and data-publish
// base URLs in cfg. A positive cfg.PageSize is sent for every collection.
//
// Returns an error if either URL is empty or cannot be parsed.
func NewHTTPAdapter(cfg config.AgentAdapter, log *logger.Logger) (*HTTPAdapter, error) {
	loginURL, err := normalizeBaseURL(cfg.LoginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid login url: %w", err)
	}
	dataURL, err := normalizeBaseURL(cfg.DataURL)
	if err != nil {
		return nil, fmt.Errorf("invalid data-publish url: %w", err)
	}

	return &HTTPAdapter{
		login:    utils.NewHTTPClient(loginURL, cfg.RequestTimeout),
		data:     utils.NewHTTPClient(dataURL, cfg.RequestTimeout),
		pageSize: max(cfg.PageSize, 0),
		now:      time.Now,
		logger:   log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

type loginRequest struct {
	UserID   string `json:"UserID"`
	Password string `json:"Password"`
}

type refreshRequest struct {
	UserID       string `json:"UserID"`
	RefreshToken string `json:"RefreshToken"`
}

type loginResponse struct {
	ChallengeType   string `json:"ChallengeType,omitempty"`
	IDToken         string `json:"IDToken,omitempty"`
	RefreshToken    string `json:"RefreshToken,omitempty"`
	ExpireTimestamp string `json:"ExpireTimestamp,omitempty"`
	UserID          string `json:"UserID,omitempty"`
}

// Login implements [AuthAdapter]. It POSTs the credentials to {login}/Login.
// Empty credentials are rejected without a request.
func (h *HTTPAdapter) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	if strings.TrimSpace(creds.UserID) == "" || creds.Password == "" {
		return models.Session{}, fmt.Errorf("%w: empty user id or password", ErrAuth)
	}

	var rsp loginResponse
	if err := h.postAuth(ctx, "login", "/Login", loginRequest(creds), &rsp); err != nil {
		return models.Session{}, err
	}

	session, err := h.sessionFromResponse(rsp, creds.UserID, "")
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	h.logger.Info().Str("user_id", session.UserID).Time("expires_at", session.ExpiresAt).Msg("logged in")
	return session, nil
}

// Renew implements [AuthAdapter]. It POSTs the refresh token to
// {login}/RefreshLogin. The previous refresh token is kept when the answer
// does not carry a new one.
func (h *HTTPAdapter) Renew(ctx context.Context, session models.Session) (models.Session, error) {
	if session.RefreshToken == "" {
		return models.Session{}, fmt.Errorf("%w: no refresh token", ErrAuth)
	}

	req := refreshRequest{UserID: session.UserID, RefreshToken: session.RefreshToken}

	var rsp loginResponse
	if err := h.postAuth(ctx, "renew", "/RefreshLogin", req, &rsp); err != nil {
		return models.Session{}, err
	}

	renewed, err := h.sessionFromResponse(rsp, session.UserID, session.RefreshToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("renew: %w", err)
	}

	h.logger.Info().Str("user_id", renewed.UserID).Time("expires_at", renewed.ExpiresAt).Msg("session renewed")
	return renewed, nil
}

func (h *HTTPAdapter) postAuth(ctx context.Context, op, path string, body, out any) error {
	resp, err := h.login.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuth, mapRequestError(ctx, op+" request", err))
	}
	if err = mapAuthHTTPError(resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s: %w: decode response: %w", op, ErrAuth, err)
	}
	return nil
}

func (h *HTTPAdapter) sessionFromResponse(rsp loginResponse, userID, refreshToken string) (models.Session, error) {
	if rsp.IDToken == "" {
		if rsp.ChallengeType != "" {
			return models.Session{}, fmt.Errorf("%w: received challenge requiring user action: %s", ErrAuth, rsp.ChallengeType)
		}
		return models.Session{}, fmt.Errorf("%w: no ID token received", ErrAuth)
	}

	if rsp.UserID != "" {
		userID = rsp.UserID
	}
	if rsp.RefreshToken != "" {
		refreshToken = rsp.RefreshToken
	}

	issuedAt := h.now()
	return models.Session{
		UserID:       userID,
		IDToken:      rsp.IDToken,
		RefreshToken: refreshToken,
		IssuedAt:     issuedAt,
		ExpiresAt:    sessionExpiry(rsp, issuedAt),
	}, nil
}

// sessionExpiry prefers the exp claim of the ID token, then the
// ExpireTimestamp of the answer, then the default session lifetime.
func sessionExpiry(rsp loginResponse, issuedAt time.Time) time.Time {
	if exp, err := utils.TokenExpiry(rsp.IDToken); err == nil {
		return exp
	}
	if exp, ok := parseExpireTimestamp(rsp.ExpireTimestamp); ok {
		return exp
	}
	return issuedAt.Add(models.DefaultSessionTTL)
}

func parseExpireTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
		// Millisecond timestamps have at least 13 digits.
		if n >= 1e12 {
			return time.UnixMilli(n), true
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}

// FetchPage implements [DataPublishAdapter]. It GETs
// {data}/{Path}[/{clientID}[/{projectID}]]/sinceVersion/{version}?offset=&limit=.
func (h *HTTPAdapter) FetchPage(ctx context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor, token string) (models.Page, error) {
	path, err := pagePath(collection, scope, cursor)
	if err != nil {
		return models.Page{}, err
	}

	resp, err := h.data.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetQueryParam("offset", strconv.FormatInt(cursor.Offset, 10)).
		SetQueryParam("limit", strconv.Itoa(h.limit(collection))).
		Get(path)
	if err != nil {
		return models.Page{}, mapRequestError(ctx, "fetch "+collection.Name, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Page{}, fmt.Errorf("fetch %s: %w", collection.Name, err)
	}

	page, err := decodePage(collection, resp.Body())
	if err != nil {
		return models.Page{}, fmt.Errorf("fetch %s: %w", collection.Name, err)
	}

	event := h.logger.Debug()
	if runID, ok := utils.GetRunIDFromContext(ctx); ok {
		event = event.Str("run_id", runID)
	}
	event.
		Str("collection", collection.Name).
		Str("scope", scope.String()).
		Str("cursor", cursor.String()).
		Int("items", len(page.Items)).
		Int("skipped", page.Skipped).
		Bool("more_updates", page.MoreUpdates).
		Msg("page fetched")

	return page, nil
}

// limit returns the page size requested for collection.
func (h *HTTPAdapter) limit(collection models.Collection) int {
	switch {
	case h.pageSize > 0:
		return h.pageSize
	case collection.PageSize > 0:
		return collection.PageSize
	default:
		return defaultPageSize
	}
}

func pagePath(collection models.Collection, scope models.Scope, cursor models.SyncCursor) (string, error) {
	segments := scope.Segments()
	if len(segments) != collection.Level {
		return "", fmt.Errorf("%w: collection %s expects %d scope segments, got %d", ErrFetch, collection.Name, collection.Level, len(segments))
	}

	var b strings.Builder
	b.WriteString("/")
	b.WriteString(collection.Path)
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	b.WriteString("/sinceVersion/")
	b.WriteString(strconv.FormatInt(cursor.Version, 10))

	return b.String(), nil
}
