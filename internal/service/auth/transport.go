package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nkiryanov/streamium/internal/models"
)

const (
	defaultAccessCookieName  = "accessToken"
	defaultRefreshCookieName = "refreshToken"

	bearerScheme = "Bearer "
)

// SetTokenPairToResponse carries both tokens to the caller as httpOnly
// secure cookies. The payload may repeat them inline, that is up to the
// handler.
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, s.sessionCookie(s.accessCookieName, pair.Access.Value, time.Until(pair.Access.ExpiresAt)))
	http.SetCookie(w, s.sessionCookie(s.refreshCookieName, pair.Refresh.Value, time.Until(pair.Refresh.ExpiresAt)))
}

// ClearTokenPair expires both session cookies with the same attributes
// they were set with
func (s *AuthService) ClearTokenPair(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		cookie := s.sessionCookie(name, "", 0)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

// RefreshStringFromRequest reads the refresh value from its cookie.
// The caller may fall back to an inline payload field when no cookie came.
func (s *AuthService) RefreshStringFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Auth resolves the calling user from the access token, taken from the
// Authorization header (Bearer scheme) or the access cookie
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	access, ok := s.accessStringFromRequest(r)
	if !ok {
		return user, errors.New("no access token in request")
	}

	userID, err := s.tokens.ParseAccess(access)
	if err != nil {
		return user, err
	}

	return s.users.GetUserByID(ctx, userID)
}

func (s *AuthService) accessStringFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, bearerScheme) {
		return strings.TrimPrefix(header, bearerScheme), true
	}

	cookie, err := r.Cookie(s.accessCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *AuthService) sessionCookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
