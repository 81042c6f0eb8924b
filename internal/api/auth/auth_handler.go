package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/internal/api"
)

type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Token authenticates a form-encoded username/password pair (OAuth2 password
// flow shape) and returns a bearer token, additionally setting the session
// cookie so browser clients are logged in by the same call.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Token"))
	start := time.Now()
	metrics.Get().LoginAttemptsTotal.Add(ctx, 1)

	if err := r.ParseForm(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	result, err := h.service.Login(ctx, ByUsername, username, password)
	if err != nil {
		if Unauthorized(err) {
			l.WarnContext(ctx, "Login rejected", slog.Any("error", err))
			metrics.Get().LoginFailuresTotal.Add(ctx, 1)
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		l.ErrorContext(ctx, "Login failed on store lookup", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}

	setSessionCookie(w, result.AccessToken, int(result.ExpiresIn))
	metrics.Get().LoginDurationSeconds.Record(ctx, time.Since(start).Seconds())
	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
	})
}

// Login authenticates a JSON email/password body and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))
	start := time.Now()
	metrics.Get().LoginAttemptsTotal.Add(ctx, 1)

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Login(ctx, ByEmail, req.Email, req.Password)
	if err != nil {
		if Unauthorized(err) {
			l.WarnContext(ctx, "Login rejected", slog.Any("error", err))
			metrics.Get().LoginFailuresTotal.Add(ctx, 1)
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed on store lookup", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}

	setSessionCookie(w, result.AccessToken, int(result.ExpiresIn))
	metrics.Get().LoginDurationSeconds.Record(ctx, time.Since(start).Seconds())
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Login successful"})
}

// Logout clears the session cookie. Tokens are stateless, so there is no
// server-side session to tear down.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the identity resolved by the cookie-sourced middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// setSessionCookie attaches the issued token as the session artifact. The
// max-age comes from the issuer so cookie expiry and token expiry share one
// clock reading.
func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false, // behind TLS termination in production
	})
}
