package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kanworks/kanapi/internal/types"
)

// echoUser is the innermost handler: it proves the middleware stored the
// resolved identity in the request context.
func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		require.True(t, ok, "user must be present in context past the middleware")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(user.Username))
	})
}

func TestAuthenticate_BearerSource(t *testing.T) {
	alice := activeUser(t, "alice", "alice@example.com", "s3cret")

	t.Run("valid bearer token passes", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("FindUserBy", mock.Anything, ByUsername, "alice").Return(alice, nil).Once()

		svc := newTestService(t, store)
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/case", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceBearer, discardLogger())(echoUser(t)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("missing header yields 401", func(t *testing.T) {
		svc := newTestService(t, new(MockUserStore))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/case", nil)
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceBearer, discardLogger())(echoUser(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header yields 401", func(t *testing.T) {
		svc := newTestService(t, new(MockUserStore))

		for _, header := range []string{"Bearer", "Basic dXNlcjpwYXNz", "Bearer a b"} {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/case", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()

			Authenticate(svc, SourceBearer, discardLogger())(echoUser(t)).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}
	})

	t.Run("cookie is ignored on bearer routes", func(t *testing.T) {
		// No fallback between sources: a perfectly valid session cookie does
		// not authenticate a bearer-sourced route.
		svc := newTestService(t, new(MockUserStore))
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/case", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceBearer, discardLogger())(echoUser(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user deleted after issuance yields 401", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("FindUserBy", mock.Anything, ByUsername, "alice").Return(nil, types.ErrNotFound).Once()

		svc := newTestService(t, store)
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/case", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceBearer, discardLogger())(echoUser(t)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Could not validate credentials")
	})

	t.Run("store fault yields 503, not 401", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("FindUserBy", mock.Anything, ByUsername, "alice").
			Return(nil, errors.New("connection refused")).Once()

		svc := newTestService(t, store)
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/case", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceBearer, discardLogger())(echoUser(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAuthenticate_CookieSource(t *testing.T) {
	alice := activeUser(t, "alice", "alice@example.com", "s3cret")

	t.Run("valid cookie passes", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("FindUserBy", mock.Anything, ByUsername, "alice").Return(alice, nil).Once()

		svc := newTestService(t, store)
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceCookie, discardLogger())(echoUser(t)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("bearer header is ignored on cookie routes", func(t *testing.T) {
		svc := newTestService(t, new(MockUserStore))
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceCookie, discardLogger())(echoUser(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered cookie yields 401", func(t *testing.T) {
		svc := newTestService(t, new(MockUserStore))
		token, _, err := svc.codec.Encode("alice", "alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token + "x"})
		rec := httptest.NewRecorder()

		Authenticate(svc, SourceCookie, discardLogger())(echoUser(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
