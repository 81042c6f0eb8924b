package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kanworks/kanapi/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the authentication core: credential verification, token
// issuance and token-based session resolution. All operations are stateless
// between calls; the only shared resource is the read-only user store.
type AuthService interface {
	// Authenticate verifies a login request against stored user records.
	// Absent user, inactive user and wrong password all collapse into
	// ErrAuthenticationFailed so callers cannot distinguish which factor
	// failed.
	Authenticate(ctx context.Context, kind IdentifierKind, identifier, password string) (*types.User, error)

	// Login authenticates and mints a signed session token. The returned
	// lifetime is authoritative for the boundary's cookie max-age.
	Login(ctx context.Context, kind IdentifierKind, identifier, password string) (*LoginResult, error)

	// Resolve recovers the authenticated identity from a session token,
	// freshly read from the store on every call so deactivation or deletion
	// takes effect immediately even while the token is still unexpired.
	Resolve(ctx context.Context, token string) (*types.User, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	store  UserStore
	hasher PasswordHasher
	codec  *TokenCodec
}

func NewAuthService(store UserStore, hasher PasswordHasher, codec *TokenCodec, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		store:  store,
		hasher: hasher,
		codec:  codec,
	}
}

// Authenticate implements the credential check. Read-only, no side effects.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, kind IdentifierKind, identifier, password string) (*types.User, error) {
	l := s.logger.With(slog.String("operation", "Authenticate"), slog.String("identifier_kind", string(kind)))

	user, err := s.store.FindUserBy(ctx, kind, identifier)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.DebugContext(ctx, "No user record for identifier")
			return nil, ErrAuthenticationFailed
		}
		// Infrastructure fault, not an authentication outcome.
		return nil, err
	}

	if !user.IsActive {
		l.DebugContext(ctx, "Login attempt for inactive user")
		return nil, ErrAuthenticationFailed
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		l.DebugContext(ctx, "Password verification failed")
		return nil, ErrAuthenticationFailed
	}

	return user, nil
}

// Login implements session issuance on top of Authenticate.
func (s *AuthServiceImpl) Login(ctx context.Context, kind IdentifierKind, identifier, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, kind, identifier, password)
	if err != nil {
		return nil, err
	}

	token, _, err := s.codec.Encode(user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.codec.TTL().Seconds()),
		Subject:     user.Username,
		Email:       user.Email,
	}, nil
}

// Resolve implements token-based session restoration.
func (s *AuthServiceImpl) Resolve(ctx context.Context, token string) (*types.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUserBy(ctx, ByUsername, claims.Subject)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			// A deleted user must not retain access just because their
			// token has not expired yet.
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Unauthorized reports whether err belongs to the authentication failure
// taxonomy, as opposed to an infrastructure fault.
func Unauthorized(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUserNotFound)
}
