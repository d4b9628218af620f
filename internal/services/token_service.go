package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/models"
)

var (
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidOrExpired   = errors.New("invalid or expired token")
	ErrEmailClaimRequired = errors.New("email claim is required")
)

// reservedClaims are always set by the server, never taken from the caller.
var reservedClaims = []string{"exp", "iat", "nbf", "jti"}

// Claims is the verified content of a bearer token.
type Claims struct {
	Email     string
	TokenID   string
	ExpiresAt time.Time
	Extra     map[string]interface{}
}

// TokenService issues and verifies HS256 identity tokens. Verification is
// stateless apart from the optional revocation denylist.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, revoked RevocationStore) *TokenService {
	return &TokenService{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue signs the given claims with an expiry of ttl from now. It does not
// check that the email belongs to a stored identity.
func (s *TokenService) Issue(claims map[string]interface{}) (string, error) {
	raw, _ := claims["email"].(string)
	email := models.NormalizeEmail(raw)
	if email == "" {
		return "", ErrEmailClaimRequired
	}

	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	for _, k := range reservedClaims {
		delete(mc, k)
	}
	mc["email"] = email

	now := s.now()
	mc["jti"] = uuid.NewString()
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(s.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks an Authorization header value of the form "Bearer <token>".
func (s *TokenService) Verify(ctx context.Context, authHeader string) (*Claims, error) {
	raw, ok := bearerToken(authHeader)
	if !ok {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(raw, s.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrExpired, err)
	}
	return s.FromToken(ctx, token)
}

// Keyfunc resolves the signing key, refusing anything but HMAC.
func (s *TokenService) Keyfunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}

// FromToken turns an already signature-checked token into Claims, enforcing
// the email claim, a present expiry and the denylist.
func (s *TokenService) FromToken(ctx context.Context, token *jwt.Token) (*Claims, error) {
	if token == nil || !token.Valid {
		return nil, ErrInvalidOrExpired
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidOrExpired
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidOrExpired
	}
	if !s.now().Before(exp.Time) {
		return nil, ErrInvalidOrExpired
	}

	claimed, _ := mc["email"].(string)
	email := models.NormalizeEmail(claimed)
	if email == "" {
		return nil, ErrInvalidOrExpired
	}
	jti, _ := mc["jti"].(string)

	if jti != "" && s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, jti)
		if err != nil {
			slog.Error("revocation lookup failed", "error", err)
			return nil, fmt.Errorf("%w: revocation lookup: %v", ErrInvalidOrExpired, err)
		}
		if revoked {
			return nil, ErrInvalidOrExpired
		}
	}

	extra := make(map[string]interface{}, len(mc))
	for k, v := range mc {
		extra[k] = v
	}
	return &Claims{
		Email:     email,
		TokenID:   jti,
		ExpiresAt: exp.Time,
		Extra:     extra,
	}, nil
}

// Revoke denylists the token until its own expiry.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil {
		return errors.New("token revocation is not configured")
	}
	if claims.TokenID == "" {
		return ErrInvalidOrExpired
	}
	return s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
