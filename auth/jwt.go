package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRolesClaim holds the caller's roles.
const DefaultRolesClaim = "roles"

// JWTConfig configures token verification.
type JWTConfig struct {
	// Secret is the HMAC key. Required.
	Secret []byte

	// Issuer, when set, must match the iss claim.
	Issuer string

	// Audience, when set, must appear in the aud claim.
	Audience string

	// RolesClaim names the claim holding roles. Default: "roles"
	RolesClaim string

	// Leeway tolerates clock skew on exp, nbf and iat.
	Leeway time.Duration
}

// JWTAuthenticator verifies HMAC-signed bearer tokens.
type JWTAuthenticator struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTAuthenticator creates a JWTAuthenticator.
func NewJWTAuthenticator(config JWTConfig) (*JWTAuthenticator, error) {
	if len(config.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if config.RolesClaim == "" {
		config.RolesClaim = DefaultRolesClaim
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(config.Leeway),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}
	return &JWTAuthenticator{config: config, parser: jwt.NewParser(opts...)}, nil
}

// Authenticate verifies the value of an Authorization header.
func (a *JWTAuthenticator) Authenticate(authorization string) (*Identity, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(authorization), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ErrMissingCredentials
	}

	claims := jwt.MapClaims{}
	_, err := a.parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return a.config.Secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	return a.identity(claims), nil
}

func (a *JWTAuthenticator) identity(claims jwt.MapClaims) *Identity {
	id := &Identity{Claims: map[string]any(claims)}
	id.Principal, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		id.IssuedAt = iat.Time
	}

	switch roles := claims[a.config.RolesClaim].(type) {
	case string:
		id.Roles = strings.Fields(roles)
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok {
				id.Roles = append(id.Roles, s)
			}
		}
	}
	return id
}

// IssueToken signs an HS256 token for subject carrying roles, valid for ttl.
func IssueToken(config JWTConfig, subject string, roles []string, ttl time.Duration) (string, error) {
	if len(config.Secret) == 0 {
		return "", ErrMissingSecret
	}
	rolesClaim := config.RolesClaim
	if rolesClaim == "" {
		rolesClaim = DefaultRolesClaim
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      subject,
		"iat":      jwt.NewNumericDate(now),
		"exp":      jwt.NewNumericDate(now.Add(ttl)),
		rolesClaim: roles,
	}
	if config.Issuer != "" {
		claims["iss"] = config.Issuer
	}
	if config.Audience != "" {
		claims["aud"] = config.Audience
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.Secret)
}
