package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edusoma/portal/core"
)

var (
	signingMethod = jwt.SigningMethodHS256

	// ErrNoSession covers every way a session token can be unusable:
	// missing, malformed, bad signature or expired. Callers must not
	// distinguish between them.
	ErrNoSession = errors.New("no session")
)

// Claims represents the session claims transmitted via the portal JWT.
// The role travels under both the canonical `role` claim and the legacy
// `user_type` claim; older tokens only carry the latter.
type Claims struct {
	jwt.StandardClaims
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	LegacyRole string `json:"user_type,omitempty"`
}

// ResolveRole projects the role claim onto the fixed role set, preferring
// the canonical claim name over the legacy one.
func (c *Claims) ResolveRole() Role {
	if c.Role != "" {
		return ParseRole(c.Role)
	}
	return ParseRole(c.LegacyRole)
}

// Principal rebuilds the Session Principal carried by the claims.
func (c *Claims) Principal() Principal {
	return Principal{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.Name,
		Role:  c.ResolveRole(),
	}
}

// GetPrincipalClaims mints fresh claims for an authenticated Principal.
func GetPrincipalClaims(p Principal) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    core.Conf.AppName,
			Subject:   p.ID,
			Audience:  "Portal",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:      p.Email,
		Name:       p.Name,
		Role:       string(p.Role),
		LegacyRole: string(p.Role),
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(signingMethod, claims)
	ss, err := token.SignedString([]byte(core.Conf.SecretKey))
	return ss, errors.Wrap(err, "signing token")
}

// VerifyToken verifies raw against the server secret and decodes it.
// Every failure mode collapses to ErrNoSession.
func VerifyToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrNoSession
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != signingMethod {
			return nil, ErrNoSession
		}
		return []byte(core.Conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}
	return claims, nil
}
