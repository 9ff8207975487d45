package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/pizza-service/internal/model"
)

// Claims is the JWT payload: a snapshot of the user at issuance time.  The
// registered claims only carry iat and jti; there is no exp because the
// active-token table is the sole invalidation mechanism.
type Claims struct {
	UserID uint64                 `json:"id"`
	Name   string                 `json:"name"`
	Email  string                 `json:"email"`
	Roles  []model.RoleAssignment `json:"roles"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session tokens with a single secret.
type Codec struct {
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

// NewCodec returns a codec bound to secret.  The secret is copied so later
// changes to the caller's slice have no effect.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{
		secret: key,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:    time.Now,
	}, nil
}

// Sign encodes the user's identity and roles into a compact signed token.
func (c *Codec) Sign(u model.User) (string, error) {
	claims := Claims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Roles:  u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(c.now().UTC()),
		},
	}
	if claims.Roles == nil {
		claims.Roles = []model.RoleAssignment{}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and returns the user snapshot it
// carries.  Every failure is reported as ErrInvalidToken.
func (c *Codec) Verify(token string) (*model.User, error) {
	var claims Claims
	tok, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &model.User{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Roles: claims.Roles,
	}, nil
}

// Signature returns the third segment of a compact token: everything after
// the second '.'.  Inputs with fewer than two separators yield "".
func Signature(token string) string {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
