package auth_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/model"
)

func newCodec(t *testing.T, secret string) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec([]byte(secret))
	require.NoError(t, err)
	return c
}

func TestNewCodec_RejectsEmptySecret(t *testing.T) {
	_, err := auth.NewCodec(nil)
	assert.Error(t, err)
}

func TestCodec_SignVerifyRoundTrip(t *testing.T) {
	c := newCodec(t, "s3cret")
	u := model.User{
		ID:    7,
		Name:  "pizza franchisee",
		Email: "f@jwt.com",
		Roles: []model.RoleAssignment{{Role: model.RoleDiner}, {Role: model.RoleFranchisee, ObjectID: 3}},
	}

	tok, err := c.Sign(u)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."))

	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Email, got.Email)
	assert.ElementsMatch(t, u.Roles, got.Roles)
	assert.Empty(t, got.Password)
}

func TestCodec_SignDoesNotLeakPassword(t *testing.T) {
	c := newCodec(t, "s3cret")
	tok, err := c.Sign(model.User{ID: 1, Password: "$2a$hash"})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.NotContains(t, claims, "password")
	assert.Contains(t, claims, "roles")
	assert.NotContains(t, claims, "exp")
}

func TestCodec_RepeatSignaturesDiffer(t *testing.T) {
	c := newCodec(t, "s3cret")
	u := model.User{ID: 1, Email: "a@x.com"}
	t1, err := c.Sign(u)
	require.NoError(t, err)
	t2, err := c.Sign(u)
	require.NoError(t, err)
	assert.NotEqual(t, auth.Signature(t1), auth.Signature(t2))
}

func TestCodec_VerifyRejects(t *testing.T) {
	c := newCodec(t, "s3cret")
	other := newCodec(t, "other")
	foreign, err := other.Sign(model.User{ID: 1})
	require.NoError(t, err)

	good, err := c.Sign(model.User{ID: 1})
	require.NoError(t, err)
	tampered := good[:len(good)-2] + "xx"

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": 1}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"one separator":  "abc.def",
		"extra segment":  good + ".extra",
		"foreign secret": foreign,
		"tampered":       tampered,
		"alg none":       unsigned,
		"other hmac alg": hs512,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(tok)
			assert.True(t, errors.Is(err, auth.ErrInvalidToken), "got %v", err)
		})
	}
}

func TestSignature(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", ""},
		{"abc.def", ""},
		{"a.b.c", "c"},
		{"header.payload.sig-nature_1", "sig-nature_1"},
		{"..", ""},
		{"a.b.", ""},
		{"a.b.c.d", "c.d"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, auth.Signature(tc.in), "input %q", tc.in)
	}
}

func TestSignature_MatchesSignedToken(t *testing.T) {
	c := newCodec(t, "s3cret")
	tok, err := c.Sign(model.User{ID: 9})
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	assert.Equal(t, parts[2], auth.Signature(tok))
}
