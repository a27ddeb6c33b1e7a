package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-test-secret-key!"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 15*time.Minute)

	token, err := issuer.Issue("a@x.com", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Email: "a@x.com"}, id)
}

func TestTokenIssuer_ExpiryBoundary(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	ttl := time.Hour
	token, err := NewTokenIssuer(testSecret, ttl).WithClock(fixedClock(t0)).Issue("a@x.com", 1)
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, ttl).WithClock(fixedClock(t0.Add(ttl - time.Second))).Verify(token)
	assert.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, ttl).WithClock(fixedClock(t0.Add(ttl + time.Second))).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer(testSecret, time.Hour).Issue("a@x.com", 1)
	require.NoError(t, err)

	_, err = NewTokenIssuer("another-secret-another-secret-!!", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenIssuer_TamperedPayload(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	token, err := issuer.Issue("a@x.com", 1)
	require.NoError(t, err)

	forged, err := NewTokenIssuer("attacker-secret-attacker-secret!", time.Hour).Issue("a@x.com", 2)
	require.NoError(t, err)

	// header and claims from the forged token, signature from the real one
	parts := splitToken(t, token)
	forgedParts := splitToken(t, forged)
	_, err = issuer.Verify(forgedParts[0] + "." + forgedParts[1] + "." + parts[2])
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: ErrMissingToken},
		{name: "random string", token: "not-a-token", want: ErrMalformedToken},
		{name: "bad segments", token: "a.b.c", want: ErrMalformedToken},
		{name: "missing user id", token: signMap(t, jwt.MapClaims{
			"sub": "a@x.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		}), want: ErrMalformedToken},
		{name: "missing exp", token: signMap(t, jwt.MapClaims{
			"sub":     "a@x.com",
			"user_id": 3,
		}), want: ErrMalformedToken},
		{name: "missing subject", token: signMap(t, jwt.MapClaims{
			"user_id": 3,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}), want: ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"sub": "a@x.com", "user_id": 1, "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func signMap(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func splitToken(t *testing.T, token string) []string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	return parts
}
