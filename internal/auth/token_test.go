package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/red-heart/auth-service/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	tm := NewTokenManager("unit-test-secret", 60)
	tm.clock = fixedClock(issuedAt)

	token, jti, exp, err := tm.GenerateToken("a@x.com", domain.RolePatient)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.Equal(t, issuedAt.Add(60*time.Minute), exp)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email())
	assert.Equal(t, domain.RolePatient, claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestParseTokenExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	tm := NewTokenManager("unit-test-secret", 60)
	tm.clock = fixedClock(issuedAt)

	token, _, _, err := tm.GenerateToken("a@x.com", domain.RoleDoctor)
	require.NoError(t, err)

	tm.clock = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = tm.ParseToken(token)
	assert.NoError(t, err, "token must stay valid inside its lifetime")

	tm.clock = fixedClock(issuedAt.Add(61 * time.Minute))
	_, err = tm.ParseToken(token)
	assert.Error(t, err, "token must be rejected after expiry")
}

func TestParseTokenTamperedSignature(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 60)

	token, _, _, err := tm.GenerateToken("a@x.com", domain.RolePatient)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.ParseToken(tampered)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", 60)
	verifier := NewTokenManager("secret-two", 60)

	token, _, _, err := issuer.GenerateToken("a@x.com", domain.RolePatient)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenMalformed(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 60)

	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.ParseToken(input)
		assert.Error(t, err, "input %q must be invalid", input)
	}
}
