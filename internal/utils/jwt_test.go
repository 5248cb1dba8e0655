package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer  = "sync-server"
	testSignKey = "test-sign-key"
)

func TestGenerateJWTToken_RoundTrip(t *testing.T) {
	token, err := GenerateJWTToken(testIssuer, "acc-1", time.Hour, testSignKey)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := ValidateAndParseJWTToken(token, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", accountID)
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	for name, call := range map[string]func() (string, error){
		"empty issuer":   func() (string, error) { return GenerateJWTToken("", "acc-1", time.Hour, testSignKey) },
		"empty account":  func() (string, error) { return GenerateJWTToken(testIssuer, "", time.Hour, testSignKey) },
		"zero duration":  func() (string, error) { return GenerateJWTToken(testIssuer, "acc-1", 0, testSignKey) },
		"empty sign key": func() (string, error) { return GenerateJWTToken(testIssuer, "acc-1", time.Hour, "") },
	} {
		t.Run(name, func(t *testing.T) {
			_, err := call()
			require.Error(t, err)
		})
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	token, err := GenerateJWTToken(testIssuer, "acc-1", -time.Minute, testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseJWTToken(token, testSignKey, testIssuer)
	require.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestValidateAndParseJWTToken_WrongKeyOrIssuer(t *testing.T) {
	token, err := GenerateJWTToken(testIssuer, "acc-1", time.Hour, testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseJWTToken(token, "other-key", testIssuer)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateAndParseJWTToken(token, testSignKey, "other-issuer")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateAndParseJWTToken("not-a-token", testSignKey, testIssuer)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ParseBearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ParseBearerToken("Basic abc")
	require.Error(t, err)

	_, err = ParseBearerToken("Bearer ")
	require.Error(t, err)

	_, err = ParseBearerToken("no-scheme")
	require.Error(t, err)
}
