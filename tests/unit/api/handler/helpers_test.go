package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic14/mosaic/internal/auth"
)

const (
	testSecret     = "test-signing-secret"
	testBcryptCost = 4 // low cost for fast tests
)

func newTokens() *auth.TokenService {
	return auth.NewTokenService(testSecret, 15*time.Minute, 24*time.Hour)
}

// bearerFor issues an access token for userID, for use in an Authorization
// header.
func bearerFor(t *testing.T, tokens *auth.TokenService, userID uuid.UUID) string {
	t.Helper()

	pair, err := tokens.GenerateTokenPair(userID)
	require.NoError(t, err)

	return "Bearer " + pair.AccessToken
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
