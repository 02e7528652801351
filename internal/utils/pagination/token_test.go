package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date/time values
	cursor := Cursor{
		TransactionDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		TransactionID:   "7c9e6679-7425-40de-944b-e07fc1f90ae7",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	// Current time values
	now := time.Now().UTC()
	nowToken := EncodeToken(Cursor{TransactionDate: now, CreatedAt: now, TransactionID: "x"})
	decodedNow, err := DecodeToken(nowToken)
	require.NoError(t, err)
	assert.True(t, now.Equal(decodedNow.TransactionDate))
	assert.True(t, now.Equal(decodedNow.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{name: "invalid base64", token: "this is not base64!", wantMsg: "base64 decode"},
		{name: "missing separator", token: b64("2023-05-15T00:00:00Z"), wantMsg: "split"},
		{name: "bad date", token: b64("notadate|2023-05-15T14:30:45Z|id"), wantMsg: "transaction date parse"},
		{name: "bad created_at", token: b64("2023-05-15T00:00:00Z|later|id"), wantMsg: "created_at parse"},
		{name: "empty id", token: b64("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"), wantMsg: "missing id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
