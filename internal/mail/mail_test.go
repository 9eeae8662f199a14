package mail

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		require.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
		seen[code] = struct{}{}
	}
	// a hundred six-digit draws should not all collide
	assert.Greater(t, len(seen), 1)
}

func testMailjet(handler http.HandlerFunc) (*Mailjet, *httptest.Server) {
	srv := httptest.NewServer(handler)
	m := NewMailjet("key", "secret", "noreply@example.com")
	m.BaseURL = srv.URL
	m.HTTPClient = srv.Client()
	return m, srv
}

func TestSendVerificationEmail(t *testing.T) {
	var captured struct {
		Messages []mailjetMessage `json:"Messages"`
	}
	m, srv := testMailjet(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3.1/send", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	require.NoError(t, m.SendVerificationEmail("alice@example.com", "123456", "alice"))

	require.Len(t, captured.Messages, 1)
	msg := captured.Messages[0]
	assert.Equal(t, "noreply@example.com", msg.From.Email)
	require.Len(t, msg.To, 1)
	assert.Equal(t, "alice@example.com", msg.To[0].Email)
	assert.Equal(t, "Email Verification", msg.Subject)
	assert.Contains(t, msg.HTMLPart, "123456")
	assert.Contains(t, msg.HTMLPart, "alice")
}

func TestSendPasswordRecoveryEmail(t *testing.T) {
	m, srv := testMailjet(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()
	assert.NoError(t, m.SendPasswordRecoveryEmail("alice@example.com", "recovery-secret"))
}

func TestSendFailureStatus(t *testing.T) {
	m, srv := testMailjet(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()
	assert.Error(t, m.SendVerificationEmail("alice@example.com", "123456", "alice"))
}
