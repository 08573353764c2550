package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gigs-work/backend/internal/config"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)

	client := NewClient(config.IdentityConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})

	return client, srv
}

func TestClientSendCode(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]string{"verification_id": "abc123"})
	}))
	defer srv.Close()

	dispatch, err := client.SendCode(context.Background(), "+9998887776", "handle")
	require.NoError(t, err)
	require.Equal(t, "abc123", dispatch.VerificationID)
	require.Nil(t, dispatch.AutoVerified)

	require.Equal(t, "/v1/phone:send", gotPath)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "+9998887776", gotBody["phone_number"])
	require.Equal(t, "handle", gotBody["challenge_token"])
}

func TestClientSendCodeAutoVerified(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"auto_verified": map[string]string{
				"uid":          "u1",
				"phone_number": "+70000000001",
				"id_token":     "tok",
			},
		})
	}))
	defer srv.Close()

	dispatch, err := client.SendCode(context.Background(), "+70000000001", "")
	require.NoError(t, err)
	require.NotNil(t, dispatch.AutoVerified)
	require.Equal(t, "u1", dispatch.AutoVerified.UID)
}

func TestClientProviderErrorMessage(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"TOO_MANY_ATTEMPTS_TRY_LATER"}}`))
	}))
	defer srv.Close()

	_, err := client.SendCode(context.Background(), "+123", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "TOO_MANY_ATTEMPTS_TRY_LATER")
}

func TestClientConfirmCode(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/phone:confirm", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"uid":          "u1",
			"phone_number": "+9998887776",
			"id_token":     "tok",
		})
	}))
	defer srv.Close()

	cred, err := client.ConfirmCode(context.Background(), "abc123", "123456")
	require.NoError(t, err)
	require.Equal(t, "+9998887776", cred.PhoneNumber)
	require.Equal(t, "tok", cred.IDToken)
}
