package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

func TestClient_CreateCheckoutSession(t *testing.T) {
	id := types.NewID()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, id.String(), body["session_id"])

		json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example/cs_42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	url, err := c.CreateCheckoutSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_42", url)
}

func TestClient_CreateCheckoutSession_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	_, err := c.CreateCheckoutSession(context.Background(), types.NewID())
	assert.Error(t, err)
}

func TestClient_VerifySession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/verify", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cs_42", body["checkout_ref"])

		json.NewEncoder(w).Encode(map[string]bool{"paid": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	assert.NoError(t, c.VerifySession(context.Background(), types.NewID(), "cs_42"))
}

func TestClient_VerifySession_Unpaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"paid": false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	err := c.VerifySession(context.Background(), types.NewID(), "cs_42")
	assert.ErrorContains(t, err, "not paid")
}
