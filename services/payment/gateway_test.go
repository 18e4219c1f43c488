package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChapaInitializeSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"checkout_url": "https://pay/x"},
		})
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "sk_test", zap.NewNop())
	res, err := client.Initialize(context.Background(), InitRequest{
		Amount:    150,
		Currency:  "ETB",
		Email:     "a@b.com",
		FirstName: "J",
		LastName:  "D",
		TxRef:     "booking-5-abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "success", res.ProviderStatus)
	assert.Equal(t, "https://pay/x", res.CheckoutURL)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "150.00", gotBody["amount"])
	assert.Equal(t, "booking-5-abc", gotBody["tx_ref"])
}

func TestChapaInitializeNon2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "sk_test", zap.NewNop())
	_, err := client.Initialize(context.Background(), InitRequest{TxRef: "tx"})

	var unavail *GatewayUnavailableError
	require.ErrorAs(t, err, &unavail)
}

func TestChapaConnectionErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewChapaClient(srv.URL, "sk_test", zap.NewNop())
	_, err := client.Verify(context.Background(), "tx")

	var unavail *GatewayUnavailableError
	require.ErrorAs(t, err, &unavail)
}

func TestChapaMissingSecretFailsBeforeIO(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "", zap.NewNop())

	_, err := client.Initialize(context.Background(), InitRequest{TxRef: "tx"})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = client.Verify(context.Background(), "tx")
	require.ErrorAs(t, err, &cfgErr)

	assert.Zero(t, calls)
}

func TestChapaVerifyNestedFieldsTakePrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/transaction/verify/booking-5-abc", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "pending",
			"data": map[string]interface{}{
				"status":    "success",
				"reference": "R1",
			},
		})
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "sk_test", zap.NewNop())
	res, err := client.Verify(context.Background(), "booking-5-abc")

	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "R1", res.RefID)
}

func TestChapaVerifyTopLevelFallbackAndRefIDField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "failed",
			"data":   map[string]interface{}{"ref_id": "R2"},
		})
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "sk_test", zap.NewNop())
	res, err := client.Verify(context.Background(), "tx")

	require.NoError(t, err)
	assert.Equal(t, "failed", res.Status)
	assert.Equal(t, "R2", res.RefID)
}
