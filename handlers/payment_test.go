package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travelapp/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentService struct {
	initiateRes *payment.InitiateResult
	initiateErr error
	verifyRes   *payment.VerifyView
	verifyErr   error
}

func (s *fakePaymentService) Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResult, error) {
	return s.initiateRes, s.initiateErr
}

func (s *fakePaymentService) Verify(ctx context.Context, txRef string) (*payment.VerifyView, error) {
	return s.verifyRes, s.verifyErr
}

func newPaymentRouter(svc payment.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/api/payments/initiate", h.InitiatePaymentHandler)
	r.GET("/api/payments/verify", h.VerifyPaymentHandler)
	r.POST("/api/payments/callback", h.CallbackHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestInitiatePaymentCreated(t *testing.T) {
	svc := &fakePaymentService{initiateRes: &payment.InitiateResult{CheckoutURL: "https://pay/x", TxRef: "booking-5-abc"}}
	r := newPaymentRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{"booking_id":"5","amount":"150.00"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://pay/x", body["checkout_url"])
	assert.Equal(t, "booking-5-abc", body["tx_ref"])
}

func TestInitiatePaymentDedupedReturns200(t *testing.T) {
	svc := &fakePaymentService{initiateRes: &payment.InitiateResult{CheckoutURL: "https://pay/x", TxRef: "booking-5-abc", Deduped: true}}
	r := newPaymentRouter(svc)

	w, _ := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{"booking_id":"5"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitiatePaymentMissingBookingID(t *testing.T) {
	r := newPaymentRouter(&fakePaymentService{})

	w, _ := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInitiatePaymentValidationError(t *testing.T) {
	svc := &fakePaymentService{initiateErr: &payment.ValidationError{Message: "amount must be positive"}}
	r := newPaymentRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{"booking_id":"5","amount":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount must be positive", body["error"])
}

func TestInitiatePaymentUnknownBooking(t *testing.T) {
	svc := &fakePaymentService{initiateErr: &payment.NotFoundError{Resource: "booking", ID: "5"}}
	r := newPaymentRouter(svc)

	w, _ := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{"booking_id":"5"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitiatePaymentGatewayErrorIncludesPayload(t *testing.T) {
	svc := &fakePaymentService{initiateErr: &payment.GatewayError{
		Message: "payment initialization failed",
		Payload: map[string]interface{}{"status": "failed"},
	}}
	r := newPaymentRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{"booking_id":"5"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	gatewayBody, ok := body["gateway"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "failed", gatewayBody["status"])
}

func TestInitiatePaymentConfigurationError(t *testing.T) {
	svc := &fakePaymentService{initiateErr: &payment.ConfigurationError{Message: "CHAPA_SECRET_KEY is not configured"}}
	r := newPaymentRouter(svc)

	w, _ := doJSON(t, r, http.MethodPost, "/api/payments/initiate", `{"booking_id":"5"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerifyPayment(t *testing.T) {
	svc := &fakePaymentService{verifyRes: &payment.VerifyView{
		PaymentID: "p1",
		TxRef:     "booking-5-abc",
		Status:    "completed",
		RefID:     "R1",
		Verify:    map[string]interface{}{"status": "success"},
	}}
	r := newPaymentRouter(svc)

	w, body := doJSON(t, r, http.MethodGet, "/api/payments/verify?tx_ref=booking-5-abc", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, "R1", body["ref_id"])
	assert.Equal(t, "p1", body["payment_id"])
}

func TestVerifyPaymentMissingTxRef(t *testing.T) {
	r := newPaymentRouter(&fakePaymentService{})

	w, _ := doJSON(t, r, http.MethodGet, "/api/payments/verify", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentUnknownTxRef(t *testing.T) {
	svc := &fakePaymentService{verifyErr: &payment.NotFoundError{Resource: "payment", ID: "tx"}}
	r := newPaymentRouter(svc)

	w, _ := doJSON(t, r, http.MethodGet, "/api/payments/verify?tx_ref=tx", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyPaymentGatewayDown(t *testing.T) {
	svc := &fakePaymentService{verifyErr: &payment.GatewayError{Message: "verify request failed"}}
	r := newPaymentRouter(svc)

	w, _ := doJSON(t, r, http.MethodGet, "/api/payments/verify?tx_ref=tx", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPaymentCallbackAccepted(t *testing.T) {
	r := newPaymentRouter(&fakePaymentService{})

	w, _ := doJSON(t, r, http.MethodPost, "/api/payments/callback", `{"tx_ref":"booking-5-abc"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestPaymentCallbackMissingTxRef(t *testing.T) {
	r := newPaymentRouter(&fakePaymentService{})

	w, _ := doJSON(t, r, http.MethodPost, "/api/payments/callback", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
