package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const gatewayTimeout = 20 * time.Second

// GatewayClient performs the two authenticated calls against the external
// payment provider.
type GatewayClient interface {
	Initialize(ctx context.Context, req InitRequest) (*InitResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}

// InitRequest carries what the provider needs to open a hosted checkout.
type InitRequest struct {
	Amount      float64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	TxRef       string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

// InitResult is the provider's answer to an initialize call. ProviderStatus
// is the provider's own free-text status field; callers compare it
// case-insensitively against "success".
type InitResult struct {
	ProviderStatus string
	CheckoutURL    string
	Payload        map[string]interface{}
}

// VerifyResult is the provider's answer to a verify call. Status and RefID
// are extracted from the nested data object first, falling back to the
// top-level payload.
type VerifyResult struct {
	Status  string
	RefID   string
	Payload map[string]interface{}
}

// ChapaClient talks to the Chapa transaction API.
type ChapaClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
	logger    *zap.Logger
}

// NewChapaClient builds a gateway client. An empty secretKey is tolerated
// here; every call then fails fast with a ConfigurationError.
func NewChapaClient(baseURL, secretKey string, logger *zap.Logger) *ChapaClient {
	return &ChapaClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: gatewayTimeout},
		logger:    logger,
	}
}

// Initialize opens a hosted checkout for the given transaction reference.
func (c *ChapaClient) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	if c.secretKey == "" {
		return nil, &ConfigurationError{Message: "CHAPA_SECRET_KEY is not configured"}
	}

	body := map[string]interface{}{
		"amount":       fmt.Sprintf("%.2f", req.Amount),
		"currency":     req.Currency,
		"email":        req.Email,
		"first_name":   req.FirstName,
		"last_name":    req.LastName,
		"tx_ref":       req.TxRef,
		"callback_url": req.CallbackURL,
		"return_url":   req.ReturnURL,
		"customization": map[string]string{
			"title":       req.Title,
			"description": req.Description,
		},
	}

	payload, err := c.post(ctx, c.baseURL+"/v1/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	res := &InitResult{Payload: payload}
	if s, ok := payload["status"].(string); ok {
		res.ProviderStatus = s
	}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if u, ok := data["checkout_url"].(string); ok {
			res.CheckoutURL = u
		}
	}
	return res, nil
}

// Verify fetches the provider's view of a transaction by reference.
func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	if c.secretKey == "" {
		return nil, &ConfigurationError{Message: "CHAPA_SECRET_KEY is not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, err
	}
	payload, err := c.do(req)
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{Payload: payload}
	data, _ := payload["data"].(map[string]interface{})
	res.Status = stringField(data, payload, "status")
	if ref := stringField(data, payload, "reference"); ref != "" {
		res.RefID = ref
	} else {
		res.RefID = stringField(data, payload, "ref_id")
	}
	return res, nil
}

func (c *ChapaClient) post(ctx context.Context, url string, body map[string]interface{}) (map[string]interface{}, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do executes an authenticated request. Any transport failure or non-2xx
// answer surfaces as a GatewayUnavailableError, never as a parsed payload.
func (c *ChapaClient) do(req *http.Request) (map[string]interface{}, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, &GatewayUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("gateway returned non-2xx status",
			zap.String("url", req.URL.String()), zap.Int("status", resp.StatusCode))
		return nil, &GatewayUnavailableError{Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &GatewayUnavailableError{Err: fmt.Errorf("decode gateway response: %w", err)}
	}
	return payload, nil
}

// stringField reads a key from the nested data object first, then from the
// top-level payload.
func stringField(data, payload map[string]interface{}, key string) string {
	if data != nil {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := payload[key].(string); ok && v != "" {
		return v
	}
	return ""
}
