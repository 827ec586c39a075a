package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.paystack.co"

// Client talks to the Paystack REST API. The secret key is injected from
// config; nothing in here reads the environment.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func New(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type InitializedTransaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifiedTransaction struct {
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"-"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction creates a checkout session and returns the
// authorization URL the client app should open. Paystack expects the amount
// in kobo.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal, reference string) (*InitializedTransaction, error) {
	payload := map[string]any{
		"email":     email,
		"amount":    amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"reference": reference,
		"currency":  "NGN",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var initialized InitializedTransaction
	err = c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &initialized)
	if err != nil {
		return nil, err
	}

	return &initialized, nil
}

// VerifyTransaction confirms a charge directly with Paystack. Webhook
// payloads are advisory; this is the word we act on before crediting a
// wallet.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	var raw struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"` // kobo
	}

	err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &raw)
	if err != nil {
		return nil, err
	}

	return &VerifiedTransaction{
		Status:    raw.Status,
		Reference: raw.Reference,
		Amount:    decimal.NewFromInt(raw.Amount).Div(decimal.NewFromInt(100)),
	}, nil
}

// ValidateWebhookSignature reports whether the x-paystack-signature header
// matches the HMAC-SHA512 of the raw body under our secret key.
func (c *Client) ValidateWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader, dst any) error {
	var req *http.Request
	var err error

	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return err
	}

	if !envelope.Status {
		return fmt.Errorf("paystack: %s", envelope.Message)
	}

	return json.Unmarshal(envelope.Data, dst)
}
