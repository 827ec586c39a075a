package dojah

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.dojah.io"

// Client wraps the Dojah identity-verification API. Credentials come from
// config, never from the ambient environment.
type Client struct {
	appID      string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func New(appID, secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		appID:     appID,
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// LookupResult is the normalized outcome of a biographic lookup. Found means
// the number resolved to a person; the caller still compares names before
// treating the identity as verified.
type LookupResult struct {
	Found       bool
	FirstName   string
	LastName    string
	PhoneNumber string
}

// LookupBVN resolves a Bank Verification Number.
func (c *Client) LookupBVN(ctx context.Context, bvn string) (*LookupResult, error) {
	return c.lookup(ctx, "/api/v1/kyc/bvn/full", url.Values{"bvn": {bvn}})
}

// LookupNIN resolves a National Identification Number.
func (c *Client) LookupNIN(ctx context.Context, nin string) (*LookupResult, error) {
	return c.lookup(ctx, "/api/v1/kyc/nin", url.Values{"nin": {nin}})
}

func (c *Client) lookup(ctx context.Context, path string, params url.Values) (*LookupResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("AppId", c.appID)
	req.Header.Set("Authorization", c.secretKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &LookupResult{Found: false}, nil
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dojah: unexpected status %d", res.StatusCode)
	}

	var envelope struct {
		Entity struct {
			FirstName   string `json:"first_name"`
			LastName    string `json:"last_name"`
			PhoneNumber string `json:"phone_number1"`
		} `json:"entity"`
	}

	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, err
	}

	return &LookupResult{
		Found:       envelope.Entity.FirstName != "" || envelope.Entity.LastName != "",
		FirstName:   envelope.Entity.FirstName,
		LastName:    envelope.Entity.LastName,
		PhoneNumber: envelope.Entity.PhoneNumber,
	}, nil
}
