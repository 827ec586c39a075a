package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planmoni/planmoni-api/internal/errHandler"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestErrorHandler() *errHandler.ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return errHandler.New("", "http://localhost", nil, logger)
}

func postQuote(t *testing.T, h *WithdrawalHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	requestBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/withdrawals/quote", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleWithdrawalQuote(rr, req)

	return rr
}

func TestHandleWithdrawalQuote(t *testing.T) {
	withdrawalHandler := &WithdrawalHandler{
		ErrHandler: newTestErrorHandler(),
	}

	tests := []struct {
		name          string
		amount        string
		tier          string
		wantFeeAmount string
		wantNetAmount string
	}{
		{
			name:          "instant access on 500k",
			amount:        "500000",
			tier:          "instant",
			wantFeeAmount: "60000",
			wantNetAmount: "440000",
		},
		{
			name:          "24 hour access on 500k",
			amount:        "500000",
			tier:          "24_hours",
			wantFeeAmount: "30000",
			wantNetAmount: "470000",
		},
		{
			name:          "72 hour access is free",
			amount:        "500000",
			tier:          "72_hours",
			wantFeeAmount: "0",
			wantNetAmount: "500000",
		},
		{
			name:          "fee is rounded half up to kobo",
			amount:        "100.375",
			tier:          "instant",
			wantFeeAmount: "12.05",
			wantNetAmount: "88.325",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postQuote(t, withdrawalHandler, map[string]string{
				"amount": tt.amount,
				"tier":   tt.tier,
			})

			require.Equal(t, http.StatusOK, rr.Code)

			var response struct {
				Data struct {
					Principal decimal.Decimal `json:"principal"`
					FeeAmount decimal.Decimal `json:"fee_amount"`
					NetAmount decimal.Decimal `json:"net_amount"`
				} `json:"data"`
			}

			err := json.Unmarshal(rr.Body.Bytes(), &response)
			require.NoError(t, err)

			require.True(t, response.Data.Principal.Equal(decimal.RequireFromString(tt.amount)))
			require.True(t, response.Data.FeeAmount.Equal(decimal.RequireFromString(tt.wantFeeAmount)),
				"fee: got %s want %s", response.Data.FeeAmount, tt.wantFeeAmount)
			require.True(t, response.Data.NetAmount.Equal(decimal.RequireFromString(tt.wantNetAmount)),
				"net: got %s want %s", response.Data.NetAmount, tt.wantNetAmount)
		})
	}
}

func TestHandleWithdrawalQuote_RejectsBadInput(t *testing.T) {
	withdrawalHandler := &WithdrawalHandler{
		ErrHandler: newTestErrorHandler(),
	}

	tests := []struct {
		name   string
		amount string
		tier   string
	}{
		{name: "unknown tier", amount: "1000", tier: "whenever"},
		{name: "negative amount", amount: "-50", tier: "instant"},
		{name: "non numeric amount", amount: "abc", tier: "instant"},
		{name: "missing amount", amount: "", tier: "instant"},
		{name: "missing tier", amount: "1000", tier: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postQuote(t, withdrawalHandler, map[string]string{
				"amount": tt.amount,
				"tier":   tt.tier,
			})

			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		})
	}
}

func TestHandleWithdrawalQuote_ZeroPrincipalIsValid(t *testing.T) {
	withdrawalHandler := &WithdrawalHandler{
		ErrHandler: newTestErrorHandler(),
	}

	rr := postQuote(t, withdrawalHandler, map[string]string{
		"amount": "0",
		"tier":   "instant",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Data struct {
			FeeAmount decimal.Decimal `json:"fee_amount"`
			NetAmount decimal.Decimal `json:"net_amount"`
		} `json:"data"`
	}

	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.True(t, response.Data.FeeAmount.IsZero())
	require.True(t, response.Data.NetAmount.IsZero())
}
