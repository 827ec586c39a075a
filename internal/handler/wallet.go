package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/response"

	"github.com/shopspring/decimal"
)

var ErrWalletNotFound = errors.New("wallet not found")

type WalletResponseData struct {
	ID               string          `json:"id"`
	AccountNumber    string          `json:"account_number"`
	BankName         string          `json:"bank_name"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	LockedBalance    decimal.Decimal `json:"locked_balance"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

type WalletHandler struct {
	WalletRepo repository.WalletRepository
	ErrHandler *errHandler.ErrorHandler
}

func NewWalletHandler(handler *WalletHandler) *WalletHandler {
	return &WalletHandler{
		WalletRepo: handler.WalletRepo,
		ErrHandler: handler.ErrHandler,
	}
}

func (h *WalletHandler) HandleWalletDetails(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, ErrWalletNotFound.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	message := "Wallet details fetched successfully"

	data := &WalletResponseData{
		ID:               wallet.ID,
		AvailableBalance: wallet.AvailableBalance,
		LockedBalance:    wallet.LockedBalance,
		BankName:         BankName,
		Currency:         wallet.Currency,
		AccountNumber:    wallet.AccountNumber,
		Status:           wallet.Status,
		CreatedAt:        wallet.CreatedAt,
	}
	err = response.JSONOkResponse(w, data, message, nil)

	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WalletHandler) HandleWalletBalance(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, ErrWalletNotFound.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	message := "Balance fetched successfully"

	data := map[string]any{
		"available_balance": wallet.AvailableBalance,
		"locked_balance":    wallet.LockedBalance,
		"currency":          wallet.Currency,
	}
	err = response.JSONOkResponse(w, data, message, nil)

	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
