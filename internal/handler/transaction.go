package handler

import (
	"net/http"
	"time"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/response"

	"github.com/shopspring/decimal"
)

type TransactionResponseData struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	ReferenceNumber string          `json:"reference_number"`
	Status          string          `json:"status"`
	PlanID          string          `json:"plan_id,omitempty"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type TransactionHandler struct {
	TransactionRepo repository.TransactionRepository
	ErrHandler      *errHandler.ErrorHandler
}

func NewTransactionHandler(handler *TransactionHandler) *TransactionHandler {
	return &TransactionHandler{
		TransactionRepo: handler.TransactionRepo,
		ErrHandler:      handler.ErrHandler,
	}
}

func (h *TransactionHandler) HandleUserTransactions(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	queryValues := retrieveUrlQueryValues(r)

	filter := &repository.TransactionFilter{
		StartDate: queryValues.StartDate,
		EndDate:   queryValues.EndDate,
		Type:      queryValues.Type,
		Limit:     queryValues.Limit,
		Offset:    queryValues.Offset,
	}

	transactions, err := h.TransactionRepo.GetAllByUserId(user.ID, filter)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if len(transactions) == 0 {
		message := "No transaction found"
		err = response.JSONOkResponse(w, []TransactionResponseData{}, message, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	data := make([]*TransactionResponseData, len(transactions))
	for i := range transactions {
		data[i] = transactionResponse(&transactions[i])
	}

	message := "Transactions retrieved successfully"

	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *TransactionHandler) HandleTransactionDetails(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	transactionID := r.PathValue("id")

	transaction, found, err := h.TransactionRepo.GetOne(transactionID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	// check if logged in user is the owner of the transaction
	if user.ID != transaction.UserID {
		message := "Access denied"
		response.JSONErrorResponse(w, nil, message, http.StatusForbidden, nil)
		return
	}

	message := "Transaction retrieved successfully"

	err = response.JSONOkResponse(w, transactionResponse(transaction), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func transactionResponse(transaction *models.Transaction) *TransactionResponseData {
	data := &TransactionResponseData{
		ID:              transaction.ID,
		Type:            transaction.Type,
		Amount:          transaction.Amount,
		FeeAmount:       transaction.FeeAmount,
		ReferenceNumber: transaction.ReferenceNumber,
		Status:          transaction.Status,
		CreatedAt:       transaction.CreatedAt,
	}

	if transaction.PlanID.Valid {
		data.PlanID = transaction.PlanID.String
	}

	if transaction.Description.Valid {
		data.Description = transaction.Description.String
	}

	return data
}
