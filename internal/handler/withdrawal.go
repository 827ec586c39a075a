package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/fee"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/request"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/stream"
	"github.com/planmoni/planmoni-api/internal/validator"

	"github.com/shopspring/decimal"
)

const (
	TransactionActivityLogWithdrawalInitiatedDescription = "Initiated an emergency withdrawal"

	// WithdrawalRequestedTopic is used to ask the withdrawal worker to
	// release the plan's locked funds, net of the urgency fee.
	WithdrawalRequestedTopic = "withdrawal.requested"
)

var (
	ErrNoAccountPin        = errors.New("you need to set PIN for your account")
	ErrInvalidPin          = errors.New("invalid pin")
	ErrInactivePlan        = errors.New("only active plans can be withdrawn from")
	ErrNothingToWithdraw   = errors.New("this plan has no funds left to withdraw")
	ErrDuplicateWithdrawal = errors.New("a withdrawal is already in progress for this plan")
)

// InitiatedWithdrawal is the payload the withdrawal worker consumes. The fee
// is fixed at initiation time; the worker settles exactly what was quoted.
type InitiatedWithdrawal struct {
	TransactionID   string          `json:"transaction_id"`
	ReferenceNumber string          `json:"reference_number"`
	PlanID          string          `json:"plan_id"`
	WalletID        string          `json:"wallet_id"`
	UserID          string          `json:"user_id"`
	Principal       decimal.Decimal `json:"principal"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Tier            string          `json:"tier"`
}

type WithdrawalHandler struct {
	DB         repository.Database
	ErrHandler *errHandler.ErrorHandler
	Helper     *helper.HelperRepository
	Kafka      *stream.KafkaStream
}

func NewWithdrawalHandler(handler *WithdrawalHandler) *WithdrawalHandler {
	return &WithdrawalHandler{
		DB:         handler.DB,
		ErrHandler: handler.ErrHandler,
		Helper:     handler.Helper,
		Kafka:      handler.Kafka,
	}
}

// HandleWithdrawalQuote prices an emergency withdrawal without touching any
// balance. Clients call this to show the user the fee breakdown before they
// confirm.
func (h *WithdrawalHandler) HandleWithdrawalQuote(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount    string              `json:"amount"`
		Tier      string              `json:"tier"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")
	input.Validator.Check(validator.NotBlank(input.Tier), "Tier is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	principal, err := fee.ParseAmount(input.Amount)
	if err != nil {
		input.Validator.AddError("Amount must be a valid non-negative number")
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	quote, err := fee.NewQuote(principal, fee.Tier(input.Tier))
	if err != nil {
		switch {
		case errors.Is(err, fee.ErrInvalidTier):
			input.Validator.AddError("Tier must be one of: instant, 24_hours, 72_hours")
		default:
			input.Validator.AddError(err.Error())
		}
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	message := "Withdrawal quote computed successfully"

	err = response.JSONOkResponse(w, quote, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleEmergencyWithdrawal breaks an active payout plan early:
// Step 1: Verify account PIN
// Step 2: Validate the plan: ownership, activeness, and remaining funds
// Step 3: Quote the urgency fee on the remaining locked principal
// Step 4: Create a pending transaction and hand the settlement to a background worker
func (h *WithdrawalHandler) HandleEmergencyWithdrawal(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlanID    string              `json:"plan_id"`
		Tier      string              `json:"tier"`
		Pin       int                 `json:"pin"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// Step 1: Verify account PIN
	input.Validator.Check(input.Pin > 0, "Pin is required")
	// we are intentionally returning early because we don't want to proceed further if Pin is not given
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	if !user.Pin.Valid {
		// user has not set account pin
		input.Validator.AddError(ErrNoAccountPin.Error())
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}
	// check if pin is correct and return early if it's not
	if int(user.Pin.Int32) != input.Pin {
		input.Validator.AddError(ErrInvalidPin.Error())
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	// Step 2: Validate the plan
	input.Validator.Check(validator.NotBlank(input.PlanID), "Plan is required")
	input.Validator.Check(validator.NotBlank(input.Tier), "Tier is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	plan, found, err := h.DB.Plan().GetOne(input.PlanID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, ErrPlanNotFound.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	if plan.UserID != user.ID {
		response.JSONErrorResponse(w, nil, ErrPlanAccessDenied.Error(), http.StatusForbidden, nil)
		return
	}

	if plan.Status != repository.PlanActiveStatus {
		response.JSONErrorResponse(w, nil, ErrInactivePlan.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	// the withdrawable principal is whatever has not been disbursed yet
	disbursed := plan.PayoutAmount.Mul(decimal.NewFromInt(int64(plan.CompletedPayouts)))
	principal := plan.TotalAmount.Sub(disbursed)

	if !principal.IsPositive() {
		response.JSONErrorResponse(w, nil, ErrNothingToWithdraw.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	// Step 3: Quote the urgency fee
	quote, err := fee.NewQuote(principal, fee.Tier(input.Tier))
	if err != nil {
		if errors.Is(err, fee.ErrInvalidTier) {
			input.Validator.AddError("Tier must be one of: instant, 24_hours, 72_hours")
			h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// the active->paused transition is conditional on the current status, so
	// of any concurrent requests for the same plan exactly one gets past this
	// point; the rest are rejected as duplicates
	paused, err := h.DB.Plan().UpdateStatusFrom(plan.ID, repository.PlanActiveStatus, repository.PlanPausedStatus)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !paused {
		response.JSONErrorResponse(w, nil, ErrDuplicateWithdrawal.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	// Step 4: create a pending transaction and hand off to the worker
	reference := h.Helper.GenerateReference("EWD")

	newTrans := &models.Transaction{
		UserID:          user.ID,
		WalletID:        plan.WalletID,
		PlanID:          sql.NullString{String: plan.ID, Valid: true},
		Type:            repository.TransactionTypeEmergencyWithdrawal,
		Amount:          quote.Principal,
		FeeAmount:       quote.FeeAmount,
		ReferenceNumber: reference,
	}

	transaction, err := h.DB.Transaction().Insert(newTrans, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	initiated := &InitiatedWithdrawal{
		TransactionID:   transaction.ID,
		ReferenceNumber: transaction.ReferenceNumber,
		PlanID:          plan.ID,
		WalletID:        plan.WalletID,
		UserID:          user.ID,
		Principal:       quote.Principal,
		FeeAmount:       quote.FeeAmount,
		NetAmount:       quote.NetAmount,
		Tier:            string(quote.Tier),
	}

	jsonMessage, err := json.Marshal(initiated)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// Produce message so that the withdrawal worker can settle the funds
	go h.Kafka.ProduceMessage(WithdrawalRequestedTopic, string(jsonMessage))

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogTransactionEntity,
			EntityID:    transaction.ID,
			Description: TransactionActivityLogWithdrawalInitiatedDescription,
		})

		if err != nil {
			log.Printf("Error logging withdrawal initiation action: %v", err)
			return err
		}

		return nil
	})

	message := "Emergency withdrawal initiated successfully"

	data := map[string]any{
		"transaction_id":   transaction.ID,
		"reference_number": transaction.ReferenceNumber,
		"status":           transaction.Status,
		"principal":        quote.Principal,
		"fee_rate":         quote.FeeRate,
		"fee_amount":       quote.FeeAmount,
		"net_amount":       quote.NetAmount,
		"tier":             quote.Tier,
		"created_at":       transaction.CreatedAt.Format(time.RFC3339),
	}
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
