package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/plan"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/request"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/validator"

	"github.com/shopspring/decimal"
)

const (
	PlanActivityLogCreatedDescription = "Created a payout plan"
)

var (
	ErrPlanNotFound           = errors.New("payout plan not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrPlanAccessDenied       = errors.New("access denied")
	ErrBrokenDisbursementPlan = errors.New("plan disbursement schedule could not be computed")
)

var planFrequencies = []string{
	repository.PlanFrequencyDaily,
	repository.PlanFrequencyWeekly,
	repository.PlanFrequencyBiweekly,
	repository.PlanFrequencyMonthly,
}

type PlanResponseData struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	PayoutAmount     decimal.Decimal `json:"payout_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Duration         int             `json:"duration"`
	CompletedPayouts int             `json:"completed_payouts"`
	Frequency        string          `json:"frequency"`
	Status           string          `json:"status"`
	NextPayoutAt     *time.Time      `json:"next_payout_at"`
	ProgressPercent  int64           `json:"progress_percent"`
	AmountDisbursed  decimal.Decimal `json:"amount_disbursed"`
	CreatedAt        time.Time       `json:"created_at"`
}

type PlanHandler struct {
	DB         repository.Database
	ErrHandler *errHandler.ErrorHandler
	Helper     *helper.HelperRepository
}

func NewPlanHandler(handler *PlanHandler) *PlanHandler {
	return &PlanHandler{
		DB:         handler.DB,
		ErrHandler: handler.ErrHandler,
		Helper:     handler.Helper,
	}
}

// HandleCreatePlan locks the plan's total amount out of the user's available
// balance and schedules the first payout. Locked funds only come back through
// scheduled payouts or an emergency withdrawal.
func (h *PlanHandler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string              `json:"name"`
		PayoutAmount string              `json:"payout_amount"`
		Duration     int                 `json:"duration"`
		Frequency    string              `json:"frequency"`
		Validator    validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Name), "Name is required")
	input.Validator.Check(input.Duration > 0, "Duration must be at least 1 payout")
	input.Validator.Check(validator.In(input.Frequency, planFrequencies...), "Frequency must be one of: daily, weekly, biweekly, monthly")

	payoutAmount, err := decimal.NewFromString(input.PayoutAmount)
	if err != nil {
		input.Validator.AddError("Payout amount must be a valid number")
	} else {
		input.Validator.Check(payoutAmount.IsPositive(), "Payout amount must be greater than zero")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.DB.Wallet().GetByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, ErrWalletNotFound.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	totalAmount := payoutAmount.Mul(decimal.NewFromInt(int64(input.Duration)))

	// LockAmount is atomic; a false return means the available balance could
	// not cover the plan's total
	locked, err := h.DB.Wallet().LockAmount(wallet.ID, totalAmount)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !locked {
		response.JSONErrorResponse(w, nil, ErrInsufficientBalance.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	newPlan := &models.PayoutPlan{
		UserID:       user.ID,
		WalletID:     wallet.ID,
		Name:         input.Name,
		PayoutAmount: payoutAmount,
		TotalAmount:  totalAmount,
		Duration:     input.Duration,
		Frequency:    input.Frequency,
		NextPayoutAt: toNullTime(plan.NextPayout(time.Now(), input.Frequency)),
	}

	planID, err := h.DB.Plan().Insert(newPlan, nil)
	if err != nil {
		// put the money back; the lock went through but the plan didn't
		if _, releaseErr := h.DB.Wallet().ReleaseLocked(wallet.ID, totalAmount, decimal.Zero); releaseErr != nil {
			h.ErrHandler.ReportServerError(r, releaseErr)
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogPlanEntity,
			EntityID:    planID,
			Description: PlanActivityLogCreatedDescription,
		})

		if err != nil {
			log.Printf("Error logging plan creation action: %v", err)
			return err
		}

		return nil
	})

	message := "Payout plan created successfully"

	data := map[string]any{
		"id":             planID,
		"name":           input.Name,
		"payout_amount":  payoutAmount,
		"total_amount":   totalAmount,
		"duration":       input.Duration,
		"frequency":      input.Frequency,
		"next_payout_at": newPlan.NextPayoutAt.Time,
	}
	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *PlanHandler) HandleUserPlans(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	plans, found, err := h.DB.Plan().GetAllByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		message := "No payout plan found"
		err = response.JSONOkResponse(w, []PlanResponseData{}, message, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	data := make([]*PlanResponseData, len(plans))
	for i := range plans {
		item, err := h.planResponse(&plans[i])
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		data[i] = item
	}

	message := "Payout plans retrieved successfully"

	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *PlanHandler) HandlePlanDetails(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	planID := r.PathValue("id")

	result, found, err := h.DB.Plan().GetOne(planID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, ErrPlanNotFound.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	// check if logged in user is the owner of the plan
	if user.ID != result.UserID {
		response.JSONErrorResponse(w, nil, ErrPlanAccessDenied.Error(), http.StatusForbidden, nil)
		return
	}

	data, err := h.planResponse(result)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Payout plan retrieved successfully"

	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *PlanHandler) planResponse(record *models.PayoutPlan) (*PlanResponseData, error) {
	progress, err := plan.Compute(record.CompletedPayouts, record.Duration, record.PayoutAmount)
	if err != nil {
		// duration is CHECK-constrained positive in the database, so this
		// only fires on corrupted data
		return nil, ErrBrokenDisbursementPlan
	}

	data := &PlanResponseData{
		ID:               record.ID,
		Name:             record.Name,
		PayoutAmount:     record.PayoutAmount,
		TotalAmount:      record.TotalAmount,
		Duration:         record.Duration,
		CompletedPayouts: record.CompletedPayouts,
		Frequency:        record.Frequency,
		Status:           record.Status,
		ProgressPercent:  progress.Percent,
		AmountDisbursed:  progress.AmountDisbursed,
		CreatedAt:        record.CreatedAt,
	}

	if record.NextPayoutAt.Valid {
		data.NextPayoutAt = &record.NextPayoutAt.Time
	}

	return data, nil
}
