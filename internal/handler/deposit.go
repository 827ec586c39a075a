package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/planmoni/planmoni-api/internal/cache"
	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/paystack"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/request"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/smtp"
	"github.com/planmoni/planmoni-api/internal/validator"

	"github.com/shopspring/decimal"
)

const (
	TransactionActivityLogDepositInitiatedDescription = "Initiated a deposit"
	TransactionActivityLogDepositCompletedDescription = "Deposit completed"

	// webhookEventTTL bounds how long a processed event reference is
	// remembered for replay protection.
	webhookEventTTL = 24 * time.Hour

	chargeSuccessEvent = "charge.success"
)

var ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

type DepositHandler struct {
	DB         repository.Database
	ErrHandler *errHandler.ErrorHandler
	Helper     *helper.HelperRepository
	Mailer     smtp.MailerInterface
	Cache      cache.Store
	Paystack   *paystack.Client
}

func NewDepositHandler(handler *DepositHandler) *DepositHandler {
	return &DepositHandler{
		DB:         handler.DB,
		ErrHandler: handler.ErrHandler,
		Helper:     handler.Helper,
		Mailer:     handler.Mailer,
		Cache:      handler.Cache,
		Paystack:   handler.Paystack,
	}
}

// HandleInitiateDeposit creates a pending deposit transaction and a Paystack
// checkout session. The wallet is only credited after the charge.success
// webhook has been verified with Paystack directly.
func (h *DepositHandler) HandleInitiateDeposit(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount    string              `json:"amount"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		input.Validator.AddError("Amount must be a valid number")
	} else {
		input.Validator.Check(amount.IsPositive(), "Amount must be greater than zero")
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

	reference := h.Helper.GenerateReference("DEP")

	newTrans := &models.Transaction{
		UserID:          user.ID,
		WalletID:        wallet.ID,
		Type:            repository.TransactionTypeDeposit,
		Amount:          amount,
		FeeAmount:       decimal.Zero,
		ReferenceNumber: reference,
	}

	transaction, err := h.DB.Transaction().Insert(newTrans, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	initialized, err := h.Paystack.InitializeTransaction(r.Context(), user.Email, amount, reference)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogTransactionEntity,
			EntityID:    transaction.ID,
			Description: TransactionActivityLogDepositInitiatedDescription,
		})

		if err != nil {
			log.Printf("Error logging deposit initiation action: %v", err)
			return err
		}

		return nil
	})

	message := "Deposit initiated successfully"

	data := map[string]string{
		"authorization_url": initialized.AuthorizationURL,
		"access_code":       initialized.AccessCode,
		"reference":         initialized.Reference,
	}
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandlePaystackWebhook processes provider events. The webhook payload is
// advisory only; every charge is re-verified against the Paystack API before
// the wallet is credited. Duplicate deliveries are dropped via the cache.
func (h *DepositHandler) HandlePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if !h.Paystack.ValidateWebhookSignature(body, signature) {
		response.JSONErrorResponse(w, nil, ErrInvalidWebhookSignature.Error(), http.StatusUnauthorized, nil)
		return
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}

	if err := request.DecodeJSONFromBytes(body, &event); err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// acknowledge events we don't act on, so the provider stops retrying
	if event.Event != chargeSuccessEvent {
		response.JSONOkResponse(w, nil, "Event ignored", nil)
		return
	}

	// the guard blocks concurrent duplicate deliveries of the same event; it
	// must be released on any failure before the wallet is credited, so the
	// provider's retry can still land the deposit
	eventKey := "paystack:event:" + event.Data.Reference

	fresh, err := h.Cache.SetIfNotExists(eventKey, "processed", webhookEventTTL)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !fresh {
		response.JSONOkResponse(w, nil, "Event already processed", nil)
		return
	}

	verified, err := h.Paystack.VerifyTransaction(r.Context(), event.Data.Reference)
	if err != nil {
		h.releaseWebhookGuard(eventKey)
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if verified.Status != "success" {
		response.JSONOkResponse(w, nil, "Event ignored", nil)
		return
	}

	transaction, found, err := h.DB.Transaction().FindByReference(verified.Reference)
	if err != nil {
		h.releaseWebhookGuard(eventKey)
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found || transaction.Status == repository.TransactionStatusCompleted {
		response.JSONOkResponse(w, nil, "Event ignored", nil)
		return
	}

	// credit what Paystack confirmed, not what the webhook or the pending
	// record claims
	_, err = h.DB.Wallet().Credit(transaction.WalletID, verified.Amount)
	if err != nil {
		h.releaseWebhookGuard(eventKey)
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// past this point the guard stays in place even on failure; the wallet
	// has been credited and a replay must never credit it again
	_, err = h.DB.Transaction().UpdateStatus(transaction.ID, repository.TransactionStatusCompleted)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      transaction.UserID,
			Entity:      repository.ActivityLogTransactionEntity,
			EntityID:    transaction.ID,
			Description: TransactionActivityLogDepositCompletedDescription,
		})

		if err != nil {
			log.Printf("Error logging deposit completion action: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {
		user, found, err := h.DB.User().GetOne(transaction.UserID)
		if err != nil || !found {
			log.Printf("Error fetching user for deposit alert: %v", err)
			return err
		}

		emailData := h.Helper.NewEmailData()
		emailData["Name"] = user.FirstName
		emailData["Amount"] = verified.Amount
		emailData["Reference"] = transaction.ReferenceNumber

		err = h.Mailer.Send(user.Email, emailData, "deposit-alert.tmpl")
		if err != nil {
			log.Printf("Error sending deposit alert email: %v", err)
			return err
		}

		return nil
	})

	err = response.JSONOkResponse(w, nil, "Deposit confirmed", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *DepositHandler) releaseWebhookGuard(key string) {
	if err := h.Cache.Delete(key); err != nil {
		log.Printf("Error releasing webhook event guard %s: %v", key, err)
	}
}
