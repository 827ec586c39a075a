package worker

import (
	"context"
	"database/sql"

	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/smtp"
	"github.com/planmoni/planmoni-api/internal/stream"

	"github.com/shopspring/decimal"
)

type Worker struct {
	KafkaStream *stream.KafkaStream
	DB          repository.Database
	Ctx         context.Context
	Helper      *helper.HelperRepository
	Mailer      smtp.MailerInterface
}

const (
	// payoutDueGroupID is used for workers that disburse scheduled payouts when they fall due
	payoutDueGroupID = "payout-due-group"

	// payoutSuccessGroupID is used for workers that take action after a payout has been disbursed
	payoutSuccessGroupID = "payout-success-group"

	// withdrawalRequestGroupID is used for workers that settle emergency withdrawal requests
	withdrawalRequestGroupID = "withdrawal-request-group"

	// withdrawalSuccessGroupID is used for workers that take action after a withdrawal has settled
	withdrawalSuccessGroupID = "withdrawal-success-group"

	// Topics
	// PayoutDueTopic carries plans whose next payout date has passed; the scheduler produces these.
	PayoutDueTopic = "payout.due"

	// PayoutSuccessTopic carries disbursed payouts so downstream workers can notify and log.
	PayoutSuccessTopic = "payout.success"

	// withdrawalRequestedTopic carries emergency withdrawal requests initiated over the API.
	withdrawalRequestedTopic = "withdrawal.requested"

	// WithdrawalSuccessTopic carries settled withdrawals so downstream workers can notify and log.
	WithdrawalSuccessTopic = "withdrawal.success"
)

// DuePayout is the unit of work the scheduler hands to the payout worker.
type DuePayout struct {
	PlanID       string          `json:"plan_id"`
	WalletID     string          `json:"wallet_id"`
	UserID       string          `json:"user_id"`
	PlanName     string          `json:"plan_name"`
	PayoutAmount decimal.Decimal `json:"payout_amount"`
	Frequency    string          `json:"frequency"`
}

// DisbursedPayout describes a payout after the wallet has been credited,
// carrying everything the notification worker needs.
type DisbursedPayout struct {
	PlanID           string          `json:"plan_id"`
	WalletID         string          `json:"wallet_id"`
	UserID           string          `json:"user_id"`
	TransactionID    string          `json:"transaction_id"`
	Reference        string          `json:"reference"`
	PlanName         string          `json:"plan_name"`
	PayoutAmount     decimal.Decimal `json:"payout_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Duration         int             `json:"duration"`
	CompletedPayouts int             `json:"completed_payouts"`
	PlanStatus       string          `json:"plan_status"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		DB:          wk.DB,
		Ctx:         wk.Ctx,
		Helper:      wk.Helper,
		Mailer:      wk.Mailer,
	}
}
