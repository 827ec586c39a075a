package worker

import (
	"encoding/json"
	"log"

	"github.com/planmoni/planmoni-api/internal/handler"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/stream"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// WithdrawWorker settles emergency withdrawals. It releases the plan's
// remaining locked principal, credits the wallet net of the urgency fee, and
// cancels the plan. The fee was fixed when the request was initiated; this
// worker settles exactly what was quoted.
func (wk *Worker) WithdrawWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: withdrawalRequestGroupID,
		Topic:   withdrawalRequestedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	for {
		event := consumer.Poll(100) // Poll every 100ms
		switch e := event.(type) {
		case *kafka.Message:
			message := e.Value
			log.Printf("Withdrawal message received on %s: %s\n", e.TopicPartition, string(e.Value))

			var withdrawalReq handler.InitiatedWithdrawal
			json.Unmarshal(message, &withdrawalReq)

			success := wk.settleWithdrawal(&withdrawalReq)
			if success {
				log.Printf("Withdrawal settled successfully: %v", withdrawalReq.ReferenceNumber)
				// Produce message so the success worker can notify the user
				wk.KafkaStream.ProduceMessage(WithdrawalSuccessTopic, string(e.Value))
			}
		case kafka.Error:
			log.Printf("Error: %v\n", e)
		default:
			// Handle other events if needed
		}
	}
}

func (wk *Worker) settleWithdrawal(withdrawalReq *handler.InitiatedWithdrawal) bool {
	released, err := wk.DB.Wallet().ReleaseLocked(withdrawalReq.WalletID, withdrawalReq.Principal, withdrawalReq.FeeAmount)
	if err != nil {
		log.Printf("Error releasing locked funds for withdrawal %s: %v", withdrawalReq.TransactionID, err)
		return false
	}

	if !released {
		// the locked balance can't cover the quoted principal; fail the
		// transaction and reactivate the plan so scheduled payouts resume
		log.Printf("Locked balance too low to settle withdrawal %s", withdrawalReq.TransactionID)

		if _, err := wk.DB.Transaction().UpdateStatus(withdrawalReq.TransactionID, repository.TransactionStatusFailed); err != nil {
			log.Printf("Error failing withdrawal transaction %s: %v", withdrawalReq.TransactionID, err)
		}

		// only a still-paused plan goes back to active; a plan another
		// settlement has already cancelled must stay cancelled
		if _, err := wk.DB.Plan().UpdateStatusFrom(withdrawalReq.PlanID, repository.PlanPausedStatus, repository.PlanActiveStatus); err != nil {
			log.Printf("Error reactivating plan %s: %v", withdrawalReq.PlanID, err)
		}

		return false
	}

	_, err = wk.DB.Transaction().UpdateStatus(withdrawalReq.TransactionID, repository.TransactionStatusCompleted)
	if err != nil {
		log.Printf("Error completing withdrawal transaction %s: %v", withdrawalReq.TransactionID, err)
		return false
	}

	// the plan's funds are gone; it cannot continue
	_, err = wk.DB.Plan().UpdateStatus(withdrawalReq.PlanID, repository.PlanCancelledStatus)
	if err != nil {
		log.Printf("Error cancelling plan %s: %v", withdrawalReq.PlanID, err)
	}

	return true
}
