package worker

import (
	"encoding/json"
	"log"
	"time"

	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/plan"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/stream"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/shopspring/decimal"
)

// PayoutWorker disburses scheduled payouts. For each due plan it moves the
// payout amount from the locked balance back to the available balance,
// records the disbursement on the plan, and writes a completed payout
// transaction.
func (wk *Worker) PayoutWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: payoutDueGroupID,
		Topic:   PayoutDueTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	for {
		event := consumer.Poll(100) // Poll every 100ms
		switch e := event.(type) {
		case *kafka.Message:
			message := e.Value
			log.Printf("Due payout message received on %s: %s\n", e.TopicPartition, string(e.Value))

			var due DuePayout
			json.Unmarshal(message, &due)

			disbursed := wk.disbursePayout(&due)
			if disbursed != nil {
				jsonMessage, err := json.Marshal(disbursed)
				if err != nil {
					log.Printf("Error encoding disbursed payout: %v", err)
					continue
				}

				// Produce message so the success worker can notify the user
				wk.KafkaStream.ProduceMessage(PayoutSuccessTopic, string(jsonMessage))
			}
		case kafka.Error:
			log.Printf("Error: %v\n", e)
		default:
			// Handle other events if needed
		}
	}
}

func (wk *Worker) disbursePayout(due *DuePayout) *DisbursedPayout {
	// releasing with a zero fee credits the full payout amount back to the
	// available balance
	released, err := wk.DB.Wallet().ReleaseLocked(due.WalletID, due.PayoutAmount, decimal.Zero)
	if err != nil {
		log.Printf("Error releasing locked funds for plan %s: %v", due.PlanID, err)
		return nil
	}

	if !released {
		// locked balance can't cover the payout; leave the plan as is and
		// let the next sweep retry after the discrepancy is resolved
		log.Printf("Locked balance too low to disburse plan %s", due.PlanID)
		return nil
	}

	updatedPlan, err := wk.DB.Plan().RecordDisbursement(due.PlanID, plan.NextPayout(time.Now(), due.Frequency))
	if err != nil {
		log.Printf("Error recording disbursement for plan %s: %v", due.PlanID, err)
		return nil
	}

	reference := wk.Helper.GenerateReference("PAY")

	newTrans := &models.Transaction{
		UserID:          due.UserID,
		WalletID:        due.WalletID,
		PlanID:          nullString(due.PlanID),
		Type:            repository.TransactionTypePayout,
		Amount:          due.PayoutAmount,
		FeeAmount:       decimal.Zero,
		ReferenceNumber: reference,
	}

	transaction, err := wk.DB.Transaction().Insert(newTrans, nil)
	if err != nil {
		log.Printf("Error creating payout transaction for plan %s: %v", due.PlanID, err)
		return nil
	}

	_, err = wk.DB.Transaction().UpdateStatus(transaction.ID, repository.TransactionStatusCompleted)
	if err != nil {
		log.Printf("Error completing payout transaction %s: %v", transaction.ID, err)
	}

	return &DisbursedPayout{
		PlanID:           updatedPlan.ID,
		WalletID:         due.WalletID,
		UserID:           due.UserID,
		TransactionID:    transaction.ID,
		Reference:        reference,
		PlanName:         updatedPlan.Name,
		PayoutAmount:     due.PayoutAmount,
		TotalAmount:      updatedPlan.TotalAmount,
		Duration:         updatedPlan.Duration,
		CompletedPayouts: updatedPlan.CompletedPayouts,
		PlanStatus:       updatedPlan.Status,
	}
}
