package worker

import (
	"encoding/json"
	"log"

	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/plan"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/stream"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const PayoutActivityLogDisbursedDescription = "Received a scheduled payout"

// SuccessPayoutWorker handles the aftermath of a disbursement: the activity
// trail and the payout alert email. Neither touches money, so failures here
// never roll the payout back.
func (wk *Worker) SuccessPayoutWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: payoutSuccessGroupID,
		Topic:   PayoutSuccessTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	for {
		event := consumer.Poll(100) // Poll every 100ms
		switch e := event.(type) {
		case *kafka.Message:
			message := e.Value
			log.Printf("Payout success message received on %s: %s\n", e.TopicPartition, string(e.Value))

			var disbursed DisbursedPayout
			json.Unmarshal(message, &disbursed)

			wk.notifyPayout(&disbursed)
		case kafka.Error:
			log.Printf("Error: %v\n", e)
		default:
			// Handle other events if needed
		}
	}
}

func (wk *Worker) notifyPayout(disbursed *DisbursedPayout) {
	_, err := wk.DB.Activity().Insert(&models.ActivityLog{
		UserID:      disbursed.UserID,
		Entity:      repository.ActivityLogTransactionEntity,
		EntityID:    disbursed.TransactionID,
		Description: PayoutActivityLogDisbursedDescription,
	})
	if err != nil {
		log.Printf("Error logging payout action: %v", err)
	}

	user, found, err := wk.DB.User().GetOne(disbursed.UserID)
	if err != nil || !found {
		log.Printf("Error fetching user for payout alert: %v", err)
		return
	}

	progress, err := plan.Compute(disbursed.CompletedPayouts, disbursed.Duration, disbursed.PayoutAmount)
	if err != nil {
		log.Printf("Error computing plan progress for payout alert: %v", err)
		return
	}

	emailData := wk.Helper.NewEmailData()
	emailData["Name"] = user.FirstName
	emailData["PlanName"] = disbursed.PlanName
	emailData["Amount"] = disbursed.PayoutAmount
	emailData["TotalAmount"] = disbursed.TotalAmount
	emailData["ProgressPercent"] = progress.Percent
	emailData["AmountDisbursed"] = progress.AmountDisbursed
	emailData["Reference"] = disbursed.Reference

	err = wk.Mailer.Send(user.Email, emailData, "payout-alert.tmpl")
	if err != nil {
		log.Printf("Error sending payout alert email: %v", err)
	}
}
