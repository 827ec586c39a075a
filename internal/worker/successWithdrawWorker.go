package worker

import (
	"encoding/json"
	"log"

	"github.com/planmoni/planmoni-api/internal/handler"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/stream"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const WithdrawalActivityLogSettledDescription = "Emergency withdrawal settled"

// SuccessWithdrawWorker records the activity trail and sends the withdrawal
// alert once the funds have moved.
func (wk *Worker) SuccessWithdrawWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: withdrawalSuccessGroupID,
		Topic:   WithdrawalSuccessTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	for {
		event := consumer.Poll(100) // Poll every 100ms
		switch e := event.(type) {
		case *kafka.Message:
			message := e.Value
			log.Printf("Withdrawal success message received on %s: %s\n", e.TopicPartition, string(e.Value))

			var withdrawalReq handler.InitiatedWithdrawal
			json.Unmarshal(message, &withdrawalReq)

			wk.notifyWithdrawal(&withdrawalReq)
		case kafka.Error:
			log.Printf("Error: %v\n", e)
		default:
			// Handle other events if needed
		}
	}
}

func (wk *Worker) notifyWithdrawal(withdrawalReq *handler.InitiatedWithdrawal) {
	_, err := wk.DB.Activity().Insert(&models.ActivityLog{
		UserID:      withdrawalReq.UserID,
		Entity:      repository.ActivityLogTransactionEntity,
		EntityID:    withdrawalReq.TransactionID,
		Description: WithdrawalActivityLogSettledDescription,
	})
	if err != nil {
		log.Printf("Error logging withdrawal settlement action: %v", err)
	}

	user, found, err := wk.DB.User().GetOne(withdrawalReq.UserID)
	if err != nil || !found {
		log.Printf("Error fetching user for withdrawal alert: %v", err)
		return
	}

	planName := ""
	if withdrawalPlan, found, err := wk.DB.Plan().GetOne(withdrawalReq.PlanID); err == nil && found {
		planName = withdrawalPlan.Name
	}

	emailData := wk.Helper.NewEmailData()
	emailData["Name"] = user.FirstName
	emailData["PlanName"] = planName
	emailData["Principal"] = withdrawalReq.Principal
	emailData["FeeAmount"] = withdrawalReq.FeeAmount
	emailData["NetAmount"] = withdrawalReq.NetAmount
	emailData["Reference"] = withdrawalReq.ReferenceNumber

	err = wk.Mailer.Send(user.Email, emailData, "withdrawal-alert.tmpl")
	if err != nil {
		log.Printf("Error sending withdrawal alert email: %v", err)
	}
}
