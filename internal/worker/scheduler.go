package worker

import (
	"encoding/json"
	"log"
	"time"
)

const dueBatchSize = 50

// StartScheduler polls for plans whose next payout date has passed and feeds
// them to the payout worker. Producing to Kafka rather than disbursing inline
// keeps a slow disbursement from blocking the sweep.
func (wk *Worker) StartScheduler(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-wk.Ctx.Done():
			return
		case <-ticker.C:
			wk.sweepDuePlans()
		}
	}
}

func (wk *Worker) sweepDuePlans() {
	plans, err := wk.DB.Plan().DueForPayout(dueBatchSize)
	if err != nil {
		log.Printf("Error fetching due plans: %v", err)
		return
	}

	for i := range plans {
		due := &DuePayout{
			PlanID:       plans[i].ID,
			WalletID:     plans[i].WalletID,
			UserID:       plans[i].UserID,
			PlanName:     plans[i].Name,
			PayoutAmount: plans[i].PayoutAmount,
			Frequency:    plans[i].Frequency,
		}

		jsonMessage, err := json.Marshal(due)
		if err != nil {
			log.Printf("Error encoding due payout: %v", err)
			continue
		}

		err = wk.KafkaStream.ProduceMessage(PayoutDueTopic, string(jsonMessage))
		if err != nil {
			log.Printf("Error producing due payout message: %v", err)
		}
	}
}
