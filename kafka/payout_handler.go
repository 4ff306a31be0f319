package kafka

import (
	"encoding/json"
	"log"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/services"
)

// PayoutPaidHandler returns a message handler that feeds payout notifications
// into the ingestion engine. Delivery is at-least-once; the engine is
// idempotent, so replays are safe to hand straight through.
func PayoutPaidHandler(ingestion *services.IngestionService) func([]byte) {
	return func(msg []byte) {
		var notification models.PayoutNotification
		if err := json.Unmarshal(msg, &notification); err != nil {
			log.Printf("invalid payout notification payload: %v", err)
			return
		}

		result, err := ingestion.IngestPayout(&notification)
		if err != nil {
			log.Printf("failed to ingest payout %s: %v", notification.PayoutID, err)
			return
		}

		log.Printf("payout %s ingested from broker: deposit=%s matched=%d unmatched=%d",
			notification.PayoutID, result.DepositID, result.Matched, len(result.Unmatched))
	}
}
