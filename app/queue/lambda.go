package queue

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler adapts h to an SQS-triggered Lambda with partial batch
// failure reporting. Undecodable records are logged and acknowledged.
func LambdaHandler(h Handler, logger *slog.Logger) func(context.Context, events.SQSEvent) (events.SQSEventResponse, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		var resp events.SQSEventResponse
		for _, record := range event.Records {
			ev, err := DecodeBillingEvent(record.Body)
			if err != nil {
				logger.Warn("dropping undecodable record", "message_id", record.MessageId, "err", err)
				continue
			}
			if err := h(ctx, ev); err != nil {
				logger.Error("billing event failed", "message_id", record.MessageId, "event_id", ev.ID, "err", err)
				resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
					ItemIdentifier: record.MessageId,
				})
			}
		}
		return resp, nil
	}
}
