// Package queue carries verified billing events over SQS so that webhook
// receipt and ledger updates can run in separate processes.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"example/seo-score-api/app/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// API is the subset of the SQS client used here.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Handler applies one billing event. A returned error leaves the message on
// the queue for redelivery.
type Handler func(ctx context.Context, ev models.BillingEvent) error

type Queue struct {
	client   API
	queueURL string
	logger   *slog.Logger
}

func New(client API, queueURL string, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{client: client, queueURL: queueURL, logger: logger.With("component", "queue")}
}

// Connect builds a Queue with the default AWS credential chain.
func Connect(ctx context.Context, queueURL string, logger *slog.Logger) (*Queue, error) {
	if queueURL == "" {
		return nil, errors.New("queue url is empty")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return New(sqs.NewFromConfig(awsCfg), queueURL, logger), nil
}

func (q *Queue) Publish(ctx context.Context, ev models.BillingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal billing event: %w", err)
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(ev.Type)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send billing event %s: %w", ev.ID, err)
	}
	return nil
}

func DecodeBillingEvent(body string) (models.BillingEvent, error) {
	var ev models.BillingEvent
	if err := json.Unmarshal([]byte(body), &ev); err != nil {
		return models.BillingEvent{}, fmt.Errorf("decode billing event: %w", err)
	}
	if ev.Type == "" {
		return models.BillingEvent{}, errors.New("decode billing event: missing type")
	}
	return ev, nil
}

// Poll long-polls the queue and hands each event to h until ctx is done.
// Messages that cannot be decoded are deleted so they do not loop forever.
func (q *Queue) Poll(ctx context.Context, h Handler) error {
	q.logger.Info("worker started", "queue_url", q.queueURL)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		recvCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		resp, err := q.client.ReceiveMessage(recvCtx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(q.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   60,
		})
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			q.logger.Warn("receive failed", "err", err)
			sleep(ctx, 5*time.Second)
			continue
		}

		for _, m := range resp.Messages {
			q.handleMessage(ctx, m, h)
		}
	}
}

func (q *Queue) handleMessage(ctx context.Context, m sqstypes.Message, h Handler) {
	if m.Body == nil {
		q.delete(ctx, m)
		return
	}
	ev, err := DecodeBillingEvent(*m.Body)
	if err != nil {
		q.logger.Warn("dropping undecodable message", "message_id", aws.ToString(m.MessageId), "err", err)
		q.delete(ctx, m)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = h(jobCtx, ev)
	cancel()
	if err != nil {
		q.logger.Error("billing event failed, will retry", "event_id", ev.ID, "event_type", string(ev.Type), "err", err)
		return
	}
	q.delete(ctx, m)
}

func (q *Queue) delete(ctx context.Context, m sqstypes.Message) {
	if m.ReceiptHandle == nil {
		return
	}
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		q.logger.Warn("delete failed", "message_id", aws.ToString(m.MessageId), "err", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
