// Command worker applies queued Stripe billing events to the entitlement ledger.
// Inside Lambda it consumes SQS batches; elsewhere it long-polls BILLING_QUEUE_URL.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"example/seo-score-api/app"
	"example/seo-score-api/app/config"
	"example/seo-score-api/app/queue"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWorker(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize worker: %v", err)
	}
	defer w.Close()
	logger := w.Logger()

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(queue.LambdaHandler(w.Handle, logger))
		return
	}

	if cfg.BillingQueueURL == "" {
		log.Fatal("BILLING_QUEUE_URL is required outside Lambda")
	}
	q, err := queue.Connect(ctx, cfg.BillingQueueURL, logger)
	if err != nil {
		log.Fatalf("failed to connect to billing queue: %v", err)
	}

	if err := q.Poll(ctx, w.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("billing worker stopped")
}
