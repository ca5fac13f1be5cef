// Package store persists subscriptions and reports in Postgres or SQLite.
package store

import (
	"context"

	"example/seo-score-api/app/models"
)

// HistoryLimit caps the number of reports returned by ListReports.
const HistoryLimit = 50

// Store is the persistence interface shared by the Postgres and SQLite backends.
type Store interface {
	// Subscriptions. GetSubscription returns nil, nil when the user is unknown.
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	IncrementUsage(ctx context.Context, userID string, freeLimit int) (bool, error)
	DecrementUsage(ctx context.Context, userID string) error
	SetStripeCustomerID(ctx context.Context, userID, customerID string) (bool, error)
	UpgradeToPro(ctx context.Context, sub models.Subscription) error
	DowngradeBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error)

	// Reports. GetReport returns nil, nil when no report matches both id and owner.
	InsertReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, userID string, limit int) ([]models.Report, error)
	GetReport(ctx context.Context, id, userID string) (*models.Report, error)

	Ping(ctx context.Context) error
	Close() error
}
