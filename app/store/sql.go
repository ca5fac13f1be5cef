package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"example/seo-score-api/app/models"

	"github.com/google/uuid"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStore implements Store on database/sql. Queries are written with ?
// placeholders and rebound for Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	var (
		sub            models.Subscription
		plan           string
		customerID     sql.NullString
		subscriptionID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT user_id, plan, analyses_used, stripe_customer_id, stripe_subscription_id, created_at
		FROM subscriptions
		WHERE user_id = ?;
	`), userID).Scan(&sub.UserID, &plan, &sub.AnalysesUsed, &customerID, &subscriptionID, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sub.Plan = models.Plan(plan)
	sub.StripeCustomerID = customerID.String
	sub.StripeSubscriptionID = subscriptionID.String
	return &sub, nil
}

func (s *SQLStore) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO subscriptions (user_id, plan, analyses_used, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING;
	`), sub.UserID, string(sub.Plan), sub.AnalysesUsed, sub.CreatedAt.UTC())
	return err
}

// IncrementUsage adds one analysis unless a free user is already at freeLimit.
// It reports whether a row was updated.
func (s *SQLStore) IncrementUsage(ctx context.Context, userID string, freeLimit int) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE subscriptions
		SET analyses_used = analyses_used + 1
		WHERE user_id = ?
		  AND (plan <> ? OR analyses_used < ?);
	`), userID, string(models.PlanFree), freeLimit)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) DecrementUsage(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE subscriptions
		SET analyses_used = analyses_used - 1
		WHERE user_id = ?
		  AND analyses_used > 0;
	`), userID)
	return err
}

// SetStripeCustomerID stores the customer id only if none is set yet.
func (s *SQLStore) SetStripeCustomerID(ctx context.Context, userID, customerID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE subscriptions
		SET stripe_customer_id = ?
		WHERE user_id = ?
		  AND (stripe_customer_id IS NULL OR stripe_customer_id = '');
	`), customerID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpgradeToPro creates or updates the record for sub.UserID as a pro
// subscription with a fresh usage counter. An existing customer id is kept.
func (s *SQLStore) UpgradeToPro(ctx context.Context, sub models.Subscription) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO subscriptions (user_id, plan, analyses_used, stripe_customer_id, stripe_subscription_id, created_at)
		VALUES (?, ?, 0, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = excluded.plan,
			analyses_used = 0,
			stripe_subscription_id = excluded.stripe_subscription_id,
			stripe_customer_id = COALESCE(NULLIF(subscriptions.stripe_customer_id, ''), excluded.stripe_customer_id);
	`),
		sub.UserID,
		string(models.PlanPro),
		nullIfEmpty(sub.StripeCustomerID),
		nullIfEmpty(sub.StripeSubscriptionID),
		sub.CreatedAt.UTC(),
	)
	return err
}

func (s *SQLStore) DowngradeBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE subscriptions
		SET plan = ?, stripe_subscription_id = NULL
		WHERE stripe_subscription_id = ?;
	`), string(models.PlanFree), subscriptionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) InsertReport(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	issues, err := json.Marshal(nonNil(report.Issues))
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	recommendations, err := json.Marshal(nonNil(report.Recommendations))
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	performance, err := json.Marshal(nonNil(report.Performance))
	if err != nil {
		return fmt.Errorf("encode performance: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO reports (id, user_id, url, score, issues, recommendations, performance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`),
		report.ID,
		report.UserID,
		report.URL,
		report.Score,
		string(issues),
		string(recommendations),
		string(performance),
		report.CreatedAt.UTC(),
	)
	return err
}

func (s *SQLStore) ListReports(ctx context.Context, userID string, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, user_id, url, score, issues, recommendations, performance, created_at
		FROM reports
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?;
	`), userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) GetReport(ctx context.Context, id, userID string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, user_id, url, score, issues, recommendations, performance, created_at
		FROM reports
		WHERE id = ? AND user_id = ?;
	`), id, userID)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (models.Report, error) {
	var (
		r                                    models.Report
		issues, recommendations, performance []byte
	)
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.URL,
		&r.Score,
		&issues,
		&recommendations,
		&performance,
		&r.CreatedAt,
	); err != nil {
		return models.Report{}, err
	}
	if err := json.Unmarshal(issues, &r.Issues); err != nil {
		return models.Report{}, fmt.Errorf("decode issues for report %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(recommendations, &r.Recommendations); err != nil {
		return models.Report{}, fmt.Errorf("decode recommendations for report %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(performance, &r.Performance); err != nil {
		return models.Report{}, fmt.Errorf("decode performance for report %s: %w", r.ID, err)
	}
	return r, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
