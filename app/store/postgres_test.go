package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"example/seo-score-api/app/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return &SQLStore{db: db, dialect: dialectPostgres}, mock
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: dialectPostgres}
	if got := pg.rebind("a = ? AND b = ? OR c < ?"); got != "a = $1 AND b = $2 OR c < $3" {
		t.Fatalf("postgres rebind = %q", got)
	}
	lite := &SQLStore{dialect: dialectSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("sqlite rebind = %q", got)
	}
}

func TestPostgresIncrementUsage(t *testing.T) {
	s, mock := newMockStore(t)

	query := regexp.MustCompile(`UPDATE subscriptions\s+SET analyses_used = analyses_used \+ 1\s+WHERE user_id = \$1\s+AND \(plan <> \$2 OR analyses_used < \$3\)`)
	mock.ExpectExec(query.String()).
		WithArgs("user_1", "free", models.FreeAnalysesLimit).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query.String()).
		WithArgs("user_1", "free", models.FreeAnalysesLimit).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.IncrementUsage(context.Background(), "user_1", models.FreeAnalysesLimit)
	if err != nil || !ok {
		t.Fatalf("first increment = %v, %v", ok, err)
	}
	ok, err = s.IncrementUsage(context.Background(), "user_1", models.FreeAnalysesLimit)
	if err != nil || ok {
		t.Fatalf("second increment = %v, %v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetSubscriptionNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT user_id, plan, analyses_used`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "plan", "analyses_used", "stripe_customer_id", "stripe_subscription_id", "created_at"}))

	sub, err := s.GetSubscription(context.Background(), "missing")
	if err != nil || sub != nil {
		t.Fatalf("GetSubscription = %+v, %v", sub, err)
	}
}

func TestPostgresGetSubscriptionError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT user_id, plan, analyses_used`).
		WithArgs("u").
		WillReturnError(errors.New("boom"))

	if _, err := s.GetSubscription(context.Background(), "u"); err == nil {
		t.Fatal("expected error when query fails")
	}
}

func TestPostgresUpgradeToPro(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	query := regexp.MustCompile(`INSERT INTO subscriptions .+ON CONFLICT \(user_id\) DO UPDATE SET`)
	mock.ExpectExec(query.String()).
		WithArgs("u", "pro", nil, "sub_1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpgradeToPro(context.Background(), models.Subscription{UserID: "u", StripeSubscriptionID: "sub_1", CreatedAt: now}); err != nil {
		t.Fatalf("UpgradeToPro: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresListReports(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "url", "score", "issues", "recommendations", "performance", "created_at"}).
		AddRow("6f1c", "u", "https://example.com", 81,
			[]byte(`[{"type":"warning","title":"Missing meta","description":"No description"}]`),
			[]byte(`[]`),
			[]byte(`[{"metric":"LCP","value":"2.1s","status":"good"}]`),
			now)

	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs("u", HistoryLimit).
		WillReturnRows(rows)

	reports, err := s.ListReports(context.Background(), "u", 500)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 1 || reports[0].Score != 81 || reports[0].Issues[0].Type != models.IssueWarning {
		t.Fatalf("unexpected reports: %+v", reports)
	}
	if reports[0].Performance[0].Status != models.StatusGood {
		t.Fatalf("performance = %+v", reports[0].Performance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresListReportsBadJSON(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "url", "score", "issues", "recommendations", "performance", "created_at"}).
		AddRow("id", "u", "https://example.com", 1, []byte(`{`), []byte(`[]`), []byte(`[]`), time.Now())
	mock.ExpectQuery(`FROM reports`).WillReturnRows(rows)

	if _, err := s.ListReports(context.Background(), "u", 10); err == nil {
		t.Fatal("expected decode error")
	}
}
