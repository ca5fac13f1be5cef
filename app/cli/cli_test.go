package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"example/seo-score-api/app/models"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_MODE", "permissive")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "seoctl.db"))
	t.Setenv("ANALYSIS_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANALYSIS_FETCH_PAGE", "")
	t.Setenv("ANALYSIS_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("seoctl %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func view(t *testing.T, out string) models.SubscriptionView {
	t.Helper()
	var v models.SubscriptionView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return v
}

func TestSubscriptionLifecycle(t *testing.T) {
	setupEnv(t)

	if got := run(t, "migrate"); !strings.Contains(got, "sqlite schema is up to date") {
		t.Fatalf("migrate output = %q", got)
	}

	v := view(t, run(t, "subscription", "get", "u1"))
	if v.Plan != models.PlanFree || v.Remaining != models.FreeAnalysesLimit {
		t.Fatalf("initial = %+v", v)
	}

	v = view(t, run(t, "subscription", "upgrade", "u1", "--subscription-id", "sub_1", "--customer-id", "cus_1"))
	if v.Plan != models.PlanPro || v.StripeSubscriptionID != "sub_1" || v.StripeCustomerID != "cus_1" {
		t.Fatalf("after upgrade = %+v", v)
	}

	run(t, "subscription", "downgrade", "sub_1")
	v = view(t, run(t, "subscription", "get", "u1"))
	if v.Plan != models.PlanFree || v.StripeSubscriptionID != "" || v.StripeCustomerID != "cus_1" {
		t.Fatalf("after downgrade = %+v", v)
	}
}

func TestUpgradeRequiresSubscriptionID(t *testing.T) {
	setupEnv(t)
	root := NewRootCmd("test")
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"subscription", "upgrade", "u1"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected missing flag error")
	}
}

func TestAnalyzeWithoutProviderPrintsSample(t *testing.T) {
	setupEnv(t)

	var a models.Analysis
	if err := json.Unmarshal([]byte(run(t, "analyze", "https://example.com", "--fetch=false")), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Score != 75 || len(a.Issues) != 3 {
		t.Fatalf("analysis = %+v", a)
	}
}

func TestVersion(t *testing.T) {
	if got := strings.TrimSpace(run(t, "version")); got != "test" {
		t.Fatalf("version = %q", got)
	}
}
